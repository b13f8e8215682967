package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/expr/snapshot"
)

// resetFlags restores global flag state between command runs.
func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, true
	verifyRaw = false
	dumpFormat, dumpPath, dumpDepth, dumpLimbs, dumpFlags = "text", "", 0, false, true
	encodeInput, encodeSync = "", false
}

// sumXTwoY builds x + 2*y.
func sumXTwoY(t *testing.T) expr.Expr {
	t.Helper()
	var b expr.Builder
	x, err := b.Symbol("x", expr.DomainComplex)
	require.NoError(t, err)
	y, err := b.Symbol("y", expr.DomainReal)
	require.NoError(t, err)
	prod, err := b.Product(b.SmallInt(2).View(), y.View())
	require.NoError(t, err)
	sum, err := b.Sum(x.View(), prod.View())
	require.NoError(t, err)
	return sum
}

// writeSnapshot saves e into a fresh temp directory and returns the path.
func writeSnapshot(t *testing.T, e expr.Expr) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expr.sxpr")
	require.NoError(t, snapshot.Save(path, e.View(), snapshot.DefaultSaveOptions()))
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot block on a full pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return string(out), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
