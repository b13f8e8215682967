package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/symkit/expr/codec"
	"github.com/joshuapare/symkit/expr/snapshot"
)

const sinPlusOne = `{
  "kind": "sum",
  "children": [
    {"kind": "unaryFunction", "name": "sin", "children": [{"kind": "symbol", "name": "t", "domain": "real"}]},
    {"kind": "smallInt", "num": 1}
  ]
}`

func TestEncodeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	out := filepath.Join(dir, "tree.sxpr")
	require.NoError(t, os.WriteFile(in, []byte(sinPlusOne), 0o644))

	resetFlags()
	output, err := captureOutput(t, func() error {
		return runEncode([]string{in, out})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Wrote", "root sum"})

	require.Equal(t, "sin(t) + 1", textOf(t, out))
}

func TestEncodeCommand_CBORRoundTrip(t *testing.T) {
	e := sumXTwoY(t)
	data, err := codec.MarshalCBOR(e.View())
	require.NoError(t, err)

	dir := t.TempDir()
	in := filepath.Join(dir, "tree.bin")
	out := filepath.Join(dir, "tree.sxpr")
	require.NoError(t, os.WriteFile(in, data, 0o644))

	resetFlags()
	encodeInput = "cbor"
	jsonOut = true
	output, err := captureOutput(t, func() error {
		return runEncode([]string{in, out})
	})
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"cells": 5`})

	s, err := snapshot.Open(out)
	require.NoError(t, err)
	defer s.Close()
	require.True(t, s.Root().Equal(e.View()), "snapshot must hold the same cells")
}

func TestEncodeCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.sxpr")

	unknown := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("kind: sum"), 0o644))

	badNode := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badNode, []byte(`{"kind": "power", "children": [{"kind": "smallInt", "num": 2}]}`), 0o644))

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"unknown extension", unknown, nil},
		{"missing input", filepath.Join(dir, "nope.json"), os.ErrNotExist},
		{"invalid node", badNode, codec.ErrNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			_, err := captureOutput(t, func() error {
				return runEncode([]string{tt.in, out})
			})
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			_, statErr := os.Stat(out)
			require.ErrorIs(t, statErr, os.ErrNotExist, "no snapshot may be written on failure")
		})
	}
}

// textOf dumps the snapshot at path as infix text.
func textOf(t *testing.T, path string) string {
	t.Helper()
	resetFlags()
	output, err := captureOutput(t, func() error {
		return runDump([]string{path})
	})
	require.NoError(t, err)
	return output[:len(output)-1]
}
