package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoCommand(t *testing.T) {
	path := writeSnapshot(t, sumXTwoY(t))

	tests := []struct {
		name        string
		args        []string
		json        bool
		wantErr     bool
		wantContain []string
	}{
		{
			name: "text",
			args: []string{path},
			wantContain: []string{
				"Snapshot Information:",
				"Wire version: 1 (cell 16 bytes, limb 128 bits, names 14 bytes)",
				"Cells: 5",
				"Root: sum(2)[5 cells]",
				"Spans: 5, max depth: 2",
				"symbol",
				"✓ Structure valid",
			},
		},
		{
			name:        "json",
			args:        []string{path},
			json:        true,
			wantContain: []string{`"cells": 5`, `"root": "sum"`, `"max_depth": 2`},
		},
		{
			name:    "missing file",
			args:    []string{filepath.Join(t.TempDir(), "nope.sxpr")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json

			output, err := captureOutput(t, func() error {
				return runInfo(tt.args)
			})

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestCollectStats(t *testing.T) {
	st := collectStats(sumXTwoY(t).View())
	require.Equal(t, 5, st.Spans)
	require.Equal(t, 2, st.MaxDepth)
	require.Equal(t, map[string]int{"sum": 1, "product": 1, "symbol": 2, "smallInt": 1}, st.Kinds)
	require.Equal(t, []string{"symbol", "smallInt", "sum", "product"}, sortedKinds(st.Kinds))
}
