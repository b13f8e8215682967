package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/expr/codec"
	"github.com/joshuapare/symkit/expr/snapshot"
)

var (
	encodeInput string
	encodeSync  bool
)

func init() {
	cmd := newEncodeCmd()
	cmd.Flags().StringVar(&encodeInput, "input", "", "Input encoding (json, cbor); default from file extension")
	cmd.Flags().BoolVar(&encodeSync, "full-sync", false, "Request a full device flush where supported")
	rootCmd.AddCommand(cmd)
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <node.json|node.cbor> <snapshot>",
		Short: "Build a snapshot from an interchange node tree",
		Long: `The encode command reads an interchange node tree (JSON or CBOR),
builds the expression bottom-up and writes it as a snapshot file. The output
is written to a temporary file, synced and renamed into place.

Example:
  exprctl encode poly.json poly.sxpr
  exprctl encode tree.bin poly.sxpr --input cbor`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(args)
		},
	}
	return cmd
}

func runEncode(args []string) error {
	in, out := args[0], args[1]

	input := encodeInput
	if input == "" {
		input = strings.TrimPrefix(strings.ToLower(filepath.Ext(in)), ".")
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	b := expr.NewBuilder(expr.DefaultChunkCells)
	var e expr.Expr
	switch input {
	case "json":
		e, err = codec.UnmarshalJSON(data, b)
	case "cbor":
		e, err = codec.UnmarshalCBOR(data, b)
	default:
		return fmt.Errorf("unknown input encoding %q (must be json or cbor)", input)
	}
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	printVerbose("Built %s\n", e.View())

	opts := snapshot.DefaultSaveOptions()
	opts.FullSync = encodeSync
	if err := snapshot.Save(out, e.View(), opts); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"input":  in,
			"output": out,
			"cells":  e.Len(),
			"root":   e.View().Kind().String(),
		})
	}
	printInfo("Wrote %s (%d cells, root %s)\n", out, e.Len(), e.View().Kind())
	return nil
}
