package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/symkit/expr/printer"
	"github.com/joshuapare/symkit/expr/snapshot"
)

var (
	dumpFormat string
	dumpPath   string
	dumpDepth  int
	dumpLimbs  bool
	dumpFlags  bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "Output format (text, tree, json, cbor)")
	cmd.Flags().StringVarP(&dumpPath, "path", "p", "", "Operand path to start from, e.g. 1/0")
	cmd.Flags().IntVar(&dumpDepth, "depth", 0, "Maximum depth to print (0 = unlimited)")
	cmd.Flags().BoolVar(&dumpLimbs, "limbs", false, "List limb cells of large integers (tree format)")
	cmd.Flags().BoolVar(&dumpFlags, "flags", true, "Show cached flags (tree format)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <snapshot>",
		Short: "Print the expression held by a snapshot",
		Long: `The dump command prints the expression stored in a snapshot, or one of
its subexpressions selected by operand path.

Formats:
  text - infix notation
  tree - one line per span with cell offsets, kinds, flags and spans
  json - interchange node tree as JSON
  cbor - interchange node tree as deterministic CBOR (binary)

Example:
  exprctl dump poly.sxpr
  exprctl dump poly.sxpr --format tree --limbs
  exprctl dump poly.sxpr --path 1/0 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	format, err := printer.ParseFormat(dumpFormat)
	if err != nil {
		return err
	}
	path, err := parsePath(dumpPath)
	if err != nil {
		return err
	}

	printVerbose("Opening snapshot: %s\n", args[0])

	s, err := snapshot.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer s.Close()

	v, err := s.Root().Descend(path...)
	if err != nil {
		return fmt.Errorf("path %q: %w", dumpPath, err)
	}

	opts := printer.DefaultOptions()
	opts.Format = format
	opts.MaxDepth = dumpDepth
	opts.ShowLimbs = dumpLimbs
	opts.ShowFlags = dumpFlags
	opts.NoColor = noColor
	return printer.New(os.Stdout, opts).Print(v)
}
