package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/expr/snapshot"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <snapshot>",
		Short: "Validate a snapshot and report basic metadata",
		Long: `The info command opens an expression snapshot, validates its header,
checksum and cells, and displays metadata including wire version, cell count,
root kind, span counts per kind and nesting depth.

Example:
  exprctl info poly.sxpr
  exprctl info poly.sxpr --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// exprStats summarizes the spans of one expression.
type exprStats struct {
	Spans    int            `json:"spans"`
	MaxDepth int            `json:"max_depth"`
	Kinds    map[string]int `json:"kinds"`
	Limbs    int            `json:"limbs"`
}

func collectStats(v expr.View) exprStats {
	st := exprStats{Kinds: make(map[string]int)}
	var walk func(expr.View, int)
	walk = func(v expr.View, depth int) {
		st.Spans++
		st.Kinds[v.Kind().String()]++
		st.MaxDepth = max(st.MaxDepth, depth)
		if v.Kind() == expr.KindLargeInt {
			st.Limbs += v.NumLimbs()
		}
		for c := range v.Operands().Values() {
			walk(c, depth+1)
		}
	}
	walk(v, 0)
	return st
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Opening snapshot: %s\n", path)

	s, err := snapshot.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer s.Close()

	h := s.Header()
	root := s.Root()
	st := collectStats(root)

	if jsonOut {
		return printJSON(map[string]any{
			"file":       path,
			"version":    h.Version,
			"cell_size":  h.CellSize,
			"limb_bits":  h.LimbBits,
			"name_width": h.NameWidth,
			"cells":      h.Cells,
			"checksum":   fmt.Sprintf("%08x", h.Checksum),
			"root":       root.Kind().String(),
			"flags":      root.Flags().String(),
			"stats":      st,
		})
	}

	printInfo("\nSnapshot Information:\n")
	printInfo("  File: %s\n", path)
	if stat, err := os.Stat(path); err == nil {
		printInfo("  Size: %d bytes\n", stat.Size())
	}
	printInfo("  Wire version: %d (cell %d bytes, limb %d bits, names %d bytes)\n",
		h.Version, h.CellSize, h.LimbBits, h.NameWidth)
	printInfo("  Cells: %d\n", h.Cells)
	printInfo("  Checksum: %08x\n", h.Checksum)
	printInfo("  Root: %s [%s]\n", root, root.Flags())
	printInfo("  Spans: %d, max depth: %d, limbs: %d\n", st.Spans, st.MaxDepth, st.Limbs)
	for _, k := range sortedKinds(st.Kinds) {
		printInfo("    %-14s %d\n", k, st.Kinds[k])
	}

	printInfo("\nValidation:\n")
	printInfo("  ✓ Header and checksum valid\n")
	printInfo("  ✓ Structure valid\n")

	return nil
}

func sortedKinds(m map[string]int) []string {
	var out []string
	for k := expr.KindSymbol; k <= expr.KindFunction; k++ {
		if _, ok := m[k.String()]; ok {
			out = append(out, k.String())
		}
	}
	return out
}
