package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/expr/snapshot"
	"github.com/joshuapare/symkit/expr/verify"
)

var verifyRaw bool

func init() {
	cmd := newVerifyCmd()
	cmd.Flags().BoolVar(&verifyRaw, "raw", false, "Treat the file as bare cells without a snapshot header")
	rootCmd.AddCommand(cmd)
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <snapshot>",
		Short: "Check snapshot structure and expression invariants",
		Long: `The verify command checks an expression snapshot for structural
integrity and then runs every invariant check over the decoded cells:

  Structure       - kinds, spans, names, limbs, rationals in lowest terms
  SpanConsistency - every composite's children end exactly at its recorded end
  FlagConsistency - cached flags match the flags derived from each span
  Normalization   - symbol domains and NFC names

Example:
  exprctl verify poly.sxpr
  exprctl verify cells.bin --raw
  exprctl verify poly.sxpr --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

type checkResult struct {
	Name    string         `json:"name"`
	Passed  bool           `json:"passed"`
	Error   string         `json:"error,omitempty"`
	Cell    *int           `json:"cell,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func resultOf(name string, err error) checkResult {
	r := checkResult{Name: name, Passed: err == nil}
	if err == nil {
		return r
	}
	r.Error = err.Error()
	var ve *verify.ValidationError
	if errors.As(err, &ve) {
		if ve.Cell >= 0 {
			r.Cell = &ve.Cell
		}
		r.Details = ve.Details
	}
	return r
}

func runVerify(args []string) error {
	path := args[0]

	printVerbose("Verifying: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var results []checkResult
	cells := data
	if !verifyRaw {
		_, cells, err = snapshot.Split(data)
		results = append(results, resultOf("Header", err))
	}
	if err == nil {
		err = verify.Structure(cells)
		results = append(results, resultOf("Structure", err))
	}
	if err == nil {
		v, verr := expr.ViewOf(cells, nil)
		if verr != nil {
			return verr
		}
		for _, c := range verify.Checks {
			cerr := c.Run(v)
			results = append(results, resultOf(c.Name, cerr))
			if err == nil {
				err = cerr
			}
		}
	}

	if jsonOut {
		if perr := printJSON(map[string]any{
			"file":   path,
			"valid":  err == nil,
			"checks": results,
		}); perr != nil {
			return perr
		}
		return err
	}

	printInfo("\nVerifying %s...\n\n", path)
	for _, r := range results {
		if r.Passed {
			printInfo("  ✓ %s\n", r.Name)
			continue
		}
		printInfo("  ✗ %s: %s\n", r.Name, r.Error)
	}

	if err != nil {
		printInfo("\nResult: ✗ INVALID\n")
		return err
	}
	printInfo("\nResult: ✓ VALID\n")
	return nil
}
