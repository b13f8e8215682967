package verify

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/internal/format"
)

// ValidationError describes one violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Cell    int // cell index relative to the root, or -1
	Details map[string]any
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Cell >= 0 {
		return fmt.Sprintf("%s at cell %d: %s", e.Type, e.Cell, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Check is one named invariant over a structurally valid span.
type Check struct {
	Name string
	Run  func(expr.View) error
}

// Checks lists the View-level invariants in the order AllInvariants runs them.
var Checks = []Check{
	{Name: "SpanConsistency", Run: SpanConsistency},
	{Name: "FlagConsistency", Run: FlagConsistency},
	{Name: "Normalization", Run: Normalization},
}

// AllInvariants validates data in one call. Returns the first error
// encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Structure(data); err != nil {
		return err
	}
	v, err := expr.ViewOf(data, nil)
	if err != nil {
		return err
	}
	for _, c := range Checks {
		if err := c.Run(v); err != nil {
			return err
		}
	}
	return nil
}

// Structure validates the cell layout of an untrusted buffer.
func Structure(data []byte) error {
	err := format.CheckRun(data)
	if err == nil {
		return nil
	}
	ve := &ValidationError{Type: "Structure", Message: err.Error(), Cell: -1, Err: err}
	var ce *format.CorruptionError
	if errors.As(err, &ce) {
		ve.Cell = ce.Cell
		ve.Message = ce.Reason
		ve.Details = map[string]any{"kind": ce.Kind.String()}
		if ce.Err != nil {
			ve.Details["cause"] = ce.Err.Error()
		}
	}
	return ve
}

// visit calls fn for v and every span below it in storage order, passing each
// span's cell index relative to v. It stops at the first error.
func visit(v expr.View, cell int, fn func(expr.View, int) error) error {
	if err := fn(v, cell); err != nil {
		return err
	}
	next := cell + v.Kind().HeaderCells()
	for c := range v.Operands().Values() {
		if err := visit(c, next, fn); err != nil {
			return err
		}
		next += c.Span()
	}
	return nil
}

// SpanConsistency checks that the header region plus the operand spans of
// every composite add up to its recorded span.
func SpanConsistency(v expr.View) error {
	return visit(v, 0, func(s expr.View, cell int) error {
		k := s.Kind()
		if !k.IsComposite() {
			return nil
		}
		got := k.HeaderCells()
		n := 0
		for c := range s.Operands().Values() {
			got += c.Span()
			n++
		}
		if got != s.Span() || n != s.NumOperands() {
			return &ValidationError{
				Type:    "SpanConsistency",
				Message: fmt.Sprintf("%s operands cover %d cells, header records %d", k, got, s.Span()),
				Cell:    cell,
				Details: map[string]any{"operands": n, "recorded_operands": s.NumOperands()},
			}
		}
		return nil
	})
}

// FlagConsistency checks the cached flags of every span against the flags
// derived from content. The reported cell is the first stale span in
// post-order, so the deepest cause comes first.
func FlagConsistency(v expr.View) error {
	var first *ValidationError
	stale := 0
	expr.StaleFlags(v, func(cell int, s expr.View, cached, derived expr.Flag) {
		stale++
		if first == nil {
			first = &ValidationError{
				Type:    "FlagConsistency",
				Message: fmt.Sprintf("%s caches %s, content gives %s", s.Kind(), cached, derived),
				Cell:    cell,
				Details: map[string]any{"cached": cached.String(), "derived": derived.String()},
				Err:     expr.ErrFlagMismatch,
			}
		}
	})
	if first == nil {
		return nil
	}
	first.Details["stale_spans"] = stale
	return first
}

// Normalization checks canonical-form rules that the structural pass leaves
// out: NFC names and symbol domains that imply realness.
func Normalization(v expr.View) error {
	return visit(v, 0, func(s expr.View, cell int) error {
		fail := func(msg string, args ...any) error {
			return &ValidationError{Type: "Normalization", Message: fmt.Sprintf(msg, args...), Cell: cell}
		}
		switch k := s.Kind(); k {
		case expr.KindSymbol:
			if f := s.Flags(); f.Has(expr.FlagPositive) && !f.Has(expr.FlagReal) {
				return fail("symbol %q is positive but not real", s.Name())
			}
			fallthrough
		case expr.KindConstant, expr.KindUnaryFunction, expr.KindFunction:
			if name := s.Name(); !norm.NFC.IsNormalString(name) {
				return fail("%s name %q is not NFC normalized", k, name)
			}
		}
		return nil
	})
}
