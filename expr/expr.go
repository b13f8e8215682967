package expr

import (
	"bytes"
	"slices"

	"github.com/joshuapare/symkit/internal/format"
	"github.com/joshuapare/symkit/internal/logger"
)

// Expr owns a buffer holding exactly one root expression. Its cells never
// change after construction; the zero Expr holds nothing.
type Expr struct {
	b []byte
}

// View returns a window on the root span. The view stays valid for as long as
// it is reachable.
func (e Expr) View() View {
	return View{b: e.b}
}

// IsZero reports whether e holds no expression.
func (e Expr) IsZero() bool {
	return len(e.b) == 0
}

// Len returns the number of cells in e.
func (e Expr) Len() int {
	return len(e.b) / format.CellSize
}

// Bytes returns the cell bytes of e without copying. The result must not be
// modified.
func (e Expr) Bytes() []byte {
	return e.b
}

// Cells returns a copy of the cell bytes of e.
func (e Expr) Cells() []byte {
	return slices.Clone(e.b)
}

// Equal reports whether e and o hold byte-identical expressions.
func (e Expr) Equal(o Expr) bool {
	return bytes.Equal(e.b, o.b)
}

func (e Expr) String() string {
	if e.IsZero() {
		return "<empty>"
	}
	return e.View().String()
}

// FromCells validates an untrusted run of cells and adopts a copy of it. A
// buffer that fails validation is rejected as a whole with an error matching
// ErrCorrupt.
//
// Flag caches that disagree with content are rewritten and logged; builds with
// the symkitdebug tag reject them instead.
func FromCells(b []byte) (Expr, error) {
	if err := format.CheckRun(b); err != nil {
		return Expr{}, err
	}
	own := slices.Clone(b)
	fixed, first := refreshFlags(own, 0)
	if fixed > 0 {
		if strictFlags {
			return Expr{}, &CorruptionError{
				Cell:   first,
				Kind:   format.KindAt(format.At(own, first)),
				Reason: "stale flag cache",
				Err:    ErrFlagMismatch,
			}
		}
		logger.Warn("expr: recomputed stale flag caches", "spans", fixed, "first_cell", first)
	}
	return Expr{b: own}, nil
}

// ViewOf validates b and returns a view on it without copying. The caller keeps
// ownership of b and must keep it unchanged while the view is in use; lease,
// which may be nil for heap memory, ties the view to the owner's lifetime.
func ViewOf(b []byte, lease *Lease) (View, error) {
	lease.check()
	if err := format.CheckRun(b); err != nil {
		return View{}, err
	}
	return View{b: b[:len(b):len(b)], lease: lease}, nil
}
