package expr

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/joshuapare/symkit/internal/format"
)

// View is a non-owning window on one complete span. The zero View refers to
// nothing and panics on use; check IsValid where that is possible.
type View struct {
	b     []byte // exactly one span
	lease *Lease
}

func (v View) head() []byte {
	v.lease.check()
	return v.b[:format.CellSize:format.CellSize]
}

// IsValid reports whether v refers to a span.
func (v View) IsValid() bool {
	return len(v.b) != 0
}

// Kind returns the kind of the span in O(1).
func (v View) Kind() Kind {
	return format.KindAt(v.head())
}

// Flags returns the cached flag bits of the span in O(1). See CheckedFlags.
func (v View) Flags() Flag {
	return format.FlagsOf(v.head())
}

// Span returns the physical size of the span in cells.
func (v View) Span() int {
	v.lease.check()
	return len(v.b) / format.CellSize
}

// Bytes returns the span's cell bytes without copying. The result must not be
// modified.
func (v View) Bytes() []byte {
	v.lease.check()
	return v.b
}

// Cells returns a copy of the span's cell bytes.
func (v View) Cells() []byte {
	v.lease.check()
	return slices.Clone(v.b)
}

// Equal reports whether v and o are byte-identical spans.
func (v View) Equal(o View) bool {
	v.lease.check()
	o.lease.check()
	return bytes.Equal(v.b, o.b)
}

// Copy duplicates the span into a new heap-owned Expr.
func (v View) Copy() Expr {
	return Expr{b: v.Cells()}
}

// NumOperands returns the logical child count: zero for terminals other than
// large rationals, which have their numerator and denominator as children.
func (v View) NumOperands() int {
	h := v.head()
	if !format.KindAt(h).IsComposite() {
		return 0
	}
	return int(format.ReadCount(h))
}

// Operands returns the run of logical children. It is empty for terminals.
func (v View) Operands() Operands {
	h := v.head()
	k := format.KindAt(h)
	if !k.IsComposite() {
		return Operands{lease: v.lease}
	}
	first := k.HeaderCells() * format.CellSize
	return Operands{b: v.b[first:], n: int(format.ReadCount(h)), lease: v.lease}
}

// AsOperands returns a one-element run holding v itself.
func (v View) AsOperands() Operands {
	v.lease.check()
	return Operands{b: v.b, n: 1, lease: v.lease}
}

// Child returns operand i in O(i). It panics when i is out of range.
func (v View) Child(i int) View {
	return v.Operands().At(i)
}

// Descend follows path, one operand index per level, and returns the span it
// names. An empty path returns v.
func (v View) Descend(path ...int) (View, error) {
	cur := v
	for depth, i := range path {
		if i < 0 || i >= cur.NumOperands() {
			return View{}, fmt.Errorf("path %v: index %d at depth %d of %s: %w",
				path, i, depth, cur, ErrNoOperand)
		}
		cur = cur.Child(i)
	}
	return cur, nil
}

// String returns a short description such as "sum(3)[7 cells]".
func (v View) String() string {
	if !v.IsValid() {
		return "<invalid>"
	}
	k := v.Kind()
	if k.IsComposite() {
		return fmt.Sprintf("%s(%d)[%d cells]", k, v.NumOperands(), v.Span())
	}
	return fmt.Sprintf("%s[%d cells]", k, v.Span())
}
