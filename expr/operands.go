package expr

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/joshuapare/symkit/internal/format"
)

// Operands is a window on a run of sibling spans: the cells from the first
// operand up to the sentinel just past the last one, and the number of spans
// in between. The run is re-walked on every traversal.
type Operands struct {
	b     []byte
	n     int
	lease *Lease
}

// Len returns the number of operands.
func (o Operands) Len() int {
	return o.n
}

// Bytes returns the cells of the whole run without copying.
func (o Operands) Bytes() []byte {
	o.lease.check()
	return o.b
}

// Equal reports whether both runs hold the same number of byte-identical spans.
func (o Operands) Equal(p Operands) bool {
	o.lease.check()
	p.lease.check()
	return o.n == p.n && bytes.Equal(o.b, p.b)
}

// next returns the span starting at byte offset off and the offset after it.
func (o Operands) next(off int) (View, int) {
	span := format.SpanAt(o.b[off:]) * format.CellSize
	end := off + span
	return View{b: o.b[off:end:end], lease: o.lease}, end
}

// skip returns the byte offset of operand i.
func (o Operands) skip(i int) int {
	off := 0
	for range i {
		off += format.SpanAt(o.b[off:]) * format.CellSize
	}
	return off
}

// At returns operand i in O(i). It panics when i is out of range.
func (o Operands) At(i int) View {
	if i < 0 || i >= o.n {
		panic(fmt.Sprintf("expr: operand index %d out of range [0,%d)", i, o.n))
	}
	o.lease.check()
	v, _ := o.next(o.skip(i))
	return v
}

// All iterates over the operands with their indices. Each call starts a fresh
// walk. A walk that runs to the end panics with a *CorruptionError if the last
// operand does not finish exactly at the end of the run.
func (o Operands) All() iter.Seq2[int, View] {
	return func(yield func(int, View) bool) {
		o.lease.check()
		off := 0
		for i := range o.n {
			var v View
			v, off = o.next(off)
			if !yield(i, v) {
				return
			}
			o.lease.check()
		}
		if off != len(o.b) {
			panic(&CorruptionError{
				Cell:   off / format.CellSize,
				Reason: fmt.Sprintf("operand walk ends at byte %d of %d", off, len(o.b)),
				Err:    format.ErrSpanMismatch,
			})
		}
	}
}

// Values iterates over the operands.
func (o Operands) Values() iter.Seq[View] {
	return func(yield func(View) bool) {
		for _, v := range o.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Index returns every operand in order. Callers that need repeated random
// access should keep the result rather than calling At in a loop.
func (o Operands) Index() []View {
	out := make([]View, 0, o.n)
	for v := range o.Values() {
		out = append(out, v)
	}
	return out
}

// Subview returns the n operands starting at operand off. It costs O(off+n).
func (o Operands) Subview(off, n int) Operands {
	if off < 0 || n < 0 || off+n > o.n {
		panic(fmt.Sprintf("expr: operand subview [%d:%d] out of range [0,%d]", off, off+n, o.n))
	}
	o.lease.check()
	start := o.skip(off)
	end := start
	for range n {
		end += format.SpanAt(o.b[end:]) * format.CellSize
	}
	return Operands{b: o.b[start:end:end], n: n, lease: o.lease}
}
