// Package expr stores symbolic expression trees as flat, relocatable runs of
// 16-byte cells.
//
// An expression is a span: a header cell followed by the cells of its payload
// and operands, with no pointers anywhere. Every span is self-contained, so a
// run of cells can be copied with memmove, written to disk, mapped back in, and
// compared byte-for-byte. Operands are found by walking: the header of each
// child records its own span, so skipping a child is O(1) and reaching operand
// i of a composite is O(i).
//
// Expr owns a buffer holding one complete root expression. View is a
// non-owning window on one span inside some buffer; it is a small value type
// and may be copied freely. Operands is a window on a run of siblings.
//
// Buffers are immutable once built. Builder constructs them strictly bottom-up:
// every operand is a finished View before its parent is written, so a parent's
// header is never patched after the fact. Edits such as Replace produce a new
// buffer.
//
// Views of heap buffers stay valid for as long as they are reachable. Views of
// buffers owned by something else, such as a memory-mapped snapshot, carry a
// Lease and panic with a *LifetimeError when used after the owner is closed.
//
// The cell layout itself lives in internal/format and is re-exported here where
// callers need it (Kind, Flag, Limb).
package expr

import "github.com/joshuapare/symkit/internal/format"

// Kind is the discriminant of a span's header cell.
type Kind = format.Kind

const (
	KindSymbol        = format.KindSymbol
	KindConstant      = format.KindConstant
	KindSmallInt      = format.KindSmallInt
	KindSmallRational = format.KindSmallRational
	KindFloat         = format.KindFloat
	KindLargeInt      = format.KindLargeInt
	KindLargeRational = format.KindLargeRational
	KindComplex       = format.KindComplex
	KindSum           = format.KindSum
	KindProduct       = format.KindProduct
	KindPower         = format.KindPower
	KindUnaryFunction = format.KindUnaryFunction
	KindFunction      = format.KindFunction
)

// Flag is the cached property bit set of a span.
type Flag = format.Flag

const (
	FlagNone     = format.FlagNone
	FlagNumeric  = format.FlagNumeric
	FlagPositive = format.FlagPositive
	FlagNegative = format.FlagNegative
	FlagReal     = format.FlagReal
	FlagExact    = format.FlagExact
)

// Limb is one 128-bit word of a large integer's magnitude.
type Limb = format.Limb

// Domain is the assumption recorded on a symbol.
type Domain uint8

const (
	DomainComplex  Domain = iota // no assumption
	DomainReal                   // takes real values
	DomainPositive               // takes positive real values
)

func (d Domain) String() string {
	switch d {
	case DomainComplex:
		return "complex"
	case DomainReal:
		return "real"
	case DomainPositive:
		return "positive"
	default:
		return "domain(?)"
	}
}

// ParseDomain is the inverse of String.
func ParseDomain(s string) (Domain, bool) {
	switch s {
	case "complex", "":
		return DomainComplex, true
	case "real":
		return DomainReal, true
	case "positive":
		return DomainPositive, true
	}
	return 0, false
}

func (d Domain) flags() Flag {
	switch d {
	case DomainReal:
		return FlagReal
	case DomainPositive:
		return FlagReal | FlagPositive
	default:
		return FlagNone
	}
}

func domainOf(f Flag) Domain {
	switch {
	case f.Has(FlagPositive):
		return DomainPositive
	case f.Has(FlagReal):
		return DomainReal
	default:
		return DomainComplex
	}
}
