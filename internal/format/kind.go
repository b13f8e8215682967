package format

import "strconv"

// Kind is the discriminant stored in the first byte of every header cell.
// Zero is never a valid kind so that an all-zero cell reads as corruption.
type Kind uint8

const (
	KindSymbol Kind = iota + 1
	KindConstant
	KindSmallInt
	KindSmallRational
	KindFloat
	KindLargeInt
	KindLargeRational
	KindComplex
	KindSum
	KindProduct
	KindPower
	KindUnaryFunction
	KindFunction

	kindMin = KindSymbol
	kindMax = KindFunction
)

var kindNames = [...]string{
	KindSymbol:        "symbol",
	KindConstant:      "constant",
	KindSmallInt:      "smallInt",
	KindSmallRational: "smallRational",
	KindFloat:         "float",
	KindLargeInt:      "largeInt",
	KindLargeRational: "largeRational",
	KindComplex:       "complex",
	KindSum:           "sum",
	KindProduct:       "product",
	KindPower:         "power",
	KindUnaryFunction: "unaryFunction",
	KindFunction:      "function",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	for k := kindMin; k <= kindMax; k++ {
		if kindNames[k] == s {
			return k, true
		}
	}
	return 0, false
}

// Valid reports whether k is one of the defined discriminants.
func (k Kind) Valid() bool {
	return k >= kindMin && k <= kindMax
}

// IsTerminal reports whether k is a leaf: it has no logical operands. Large
// integers and large rationals are terminals even though they span several cells.
func (k Kind) IsTerminal() bool {
	switch k {
	case KindSymbol, KindConstant, KindSmallInt, KindSmallRational, KindFloat,
		KindLargeInt, KindLargeRational:
		return true
	default:
		return false
	}
}

// IsComposite reports whether k records logical children in its header.
// KindLargeRational is included: its numerator and denominator are physical
// children laid out exactly like composite operands.
func (k Kind) IsComposite() bool {
	switch k {
	case KindLargeRational, KindComplex, KindSum, KindProduct, KindPower,
		KindUnaryFunction, KindFunction:
		return true
	default:
		return false
	}
}

// IsNumber reports whether k encodes a numeric literal.
func (k Kind) IsNumber() bool {
	switch k {
	case KindSmallInt, KindSmallRational, KindFloat, KindLargeInt, KindLargeRational, KindComplex:
		return true
	default:
		return false
	}
}

// IsRealNumber reports whether k encodes a real numeric literal.
func (k Kind) IsRealNumber() bool {
	return k.IsNumber() && k != KindComplex
}

// IsInteger reports whether k encodes an exact integer.
func (k Kind) IsInteger() bool {
	return k == KindSmallInt || k == KindLargeInt
}

// IsFunction reports whether k is one of the function kinds.
func (k Kind) IsFunction() bool {
	return k == KindUnaryFunction || k == KindFunction
}

// HasName reports whether spans of kind k carry an inline name field. The kind
// is the primary signal; name bytes are never used to decide this.
func (k Kind) HasName() bool {
	return k == KindSymbol || k == KindConstant || k.IsFunction()
}

// HasTrailing reports whether the header of kind k records a trailing cell
// count, i.e. whether its span is variable.
func (k Kind) HasTrailing() bool {
	return k == KindLargeInt || k.IsComposite()
}

// HeaderCells returns the number of cells preceding the first child of a
// composite: the header itself plus, for functions, the name cell.
func (k Kind) HeaderCells() int {
	if k.IsFunction() {
		return 2
	}
	return 1
}

// FixedArity returns the required logical child count for kinds that have one.
func (k Kind) FixedArity() (int, bool) {
	switch k {
	case KindLargeRational, KindComplex, KindPower:
		return 2, true
	case KindUnaryFunction:
		return 1, true
	default:
		return 0, false
	}
}

// MinArity returns the smallest legal logical child count of a composite kind.
func (k Kind) MinArity() int {
	if n, ok := k.FixedArity(); ok {
		return n
	}
	switch k {
	case KindFunction:
		return 2
	case KindSum, KindProduct:
		return 1
	default:
		return 0
	}
}
