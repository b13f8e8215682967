package expr

import (
	"math/big"
	"slices"

	"github.com/joshuapare/symkit/internal/format"
)

// Accessors in this file panic with a *KindError when called on a span of the
// wrong kind, in the manner of reflect.Value.

func (v View) mustBe(method string, kinds ...Kind) []byte {
	h := v.head()
	if k := format.KindAt(h); !slices.Contains(kinds, k) {
		panic(&KindError{Method: method, Kind: k})
	}
	return h
}

// SmallRational returns numerator and denominator of a small integer or small
// rational. Small integers report a denominator of 1.
func (v View) SmallRational() (num, den int32) {
	return format.ReadSmall(v.mustBe("SmallRational", KindSmallInt, KindSmallRational))
}

// Int64 returns the value of an integer span and whether it fits in an int64.
func (v View) Int64() (int64, bool) {
	h := v.mustBe("Int64", KindSmallInt, KindLargeInt)
	if format.KindAt(h) == KindSmallInt {
		num, _ := format.ReadSmall(h)
		return int64(num), true
	}
	x := v.BigInt()
	return x.Int64(), x.IsInt64()
}

// Float returns the value of a floating-point span.
func (v View) Float() float64 {
	return format.ReadFloat(v.mustBe("Float", KindFloat))
}

// FloatBits returns the IEEE-754 bits of a floating-point span as stored.
func (v View) FloatBits() uint64 {
	return format.ReadFloatBits(v.mustBe("FloatBits", KindFloat))
}

// Name returns the name of a symbol, constant or function. The kind decides
// where the name lives; name bytes are never used to guess the kind.
func (v View) Name() string {
	h := v.mustBe("Name", KindSymbol, KindConstant, KindUnaryFunction, KindFunction)
	switch format.KindAt(h) {
	case KindSymbol:
		return string(format.NameBytes(format.SymbolField(h)))
	case KindConstant:
		return string(format.NameBytes(format.ConstantField(h)))
	default:
		return string(format.NameBytes(format.At(v.b, 1)))
	}
}

// Domain returns the assumption recorded on a symbol.
func (v View) Domain() Domain {
	return domainOf(format.FlagsOf(v.mustBe("Domain", KindSymbol)))
}

// ConstantValue returns the numeric value stored with a named constant.
func (v View) ConstantValue() float64 {
	return format.ReadConstantValue(v.mustBe("ConstantValue", KindConstant))
}

// Sign returns -1, 0 or +1 for a real number or constant. NaN reports 0.
func (v View) Sign() int {
	h := v.mustBe("Sign", KindSmallInt, KindSmallRational, KindFloat, KindLargeInt,
		KindLargeRational, KindConstant)
	switch format.KindAt(h) {
	case KindSmallInt, KindSmallRational:
		num, _ := format.ReadSmall(h)
		return cmp0(float64(num))
	case KindFloat:
		return cmp0(format.ReadFloat(h))
	case KindConstant:
		return cmp0(format.ReadConstantValue(h))
	case KindLargeInt:
		return int(format.ReadSign(h))
	default:
		return v.Numerator().Sign()
	}
}

func cmp0(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// NumLimbs returns the number of limbs of a large integer.
func (v View) NumLimbs() int {
	v.mustBe("NumLimbs", KindLargeInt)
	return len(v.b)/format.CellSize - 1
}

// Limb returns limb i of a large integer, counting from the least significant.
// It does not allocate.
func (v View) Limb(i int) Limb {
	v.mustBe("Limb", KindLargeInt)
	return format.ReadLimb(format.At(v.b, 1+i))
}

// Limbs returns a copy of all limbs of a large integer, least significant first.
func (v View) Limbs() []Limb {
	n := v.NumLimbs()
	out := make([]Limb, n)
	for i := range n {
		out[i] = format.ReadLimb(format.At(v.b, 1+i))
	}
	return out
}

// BigInt returns the value of an integer span.
func (v View) BigInt() *big.Int {
	h := v.mustBe("BigInt", KindSmallInt, KindLargeInt)
	if format.KindAt(h) == KindSmallInt {
		num, _ := format.ReadSmall(h)
		return big.NewInt(int64(num))
	}
	return format.BigFromLimbs(format.ReadSign(h), v.Limbs())
}

// BigRat returns the value of an exact rational span of any encoding.
func (v View) BigRat() *big.Rat {
	h := v.mustBe("BigRat", KindSmallInt, KindSmallRational, KindLargeInt, KindLargeRational)
	switch format.KindAt(h) {
	case KindSmallInt, KindSmallRational:
		num, den := format.ReadSmall(h)
		return big.NewRat(int64(num), int64(den))
	case KindLargeInt:
		return new(big.Rat).SetInt(v.BigInt())
	default:
		return new(big.Rat).SetFrac(v.Numerator().BigInt(), v.Denominator().BigInt())
	}
}

// Numerator returns the numerator span of a large rational.
func (v View) Numerator() View {
	v.mustBe("Numerator", KindLargeRational)
	return v.Child(0)
}

// Denominator returns the denominator span of a large rational.
func (v View) Denominator() View {
	v.mustBe("Denominator", KindLargeRational)
	return v.Child(1)
}

// Real returns the real part of a complex number.
func (v View) Real() View {
	v.mustBe("Real", KindComplex)
	return v.Child(0)
}

// Imag returns the imaginary part of a complex number.
func (v View) Imag() View {
	v.mustBe("Imag", KindComplex)
	return v.Child(1)
}

// Base returns the base of a power.
func (v View) Base() View {
	v.mustBe("Base", KindPower)
	return v.Child(0)
}

// Exponent returns the exponent of a power.
func (v View) Exponent() View {
	v.mustBe("Exponent", KindPower)
	return v.Child(1)
}

// Arg returns the single argument of a unary function.
func (v View) Arg() View {
	v.mustBe("Arg", KindUnaryFunction)
	return v.Child(0)
}

// Approx returns a float64 approximation of a real number or constant. It is a
// convenience for display; it is not evaluation.
func (v View) Approx() float64 {
	switch v.Kind() {
	case KindFloat:
		return v.Float()
	case KindConstant:
		return v.ConstantValue()
	case KindSmallInt, KindSmallRational, KindLargeInt, KindLargeRational:
		f, _ := v.BigRat().Float64()
		return f
	default:
		panic(&KindError{Method: "Approx", Kind: v.Kind()})
	}
}
