package expr

import (
	"math"
	"math/big"

	"github.com/joshuapare/symkit/internal/buf"
	"github.com/joshuapare/symkit/internal/format"
)

// Builder constructs expressions strictly bottom-up. Every operand passed to a
// Builder method must be a complete View; the parent's header is written once,
// with its final span and flags, before the operand cells are copied behind it.
//
// The zero Builder allocates one buffer per expression. NewBuilder returns a
// Builder that carves small expressions out of shared chunks, which suits code
// that builds many short-lived terms. Chunks are never reused, so expressions
// from either kind of Builder stay valid independently of it.
//
// A Builder is not safe for concurrent use. Expressions it returns are
// immutable and may be shared freely.
type Builder struct {
	arena      []byte
	chunkCells int
}

// DefaultChunkCells is the chunk size used by NewBuilder when chunkCells <= 0.
const DefaultChunkCells = 4096

// NewBuilder returns a Builder that allocates from chunks of chunkCells cells.
func NewBuilder(chunkCells int) *Builder {
	if chunkCells <= 0 {
		chunkCells = DefaultChunkCells
	}
	return &Builder{chunkCells: chunkCells}
}

func (b *Builder) alloc(cells int) []byte {
	n := cells * format.CellSize
	if b == nil || b.chunkCells == 0 || cells > b.chunkCells/4 {
		return make([]byte, n)
	}
	if len(b.arena) < n {
		b.arena = make([]byte, b.chunkCells*format.CellSize)
	}
	out := b.arena[:n:n]
	b.arena = b.arena[n:]
	return out
}

// --- terminals ---

// SmallInt returns a one-cell integer.
func (b *Builder) SmallInt(n int32) Expr {
	out := b.alloc(1)
	format.PutSmall(out, KindSmallInt, cellFlagsSmall(n), n, 1)
	return Expr{b: out}
}

func cellFlagsSmall(num int32) Flag {
	return FlagNumeric | FlagReal | FlagExact | format.SignFlag(int(num))
}

// Int returns n in the smallest encoding that holds it.
func (b *Builder) Int(n int64) Expr {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return b.SmallInt(int32(n))
	}
	return b.LargeInt(big.NewInt(n))
}

// Integer returns x in the smallest encoding that holds it.
func (b *Builder) Integer(x *big.Int) Expr {
	if x.IsInt64() {
		return b.Int(x.Int64())
	}
	return b.LargeInt(x)
}

// LargeInt returns x in the extension encoding regardless of its size. Zero is
// stored with sign 0 and no limbs.
func (b *Builder) LargeInt(x *big.Int) Expr {
	return b.largeInt(int32(x.Sign()), format.LimbsOf(x))
}

// LargeIntFromLimbs returns the integer sign * limbs, with limbs given least
// significant first. Most significant zero limbs are dropped and a zero
// magnitude is stored with sign 0 whatever sign was passed.
func (b *Builder) LargeIntFromLimbs(sign int, limbs []Limb) (Expr, error) {
	if sign < -1 || sign > 1 {
		return Expr{}, precondition("largeInt", nil, "sign %d not in {-1, 0, 1}", sign)
	}
	limbs = format.TrimLimbs(limbs)
	if len(limbs) == 0 {
		sign = 0
	} else if sign == 0 {
		return Expr{}, precondition("largeInt", nil, "sign 0 with a non-zero magnitude")
	}
	return b.largeInt(int32(sign), limbs), nil
}

func (b *Builder) largeInt(sign int32, limbs []Limb) Expr {
	out := b.alloc(1 + len(limbs))
	f := FlagNumeric | FlagReal | FlagExact | format.SignFlag(int(sign))
	format.PutLargeIntHeader(out, f, sign, uint64(len(limbs)))
	for i, l := range limbs {
		format.PutLimb(format.At(out, 1+i), l)
	}
	return Expr{b: out}
}

// Rational returns num/den in lowest terms with the sign on the numerator.
// Whole results are integers; results whose parts do not fit in 32 bits use the
// large rational encoding.
func (b *Builder) Rational(num, den int64) (Expr, error) {
	if den == 0 {
		return Expr{}, precondition("rational", nil, "zero denominator")
	}
	return b.BigRational(new(big.Rat).SetFrac(big.NewInt(num), big.NewInt(den))), nil
}

// BigRational returns r in the smallest exact encoding that holds it.
func (b *Builder) BigRational(r *big.Rat) Expr {
	if r.IsInt() {
		return b.Integer(r.Num())
	}
	num, den := r.Num(), r.Denom()
	if fitsInt32(num) && fitsInt32(den) {
		n, d := int32(num.Int64()), int32(den.Int64())
		out := b.alloc(1)
		format.PutSmall(out, KindSmallRational, cellFlagsSmall(n), n, d)
		return Expr{b: out}
	}
	e, err := b.composite(KindLargeRational, "", []View{b.Integer(num).View(), b.Integer(den).View()})
	if err != nil {
		// a normalized big.Rat always satisfies the large rational invariants
		panic(err)
	}
	return e
}

func fitsInt32(x *big.Int) bool {
	return x.IsInt64() && x.Int64() >= math.MinInt32 && x.Int64() <= math.MaxInt32
}

// Float returns a floating-point number. The bits are stored as given, so NaN
// payloads and negative zero are preserved.
func (b *Builder) Float(v float64) Expr {
	out := b.alloc(1)
	format.PutFloat(out, FlagNumeric|FlagReal|format.SignFlag(cmp0(v)), v)
	return Expr{b: out}
}

// Symbol returns a named variable. Names are 1 to 14 bytes of UTF-8 without
// zero bytes.
func (b *Builder) Symbol(name string, d Domain) (Expr, error) {
	if d > DomainPositive {
		return Expr{}, precondition("symbol", nil, "unknown domain %d", d)
	}
	out := b.alloc(1)
	if err := format.PutSymbol(out, FlagExact|d.flags(), name); err != nil {
		return Expr{}, precondition("symbol", err, "bad name")
	}
	return Expr{b: out}, nil
}

// Constant returns a named constant such as pi with its finite value. Names
// are 1 to 6 bytes of UTF-8 without zero bytes.
func (b *Builder) Constant(name string, value float64) (Expr, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Expr{}, precondition("constant", nil, "value %v is not finite", value)
	}
	out := b.alloc(1)
	f := FlagNumeric | FlagReal | FlagExact | format.SignFlag(cmp0(value))
	if err := format.PutConstant(out, f, name, value); err != nil {
		return Expr{}, precondition("constant", err, "bad name")
	}
	return Expr{b: out}, nil
}

// --- composites ---

// Complex returns re + im*i. Both parts must be real numbers.
func (b *Builder) Complex(re, im View) (Expr, error) {
	return b.composite(KindComplex, "", []View{re, im})
}

// Sum returns the sum of one or more operands, in the given order.
func (b *Builder) Sum(ops ...View) (Expr, error) {
	return b.composite(KindSum, "", ops)
}

// Product returns the product of one or more operands, in the given order.
func (b *Builder) Product(ops ...View) (Expr, error) {
	return b.composite(KindProduct, "", ops)
}

// Power returns base^exp.
func (b *Builder) Power(base, exp View) (Expr, error) {
	return b.composite(KindPower, "", []View{base, exp})
}

// UnaryFunction returns the application name(arg).
func (b *Builder) UnaryFunction(name string, arg View) (Expr, error) {
	return b.composite(KindUnaryFunction, name, []View{arg})
}

// Function returns the application name(args...) of a function of two or
// more arguments.
func (b *Builder) Function(name string, args ...View) (Expr, error) {
	return b.composite(KindFunction, name, args)
}

// Copy duplicates a complete span, possibly from another buffer, into a new Expr.
func (b *Builder) Copy(v View) Expr {
	v.lease.check()
	out := b.alloc(len(v.b) / format.CellSize)
	copy(out, v.b)
	return Expr{b: out}
}

func (b *Builder) composite(k Kind, name string, ops []View) (Expr, error) {
	op := k.String()
	if n, fixed := k.FixedArity(); fixed && len(ops) != n {
		return Expr{}, precondition(op, nil, "%d operands, want %d", len(ops), n)
	}
	if len(ops) < k.MinArity() {
		return Expr{}, precondition(op, nil, "%d operands, want at least %d", len(ops), k.MinArity())
	}
	if uint64(len(ops)) > format.MaxOperands {
		return Expr{}, precondition(op, nil, "%d operands exceed the header limit", len(ops))
	}
	if k.IsFunction() {
		if err := format.CheckName(name, format.FunctionNameWidth); err != nil {
			return Expr{}, precondition(op, err, "bad name")
		}
	}

	cells := k.HeaderCells()
	fold := newFlagFold(k)
	for i, o := range ops {
		if !o.IsValid() {
			return Expr{}, precondition(op, nil, "operand %d is not a valid view", i)
		}
		if err := checkOperand(k, i, o); err != nil {
			return Expr{}, err
		}
		var ok bool
		if cells, ok = buf.AddOverflowSafe(cells, o.Span()); !ok {
			return Expr{}, precondition(op, nil, "span overflows at operand %d", i)
		}
		fold.add(o.Flags())
	}
	if k == KindLargeRational {
		if err := checkRationalParts(ops[0], ops[1]); err != nil {
			return Expr{}, err
		}
	}

	out := b.alloc(cells)
	format.PutCompositeHeader(out, k, fold.result(), uint32(len(ops)), uint64(cells-1))
	if k.IsFunction() {
		// validated above
		_ = format.PutName(format.At(out, 1), name)
	}
	off := k.HeaderCells() * format.CellSize
	for _, o := range ops {
		off += copy(out[off:], o.Bytes())
	}
	return Expr{b: out}, nil
}

func checkOperand(k Kind, i int, o View) error {
	switch k {
	case KindComplex:
		if !o.Kind().IsRealNumber() {
			return precondition("complex", nil, "part %d is %s, want a real number", i, o.Kind())
		}
	case KindLargeRational:
		if !o.Kind().IsInteger() {
			return precondition("largeRational", nil, "part %d is %s, want an integer", i, o.Kind())
		}
	}
	return nil
}

func checkRationalParts(num, den View) error {
	const op = "largeRational"
	if num.Kind() != KindLargeInt && den.Kind() != KindLargeInt {
		return precondition(op, nil, "both parts fit a small rational")
	}
	n, d := num.BigInt(), den.BigInt()
	switch {
	case n.Sign() == 0:
		return precondition(op, nil, "zero numerator")
	case d.Cmp(big.NewInt(1)) <= 0:
		return precondition(op, nil, "denominator %s is not greater than one", d)
	case new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d).Cmp(big.NewInt(1)) != 0:
		return precondition(op, nil, "%s/%s is not in lowest terms", n, d)
	}
	return nil
}
