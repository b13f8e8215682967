package expr

import (
	"fmt"

	"github.com/joshuapare/symkit/internal/format"
)

// Value is the decoded, pointer-based form of an expression, for callers that
// prefer pattern matching over cell access. The set of implementations is
// closed; switch on the concrete type.
//
// Decode and Encode convert between the two forms. For every expression built
// by a Builder, Encode(Decode(v)) reproduces v byte for byte.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	SmallInt      struct{ N int32 }
	SmallRational struct{ Num, Den int32 }
	Float         struct{ V float64 }
	Symbol        struct {
		Name   string
		Domain Domain
	}
	Constant struct {
		Name  string
		Value float64
	}
	// LargeInt keeps the extension encoding: sign and limbs, least
	// significant first.
	LargeInt struct {
		Sign  int
		Limbs []Limb
	}
	// LargeRational parts are SmallInt or LargeInt values.
	LargeRational struct{ Num, Den Value }
	Complex       struct{ Re, Im Value }
	Sum           struct{ Ops []Value }
	Product       struct{ Ops []Value }
	Power         struct{ Base, Exp Value }
	UnaryFunction struct {
		Name string
		Arg  Value
	}
	Function struct {
		Name string
		Args []Value
	}
)

func (SmallInt) Kind() Kind      { return KindSmallInt }
func (SmallRational) Kind() Kind { return KindSmallRational }
func (Float) Kind() Kind         { return KindFloat }
func (Symbol) Kind() Kind        { return KindSymbol }
func (Constant) Kind() Kind      { return KindConstant }
func (LargeInt) Kind() Kind      { return KindLargeInt }
func (LargeRational) Kind() Kind { return KindLargeRational }
func (Complex) Kind() Kind       { return KindComplex }
func (Sum) Kind() Kind           { return KindSum }
func (Product) Kind() Kind       { return KindProduct }
func (Power) Kind() Kind         { return KindPower }
func (UnaryFunction) Kind() Kind { return KindUnaryFunction }
func (Function) Kind() Kind      { return KindFunction }

func (SmallInt) isValue()      {}
func (SmallRational) isValue() {}
func (Float) isValue()         {}
func (Symbol) isValue()        {}
func (Constant) isValue()      {}
func (LargeInt) isValue()      {}
func (LargeRational) isValue() {}
func (Complex) isValue()       {}
func (Sum) isValue()           {}
func (Product) isValue()       {}
func (Power) isValue()         {}
func (UnaryFunction) isValue() {}
func (Function) isValue()      {}

// Decode converts the span v into a Value tree.
func Decode(v View) Value {
	switch k := v.Kind(); k {
	case KindSmallInt:
		n, _ := v.SmallRational()
		return SmallInt{N: n}
	case KindSmallRational:
		n, d := v.SmallRational()
		return SmallRational{Num: n, Den: d}
	case KindFloat:
		return Float{V: v.Float()}
	case KindSymbol:
		return Symbol{Name: v.Name(), Domain: v.Domain()}
	case KindConstant:
		return Constant{Name: v.Name(), Value: v.ConstantValue()}
	case KindLargeInt:
		return LargeInt{Sign: v.Sign(), Limbs: v.Limbs()}
	case KindLargeRational:
		return LargeRational{Num: Decode(v.Child(0)), Den: Decode(v.Child(1))}
	case KindComplex:
		return Complex{Re: Decode(v.Child(0)), Im: Decode(v.Child(1))}
	case KindSum:
		return Sum{Ops: decodeAll(v.Operands())}
	case KindProduct:
		return Product{Ops: decodeAll(v.Operands())}
	case KindPower:
		return Power{Base: Decode(v.Child(0)), Exp: Decode(v.Child(1))}
	case KindUnaryFunction:
		return UnaryFunction{Name: v.Name(), Arg: Decode(v.Child(0))}
	case KindFunction:
		return Function{Name: v.Name(), Args: decodeAll(v.Operands())}
	default:
		// unreachable for validated buffers
		panic(&CorruptionError{Kind: k, Reason: "decode of unknown kind", Err: format.ErrUnknownKind})
	}
}

func decodeAll(ops Operands) []Value {
	out := make([]Value, 0, ops.Len())
	for c := range ops.Values() {
		out = append(out, Decode(c))
	}
	return out
}

// Encode builds the expression described by val. Small rationals are
// normalized as by Builder.Rational; every other invariant violation is
// reported as a *PreconditionError.
func (b *Builder) Encode(val Value) (Expr, error) {
	switch x := val.(type) {
	case SmallInt:
		return b.SmallInt(x.N), nil
	case SmallRational:
		return b.Rational(int64(x.Num), int64(x.Den))
	case Float:
		return b.Float(x.V), nil
	case Symbol:
		return b.Symbol(x.Name, x.Domain)
	case Constant:
		return b.Constant(x.Name, x.Value)
	case LargeInt:
		return b.LargeIntFromLimbs(x.Sign, x.Limbs)
	case LargeRational:
		return b.encodeFixed(KindLargeRational, "", x.Num, x.Den)
	case Complex:
		return b.encodeFixed(KindComplex, "", x.Re, x.Im)
	case Sum:
		return b.encodeFixed(KindSum, "", x.Ops...)
	case Product:
		return b.encodeFixed(KindProduct, "", x.Ops...)
	case Power:
		return b.encodeFixed(KindPower, "", x.Base, x.Exp)
	case UnaryFunction:
		return b.encodeFixed(KindUnaryFunction, x.Name, x.Arg)
	case Function:
		return b.encodeFixed(KindFunction, x.Name, x.Args...)
	case nil:
		return Expr{}, precondition("encode", nil, "nil value")
	default:
		return Expr{}, precondition("encode", nil, "unsupported value %T", val)
	}
}

func (b *Builder) encodeFixed(k Kind, name string, vals ...Value) (Expr, error) {
	ops := make([]View, len(vals))
	for i, val := range vals {
		var scratch *Builder // temporaries stay out of the arena
		e, err := scratch.Encode(val)
		if err != nil {
			return Expr{}, fmt.Errorf("%s operand %d: %w", k, i, err)
		}
		ops[i] = e.View()
	}
	return b.composite(k, name, ops)
}
