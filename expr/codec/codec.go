// Package codec converts expressions to and from a self-describing tree of
// Nodes for interchange with external tools, as JSON or CBOR.
//
// The cell layout is the storage format; Node is the exchange format. A Node
// tree never exposes limbs or spans, so tools written in other languages need
// only a JSON or CBOR decoder. Types carry json tags only; fxamacker/cbor falls
// back to them, so the same Node works with both encoders.
//
// CBOR output uses Core Deterministic Encoding, so equal trees encode to equal
// bytes.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/internal/format"
)

// ErrNode is returned for Node trees that do not describe an expression.
var ErrNode = errors.New("codec: malformed node")

// Node is one expression in interchange form. Which fields are set depends on
// Kind:
//
//	smallInt       Num
//	smallRational  Num, Den
//	float          Bits (raw IEEE-754), Value when finite
//	symbol         Name, Domain
//	constant       Name, Value
//	largeInt       Int (decimal)
//	largeRational  Children: numerator, denominator
//	complex        Children: real, imaginary
//	sum, product   Children
//	power          Children: base, exponent
//	unaryFunction  Name, Children: argument
//	function       Name, Children
type Node struct {
	Kind     string   `json:"kind"`
	Num      *int64   `json:"num,omitempty"`
	Den      *int64   `json:"den,omitempty"`
	Bits     *uint64  `json:"bits,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Int      string   `json:"int,omitempty"`
	Name     string   `json:"name,omitempty"`
	Domain   string   `json:"domain,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// FromView converts the span v into a Node tree.
func FromView(v expr.View) *Node {
	k := v.Kind()
	n := &Node{Kind: k.String()}
	switch k {
	case expr.KindSmallInt:
		num, _ := v.SmallRational()
		n.Num = ptr(int64(num))
	case expr.KindSmallRational:
		num, den := v.SmallRational()
		n.Num, n.Den = ptr(int64(num)), ptr(int64(den))
	case expr.KindFloat:
		n.Bits = ptr(v.FloatBits())
		if f := v.Float(); !math.IsNaN(f) && !math.IsInf(f, 0) {
			n.Value = ptr(f)
		}
	case expr.KindSymbol:
		n.Name = v.Name()
		if d := v.Domain(); d != expr.DomainComplex {
			n.Domain = d.String()
		}
	case expr.KindConstant:
		n.Name, n.Value = v.Name(), ptr(v.ConstantValue())
	case expr.KindLargeInt:
		n.Int = v.BigInt().String()
	case expr.KindUnaryFunction, expr.KindFunction:
		n.Name = v.Name()
	}
	for c := range v.Operands().Values() {
		n.Children = append(n.Children, FromView(c))
	}
	return n
}

func ptr[T any](v T) *T { return &v }

// Build encodes n with b. Names are NFC normalized first. A large rational
// whose parts are already canonical keeps their encodings, so a tree from
// FromView rebuilds byte for byte; a non-canonical pair is reduced rather than
// rejected.
func (n *Node) Build(b *expr.Builder) (expr.Expr, error) {
	return n.build(b, "$")
}

func (n *Node) build(b *expr.Builder, path string) (expr.Expr, error) {
	if n == nil {
		return expr.Expr{}, fmt.Errorf("%s: nil node: %w", path, ErrNode)
	}
	bad := func(msg string, args ...any) (expr.Expr, error) {
		return expr.Expr{}, fmt.Errorf("%s (%s): %s: %w", path, n.Kind, fmt.Sprintf(msg, args...), ErrNode)
	}
	k, ok := format.ParseKind(n.Kind)
	if !ok {
		return bad("unknown kind")
	}
	if !k.IsComposite() && len(n.Children) > 0 {
		return bad("terminal with %d children", len(n.Children))
	}

	var kids []expr.View
	var scratch expr.Builder // children are copied into the parent
	for i, c := range n.Children {
		e, err := c.build(&scratch, path+"/"+strconv.Itoa(i))
		if err != nil {
			return expr.Expr{}, err
		}
		kids = append(kids, e.View())
	}
	name := norm.NFC.String(n.Name)

	switch k {
	case expr.KindSmallInt:
		if n.Num == nil || *n.Num < math.MinInt32 || *n.Num > math.MaxInt32 {
			return bad("num missing or outside int32")
		}
		return b.SmallInt(int32(*n.Num)), nil
	case expr.KindSmallRational:
		if n.Num == nil || n.Den == nil {
			return bad("num and den required")
		}
		return b.Rational(*n.Num, *n.Den)
	case expr.KindFloat:
		switch {
		case n.Bits != nil:
			return b.Float(math.Float64frombits(*n.Bits)), nil
		case n.Value != nil:
			return b.Float(*n.Value), nil
		}
		return bad("bits or value required")
	case expr.KindSymbol:
		d, ok := expr.ParseDomain(n.Domain)
		if !ok {
			return bad("unknown domain %q", n.Domain)
		}
		return b.Symbol(name, d)
	case expr.KindConstant:
		if n.Value == nil {
			return bad("value required")
		}
		return b.Constant(name, *n.Value)
	case expr.KindLargeInt:
		x, ok := new(big.Int).SetString(n.Int, 10)
		if !ok {
			return bad("int %q is not a decimal integer", n.Int)
		}
		return b.LargeInt(x), nil
	case expr.KindLargeRational:
		if len(kids) != 2 || !kids[0].Kind().IsInteger() || !kids[1].Kind().IsInteger() {
			return bad("want integer numerator and denominator")
		}
		den := kids[1].BigInt()
		if den.Sign() == 0 {
			return bad("zero denominator")
		}
		// Canonical parts keep their encodings; anything else is reduced.
		if e, err := b.Encode(expr.LargeRational{Num: expr.Decode(kids[0]), Den: expr.Decode(kids[1])}); err == nil {
			return e, nil
		}
		return b.BigRational(new(big.Rat).SetFrac(kids[0].BigInt(), den)), nil
	case expr.KindComplex:
		if len(kids) != 2 {
			return bad("want 2 children")
		}
		return b.Complex(kids[0], kids[1])
	case expr.KindSum:
		return b.Sum(kids...)
	case expr.KindProduct:
		return b.Product(kids...)
	case expr.KindPower:
		if len(kids) != 2 {
			return bad("want 2 children")
		}
		return b.Power(kids[0], kids[1])
	case expr.KindUnaryFunction:
		if len(kids) != 1 {
			return bad("want 1 child")
		}
		return b.UnaryFunction(name, kids[0])
	default:
		return b.Function(name, kids...)
	}
}

// MarshalJSON encodes the span v as an indented Node tree.
func MarshalJSON(v expr.View) ([]byte, error) {
	return json.MarshalIndent(FromView(v), "", "  ")
}

// UnmarshalJSON decodes a Node tree and builds it with b.
func UnmarshalJSON(data []byte, b *expr.Builder) (expr.Expr, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return expr.Expr{}, fmt.Errorf("codec: json: %w", err)
	}
	return n.Build(b)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		MaxNestedLevels:  65535,
		MaxArrayElements: math.MaxInt32,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// MarshalCBOR encodes the span v as a deterministic CBOR Node tree.
func MarshalCBOR(v expr.View) ([]byte, error) {
	return encMode.Marshal(FromView(v))
}

// UnmarshalCBOR decodes a CBOR Node tree and builds it with b.
func UnmarshalCBOR(data []byte, b *expr.Builder) (expr.Expr, error) {
	var n Node
	if err := decMode.Unmarshal(data, &n); err != nil {
		return expr.Expr{}, fmt.Errorf("codec: cbor: %w", err)
	}
	return n.Build(b)
}
