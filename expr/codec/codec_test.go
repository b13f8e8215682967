package codec

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/symkit/expr"
)

func fixture(t *testing.T) expr.Expr {
	t.Helper()
	var b expr.Builder
	mustE := func(e expr.Expr, err error) expr.View {
		require.NoError(t, err)
		return e.View()
	}
	x := mustE(b.Symbol("x", expr.DomainPositive))
	pi := mustE(b.Constant("pi", math.Pi))
	huge := b.Integer(new(big.Int).Lsh(big.NewInt(-3), 150)).View()
	frac := b.BigRational(new(big.Rat).SetFrac64(7, 1<<45)).View()
	cplx := mustE(b.Complex(mustE(b.Rational(1, 2)), b.Float(-0.25).View()))
	nan := b.Float(math.Float64frombits(0x7ff8_0000_0000_0042)).View()
	sin := mustE(b.UnaryFunction("sin", mustE(b.Power(x, b.SmallInt(2).View()))))
	fn := mustE(b.Function("f", huge, frac, nan))
	root, err := b.Sum(sin, pi, cplx, fn, b.LargeInt(new(big.Int)).View())
	require.NoError(t, err)
	return root
}

func TestJSON_RoundTrip(t *testing.T) {
	e := fixture(t)
	data, err := MarshalJSON(e.View())
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind": "sum"`)
	require.Contains(t, string(data), `"domain": "positive"`)

	var b expr.Builder
	got, err := UnmarshalJSON(data, &b)
	require.NoError(t, err)
	require.Equal(t, e.Bytes(), got.Bytes())
}

func TestCBOR_RoundTrip(t *testing.T) {
	e := fixture(t)
	data, err := MarshalCBOR(e.View())
	require.NoError(t, err)

	again, err := MarshalCBOR(e.View())
	require.NoError(t, err)
	require.Equal(t, data, again, "deterministic encoding")

	b := expr.NewBuilder(0)
	got, err := UnmarshalCBOR(data, b)
	require.NoError(t, err)
	require.Equal(t, e.Bytes(), got.Bytes())
}

func TestFromView_Shape(t *testing.T) {
	var b expr.Builder
	n := FromView(b.Float(math.Inf(1)).View())
	require.Equal(t, "float", n.Kind)
	require.NotNil(t, n.Bits)
	require.Nil(t, n.Value, "infinity has no JSON value")

	large := FromView(b.Int(1 << 40).View())
	require.Equal(t, "largeInt", large.Kind)
	require.Equal(t, "1099511627776", large.Int)
}

// TestBuild_NormalizesNames tests that decomposed names are stored in NFC.
func TestBuild_NormalizesNames(t *testing.T) {
	var b expr.Builder
	n := &Node{Kind: "symbol", Name: "e\u0301"}
	e, err := n.Build(&b)
	require.NoError(t, err)
	require.Equal(t, "\u00e9", e.View().Name())
}

func TestBuild_ReducesLargeRational(t *testing.T) {
	var b expr.Builder
	n := &Node{Kind: "largeRational", Children: []*Node{
		{Kind: "largeInt", Int: "36893488147419103232"}, // 2^65
		{Kind: "smallInt", Num: ptr(int64(-4))},
	}}
	e, err := n.Build(&b)
	require.NoError(t, err)
	want := new(big.Rat).SetFrac(new(big.Int).Lsh(big.NewInt(-1), 63), big.NewInt(1))
	require.Zero(t, want.Cmp(e.View().BigRat()))
}

// TestJSON_KeepsLargeRationalParts tests that a large rational whose small
// numerator was stored in the extension encoding rebuilds byte for byte.
func TestJSON_KeepsLargeRationalParts(t *testing.T) {
	var b expr.Builder
	num := b.LargeInt(big.NewInt(3)).View()
	den := b.LargeInt(new(big.Int).Lsh(big.NewInt(1), 64)).View()
	e, err := b.Encode(expr.LargeRational{Num: expr.Decode(num), Den: expr.Decode(den)})
	require.NoError(t, err)
	require.Equal(t, expr.KindLargeInt, e.View().Numerator().Kind())

	data, err := MarshalJSON(e.View())
	require.NoError(t, err)
	got, err := UnmarshalJSON(data, &b)
	require.NoError(t, err)
	require.Equal(t, expr.KindLargeInt, got.View().Numerator().Kind())
	require.Equal(t, e.Bytes(), got.Bytes())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want error
	}{
		{"unknown kind", &Node{Kind: "matrix"}, ErrNode},
		{"small int overflow", &Node{Kind: "smallInt", Num: ptr(int64(1 << 40))}, ErrNode},
		{"missing den", &Node{Kind: "smallRational", Num: ptr(int64(1))}, ErrNode},
		{"zero den", &Node{Kind: "smallRational", Num: ptr(int64(1)), Den: ptr(int64(0))}, expr.ErrPrecondition},
		{"float without bits", &Node{Kind: "float"}, ErrNode},
		{"bad domain", &Node{Kind: "symbol", Name: "x", Domain: "integer"}, ErrNode},
		{"bad decimal", &Node{Kind: "largeInt", Int: "12a"}, ErrNode},
		{"terminal children", &Node{Kind: "symbol", Name: "x", Children: []*Node{{Kind: "symbol", Name: "y"}}}, ErrNode},
		{"nil child", &Node{Kind: "sum", Children: []*Node{nil}}, ErrNode},
		{"empty product", &Node{Kind: "product"}, expr.ErrPrecondition},
		{"power arity", &Node{Kind: "power", Children: []*Node{{Kind: "smallInt", Num: ptr(int64(1))}}}, ErrNode},
		{"long name", &Node{Kind: "constant", Name: "eulergamma", Value: ptr(0.57)}, expr.ErrPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b expr.Builder
			_, err := tt.node.Build(&b)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_ErrorPath(t *testing.T) {
	var b expr.Builder
	n := &Node{Kind: "sum", Children: []*Node{
		{Kind: "smallInt", Num: ptr(int64(1))},
		{Kind: "product", Children: []*Node{{Kind: "bogus"}}},
	}}
	_, err := n.Build(&b)
	require.ErrorContains(t, err, "$/1/0 (bogus)")
}

func TestUnmarshal_Garbage(t *testing.T) {
	var b expr.Builder
	_, err := UnmarshalJSON([]byte("{"), &b)
	require.ErrorContains(t, err, "codec: json")
	_, err = UnmarshalCBOR([]byte{0xff}, &b)
	require.ErrorContains(t, err, "codec: cbor")
}
