package expr

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/symkit/internal/format"
)

// TestFromCells_Corruption tests that a damaged trailing count is rejected as a
// whole.
func TestFromCells_Corruption(t *testing.T) {
	var b Builder
	cells := sumXTwoY(t, &b).Cells()

	format.PutU64(cells, format.TrailingOffset, 3)
	_, err := FromCells(cells)
	require.ErrorIs(t, err, ErrCorrupt)
	var ce *CorruptionError
	require.ErrorAs(t, err, &ce)
}

func TestFromCells_RejectsBadInput(t *testing.T) {
	var b Builder
	good := sumXTwoY(t, &b).Cells()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func([]byte) []byte { return nil }},
		{"ragged", func(c []byte) []byte { return c[:len(c)-1] }},
		{"unknown kind", func(c []byte) []byte { c[format.KindOffset] = 0x7f; return c }},
		{"zero kind", func(c []byte) []byte { c[format.KindOffset] = 0; return c }},
		{"reserved flag", func(c []byte) []byte { c[format.FlagsOffset] |= 0x80; return c }},
		{"trailing garbage", func(c []byte) []byte { return append(c, format.At(c, 1)...) }},
		{"count too large", func(c []byte) []byte { format.PutU32(c, format.CountOffset, 3); return c }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCells(tt.mutate(append([]byte(nil), good...)))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrCorrupt) || errors.Is(err, format.ErrTruncated), "%v", err)
		})
	}
}

// TestFromCells_LargeRationalNotReduced tests that a second encoding of a
// large rational value is rejected instead of adopted.
func TestFromCells_LargeRationalNotReduced(t *testing.T) {
	var b Builder
	num := new(big.Int).Lsh(big.NewInt(1), 129)
	cells := b.BigRational(new(big.Rat).SetFrac(num, big.NewInt(3))).Cells()
	// largeRational(0) largeInt(1) limb(2) limb(3) smallInt(4)
	require.Equal(t, KindSmallInt, format.KindAt(format.At(cells, 4)))

	den := format.At(cells, 4)
	format.PutSmall(den, format.KindSmallInt, format.FlagsOf(den), 4, 1)
	_, err := FromCells(cells)
	require.ErrorIs(t, err, ErrCorrupt)
	require.Contains(t, err.Error(), "lowest terms")

	_, err = ViewOf(cells, nil)
	require.ErrorIs(t, err, ErrCorrupt)
}

// TestFromCells_Copies tests that the adopted buffer is independent of the input.
func TestFromCells_Copies(t *testing.T) {
	var b Builder
	src := sumXTwoY(t, &b).Cells()
	e, err := FromCells(src)
	require.NoError(t, err)

	before := e.Cells()
	clear(src)
	require.Equal(t, before, e.Bytes())
}

func TestExpr_Basics(t *testing.T) {
	var b Builder
	var zero Expr
	require.True(t, zero.IsZero())
	require.Equal(t, "<empty>", zero.String())
	require.False(t, zero.View().IsValid())

	e := sumXTwoY(t, &b)
	require.Equal(t, 5, e.Len())
	require.Equal(t, "sum(2)[5 cells]", e.String())
	require.True(t, e.Equal(sumXTwoY(t, &b)))
	require.False(t, e.Equal(b.SmallInt(1)))
}

func TestViewOf_Lease(t *testing.T) {
	var b Builder
	e := sumXTwoY(t, &b)
	lease := NewLease("test snapshot")

	v, err := ViewOf(e.Bytes(), lease)
	require.NoError(t, err)
	prod := v.Child(1)
	require.Equal(t, KindProduct, prod.Kind())

	lease.Release()
	require.True(t, lease.Released())

	for name, use := range map[string]func(){
		"root":       func() { v.Kind() },
		"descendant": func() { prod.Child(0) },
		"bytes":      func() { v.Bytes() },
		"operands":   func() { v.Operands().Index() },
	} {
		p := panicValue(t, use)
		le, ok := p.(*LifetimeError)
		require.True(t, ok, "%s: panic value %v", name, p)
		require.ErrorIs(t, le, ErrLifetime)
		require.Contains(t, le.Error(), "test snapshot")
	}

	_, err = func() (v View, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = r.(error)
			}
		}()
		return ViewOf(e.Bytes(), lease)
	}()
	require.ErrorIs(t, err, ErrLifetime)
}

func TestView_KindError(t *testing.T) {
	var b Builder
	v := b.SmallInt(3).View()
	p := panicValue(t, func() { v.Name() })
	ke, ok := p.(*KindError)
	require.True(t, ok)
	require.Equal(t, "Name", ke.Method)
	require.Equal(t, KindSmallInt, ke.Kind)
	require.Equal(t, "expr: call of View.Name on smallInt", ke.Error())
}

func TestView_Descend(t *testing.T) {
	var b Builder
	v := sumXTwoY(t, &b).View()

	y, err := v.Descend(1, 1)
	require.NoError(t, err)
	require.Equal(t, "y", y.Name())

	root, err := v.Descend()
	require.NoError(t, err)
	require.True(t, root.Equal(v))

	_, err = v.Descend(1, 2)
	require.ErrorIs(t, err, ErrNoOperand)
	_, err = v.Descend(0, 0)
	require.ErrorIs(t, err, ErrNoOperand)
}

func TestView_Approx(t *testing.T) {
	var b Builder
	require.InDelta(t, 0.25, must(t)(b.Rational(1, 4)).View().Approx(), 0)
	require.InDelta(t, -2.5, b.Float(-2.5).View().Approx(), 0)
	panicValue(t, func() { sym(t, &b, "x").Approx() })
}
