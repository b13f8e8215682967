package verify

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/internal/format"
)

func buildSum(t *testing.T) expr.Expr {
	t.Helper()
	var b expr.Builder
	x, err := b.Symbol("x", expr.DomainReal)
	require.NoError(t, err)
	frac := b.BigRational(new(big.Rat).SetFrac64(3, 1<<40))
	prod, err := b.Product(b.SmallInt(2).View(), x.View())
	require.NoError(t, err)
	sum, err := b.Sum(frac.View(), prod.View(), b.Float(1.5).View())
	require.NoError(t, err)
	return sum
}

// TestAllInvariants_Valid tests that builder output passes every check.
func TestAllInvariants_Valid(t *testing.T) {
	require.NoError(t, AllInvariants(buildSum(t).Bytes()))
}

// TestStructure_UnknownKind tests that structural corruption is located.
func TestStructure_UnknownKind(t *testing.T) {
	data := buildSum(t).Cells()
	data[format.CellSize*1] = 0xee // first cell of the large rational

	err := Structure(data)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "Structure", ve.Type)
	require.Equal(t, 1, ve.Cell)
	require.ErrorIs(t, err, format.ErrCorrupt)
	require.Contains(t, err.Error(), "at cell 1")

	require.ErrorIs(t, AllInvariants(data), format.ErrCorrupt)
}

func TestStructure_Empty(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, Structure(nil), &ve)
	require.Equal(t, -1, ve.Cell)
	require.Equal(t, "Structure: run: empty buffer: format: truncated buffer", ve.Error())
}

func TestSpanConsistency_Valid(t *testing.T) {
	require.NoError(t, SpanConsistency(buildSum(t).View()))
}

// TestFlagConsistency_Stale tests that the deepest stale span is reported
// first along with the total count.
func TestFlagConsistency_Stale(t *testing.T) {
	data := buildSum(t).Cells()
	// sum(0) largeRational(1) smallInt(2) largeInt(3,4) product(5) smallInt(6) symbol(7) float(8)
	format.SetFlags(format.At(data, 6), expr.FlagNegative)
	format.SetFlags(format.At(data, 0), expr.FlagNone)
	v, err := expr.ViewOf(data, nil)
	require.NoError(t, err)

	err = FlagConsistency(v)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.ErrorIs(t, err, expr.ErrFlagMismatch)
	require.Equal(t, 6, ve.Cell)
	require.Equal(t, 2, ve.Details["stale_spans"])
	require.Contains(t, ve.Message, "smallInt caches negative")
}

func TestStructure_RationalNotReduced(t *testing.T) {
	var b expr.Builder
	data := b.BigRational(new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), 64))).Cells()
	// numerator 1 -> 2 shares a factor with 2^64
	format.PutI32(format.At(data, 1), format.NumOffset, 2)

	err := Structure(data)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.ErrorIs(t, err, format.ErrCorrupt)
	require.Equal(t, 0, ve.Cell)
	require.Equal(t, "largeRational", ve.Details["kind"])
	require.Contains(t, ve.Message, "lowest terms")
}

func TestNormalization_NFC(t *testing.T) {
	var b expr.Builder
	decomposed, err := b.Symbol("e\u0301", expr.DomainComplex)
	require.NoError(t, err)
	fn, err := b.UnaryFunction("f", decomposed.View())
	require.NoError(t, err)

	err = Normalization(fn.View())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, 2, ve.Cell, "header and name cell precede the argument")

	composed, err := b.Symbol("\u00e9", expr.DomainComplex)
	require.NoError(t, err)
	require.NoError(t, Normalization(composed.View()))
}

func TestChecks_Order(t *testing.T) {
	var names []string
	for _, c := range Checks {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"SpanConsistency", "FlagConsistency", "Normalization"}, names)
}
