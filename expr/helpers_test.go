package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// must returns a func that fails t on a constructor error, for use as
// must(t)(b.Sum(...)).
func must(t *testing.T) func(Expr, error) Expr {
	t.Helper()
	return func(e Expr, err error) Expr {
		t.Helper()
		require.NoError(t, err)
		return e
	}
}

func sym(t *testing.T, b *Builder, name string) View {
	t.Helper()
	return must(t)(b.Symbol(name, DomainComplex)).View()
}

// sumXTwoY builds x + 2*y.
func sumXTwoY(t *testing.T, b *Builder) Expr {
	t.Helper()
	prod := must(t)(b.Product(b.SmallInt(2).View(), sym(t, b, "y")))
	return must(t)(b.Sum(sym(t, b, "x"), prod.View()))
}

// panicValue runs f and returns what it panicked with.
func panicValue(t *testing.T, f func()) (v any) {
	t.Helper()
	defer func() { v = recover() }()
	f()
	t.Fatal("expected a panic")
	return nil
}
