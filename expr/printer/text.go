package printer

import (
	"strconv"
	"strings"

	"github.com/joshuapare/symkit/expr"
)

// Binding strength of each rendering, loosest first.
const (
	precLowest = iota
	precSum
	precProduct
	precPower
	precAtom
)

type textWriter struct {
	strings.Builder
	maxDepth int
}

func (t *textWriter) expr(v expr.View, depth, outer int) {
	if t.maxDepth > 0 && depth >= t.maxDepth && !v.Kind().IsTerminal() {
		t.WriteString("...")
		return
	}
	prec := precedence(v)
	paren := prec < outer
	if paren {
		t.WriteByte('(')
	}
	t.span(v, depth)
	if paren {
		t.WriteByte(')')
	}
}

// precedence reports how tightly the rendering of v binds. Negative numbers
// and fractions bind like the operators they print.
func precedence(v expr.View) int {
	switch v.Kind() {
	case expr.KindSum, expr.KindComplex:
		return precSum
	case expr.KindProduct:
		return precProduct
	case expr.KindPower:
		return precPower
	case expr.KindSmallRational, expr.KindLargeRational:
		return precProduct
	case expr.KindSmallInt, expr.KindLargeInt, expr.KindFloat:
		if v.Sign() < 0 {
			return precSum
		}
	}
	return precAtom
}

func (t *textWriter) span(v expr.View, depth int) {
	switch k := v.Kind(); k {
	case expr.KindSmallInt, expr.KindLargeInt:
		t.WriteString(v.BigInt().String())
	case expr.KindSmallRational, expr.KindLargeRational:
		t.WriteString(v.BigRat().String())
	case expr.KindFloat:
		t.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case expr.KindSymbol, expr.KindConstant:
		t.WriteString(v.Name())
	case expr.KindComplex:
		t.expr(v.Real(), depth+1, precSum)
		t.WriteString(" + ")
		t.expr(v.Imag(), depth+1, precProduct)
		t.WriteString("*i")
	case expr.KindSum:
		t.join(v.Operands(), " + ", depth, precSum)
	case expr.KindProduct:
		t.join(v.Operands(), "*", depth, precProduct+1)
	case expr.KindPower:
		t.expr(v.Base(), depth+1, precPower+1)
		t.WriteByte('^')
		t.expr(v.Exponent(), depth+1, precPower+1)
	case expr.KindUnaryFunction, expr.KindFunction:
		t.WriteString(v.Name())
		t.WriteByte('(')
		t.join(v.Operands(), ", ", depth, precLowest)
		t.WriteByte(')')
	default:
		t.WriteString(k.String())
	}
}

func (t *textWriter) join(ops expr.Operands, sep string, depth, outer int) {
	for i, c := range ops.All() {
		if i > 0 {
			t.WriteString(sep)
		}
		t.expr(c, depth+1, outer)
	}
}
