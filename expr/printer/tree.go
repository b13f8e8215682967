package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/symkit/expr"
)

const kindColumn = 15

type treeStyles struct {
	cell, kind, detail, flags, meta lipgloss.Style
}

func (p *Printer) styles() treeStyles {
	r := lipgloss.NewRenderer(p.writer)
	base := r.NewStyle()
	s := treeStyles{
		cell:   base,
		kind:   base.Width(kindColumn),
		detail: base,
		flags:  base,
		meta:   base,
	}
	if p.opts.NoColor {
		return s
	}
	s.cell = s.cell.Faint(true)
	s.kind = s.kind.Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	s.detail = s.detail.Foreground(lipgloss.Color("#E5C07B"))
	s.flags = s.flags.Foreground(lipgloss.Color("#98C379"))
	s.meta = s.meta.Faint(true)
	return s
}

// printTree writes one line per span in storage order:
//
//	[0]   sum            flags=exact  span=5 ops=2
//	  [1]   symbol         x  flags=exact  span=1
func (p *Printer) printTree(v expr.View) error {
	st := p.styles()
	var sb strings.Builder
	p.treeSpan(&sb, st, v, 0, 0)
	_, err := fmt.Fprint(p.writer, sb.String())
	return err
}

func (p *Printer) treeSpan(sb *strings.Builder, st treeStyles, v expr.View, cell, depth int) {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)
	k := v.Kind()

	sb.WriteString(indent)
	sb.WriteString(st.cell.Render(fmt.Sprintf("%-5s", "["+strconv.Itoa(cell)+"]")))
	sb.WriteByte(' ')
	sb.WriteString(st.kind.Render(k.String()))
	if d := detail(v); d != "" {
		sb.WriteString(st.detail.Render(d))
		sb.WriteString("  ")
	}
	if p.opts.ShowFlags {
		sb.WriteString(st.flags.Render("flags=" + v.Flags().String()))
		sb.WriteString("  ")
	}
	meta := "span=" + strconv.Itoa(v.Span())
	if k.IsComposite() {
		meta += " ops=" + strconv.Itoa(v.NumOperands())
	}
	sb.WriteString(st.meta.Render(meta))
	sb.WriteByte('\n')

	if k == expr.KindLargeInt && p.opts.ShowLimbs {
		inner := strings.Repeat(" ", (depth+1)*p.opts.IndentSize)
		for i := range v.NumLimbs() {
			l := v.Limb(i)
			fmt.Fprintf(sb, "%s%s limb %d  %016x%016x\n", inner,
				st.cell.Render(fmt.Sprintf("%-5s", "["+strconv.Itoa(cell+1+i)+"]")), i, l.Hi, l.Lo)
		}
	}
	if k.IsTerminal() && k != expr.KindLargeRational {
		return
	}
	if p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth {
		fmt.Fprintf(sb, "%s%s...\n", indent, strings.Repeat(" ", p.opts.IndentSize))
		return
	}
	next := cell + k.HeaderCells()
	for c := range v.Operands().Values() {
		p.treeSpan(sb, st, c, next, depth+1)
		next += c.Span()
	}
}

// detail is the inline payload shown after the kind.
func detail(v expr.View) string {
	switch v.Kind() {
	case expr.KindSmallInt, expr.KindLargeInt:
		return v.BigInt().String()
	case expr.KindSmallRational, expr.KindLargeRational:
		return v.BigRat().String()
	case expr.KindFloat:
		return fmt.Sprintf("%s (%#016x)", strconv.FormatFloat(v.Float(), 'g', -1, 64), v.FloatBits())
	case expr.KindSymbol:
		if d := v.Domain(); d != expr.DomainComplex {
			return v.Name() + " (" + d.String() + ")"
		}
		return v.Name()
	case expr.KindConstant:
		return v.Name() + " = " + strconv.FormatFloat(v.ConstantValue(), 'g', -1, 64)
	case expr.KindUnaryFunction, expr.KindFunction:
		return strconv.Quote(v.Name())
	}
	return ""
}
