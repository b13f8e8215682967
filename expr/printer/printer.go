// Package printer renders expressions for people and tools: infix text, a
// cell-level tree dump, and the JSON and CBOR interchange forms of expr/codec.
// It only reads; nothing here builds or modifies buffers.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/expr/codec"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs infix notation, e.g. "x + 2*y".
	FormatText Format = "text"

	// FormatTree outputs one line per span with cell offsets, kinds, flags
	// and spans.
	FormatTree Format = "tree"

	// FormatJSON outputs the codec Node tree as indented JSON.
	FormatJSON Format = "json"

	// FormatCBOR outputs the codec Node tree as deterministic CBOR bytes.
	FormatCBOR Format = "cbor"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatTree, FormatJSON, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, tree, json or cbor)", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format.
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per level (tree format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits how deep text and tree output descend (0 = unlimited).
	// Elided subtrees print as "...".
	// Default: 0
	MaxDepth int

	// ShowFlags adds cached flags to tree output.
	// Default: true
	ShowFlags bool

	// ShowLimbs lists the limb cells of large integers in tree output.
	// Default: false
	ShowLimbs bool

	// NoColor disables styling of tree output.
	// Default: false
	NoColor bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:     FormatText,
		IndentSize: DefaultIndentSize,
		MaxDepth:   DefaultMaxDepth,
		ShowFlags:  true,
	}
}

// Printer writes expressions to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.Print(e.View())
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{writer: w, opts: opts}
}

// Print renders v in the configured format.
func (p *Printer) Print(v expr.View) error {
	switch p.opts.Format {
	case FormatTree:
		return p.printTree(v)
	case FormatJSON:
		data, err := codec.MarshalJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(p.writer, "%s\n", data)
		return err
	case FormatCBOR:
		data, err := codec.MarshalCBOR(v)
		if err != nil {
			return err
		}
		_, err = p.writer.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(p.writer, p.Text(v))
		return err
	}
}

// Text returns the infix rendering of v, honoring MaxDepth.
func (p *Printer) Text(v expr.View) string {
	var t textWriter
	t.maxDepth = p.opts.MaxDepth
	t.expr(v, 0, precLowest)
	return t.String()
}

// String renders v as infix text with default options.
func String(v expr.View) string {
	return New(io.Discard, DefaultOptions()).Text(v)
}
