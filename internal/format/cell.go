package format

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// At returns the CellSize bytes of cell i in b. It panics like a slice
// expression when i is out of range.
func At(b []byte, i int) []byte {
	off := i * CellSize
	return b[off : off+CellSize : off+CellSize]
}

// NumCells returns the number of whole cells in b.
func NumCells(b []byte) int {
	return len(b) / CellSize
}

// KindAt reads the raw discriminant of the cell starting at c.
func KindAt(c []byte) Kind {
	return Kind(c[KindOffset])
}

// KindOf reads and validates the discriminant of the cell starting at c.
func KindOf(c []byte) (Kind, error) {
	k := Kind(c[KindOffset])
	if !k.Valid() {
		return k, fmt.Errorf("kind %d: %w", uint8(k), ErrUnknownKind)
	}
	return k, nil
}

// FlagsOf reads the flag byte of the cell starting at c.
func FlagsOf(c []byte) Flag {
	return Flag(c[FlagsOffset])
}

// PutHeader writes the kind and flags of a header cell and clears the rest.
func PutHeader(c []byte, k Kind, f Flag) {
	clear(c[:CellSize])
	c[KindOffset] = byte(k)
	c[FlagsOffset] = byte(f)
}

// SetFlags overwrites the flag byte of a header cell.
func SetFlags(c []byte, f Flag) {
	c[FlagsOffset] = byte(f)
}

// --- small exact numbers ---

// PutSmall writes a self-contained small integer or rational cell.
func PutSmall(c []byte, k Kind, f Flag, num, den int32) {
	PutHeader(c, k, f)
	PutI32(c, NumOffset, num)
	PutI32(c, DenOffset, den)
}

// ReadSmall returns numerator and denominator of a small exact number cell.
func ReadSmall(c []byte) (num, den int32) {
	return ReadI32(c, NumOffset), ReadI32(c, DenOffset)
}

// --- floating point ---

// PutFloat writes a floating-point cell. The bit pattern is stored as is, so
// NaN payloads and signed zeros survive a round trip.
func PutFloat(c []byte, f Flag, v float64) {
	PutHeader(c, KindFloat, f)
	PutU64(c, MainOffset, math.Float64bits(v))
}

// ReadFloatBits returns the raw IEEE-754 bits of a floating-point cell.
func ReadFloatBits(c []byte) uint64 {
	return ReadU64(c, MainOffset)
}

// ReadFloat returns the value of a floating-point cell.
func ReadFloat(c []byte) float64 {
	return math.Float64frombits(ReadU64(c, MainOffset))
}

// --- names ---

// CheckName reports whether name can be stored in a field of the given width.
func CheckName(name string, width int) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", ErrName)
	case len(name) > width:
		return fmt.Errorf("name %q exceeds %d bytes: %w", name, width, ErrName)
	case strings.IndexByte(name, 0) >= 0:
		return fmt.Errorf("name %q contains a zero byte: %w", name, ErrName)
	case !utf8.ValidString(name):
		return fmt.Errorf("name %q is not valid UTF-8: %w", name, ErrName)
	}
	return nil
}

// PutName copies name into field and zero pads the remainder.
func PutName(field []byte, name string) error {
	if err := CheckName(name, len(field)); err != nil {
		return err
	}
	n := copy(field, name)
	clear(field[n:])
	return nil
}

// NameBytes returns the stored name bytes of field: everything before the
// first zero byte, or the whole field when it is full. The result aliases field.
func NameBytes(field []byte) []byte {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return field[:i]
	}
	return field
}

// ValidNameField reports whether field holds a non-empty name followed only by
// zero padding.
func ValidNameField(field []byte) bool {
	name := NameBytes(field)
	if len(name) == 0 || !utf8.Valid(name) {
		return false
	}
	for _, b := range field[len(name):] {
		if b != 0 {
			return false
		}
	}
	return true
}

// SymbolField returns the name field of a symbol cell.
func SymbolField(c []byte) []byte {
	return c[SymbolNameOffset : SymbolNameOffset+SymbolNameWidth]
}

// ConstantField returns the name field of a constant cell.
func ConstantField(c []byte) []byte {
	return c[ConstantNameOffset : ConstantNameOffset+ConstantNameWidth]
}

// PutSymbol writes a symbol cell. Only the domain bits of f are kept.
func PutSymbol(c []byte, f Flag, name string) error {
	if err := CheckName(name, SymbolNameWidth); err != nil {
		return err
	}
	PutHeader(c, KindSymbol, f)
	return PutName(SymbolField(c), name)
}

// PutConstant writes a named constant with its numeric value.
func PutConstant(c []byte, f Flag, name string, value float64) error {
	if err := CheckName(name, ConstantNameWidth); err != nil {
		return err
	}
	PutHeader(c, KindConstant, f)
	if err := PutName(ConstantField(c), name); err != nil {
		return err
	}
	PutU64(c, ConstantValueOff, math.Float64bits(value))
	return nil
}

// ReadConstantValue returns the numeric value of a constant cell.
func ReadConstantValue(c []byte) float64 {
	return math.Float64frombits(ReadU64(c, ConstantValueOff))
}

// --- extension and composite headers ---

// PutLargeIntHeader writes the header of a large integer followed by nLimbs limb cells.
func PutLargeIntHeader(c []byte, f Flag, sign int32, nLimbs uint64) {
	PutHeader(c, KindLargeInt, f)
	PutI32(c, SignOffset, sign)
	PutU64(c, TrailingOffset, nLimbs)
}

// ReadSign returns the sign recorded in a large integer header.
func ReadSign(c []byte) int32 {
	return ReadI32(c, SignOffset)
}

// PutCompositeHeader writes a composite header recording the logical child
// count and the number of cells that follow the header cell.
func PutCompositeHeader(c []byte, k Kind, f Flag, nOperands uint32, trailing uint64) {
	PutHeader(c, k, f)
	PutU32(c, CountOffset, nOperands)
	PutU64(c, TrailingOffset, trailing)
}

// ReadCount returns the logical child count of a composite header.
func ReadCount(c []byte) uint32 {
	return ReadU32(c, CountOffset)
}

// ReadTrailing returns the trailing cell count of a large integer or composite header.
func ReadTrailing(c []byte) uint64 {
	return ReadU64(c, TrailingOffset)
}

// SpanAt returns the physical span of the expression whose header starts at c,
// in O(1). It trusts the header; use CheckRun on untrusted buffers first.
func SpanAt(c []byte) int {
	if KindAt(c).HasTrailing() {
		return 1 + int(ReadTrailing(c))
	}
	return 1
}
