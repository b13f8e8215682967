// Package format houses the low-level cell layout of the expression store: the
// kind discriminants, flag bits, fixed field offsets, and the encoders and
// decoders for individual cells. The goal is to keep the byte-level contract in
// one place, allocation-free where possible, and independent from the public
// API so higher-level packages can orchestrate the data in a more ergonomic form.
//
// Every multi-byte field is little-endian. The layout below is the wire format
// once a buffer leaves the process (see expr/snapshot), so any change requires a
// WireVersion bump.
package format

// WireVersion identifies the cell layout described in this package.
const WireVersion = 1

// Cell layout (16 bytes, little-endian):
//
//	Offset  Size  Field
//	0x00    1     Kind discriminant (0 is never valid)
//	0x01    1     Flag bits (cache derived from content)
//	0x02    2     pre:  name bytes or reserved
//	0x04    4     mid:  name bytes, sign, or logical child count
//	0x08    8     main: name bytes, payload, or trailing cell count
const (
	CellSize = 16

	KindOffset  = 0x00
	FlagsOffset = 0x01
	PreOffset   = 0x02
	MidOffset   = 0x04
	MainOffset  = 0x08

	PreLen  = MidOffset - PreOffset  // 0x02
	MidLen  = MainOffset - MidOffset // 0x04
	MainLen = CellSize - MainOffset  // 0x08
)

// Small exact numbers keep numerator and denominator inline in main.
const (
	NumOffset = MainOffset     // int32
	DenOffset = MainOffset + 4 // int32
)

// Name fields. Names are zero padded and end at the first zero byte or at the
// field width, whichever comes first.
const (
	SymbolNameOffset = PreOffset
	SymbolNameWidth  = PreLen + MidLen + MainLen // 14

	ConstantNameOffset = PreOffset
	ConstantNameWidth  = PreLen + MidLen // 6
	ConstantValueOff   = MainOffset

	// Functions spend a whole cell after the header on their name.
	FunctionNameWidth = CellSize
)

// Extension and composite headers.
const (
	// SignOffset holds the int32 sign of a large integer.
	SignOffset = MidOffset
	// CountOffset holds the uint32 logical child count of a composite.
	CountOffset = MidOffset
	// TrailingOffset holds the uint64 number of cells following the header
	// cell that belong to the same span.
	TrailingOffset = MainOffset
)

// Limbs of large integers.
const (
	// LimbBits is the width of one limb. A limb occupies exactly one cell as
	// two 64-bit halves, low half first.
	LimbBits  = CellSize * 8
	LimbLoOff = 0x00
	LimbHiOff = 0x08
)

// Structural limits.
const (
	// MaxOperands is the largest logical child count a composite header can record.
	MaxOperands = 1<<32 - 1

	// MaxDepth bounds recursion while validating untrusted buffers.
	MaxDepth = 1 << 16
)
