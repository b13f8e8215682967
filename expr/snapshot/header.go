// Package snapshot persists expressions as versioned files and maps them back
// in without copying.
//
// A snapshot is a 32-byte header followed by the cell bytes of one root
// expression. Because cells hold no pointers, the bytes on disk are the bytes
// in memory: Open maps the file read-only and hands out views directly on the
// mapping, guarded by a lease that Close releases.
package snapshot

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/joshuapare/symkit/internal/buf"
	"github.com/joshuapare/symkit/internal/format"
)

// Header layout (32 bytes, little-endian):
//
//	Offset  Size  Field
//	0x00    4     Magic "sxpr"
//	0x04    2     Wire version
//	0x06    2     Cell size in bytes
//	0x08    1     Limb width in bits
//	0x09    1     Symbol name width in bytes
//	0x0A    2     Reserved (zero)
//	0x0C    4     CRC-32C of the cell bytes
//	0x10    8     Cell count
//	0x18    8     Reserved (zero)
const (
	HeaderSize = 32

	magicOffset     = 0x00
	versionOffset   = 0x04
	cellSizeOffset  = 0x06
	limbBitsOffset  = 0x08
	nameWidthOffset = 0x09
	checksumOffset  = 0x0C
	cellCountOffset = 0x10
)

var magic = [4]byte{'s', 'x', 'p', 'r'}

var (
	// ErrMagic indicates data that does not start with a snapshot header.
	ErrMagic = errors.New("snapshot: bad magic")
	// ErrChecksum indicates cell bytes that do not match the recorded CRC.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Header describes the cells that follow it.
type Header struct {
	Version   uint16
	CellSize  uint16
	LimbBits  uint8
	NameWidth uint8
	Checksum  uint32
	Cells     uint64
}

// headerFor returns the header of the current wire layout for cells.
func headerFor(cells []byte) Header {
	return Header{
		Version:   format.WireVersion,
		CellSize:  format.CellSize,
		LimbBits:  format.LimbBits,
		NameWidth: format.SymbolNameWidth,
		Checksum:  crc32.Checksum(cells, castagnoli),
		Cells:     uint64(len(cells) / format.CellSize),
	}
}

// MarshalBinary encodes h.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	copy(b[magicOffset:], magic[:])
	format.PutU16(b, versionOffset, h.Version)
	format.PutU16(b, cellSizeOffset, h.CellSize)
	b[limbBitsOffset] = h.LimbBits
	b[nameWidthOffset] = h.NameWidth
	format.PutU32(b, checksumOffset, h.Checksum)
	format.PutU64(b, cellCountOffset, h.Cells)
	return b, nil
}

// ParseHeader decodes and checks the header at the start of data. It rejects
// layouts this build cannot read; it does not look at the cells.
func ParseHeader(data []byte) (Header, error) {
	if !buf.Has(data, 0, HeaderSize) {
		return Header{}, fmt.Errorf("snapshot: header needs %d bytes, have %d: %w",
			HeaderSize, len(data), format.ErrTruncated)
	}
	if [4]byte(data[magicOffset:magicOffset+4]) != magic {
		return Header{}, fmt.Errorf("snapshot: %q: %w", data[:4], ErrMagic)
	}
	h := Header{
		Version:   buf.U16LE(data[versionOffset:]),
		CellSize:  buf.U16LE(data[cellSizeOffset:]),
		LimbBits:  data[limbBitsOffset],
		NameWidth: data[nameWidthOffset],
		Checksum:  buf.U32LE(data[checksumOffset:]),
		Cells:     buf.U64LE(data[cellCountOffset:]),
	}
	if h.Version != format.WireVersion || h.CellSize != format.CellSize ||
		h.LimbBits != format.LimbBits || h.NameWidth != format.SymbolNameWidth {
		return Header{}, fmt.Errorf("snapshot: version %d, cell %d bytes, limb %d bits, name %d bytes: %w",
			h.Version, h.CellSize, h.LimbBits, h.NameWidth, format.ErrUnsupported)
	}
	return h, nil
}

// Split parses the header of a whole snapshot file and returns it with the
// checksummed cell bytes, which alias data. The cells are not validated.
func Split(data []byte) (Header, []byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	cells, err := cellsOf(h, data)
	if err != nil {
		return Header{}, nil, err
	}
	return h, cells, nil
}

// cellsOf returns the cell bytes described by h and verifies their checksum.
func cellsOf(h Header, data []byte) ([]byte, error) {
	n, ok := buf.CellsToInt(h.Cells)
	if !ok {
		return nil, fmt.Errorf("snapshot: cell count %d: %w", h.Cells, format.ErrTruncated)
	}
	size, ok := buf.MulOverflowSafe(n, format.CellSize)
	if !ok {
		return nil, fmt.Errorf("snapshot: cell count %d: %w", h.Cells, format.ErrTruncated)
	}
	cells, ok := buf.Slice(data, HeaderSize, size)
	if !ok {
		return nil, fmt.Errorf("snapshot: %d cells need %d bytes, have %d: %w",
			n, size, len(data)-HeaderSize, format.ErrTruncated)
	}
	if len(data) != HeaderSize+size {
		return nil, fmt.Errorf("snapshot: %d bytes after the last cell: %w",
			len(data)-HeaderSize-size, format.ErrCorrupt)
	}
	if sum := crc32.Checksum(cells, castagnoli); sum != h.Checksum {
		return nil, fmt.Errorf("snapshot: crc %08x, header records %08x: %w", sum, h.Checksum, ErrChecksum)
	}
	return cells, nil
}
