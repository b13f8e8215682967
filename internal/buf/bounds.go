package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false when the
// result would overflow int or either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CellsToInt converts a cell count read from a header into an int, rejecting
// counts that cannot index a Go slice.
func CellsToInt(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// CheckCellRange validates that count cells of cellSize bytes starting at cell
// index first fit in a buffer of totalCells cells. Returns the sentinel cell
// index (first + count) when valid.
//
// Typical use when following a span recorded in a header:
//
//	end, err := buf.CheckCellRange(nCells, i+1, trailing, format.CellSize)
//	if err != nil {
//	    return fmt.Errorf("span: %w", err)
//	}
func CheckCellRange(totalCells, first, count, cellSize int) (int, error) {
	if first < 0 {
		return 0, fmt.Errorf("negative cell index: %d", first)
	}
	if count < 0 {
		return 0, fmt.Errorf("negative cell count: %d", count)
	}
	if _, ok := MulOverflowSafe(count, cellSize); !ok {
		return 0, fmt.Errorf("overflow: count=%d * cellSize=%d", count, cellSize)
	}
	end, ok := AddOverflowSafe(first, count)
	if !ok {
		return 0, fmt.Errorf("overflow: first=%d + count=%d", first, count)
	}
	if end > totalCells {
		return 0, fmt.Errorf("bounds: end=%d > cells=%d", end, totalCells)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
