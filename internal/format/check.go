package format

import (
	"fmt"
	"math"
	"math/big"

	"github.com/joshuapare/symkit/internal/buf"
)

// CheckRun validates an untrusted buffer that must hold exactly one complete
// expression. It verifies every discriminant, reserved byte, name field,
// large-integer normalization, small rational canonical form and, for every
// composite, that walking its logical children lands exactly on the end recorded
// in its header. The first violation is returned as a *CorruptionError; callers
// must then reject the whole buffer.
func CheckRun(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("run: empty buffer: %w", ErrTruncated)
	}
	if len(b)%CellSize != 0 {
		return fmt.Errorf("run: %d bytes is not a whole number of %d-byte cells: %w",
			len(b), CellSize, ErrTruncated)
	}
	c := checker{b: b, n: len(b) / CellSize}
	end, err := c.expr(0, 0)
	if err != nil {
		return err
	}
	if end != c.n {
		return corrupt(end, KindAt(At(b, 0)), ErrSpanMismatch,
			"root span ends at cell %d but buffer holds %d cells", end, c.n)
	}
	return nil
}

type checker struct {
	b []byte
	n int
}

func (c *checker) expr(i, depth int) (int, error) {
	if depth > MaxDepth {
		return 0, corrupt(i, 0, nil, "nesting deeper than %d", MaxDepth)
	}
	if i >= c.n {
		return 0, corrupt(i, 0, ErrTruncated, "header expected past end of buffer")
	}
	cell := At(c.b, i)
	k, err := KindOf(cell)
	if err != nil {
		return 0, corrupt(i, k, ErrUnknownKind, "discriminant %d", uint8(k))
	}
	if f := FlagsOf(cell); f.Reserved() {
		return 0, corrupt(i, k, nil, "reserved flag bits set: %#02x", uint8(f))
	}

	switch k {
	case KindSmallInt, KindSmallRational:
		if !allZero(cell[PreOffset:MainOffset]) {
			return 0, corrupt(i, k, nil, "reserved bytes not zero")
		}
		num, den := ReadSmall(cell)
		if k == KindSmallInt && den != 1 {
			return 0, corrupt(i, k, nil, "integer with denominator %d", den)
		}
		if k == KindSmallRational {
			if den <= 1 || num == 0 {
				return 0, corrupt(i, k, nil, "rational %d/%d is not canonical", num, den)
			}
			if gcd(absI64(int64(num)), int64(den)) != 1 {
				return 0, corrupt(i, k, nil, "rational %d/%d is not in lowest terms", num, den)
			}
		}
		return i + 1, nil

	case KindFloat:
		if !allZero(cell[PreOffset:MainOffset]) {
			return 0, corrupt(i, k, nil, "reserved bytes not zero")
		}
		return i + 1, nil

	case KindSymbol:
		if !ValidNameField(SymbolField(cell)) {
			return 0, corrupt(i, k, ErrName, "malformed symbol name field")
		}
		return i + 1, nil

	case KindConstant:
		if !ValidNameField(ConstantField(cell)) {
			return 0, corrupt(i, k, ErrName, "malformed constant name field")
		}
		if v := ReadConstantValue(cell); math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, corrupt(i, k, nil, "constant value %v is not finite", v)
		}
		return i + 1, nil

	case KindLargeInt:
		return c.largeInt(i, cell)

	default:
		return c.composite(i, k, cell, depth)
	}
}

func (c *checker) largeInt(i int, cell []byte) (int, error) {
	const k = KindLargeInt
	if !allZero(cell[PreOffset:MidOffset]) {
		return 0, corrupt(i, k, nil, "reserved bytes not zero")
	}
	sign := ReadSign(cell)
	if sign < -1 || sign > 1 {
		return 0, corrupt(i, k, nil, "sign %d out of range", sign)
	}
	nLimbs, ok := buf.CellsToInt(ReadTrailing(cell))
	if !ok {
		return 0, corrupt(i, k, ErrTruncated, "limb count %d", ReadTrailing(cell))
	}
	end, err := buf.CheckCellRange(c.n, i+1, nLimbs, CellSize)
	if err != nil {
		return 0, corrupt(i, k, ErrTruncated, "limbs: %v", err)
	}
	if (sign == 0) != (nLimbs == 0) {
		return 0, corrupt(i, k, nil, "sign %d with %d limbs", sign, nLimbs)
	}
	if nLimbs > 0 && ReadLimb(At(c.b, end-1)).IsZero() {
		return 0, corrupt(end-1, k, nil, "most significant limb is zero")
	}
	return end, nil
}

func (c *checker) composite(i int, k Kind, cell []byte, depth int) (int, error) {
	if !allZero(cell[PreOffset:MidOffset]) {
		return 0, corrupt(i, k, nil, "reserved bytes not zero")
	}
	count := int(ReadCount(cell))
	trailing, ok := buf.CellsToInt(ReadTrailing(cell))
	if !ok {
		return 0, corrupt(i, k, ErrTruncated, "trailing count %d", ReadTrailing(cell))
	}
	end, err := buf.CheckCellRange(c.n, i+1, trailing, CellSize)
	if err != nil {
		return 0, corrupt(i, k, ErrTruncated, "span: %v", err)
	}
	if n, fixed := k.FixedArity(); fixed && count != n {
		return 0, corrupt(i, k, nil, "%d operands, want %d", count, n)
	}
	if count < k.MinArity() {
		return 0, corrupt(i, k, nil, "%d operands, want at least %d", count, k.MinArity())
	}
	hdr := k.HeaderCells()
	if count > trailing-(hdr-1) {
		return 0, corrupt(i, k, ErrSpanMismatch, "%d operands cannot fit in %d cells", count, trailing)
	}
	if k.IsFunction() && !ValidNameField(At(c.b, i+1)) {
		return 0, corrupt(i+1, k, ErrName, "malformed function name cell")
	}

	large := false
	var parts [2]*big.Int
	cur := i + hdr
	for j := range count {
		next, err := c.expr(cur, depth+1)
		if err != nil {
			return 0, err
		}
		if next > end {
			return 0, corrupt(i, k, ErrSpanMismatch,
				"operand %d ends at cell %d, past recorded end %d", j, next, end)
		}
		child := At(c.b, cur)
		switch k {
		case KindComplex:
			if !KindAt(child).IsRealNumber() {
				return 0, corrupt(cur, KindAt(child), nil, "complex part must be a real number")
			}
		case KindLargeRational:
			if err := c.rationalPart(cur, child, j); err != nil {
				return 0, err
			}
			large = large || KindAt(child) == KindLargeInt
			parts[j] = c.integer(cur, child)
		}
		cur = next
	}
	if cur != end {
		return 0, corrupt(i, k, ErrSpanMismatch,
			"operands end at cell %d, header records %d", cur, end)
	}
	if k == KindLargeRational {
		if !large {
			return 0, corrupt(i, k, nil, "both parts fit a small rational")
		}
		num, den := parts[0], parts[1]
		if den.IsInt64() && den.Int64() == 1 {
			return 0, corrupt(i, k, nil, "denominator of one")
		}
		if g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den); !g.IsInt64() || g.Int64() != 1 {
			return 0, corrupt(i, k, nil, "rational is not in lowest terms (gcd %s)", g)
		}
	}
	return end, nil
}

// integer returns the value of the validated integer span at cell i.
func (c *checker) integer(i int, cell []byte) *big.Int {
	if KindAt(cell) == KindSmallInt {
		num, _ := ReadSmall(cell)
		return big.NewInt(int64(num))
	}
	n := int(ReadTrailing(cell))
	limbs := make([]Limb, n)
	for j := range limbs {
		limbs[j] = ReadLimb(At(c.b, i+1+j))
	}
	return BigFromLimbs(ReadSign(cell), limbs)
}

func (c *checker) rationalPart(i int, cell []byte, j int) error {
	var sign int
	switch KindAt(cell) {
	case KindSmallInt:
		num, _ := ReadSmall(cell)
		sign = cmpZero(int64(num))
		if j == 1 && num == 1 {
			return corrupt(i, KindSmallInt, nil, "denominator of one")
		}
	case KindLargeInt:
		sign = int(ReadSign(cell))
	default:
		return corrupt(i, KindAt(cell), nil, "rational part must be an integer")
	}
	if sign == 0 {
		return corrupt(i, KindAt(cell), nil, "zero rational part")
	}
	if j == 1 && sign < 0 {
		return corrupt(i, KindAt(cell), nil, "negative denominator")
	}
	return nil
}

func allZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func cmpZero(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
