package format

import (
	"encoding/binary"
	"math/big"
)

// Limb is one 128-bit word of a large integer's magnitude. Limbs are stored
// least-significant first, one per cell, with the low half in bytes 0..7.
type Limb struct {
	Lo, Hi uint64
}

// IsZero reports whether every bit of l is clear.
func (l Limb) IsZero() bool {
	return l.Lo == 0 && l.Hi == 0
}

// PutLimb writes l into the cell starting at c.
func PutLimb(c []byte, l Limb) {
	PutU64(c, LimbLoOff, l.Lo)
	PutU64(c, LimbHiOff, l.Hi)
}

// ReadLimb reads the limb stored in the cell starting at c.
func ReadLimb(c []byte) Limb {
	return Limb{Lo: ReadU64(c, LimbLoOff), Hi: ReadU64(c, LimbHiOff)}
}

const limbBytes = LimbBits / 8

// LimbsOf returns the magnitude of x as trimmed limbs. Zero yields no limbs.
func LimbsOf(x *big.Int) []Limb {
	mag := x.Bytes() // big-endian, no leading zeros
	n := (len(mag) + limbBytes - 1) / limbBytes
	if n == 0 {
		return nil
	}
	padded := make([]byte, n*limbBytes)
	copy(padded[len(padded)-len(mag):], mag)

	limbs := make([]Limb, n)
	for i := range n {
		// limb i counts from the least significant end
		end := len(padded) - i*limbBytes
		w := padded[end-limbBytes : end]
		limbs[i] = Limb{Hi: binary.BigEndian.Uint64(w[:8]), Lo: binary.BigEndian.Uint64(w[8:])}
	}
	return limbs
}

// TrimLimbs drops most significant all-zero limbs.
func TrimLimbs(limbs []Limb) []Limb {
	n := len(limbs)
	for n > 0 && limbs[n-1].IsZero() {
		n--
	}
	return limbs[:n]
}

// BigFromLimbs assembles a signed big integer from a sign and limbs stored
// least-significant first.
func BigFromLimbs(sign int32, limbs []Limb) *big.Int {
	mag := make([]byte, len(limbs)*limbBytes)
	for i, l := range limbs {
		end := len(mag) - i*limbBytes
		binary.BigEndian.PutUint64(mag[end-limbBytes:end-8], l.Hi)
		binary.BigEndian.PutUint64(mag[end-8:end], l.Lo)
	}
	x := new(big.Int).SetBytes(mag)
	if sign < 0 {
		x.Neg(x)
	}
	return x
}
