package format

import (
	"math/big"
	"testing"
)

func TestLimbsOfPowerOfTwo(t *testing.T) {
	x := new(big.Int).Lsh(big.NewInt(1), 100)
	limbs := LimbsOf(x)
	if len(limbs) != 1 {
		t.Fatalf("2^100 needs %d limbs, want 1", len(limbs))
	}
	if limbs[0].Lo != 0 || limbs[0].Hi != 1<<36 {
		t.Fatalf("limb = %+v", limbs[0])
	}

	y := new(big.Int).Lsh(big.NewInt(1), 200)
	limbs = LimbsOf(y)
	if len(limbs) != 2 || limbs[1].IsZero() || !limbs[0].IsZero() {
		t.Fatalf("2^200 limbs = %+v", limbs)
	}
}

func TestLimbsRoundTrip(t *testing.T) {
	values := []string{
		"1",
		"18446744073709551615",
		"18446744073709551616",
		"340282366920938463463374607431768211455",
		"340282366920938463463374607431768211456",
		"-98765432109876543210987654321098765432109876543210",
	}
	for _, s := range values {
		x, _ := new(big.Int).SetString(s, 10)
		sign := int32(x.Sign())
		got := BigFromLimbs(sign, LimbsOf(x))
		if got.Cmp(x) != 0 {
			t.Fatalf("round trip %s -> %s", s, got)
		}
	}
	if LimbsOf(new(big.Int)) != nil {
		t.Fatalf("zero must have no limbs")
	}
}

func TestTrimLimbs(t *testing.T) {
	limbs := []Limb{{Lo: 5}, {}, {}}
	if got := TrimLimbs(limbs); len(got) != 1 {
		t.Fatalf("TrimLimbs kept %d limbs", len(got))
	}
	if got := TrimLimbs([]Limb{{}, {}}); len(got) != 0 {
		t.Fatalf("all-zero limbs should trim to nothing")
	}
}

func TestLimbCell(t *testing.T) {
	c := make([]byte, CellSize)
	PutLimb(c, Limb{Lo: 0x0102030405060708, Hi: 0xa0b0c0d0e0f00010})
	if c[0] != 0x08 || c[8] != 0x10 {
		t.Fatalf("limb halves not little-endian: % x", c)
	}
	if got := ReadLimb(c); got.Lo != 0x0102030405060708 || got.Hi != 0xa0b0c0d0e0f00010 {
		t.Fatalf("ReadLimb = %+v", got)
	}
}
