package format

import "strings"

// Flag is the bit set stored in the second byte of a header cell. Flags are a
// cache of properties derivable from the span's content; symbols are the one
// exception, where Real and Positive record the caller's domain assumption.
type Flag uint8

const (
	FlagNone     Flag = 0
	FlagNumeric  Flag = 1 << 0 // evaluates to a number (no symbols below)
	FlagPositive Flag = 1 << 1
	FlagNegative Flag = 1 << 2
	FlagReal     Flag = 1 << 3
	FlagExact    Flag = 1 << 4 // no floating-point leaf below

	// FlagMask covers every defined bit; the rest must be zero.
	FlagMask = FlagNumeric | FlagPositive | FlagNegative | FlagReal | FlagExact

	// DomainMask covers the bits a symbol may carry as an assumption.
	DomainMask = FlagReal | FlagPositive
)

// Has reports whether all bits of o are set in f.
func (f Flag) Has(o Flag) bool {
	return f&o == o
}

// Reserved reports whether f carries undefined bits.
func (f Flag) Reserved() bool {
	return f&^FlagMask != 0
}

func (f Flag) String() string {
	if f == FlagNone {
		return "none"
	}
	var parts []string
	for _, p := range []struct {
		bit  Flag
		name string
	}{
		{FlagNumeric, "numeric"},
		{FlagPositive, "positive"},
		{FlagNegative, "negative"},
		{FlagReal, "real"},
		{FlagExact, "exact"},
	} {
		if f&p.bit != 0 {
			parts = append(parts, p.name)
		}
	}
	if f.Reserved() {
		parts = append(parts, "reserved")
	}
	return strings.Join(parts, "|")
}

// SignFlag returns FlagPositive, FlagNegative or FlagNone for a sign value.
func SignFlag(sign int) Flag {
	switch {
	case sign > 0:
		return FlagPositive
	case sign < 0:
		return FlagNegative
	default:
		return FlagNone
	}
}
