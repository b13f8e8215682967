package expr

import (
	"github.com/joshuapare/symkit/internal/format"
	"github.com/joshuapare/symkit/internal/logger"
)

// cellFlags derives the flags of a span that has no logical children from its
// header cell alone.
func cellFlags(c []byte) Flag {
	const num = FlagNumeric | FlagReal
	switch format.KindAt(c) {
	case KindSmallInt, KindSmallRational:
		n, _ := format.ReadSmall(c)
		return num | FlagExact | format.SignFlag(int(n))
	case KindLargeInt:
		return num | FlagExact | format.SignFlag(int(format.ReadSign(c)))
	case KindFloat:
		return num | format.SignFlag(cmp0(format.ReadFloat(c)))
	case KindConstant:
		return num | FlagExact | format.SignFlag(cmp0(format.ReadConstantValue(c)))
	case KindSymbol:
		return FlagExact | domainOf(format.FlagsOf(c)).flags()
	default:
		return FlagNone
	}
}

// flagFold combines the flags of a composite's children, one at a time.
type flagFold struct {
	k        Kind
	n        int
	all      Flag // bits set on every child
	negative int
	unsigned bool // some child has no known sign
	parts    [2]Flag
}

func newFlagFold(k Kind) flagFold {
	return flagFold{k: k, all: format.FlagMask}
}

func (f *flagFold) add(c Flag) {
	if f.n < len(f.parts) {
		f.parts[f.n] = c
	}
	f.n++
	f.all &= c
	switch {
	case c.Has(FlagNegative):
		f.negative++
	case !c.Has(FlagPositive):
		f.unsigned = true
	}
}

func (f *flagFold) result() Flag {
	shared := f.all & (FlagNumeric | FlagExact)
	switch f.k {
	case KindLargeRational:
		return FlagNumeric | FlagReal | FlagExact | f.parts[0]&(FlagPositive|FlagNegative)
	case KindSum:
		return shared | f.all&(FlagReal|FlagPositive|FlagNegative)
	case KindProduct:
		out := shared | f.all&FlagReal
		if !f.unsigned {
			if f.negative%2 == 0 {
				out |= FlagPositive
			} else {
				out |= FlagNegative
			}
		}
		return out
	case KindPower:
		base, exp := f.parts[0], f.parts[1]
		if base.Has(FlagPositive) && exp.Has(FlagReal) {
			return shared | FlagReal | FlagPositive
		}
		return shared
	default:
		// complex numbers and function applications
		return shared
	}
}

// DeriveFlags recomputes the flags of v from its content, ignoring every cached
// flag byte below it. It costs O(span).
func DeriveFlags(v View) Flag {
	return StaleFlags(v, nil)
}

// StaleFunc receives a span whose cached flags differ from the derived ones.
// cell is the span's index relative to the root of the walk.
type StaleFunc func(cell int, span View, cached, derived Flag)

// StaleFlags derives the flags of v in one post-order pass and calls fn, when
// non-nil, for every span below or at v whose cache disagrees. It returns the
// derived flags of v.
func StaleFlags(v View, fn StaleFunc) Flag {
	return staleAt(v, 0, fn)
}

func staleAt(v View, cell int, fn StaleFunc) Flag {
	k := v.Kind()
	var derived Flag
	if k.IsComposite() {
		fold := newFlagFold(k)
		next := cell + k.HeaderCells()
		for c := range v.Operands().Values() {
			fold.add(staleAt(c, next, fn))
			next += c.Span()
		}
		derived = fold.result()
	} else {
		derived = cellFlags(v.head())
	}
	if fn != nil {
		if cached := v.Flags(); cached != derived {
			fn(cell, v, cached, derived)
		}
	}
	return derived
}

// CheckedFlags returns the flags of v after comparing the cached bits with
// DeriveFlags. On disagreement it logs and returns the derived flags; builds
// with the symkitdebug tag panic with a *CorruptionError instead.
func (v View) CheckedFlags() Flag {
	cached := v.Flags()
	derived := DeriveFlags(v)
	if cached == derived {
		return cached
	}
	if strictFlags {
		panic(&CorruptionError{
			Kind:   v.Kind(),
			Reason: "cached flags " + cached.String() + ", derived " + derived.String(),
			Err:    ErrFlagMismatch,
		})
	}
	logger.Warn("expr: stale flag cache", "kind", v.Kind().String(),
		"cached", cached.String(), "derived", derived.String())
	return derived
}

// refreshFlags rewrites the flags of every span in the run starting at cell i
// of a validated, privately owned buffer. It returns how many headers changed
// and the lowest such cell, or -1.
func refreshFlags(b []byte, i int) (fixed, first int) {
	first = -1
	refreshAt(b, i, &fixed, &first)
	return fixed, first
}

func refreshAt(b []byte, i int, fixed, first *int) (Flag, int) {
	c := format.At(b, i)
	k := format.KindAt(c)
	var derived Flag
	end := i + format.SpanAt(c)
	if k.IsComposite() {
		fold := newFlagFold(k)
		cur := i + k.HeaderCells()
		for range format.ReadCount(c) {
			var f Flag
			f, cur = refreshAt(b, cur, fixed, first)
			fold.add(f)
		}
		derived = fold.result()
	} else {
		derived = cellFlags(c)
	}
	if format.FlagsOf(c) != derived {
		if *first < 0 || i < *first {
			*first = i
		}
		*fixed++
		format.SetFlags(c, derived)
	}
	return derived, end
}
