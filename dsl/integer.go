package dsl

import (
	"math"
	"reflect"

	"github.com/samber/lo"
	"golang.org/x/exp/constraints"

	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Integer returns a parser for decimal integer literals within [min, max].
//
// A leading '-' is accepted only when min is negative. Digits are consumed
// greedily; a sign or digit after which no continuation can land in
// [min, max] is rejected at once with chunkparse.CodeOutOfRange. Leading zeros
// are not allowed, so "0" completes the literal, and "-0" is rejected. A
// non-digit byte ends the literal and is left unconsumed. At the end of a
// chunk the literal is finished when no further digit could keep it in range;
// otherwise the parser waits for more bytes, or for an empty chunk (end of
// input) to finalize the digits seen so far.
func Integer(min, max chunkparse.Int) chunkparse.Parser[chunkparse.Int] {
	return integerParser{min: min, max: max}
}

type integerParser struct{ min, max chunkparse.Int }

type integerState struct {
	neg    bool
	digits int
	mag    uint64
}

var zeroInt chunkparse.Int

func (p integerParser) Start() chunkparse.State { return integerState{} }

func (p integerParser) Parse(st chunkparse.State, in []byte) (chunkparse.Result[chunkparse.Int], error) {
	var fail chunkparse.Result[chunkparse.Int]
	s, err := stateAs[integerState]("integer", st)
	if err != nil {
		return fail, err
	}
	if len(in) == 0 {
		if s.digits > 0 {
			return p.finish(s, 0, in)
		}
		return chunkparse.Pending[chunkparse.Int](s), nil
	}
	for i, c := range in {
		switch {
		case c == '-' && s.digits == 0 && !s.neg && p.min.Cmp(zeroInt) < 0:
			s.neg = true
			if _, later := p.reach(s); !later {
				return fail, p.outOfRange(i)
			}
		case c >= '0' && c <= '9':
			if s.digits > 0 && s.mag == 0 {
				return fail, chunkparse.MismatchAt(i, "non-digit", string(c))
			}
			if c == '0' && s.neg && s.digits == 0 {
				return fail, chunkparse.MismatchAt(i, "non-zero digit", "0")
			}
			d := uint64(c - '0')
			if s.mag > (math.MaxUint64-d)/10 {
				return fail, p.outOfRange(i)
			}
			s.mag = s.mag*10 + d
			s.digits++
			if now, later := p.reach(s); !now && !later {
				return fail, p.outOfRange(i)
			}
		default:
			return p.finish(s, i, in[i:])
		}
	}
	if s.digits > 0 && !p.canExtend(s) {
		return p.finish(s, len(in), in[len(in):])
	}
	return chunkparse.Pending[chunkparse.Int](s), nil
}

// canExtend reports whether appending digits could still yield a value
// within range.
func (p integerParser) canExtend(s integerState) bool {
	_, later := p.reach(s)
	return later
}

// magnitudes returns the magnitudes a literal of the given sign may take.
func (p integerParser) magnitudes(neg bool) (lo, hi uint64, ok bool) {
	if neg {
		if !p.min.Neg {
			return 0, 0, false
		}
		hi = p.min.Mag
		if p.max.Neg {
			lo = p.max.Mag
		}
	} else {
		if p.max.Neg && p.max.Mag > 0 {
			return 0, 0, false
		}
		if !p.max.Neg {
			hi = p.max.Mag
		}
		if !p.min.Neg {
			lo = p.min.Mag
		}
	}
	return lo, hi, lo <= hi
}

// reach reports whether the digits seen so far are in range (now) and
// whether appending at least one more digit can land in range (later).
func (p integerParser) reach(s integerState) (now, later bool) {
	lo, hi, ok := p.magnitudes(s.neg)
	if !ok {
		return false, false
	}
	if s.digits == 0 {
		return false, hi >= 1 && hi >= lo
	}
	now = s.mag >= lo && s.mag <= hi
	if s.mag == 0 {
		return now, false
	}
	// v*10^k .. v*10^k + 10^k - 1 for k = 1, 2, ...
	base, span := s.mag, uint64(1)
	for base <= math.MaxUint64/10 && span <= math.MaxUint64/10 {
		base, span = base*10, span*10
		if base > hi {
			return now, false
		}
		top := uint64(math.MaxUint64)
		if base <= math.MaxUint64-(span-1) {
			top = base + span - 1
		}
		if top >= lo {
			return now, true
		}
	}
	return now, false
}

func (p integerParser) finish(s integerState, off int, rest []byte) (chunkparse.Result[chunkparse.Int], error) {
	if s.digits == 0 {
		got := ""
		if len(rest) > 0 {
			got = string(rest[:1])
		}
		return chunkparse.Result[chunkparse.Int]{}, chunkparse.MismatchAt(off, "digit", got)
	}
	v := chunkparse.Int{Neg: s.neg, Mag: s.mag}
	if v.Cmp(p.min) < 0 || v.Cmp(p.max) > 0 {
		return chunkparse.Result[chunkparse.Int]{}, p.outOfRange(off)
	}
	return chunkparse.Done(v, rest), nil
}

func (p integerParser) outOfRange(off int) error {
	return chunkparse.IssueAt(chunkparse.CodeOutOfRange, off, map[string]any{"min": p.min.String(), "max": p.max.String()})
}

func (p integerParser) JSONSchema() (*js.Schema, error) {
	return &js.Schema{
		Type:    "integer",
		Minimum: lo.ToPtr(js.Number(p.min.String())),
		Maximum: lo.ToPtr(js.Number(p.max.String())),
	}, nil
}

// ---- typed adapters ----

// Int returns the parser for T bounded by T's natural range.
func Int[T constraints.Integer]() chunkparse.Parser[T] {
	minV, maxV := boundsOf(reflect.TypeOf((*T)(nil)).Elem())
	return Map(Integer(minV, maxV), narrow[T])
}

// IntRange returns the parser for T restricted to [min, max].
func IntRange[T constraints.Integer](min, max T) chunkparse.Parser[T] {
	return Map(Integer(intOf(min), intOf(max)), narrow[T])
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// boundsOf returns the natural range of an integer type.
func boundsOf(t reflect.Type) (chunkparse.Int, chunkparse.Int) {
	bits := t.Bits()
	if isSigned(t.Kind()) {
		half := uint64(1) << (bits - 1)
		return chunkparse.Int{Neg: true, Mag: half}, chunkparse.Int{Mag: half - 1}
	}
	return chunkparse.Int{}, chunkparse.Int{Mag: math.MaxUint64 >> (64 - bits)}
}

func intOf[T constraints.Integer](v T) chunkparse.Int {
	if v < 0 {
		return chunkparse.IntOf(int64(v))
	}
	return chunkparse.UintOf(uint64(v))
}

// narrow converts with a checked cast. The bounds already guarantee the fit;
// a failure here reports CodeOverflow instead of wrapping silently.
func narrow[T constraints.Integer](v chunkparse.Int) (T, error) {
	if isSigned(reflect.TypeOf((*T)(nil)).Elem().Kind()) {
		i, ok := v.Int64()
		t := T(i)
		if !ok || int64(t) != i {
			return 0, overflow(v)
		}
		return t, nil
	}
	u, ok := v.Uint64()
	t := T(u)
	if !ok || uint64(t) != u {
		return 0, overflow(v)
	}
	return t, nil
}

func overflow(v chunkparse.Int) error {
	return chunkparse.IssueAt(chunkparse.CodeOverflow, -1, map[string]any{"value": v.String()})
}
