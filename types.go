package chunkparse

import (
	"math"
	"strconv"
)

// Unbounded is used as a maximum count or length meaning "no upper limit".
const Unbounded = math.MaxInt

// State is the opaque progress marker of one in-flight parse. Concrete states
// are immutable values owned by the parser kind that produced them; copying a
// State (plain assignment) duplicates the parse.
type State any

// Status discriminates the outcome of a successful parse step.
type Status int

const (
	Incomplete Status = iota // Valid prefix; feed Result.State more bytes.
	Finished                 // Value complete; Remaining holds the unconsumed suffix.
)

func (s Status) String() string {
	switch s {
	case Incomplete:
		return "incomplete"
	case Finished:
		return "finished"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result is the outcome of one incremental step.
type Result[T any] struct {
	Status Status
	// State replaces the caller's state for the next call when Incomplete.
	State State
	// Value and Remaining are set when Finished. Remaining is always a suffix
	// of the chunk passed to the call.
	Value     T
	Remaining []byte
}

// Pending reports a result that needs more input.
func Pending[T any](next State) Result[T] {
	return Result[T]{Status: Incomplete, State: next}
}

// Done reports a completed value and the unconsumed rest of the chunk.
func Done[T any](v T, rest []byte) Result[T] {
	return Result[T]{Status: Finished, Value: v, Remaining: rest}
}

// IsFinished is shorthand for r.Status == Finished.
func (r Result[T]) IsFinished() bool { return r.Status == Finished }

// MapResult converts the value of a finished result, leaving incomplete
// results untouched.
func MapResult[A, B any](r Result[A], f func(A) (B, error)) (Result[B], error) {
	if r.Status != Finished {
		return Pending[B](r.State), nil
	}
	v, err := f(r.Value)
	if err != nil {
		return Result[B]{}, err
	}
	return Done(v, r.Remaining), nil
}

// Parser is an immutable, reusable parse blueprint producing values of type T.
//
// Parse consumes the unambiguous prefix of input starting from state and stops
// as soon as the value is determined (Finished), more bytes are needed
// (Incomplete) or the prefix can not belong to any valid value (error). It
// never mutates state or input and never looks past the supplied chunk. A nil
// state is equivalent to Start(). An empty chunk signals end of input to
// parsers that can finalize on it.
type Parser[T any] interface {
	Start() State
	Parse(state State, input []byte) (Result[T], error)
}

// Pair is the output of a two-parser sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Int is a 65-bit signed integer in sign-magnitude form. It covers the range
// of every Go integer type, including uint64, so a single numeric parser can
// serve all widths.
type Int struct {
	Neg bool
	Mag uint64
}

// IntOf converts a signed value.
func IntOf(v int64) Int {
	if v < 0 {
		return Int{Neg: true, Mag: uint64(-(v + 1)) + 1}
	}
	return Int{Mag: uint64(v)}
}

// UintOf converts an unsigned value.
func UintOf(v uint64) Int { return Int{Mag: v} }

// Cmp returns -1, 0 or +1. Negative zero equals zero.
func (a Int) Cmp(b Int) int {
	an := a.Neg && a.Mag != 0
	bn := b.Neg && b.Mag != 0
	switch {
	case an && !bn:
		return -1
	case !an && bn:
		return 1
	}
	c := 0
	switch {
	case a.Mag < b.Mag:
		c = -1
	case a.Mag > b.Mag:
		c = 1
	}
	if an {
		return -c
	}
	return c
}

// Int64 returns the value as int64 and whether it fits.
func (a Int) Int64() (int64, bool) {
	if a.Neg && a.Mag != 0 {
		if a.Mag > 1<<63 {
			return 0, false
		}
		return -int64(a.Mag-1) - 1, true
	}
	if a.Mag > math.MaxInt64 {
		return 0, false
	}
	return int64(a.Mag), true
}

// Uint64 returns the value as uint64 and whether it fits.
func (a Int) Uint64() (uint64, bool) {
	if a.Neg && a.Mag != 0 {
		return 0, false
	}
	return a.Mag, true
}

func (a Int) String() string {
	if a.Neg && a.Mag != 0 {
		return "-" + strconv.FormatUint(a.Mag, 10)
	}
	return strconv.FormatUint(a.Mag, 10)
}
