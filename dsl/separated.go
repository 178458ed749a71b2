package dsl

import (
	"strconv"

	"github.com/reoring/chunkparse"
	"github.com/reoring/chunkparse/i18n"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Separated returns a parser for min..max occurrences of inner, consecutive
// occurrences being separated by sep. Use chunkparse.Unbounded for no maximum.
//
// The repetition ends when the parser that would start the next iteration
// (inner for the first item, sep afterwards) rejects the first byte it is
// given: those bytes become the leftover, provided min items were matched.
// A rejection after that parser consumed bytes, in this call or an earlier
// one, is an error, as is any rejection of inner after a matched separator.
// Once max items were matched no separator is attempted.
//
// A negative min counts as zero. When max is below min no input can satisfy
// the bounds and every call fails with chunkparse.CodeTooFew.
func Separated[T, S any](inner chunkparse.Parser[T], sep chunkparse.Parser[S], min, max int) chunkparse.Parser[[]T] {
	return repeatParser[T, S]{inner: inner, sep: sep, hasSep: true, min: nonNegative(min), max: max}
}

// Repeat is Separated without a separator: min..max back-to-back matches of
// inner. A zero-width match of inner is recorded once (or as often as min
// demands) and then ends the repetition.
func Repeat[T any](inner chunkparse.Parser[T], min, max int) chunkparse.Parser[[]T] {
	return repeatParser[T, struct{}]{inner: inner, min: nonNegative(min), max: max}
}

type repeatParser[T, S any] struct {
	inner    chunkparse.Parser[T]
	sep      chunkparse.Parser[S]
	hasSep   bool
	min, max int
	// label tags count shortfall issues so an enclosing aggregate can
	// recognise its own repetition.
	label string
	// exact makes a separator matched after max items an arity error
	// instead of ending the repetition before it.
	exact bool
}

type repeatState[T any] struct {
	items *chain[T]
	inSep bool
	sub   chunkparse.State
	// fed records that the active parser consumed bytes in an earlier call.
	fed bool
}

func (p repeatParser[T, S]) Start() chunkparse.State { return repeatState[T]{} }

func (p repeatParser[T, S]) Parse(st chunkparse.State, in []byte) (chunkparse.Result[[]T], error) {
	var fail chunkparse.Result[[]T]
	s, err := stateAs[repeatState[T]]("repeat", st)
	if err != nil {
		return fail, err
	}
	if p.max < p.min {
		return fail, p.tooFew(0, s.items.size(), nil)
	}
	eof := len(in) == 0
	pos, stall := 0, 0
	for {
		if s.items.size() >= p.max && !p.exact {
			return chunkparse.Done(s.items.slice(), in[pos:]), nil
		}
		chunk := in[pos:]
		if len(chunk) == 0 && !eof {
			return chunkparse.Pending[[]T](s), nil
		}
		lead := s.inSep || !p.hasSep || s.items.size() == 0

		var (
			done  bool
			rest  []byte
			next  chunkparse.State
			value T
			perr  error
		)
		if s.inSep {
			sub := s.sub
			if sub == nil {
				sub = p.sep.Start()
			}
			var r chunkparse.Result[S]
			r, perr = p.sep.Parse(sub, chunk)
			done, rest, next = r.IsFinished(), r.Remaining, r.State
		} else {
			sub := s.sub
			if sub == nil {
				sub = p.inner.Start()
			}
			var r chunkparse.Result[T]
			r, perr = p.inner.Parse(sub, chunk)
			done, rest, next, value = r.IsFinished(), r.Remaining, r.State, r.Value
		}

		if perr != nil {
			if lead && !s.fed && rejectedAtStart(perr) {
				return p.stop(s, in[pos:], pos, perr)
			}
			return fail, chunkparse.Rebase(perr, pos)
		}
		if !done {
			if eof && lead && !s.fed {
				// end of input before the next iteration started
				return p.stop(s, in[pos:], pos, nil)
			}
			s.sub = next
			s.fed = s.fed || len(chunk) > 0
			return chunkparse.Pending[[]T](s), nil
		}
		if len(rest) == len(chunk) && !s.fed {
			stall++
		} else {
			stall = 0
		}
		pos = len(in) - len(rest)
		if stall >= 2 && s.items.size() >= p.min {
			// a full iteration matched nothing; stop rather than spin
			return p.stop(s, in[pos:], pos, nil)
		}
		if !s.inSep {
			s.items = s.items.push(value)
		} else if p.exact && s.items.size() >= p.max {
			return fail, chunkparse.IssueAt(chunkparse.CodeArity, pos, map[string]any{"want": p.max, "got": s.items.size() + 1})
		}
		s.sub = nil
		s.fed = false
		s.inSep = p.hasSep && !s.inSep
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// rejectedAtStart reports whether err rejects the very first byte offered.
func rejectedAtStart(err error) bool {
	iss, ok := chunkparse.AsIssues(err)
	return ok && len(iss) > 0 && iss[0].Offset == 0
}

// stop ends the repetition at the current item count.
func (p repeatParser[T, S]) stop(s repeatState[T], rest []byte, off int, cause error) (chunkparse.Result[[]T], error) {
	n := s.items.size()
	if n >= p.min {
		return chunkparse.Done(s.items.slice(), rest), nil
	}
	return chunkparse.Result[[]T]{}, p.tooFew(off, n, cause)
}

func (p repeatParser[T, S]) tooFew(off, n int, cause error) error {
	params := map[string]any{"min": p.min, "got": n}
	if p.label != "" {
		params["label"] = p.label
	}
	return chunkparse.Issues{{
		Code:    chunkparse.CodeTooFew,
		Message: i18n.T(chunkparse.CodeTooFew, map[string]string{"min": strconv.Itoa(p.min), "got": strconv.Itoa(n)}),
		Offset:  off,
		Params:  params,
		Cause:   cause,
	}}
}

func (p repeatParser[T, S]) JSONSchema() (*js.Schema, error) {
	es, err := Describe(p.inner)
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: es}
	if p.min > 0 {
		n := p.min
		s.MinItems = &n
	}
	if p.max != chunkparse.Unbounded {
		n := p.max
		s.MaxItems = &n
	}
	return s, nil
}

// chain is an immutable list of matched items, newest first. Forked states
// share their common prefix and never observe each other's pushes.
type chain[T any] struct {
	prev *chain[T]
	val  T
	n    int
}

func (c *chain[T]) size() int {
	if c == nil {
		return 0
	}
	return c.n
}

func (c *chain[T]) push(v T) *chain[T] {
	return &chain[T]{prev: c, val: v, n: c.size() + 1}
}

func (c *chain[T]) slice() []T {
	out := make([]T, c.size())
	for i, x := len(out)-1, c; x != nil; i, x = i-1, x.prev {
		out[i] = x.val
	}
	return out
}
