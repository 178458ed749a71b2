package dsl

import (
	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Sequence returns a parser running a then b and producing both outputs.
// Bytes left over by a are fed to b within the same call; only b's leftover is
// surfaced. There is no backtracking into a once b has started.
func Sequence[A, B any](a chunkparse.Parser[A], b chunkparse.Parser[B]) chunkparse.Parser[chunkparse.Pair[A, B]] {
	return seqParser[A, B]{a: a, b: b}
}

type seqParser[A, B any] struct {
	a chunkparse.Parser[A]
	b chunkparse.Parser[B]
}

// seqState embeds the active sub-state. While inB is false sub belongs to a;
// afterwards first holds a's value and sub belongs to b. A nil sub is the
// start state of the active parser.
type seqState[A any] struct {
	inB   bool
	first A
	sub   chunkparse.State
}

func (p seqParser[A, B]) Start() chunkparse.State { return seqState[A]{} }

func (p seqParser[A, B]) Parse(st chunkparse.State, in []byte) (chunkparse.Result[chunkparse.Pair[A, B]], error) {
	var fail chunkparse.Result[chunkparse.Pair[A, B]]
	s, err := stateAs[seqState[A]]("sequence", st)
	if err != nil {
		return fail, err
	}
	rest := in
	if !s.inB {
		sub := s.sub
		if sub == nil {
			sub = p.a.Start()
		}
		ra, err := p.a.Parse(sub, in)
		if err != nil {
			return fail, err
		}
		if !ra.IsFinished() {
			return chunkparse.Pending[chunkparse.Pair[A, B]](seqState[A]{sub: ra.State}), nil
		}
		s = seqState[A]{inB: true, first: ra.Value}
		rest = ra.Remaining
		// an exhausted chunk is not forwarded: b would take it as end of input
		if len(rest) == 0 && len(in) > 0 {
			return chunkparse.Pending[chunkparse.Pair[A, B]](s), nil
		}
	}
	sub := s.sub
	if sub == nil {
		sub = p.b.Start()
	}
	off := len(in) - len(rest)
	rb, err := p.b.Parse(sub, rest)
	if err != nil {
		return fail, chunkparse.Rebase(err, off)
	}
	if !rb.IsFinished() {
		s.sub = rb.State
		return chunkparse.Pending[chunkparse.Pair[A, B]](s), nil
	}
	return chunkparse.Done(chunkparse.Pair[A, B]{First: s.first, Second: rb.Value}, rb.Remaining), nil
}

func (p seqParser[A, B]) JSONSchema() (*js.Schema, error) {
	as, err := Describe(p.a)
	if err != nil {
		return nil, err
	}
	bs, err := Describe(p.b)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", PrefixItems: []*js.Schema{as, bs}}, nil
}

// Map converts the output of p with f once p finishes. An error returned by f
// fails the step; Issues without an offset are placed at the end of the
// consumed input.
func Map[A, B any](p chunkparse.Parser[A], f func(A) (B, error)) chunkparse.Parser[B] {
	return mapParser[A, B]{p: p, f: f}
}

type mapParser[A, B any] struct {
	p chunkparse.Parser[A]
	f func(A) (B, error)
}

func (m mapParser[A, B]) Start() chunkparse.State { return m.p.Start() }

func (m mapParser[A, B]) Parse(st chunkparse.State, in []byte) (chunkparse.Result[B], error) {
	if st == nil {
		st = m.p.Start()
	}
	r, err := m.p.Parse(st, in)
	if err != nil {
		return chunkparse.Result[B]{}, err
	}
	out, err := chunkparse.MapResult(r, m.f)
	if err != nil {
		return out, placeAt(err, len(in)-len(r.Remaining))
	}
	return out, nil
}

func (m mapParser[A, B]) JSONSchema() (*js.Schema, error) { return Describe(m.p) }

// placeAt fills in the offset of issues that do not carry one.
func placeAt(err error, off int) error {
	iss, ok := chunkparse.AsIssues(err)
	if !ok {
		return err
	}
	out := make(chunkparse.Issues, len(iss))
	for i, it := range iss {
		if it.Offset < 0 {
			it.Offset = off
		}
		out[i] = it
	}
	return out
}
