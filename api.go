package chunkparse

import (
	"bytes"
	"errors"
)

// ErrSessionDone is returned by Session.Push after the session finished or
// failed.
var ErrSessionDone = errors.New("chunkparse: session already finished")

// Feed runs one step. It is a thin wrapper over p.Parse that substitutes the
// start state for a nil state.
func Feed[T any](p Parser[T], st State, chunk []byte) (Result[T], error) {
	if st == nil {
		st = p.Start()
	}
	return p.Parse(st, chunk)
}

// Finish signals end of input by feeding an empty chunk. A parser that still
// needs bytes afterwards yields CodeUnexpectedEnd.
func Finish[T any](p Parser[T], st State) (T, error) {
	var zero T
	res, err := Feed(p, st, nil)
	if err != nil {
		return zero, err
	}
	if res.Status != Finished {
		return zero, IssueAt(CodeUnexpectedEnd, 0, nil)
	}
	return res.Value, nil
}

// ParseAll feeds the chunks in order and then signals end of input if the
// value is still incomplete. It returns the value and every byte the parser
// did not consume (the finishing chunk's remainder followed by any chunks that
// were never fed).
func ParseAll[T any](p Parser[T], chunks ...[]byte) (T, []byte, error) {
	var zero T
	st := p.Start()
	for i, c := range chunks {
		res, err := p.Parse(st, c)
		if err != nil {
			return zero, nil, err
		}
		if res.Status == Finished {
			rest := append([]byte(nil), res.Remaining...)
			return res.Value, append(rest, bytes.Join(chunks[i+1:], nil)...), nil
		}
		st = res.State
	}
	v, err := Finish(p, st)
	if err != nil {
		return zero, nil, err
	}
	return v, nil, nil
}

// Session threads one parse through successive chunks. Sessions are cheap to
// fork; a fork and its origin never affect each other.
type Session[T any] struct {
	p     Parser[T]
	st    State
	res   Result[T]
	err   error
	ended bool
}

// NewSession starts a session at the parser's start state.
func NewSession[T any](p Parser[T]) *Session[T] {
	return &Session[T]{p: p, st: p.Start()}
}

// ResumeSession starts a session from an existing state.
func ResumeSession[T any](p Parser[T], st State) *Session[T] {
	if st == nil {
		st = p.Start()
	}
	return &Session[T]{p: p, st: st}
}

// Push feeds one chunk. Once the session has finished or failed every further
// call returns ErrSessionDone (or the original error).
func (s *Session[T]) Push(chunk []byte) (Status, error) {
	if s.err != nil {
		return Incomplete, s.err
	}
	if s.ended {
		return Finished, ErrSessionDone
	}
	res, err := s.p.Parse(s.st, chunk)
	if err != nil {
		s.err = err
		return Incomplete, err
	}
	s.res = res
	if res.Status == Finished {
		s.ended = true
		s.st = nil
		return Finished, nil
	}
	s.st = res.State
	return Incomplete, nil
}

// Close signals end of input and returns the value.
func (s *Session[T]) Close() (T, error) {
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	if !s.ended {
		if _, err := s.Push(nil); err != nil {
			return zero, err
		}
		if !s.ended {
			s.err = IssueAt(CodeUnexpectedEnd, 0, nil)
			return zero, s.err
		}
	}
	return s.res.Value, nil
}

// Fork duplicates the session.
func (s *Session[T]) Fork() *Session[T] {
	cp := *s
	return &cp
}

// State returns the current state (nil once finished).
func (s *Session[T]) State() State { return s.st }

// Done reports whether a value has been produced.
func (s *Session[T]) Done() bool { return s.ended }

// Err returns the terminal error, if any.
func (s *Session[T]) Err() error { return s.err }

// Value returns the finished value and the unconsumed remainder of the
// finishing chunk.
func (s *Session[T]) Value() (T, []byte, bool) {
	if !s.ended {
		var zero T
		return zero, nil, false
	}
	return s.res.Value, s.res.Remaining, true
}
