package dsl

import (
	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Erase adapts a typed parser to Parser[any] so parsers built at run time
// (for example from a type expression) can be held in one collection. The wrapped
// parser's states pass through untouched, so a state remains valid for both.
func Erase[T any](p chunkparse.Parser[T]) chunkparse.Parser[any] {
	if e, ok := p.(chunkparse.Parser[any]); ok {
		return e
	}
	return erased[T]{p: p}
}

type erased[T any] struct{ p chunkparse.Parser[T] }

func (e erased[T]) Start() chunkparse.State { return e.p.Start() }

func (e erased[T]) Parse(st chunkparse.State, in []byte) (chunkparse.Result[any], error) {
	if st == nil {
		st = e.p.Start()
	}
	r, err := e.p.Parse(st, in)
	if err != nil {
		return chunkparse.Result[any]{}, err
	}
	return chunkparse.MapResult(r, func(v T) (any, error) { return v, nil })
}

func (e erased[T]) JSONSchema() (*js.Schema, error) { return Describe(e.p) }

// Unwrap returns the typed parser.
func (e erased[T]) Unwrap() any { return e.p }
