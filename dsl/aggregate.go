package dsl

import (
	"github.com/samber/lo"

	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// ElemSep is the separator between aggregate elements.
const ElemSep = ", "

// Vec returns a parser for a bracketed list of elements: '[', zero or more
// elem separated by ", ", then ']'.
func Vec[T any](elem chunkparse.Parser[T]) chunkparse.Parser[[]T] {
	items := Separated(elem, Literal(ElemSep), 0, chunkparse.Unbounded)
	return vecParser[T]{Parser: bracketed(items), elem: elem}
}

type vecParser[T any] struct {
	chunkparse.Parser[[]T]
	elem chunkparse.Parser[T]
}

func (v vecParser[T]) JSONSchema() (*js.Schema, error) {
	es, err := Describe(v.elem)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: es}, nil
}

// Array returns a parser for a bracketed list of exactly n elements. Any
// disagreement between n and the number of elements in the input is reported
// as chunkparse.CodeArity.
func Array[T any](elem chunkparse.Parser[T], n int) chunkparse.Parser[[]T] {
	items := repeatParser[T, struct{}]{
		inner:  elem,
		sep:    Literal(ElemSep),
		hasSep: true,
		min:    n,
		max:    n,
		label:  "array",
		exact:  true,
	}
	checked := Map(bracketed[T](items), func(v []T) ([]T, error) {
		if len(v) != n {
			return nil, chunkparse.IssueAt(chunkparse.CodeArity, -1, map[string]any{"want": n, "got": len(v)})
		}
		return v, nil
	})
	return arrayParser[T]{Parser: checked, elem: elem, n: n}
}

type arrayParser[T any] struct {
	chunkparse.Parser[[]T]
	elem chunkparse.Parser[T]
	n    int
}

// Parse converts the element count shortfall of the inner repetition into an
// arity violation.
func (a arrayParser[T]) Parse(st chunkparse.State, in []byte) (chunkparse.Result[[]T], error) {
	res, err := a.Parser.Parse(st, in)
	if err != nil {
		iss, ok := chunkparse.AsIssues(err)
		if ok && len(iss) > 0 && iss[0].Code == chunkparse.CodeTooFew && iss[0].Params["label"] == "array" {
			return res, chunkparse.Recode(err, chunkparse.CodeArity, map[string]any{"want": a.n})
		}
		return res, err
	}
	return res, nil
}

func (a arrayParser[T]) JSONSchema() (*js.Schema, error) {
	es, err := Describe(a.elem)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: es, MinItems: lo.ToPtr(a.n), MaxItems: lo.ToPtr(a.n)}, nil
}

// bracketed wraps items in '[' and ']'.
func bracketed[T any](items chunkparse.Parser[[]T]) chunkparse.Parser[[]T] {
	seq := Sequence(Literal("["), Sequence(items, Literal("]")))
	return Map(seq, func(v chunkparse.Pair[struct{}, chunkparse.Pair[[]T, struct{}]]) ([]T, error) {
		return v.Second.First, nil
	})
}
