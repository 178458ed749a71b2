package dsl

import (
	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Literal returns a parser matching exactly s. Its output carries no data.
func Literal(s string) chunkparse.Parser[struct{}] {
	return literalParser{lit: s}
}

// LiteralBytes is Literal for raw bytes.
func LiteralBytes(b []byte) chunkparse.Parser[struct{}] {
	return literalParser{lit: string(b)}
}

type literalParser struct{ lit string }

// literalState counts the bytes of the literal matched so far.
type literalState struct{ matched int }

func (p literalParser) Start() chunkparse.State { return literalState{} }

func (p literalParser) Parse(st chunkparse.State, in []byte) (chunkparse.Result[struct{}], error) {
	s, err := stateAs[literalState]("literal", st)
	if err != nil {
		return chunkparse.Result[struct{}]{}, err
	}
	i := 0
	for s.matched < len(p.lit) {
		if i == len(in) {
			return chunkparse.Pending[struct{}](s), nil
		}
		if in[i] != p.lit[s.matched] {
			return chunkparse.Result[struct{}]{}, chunkparse.MismatchAt(i, p.lit[s.matched:s.matched+1], string(in[i:i+1]))
		}
		i++
		s.matched++
	}
	return chunkparse.Done(struct{}{}, in[i:]), nil
}

func (p literalParser) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Const: p.lit}, nil
}

// stateAs recovers a concrete state, substituting the zero value (every
// start state in this package is a zero value) for nil.
func stateAs[S any](parser string, st chunkparse.State) (S, error) {
	var zero S
	if st == nil {
		return zero, nil
	}
	s, ok := st.(S)
	if !ok {
		return zero, chunkparse.ForeignState(parser, st)
	}
	return s, nil
}
