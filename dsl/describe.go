package dsl

import (
	"fmt"

	js "github.com/reoring/chunkparse/jsonschema"
)

// Describer is implemented by parsers that can describe the values they accept
// as JSON Schema. Every parser in this package implements it.
type Describer interface {
	JSONSchema() (*js.Schema, error)
}

// Describe returns the JSON Schema of p. Parsers that do not implement
// Describer yield an empty schema, which accepts anything.
func Describe(p any) (*js.Schema, error) {
	if p == nil {
		return nil, fmt.Errorf("dsl: describe nil parser")
	}
	if d, ok := p.(Describer); ok {
		return d.JSONSchema()
	}
	return &js.Schema{}, nil
}
