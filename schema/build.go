package schema

import (
	"fmt"

	"github.com/reoring/chunkparse"
	g "github.com/reoring/chunkparse/dsl"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Build returns the parser described by t. Named integer widths produce the
// matching Go integer type (u8 -> uint8), ranged ints produce int64 or, above
// math.MaxInt64, uint64. Strings are quoted runs, vec and array produce []any
// and a literal produces its own text.
func Build(t *TypeSpec) (chunkparse.Parser[any], error) {
	if t == nil {
		return nil, fmt.Errorf("schema: nil type")
	}
	switch t.Kind {
	case KindInt:
		if t.Width > 0 {
			return widthParser(t.Signed, t.Width), nil
		}
		return g.Erase(g.Map(g.Integer(t.Min, t.Max), plainInt)), nil
	case KindString:
		return g.Erase(g.Quoted(g.String().Min(t.MinLen).Max(t.MaxLen))), nil
	case KindVec:
		elem, err := Build(t.Elem)
		if err != nil {
			return nil, err
		}
		return g.Erase(g.Vec(elem)), nil
	case KindArray:
		elem, err := Build(t.Elem)
		if err != nil {
			return nil, err
		}
		return g.Erase(g.Array(elem, t.Len)), nil
	case KindLiteral:
		v := t.Value
		return g.Erase(g.Map(g.Literal(v), func(struct{}) (string, error) { return v, nil })), nil
	}
	return nil, fmt.Errorf("schema: unknown kind %q", t.Kind)
}

// MustBuild is Build that panics on error.
func MustBuild(t *TypeSpec) chunkparse.Parser[any] {
	p, err := Build(t)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile parses a type expression and builds its parser.
func Compile(expr string) (chunkparse.Parser[any], error) {
	t, err := ParseTypeExpr(expr)
	if err != nil {
		return nil, err
	}
	return Build(t)
}

// JSONSchema describes the values accepted for t.
func (t *TypeSpec) JSONSchema() (*js.Schema, error) {
	p, err := Build(t)
	if err != nil {
		return nil, err
	}
	return g.Describe(p)
}

func widthParser(signed bool, bits int) chunkparse.Parser[any] {
	if signed {
		switch bits {
		case 8:
			return g.Erase(g.Int[int8]())
		case 16:
			return g.Erase(g.Int[int16]())
		case 32:
			return g.Erase(g.Int[int32]())
		}
		return g.Erase(g.Int[int64]())
	}
	switch bits {
	case 8:
		return g.Erase(g.Int[uint8]())
	case 16:
		return g.Erase(g.Int[uint16]())
	case 32:
		return g.Erase(g.Int[uint32]())
	}
	return g.Erase(g.Int[uint64]())
}

func plainInt(v chunkparse.Int) (any, error) {
	if i, ok := v.Int64(); ok {
		return i, nil
	}
	u, _ := v.Uint64()
	return u, nil
}
