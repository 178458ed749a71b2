package schema

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/reoring/chunkparse"
	g "github.com/reoring/chunkparse/dsl"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Field is one named, typed slot of a Structure.
type Field struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Structure is the metadata a plugin publishes about the values it consumes
// and produces. Inputs and outputs are written as one bracketed list each,
// for example `[1, "two"]` for fields of types u8 and string.
type Structure struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Inputs      []Field `yaml:"inputs" json:"inputs"`
	Outputs     []Field `yaml:"outputs" json:"outputs"`
}

// FieldError reports an invalid field declaration.
type FieldError struct {
	Section string
	Index   int
	Name    string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema: %s[%d] %q: %v", e.Section, e.Index, e.Name, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validate checks names and type expressions, joining every problem found.
func (s *Structure) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("schema: structure name is required"))
	}
	for _, sec := range []struct {
		name   string
		fields []Field
	}{{"inputs", s.Inputs}, {"outputs", s.Outputs}} {
		seen := map[string]bool{}
		for i, f := range sec.fields {
			switch {
			case f.Name == "":
				errs = append(errs, &FieldError{Section: sec.name, Index: i, Err: errors.New("name is required")})
			case seen[f.Name]:
				errs = append(errs, &FieldError{Section: sec.name, Index: i, Name: f.Name, Err: errors.New("duplicate name")})
			}
			seen[f.Name] = true
			if _, err := ParseTypeExpr(f.Type); err != nil {
				errs = append(errs, &FieldError{Section: sec.name, Index: i, Name: f.Name, Err: err})
			}
		}
	}
	return errors.Join(errs...)
}

// InputParser returns the parser for the bracketed input list. Its value maps
// field names to parsed values.
func (s *Structure) InputParser() (chunkparse.Parser[map[string]any], error) {
	return record(s.Inputs)
}

// OutputParser returns the parser for the bracketed output list.
func (s *Structure) OutputParser() (chunkparse.Parser[map[string]any], error) {
	return record(s.Outputs)
}

// JSONSchema describes the structure as an object with "inputs" and
// "outputs" tuples.
func (s *Structure) JSONSchema() (*js.Schema, error) {
	in, err := tupleSchema(s.Inputs)
	if err != nil {
		return nil, err
	}
	out, err := tupleSchema(s.Outputs)
	if err != nil {
		return nil, err
	}
	return &js.Schema{
		Title:       s.Name,
		Description: s.Description,
		Type:        "object",
		Properties:  map[string]*js.Schema{"inputs": in, "outputs": out},
		Required:    []string{"inputs", "outputs"},
	}, nil
}

func tupleSchema(fields []Field) (*js.Schema, error) {
	items := make([]*js.Schema, 0, len(fields))
	for _, f := range fields {
		t, err := ParseTypeExpr(f.Type)
		if err != nil {
			return nil, err
		}
		fs, err := t.JSONSchema()
		if err != nil {
			return nil, err
		}
		fs.Title = f.Name
		fs.Description = f.Description
		items = append(items, fs)
	}
	return &js.Schema{Type: "array", PrefixItems: items, MinItems: lo.ToPtr(len(fields)), MaxItems: lo.ToPtr(len(fields))}, nil
}

type recordParser struct {
	chunkparse.Parser[map[string]any]
	fields []Field
}

func (r recordParser) JSONSchema() (*js.Schema, error) { return tupleSchema(r.fields) }

// record folds the field parsers into `[f1, f2, ...]`.
func record(fields []Field) (chunkparse.Parser[map[string]any], error) {
	acc := g.Map(g.Literal("["), func(struct{}) ([]any, error) { return []any{}, nil })
	for i, f := range fields {
		p, err := Compile(f.Type)
		if err != nil {
			return nil, &FieldError{Index: i, Name: f.Name, Err: err}
		}
		if i > 0 {
			p = g.Map(g.Sequence(g.Literal(g.ElemSep), p), func(v chunkparse.Pair[struct{}, any]) (any, error) {
				return v.Second, nil
			})
		}
		acc = g.Map(g.Sequence(acc, p), func(v chunkparse.Pair[[]any, any]) ([]any, error) {
			return append(slices.Clip(v.First), v.Second), nil
		})
	}
	closed := g.Map(g.Sequence(acc, g.Literal("]")), func(v chunkparse.Pair[[]any, struct{}]) (map[string]any, error) {
		out := make(map[string]any, len(fields))
		for i, f := range fields {
			out[f.Name] = v.First[i]
		}
		return out, nil
	})
	return recordParser{Parser: closed, fields: fields}, nil
}

// LoadJSON decodes and validates a structure. Unknown fields are rejected.
func LoadJSON(data []byte) (*Structure, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Structure
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("schema: decode json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadYAML decodes and validates a structure. Duplicate and unknown keys are
// rejected.
func LoadYAML(data []byte) (*Structure, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	if err := checkDuplicateKeys(&root); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Structure
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load picks the decoder from the first non-space byte: '{' means JSON,
// anything else YAML.
func Load(data []byte) (*Structure, error) {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		return LoadJSON(data)
	}
	return LoadYAML(data)
}
