package dsl

import (
	"reflect"
	"sync"

	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// Parseable is implemented by types that supply their own parser. The method
// is called on the zero value of T.
type Parseable[T any] interface {
	NewParser() chunkparse.Parser[T]
}

type registration struct {
	typed  func() any
	erased func() chunkparse.Parser[any]
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]registration{}
)

// Register installs the parser factory used by ParserFor for T, taking
// precedence over Parseable and the built-in mapping. It is intended for types
// the caller does not own. Registering nil removes the mapping.
func Register[T any](factory func() chunkparse.Parser[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		delete(registry, t)
		return
	}
	registry[t] = registration{
		typed:  func() any { return factory() },
		erased: func() chunkparse.Parser[any] { return Erase(factory()) },
	}
}

func lookup(t reflect.Type) (registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[t]
	return r, ok
}

// ParserFor returns the canonical parser for T:
//
//   - a factory installed with Register, then
//   - T's own parser when the zero value of T implements Parseable[T], then
//   - integer kinds: Int bounded by the type's natural range,
//   - string kinds: Quoted(String()),
//   - slices: Vec of the element parser,
//   - arrays [N]E: Array of the element parser with arity N.
//
// Named types are supported through their underlying kind. Anything else
// yields chunkparse.CodeUnsupportedType.
func ParserFor[T any]() (chunkparse.Parser[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if r, ok := lookup(t); ok {
		if p, ok := r.typed().(chunkparse.Parser[T]); ok {
			return p, nil
		}
	}
	var zero T
	if pp, ok := any(zero).(Parseable[T]); ok {
		return pp.NewParser(), nil
	}
	ep, err := parserForType(t, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	return typedParser[T]{Parser: Map(ep, func(v any) (T, error) {
		out, ok := v.(T)
		if !ok {
			return out, unsupported(t)
		}
		return out, nil
	}), erased: ep}, nil
}

// MustParserFor is ParserFor that panics on an unsupported type.
func MustParserFor[T any]() chunkparse.Parser[T] {
	p, err := ParserFor[T]()
	if err != nil {
		panic(err)
	}
	return p
}

// StartFor returns the start state of T's canonical parser.
func StartFor[T any]() (chunkparse.State, error) {
	p, err := ParserFor[T]()
	if err != nil {
		return nil, err
	}
	return p.Start(), nil
}

type typedParser[T any] struct {
	chunkparse.Parser[T]
	erased chunkparse.Parser[any]
}

func (p typedParser[T]) JSONSchema() (*js.Schema, error) { return Describe(p.erased) }

// parserForType builds an any-valued parser whose outputs have dynamic type t.
// seen guards against types that contain themselves.
func parserForType(t reflect.Type, seen map[reflect.Type]bool) (chunkparse.Parser[any], error) {
	if r, ok := lookup(t); ok {
		return r.erased(), nil
	}
	if p, ok := parseableOf(t); ok {
		return p, nil
	}
	if seen[t] {
		return nil, unsupported(t)
	}
	seen[t] = true
	defer delete(seen, t)

	switch k := t.Kind(); {
	case isSigned(k) || isUnsigned(k):
		minV, maxV := boundsOf(t)
		return Map(Integer(minV, maxV), func(v chunkparse.Int) (any, error) {
			out := reflect.New(t).Elem()
			if isSigned(k) {
				i, _ := v.Int64()
				out.SetInt(i)
			} else {
				u, _ := v.Uint64()
				out.SetUint(u)
			}
			return out.Interface(), nil
		}), nil
	case k == reflect.String:
		return Map(Quoted(String()), func(s string) (any, error) {
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		}), nil
	case k == reflect.Slice:
		elem, err := parserForType(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return Map(Vec(elem), func(vs []any) (any, error) {
			out := reflect.MakeSlice(t, len(vs), len(vs))
			return fill(out, vs)
		}), nil
	case k == reflect.Array:
		elem, err := parserForType(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return Map(Array(elem, t.Len()), func(vs []any) (any, error) {
			out := reflect.New(t).Elem()
			return fill(out, vs)
		}), nil
	}
	return nil, unsupported(t)
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func fill(out reflect.Value, vs []any) (any, error) {
	if out.Len() != len(vs) {
		return nil, chunkparse.IssueAt(chunkparse.CodeArity, -1, map[string]any{"want": out.Len(), "got": len(vs)})
	}
	et := out.Type().Elem()
	for i, v := range vs {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			// nil interface element; the slot keeps its zero value
			continue
		}
		if !rv.Type().AssignableTo(et) {
			return nil, unsupported(et)
		}
		out.Index(i).Set(rv)
	}
	return out.Interface(), nil
}

func unsupported(t reflect.Type) chunkparse.Issues {
	return chunkparse.IssueAt(chunkparse.CodeUnsupportedType, -1, map[string]any{"type": t.String()})
}

// parseableOf detects Parseable on a type known only at run time. The generic
// interface can not be asserted without T, so the method is located by name
// and its result driven through reflection.
func parseableOf(t reflect.Type) (chunkparse.Parser[any], bool) {
	if t.Kind() == reflect.Interface {
		return nil, false
	}
	m, ok := t.MethodByName("NewParser")
	if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 || !producesType(m.Type.Out(0), t) {
		return nil, false
	}
	pv := reflect.Zero(t).Method(m.Index).Call(nil)[0]
	if pv.Kind() == reflect.Interface && pv.IsNil() {
		return nil, false
	}
	start := pv.MethodByName("Start")
	parse := pv.MethodByName("Parse")
	if !start.IsValid() || !parse.IsValid() {
		return nil, false
	}
	return reflectedParser{p: pv, start: start, parse: parse}, true
}

// producesType reports whether pt has a Parse method whose result carries
// values assignable to t.
func producesType(pt, t reflect.Type) bool {
	pm, ok := pt.MethodByName("Parse")
	if !ok || pm.Type.NumOut() != 2 {
		return false
	}
	rt := pm.Type.Out(0)
	if rt.Kind() != reflect.Struct {
		return false
	}
	vf, ok := rt.FieldByName("Value")
	return ok && vf.Type.AssignableTo(t)
}

// reflectedParser drives a Parser[X] whose X is only known at run time.
type reflectedParser struct {
	p            reflect.Value
	start, parse reflect.Value
}

func (r reflectedParser) Start() chunkparse.State {
	return r.start.Call(nil)[0].Interface()
}

func (r reflectedParser) Parse(st chunkparse.State, in []byte) (chunkparse.Result[any], error) {
	if st == nil {
		st = r.Start()
	}
	stv := reflect.ValueOf(&st).Elem()
	out := r.parse.Call([]reflect.Value{stv, reflect.ValueOf(in)})
	if e := out[1]; !e.IsNil() {
		return chunkparse.Result[any]{}, e.Interface().(error)
	}
	res := out[0]
	if chunkparse.Status(res.FieldByName("Status").Int()) != chunkparse.Finished {
		return chunkparse.Pending[any](res.FieldByName("State").Interface()), nil
	}
	rest, _ := res.FieldByName("Remaining").Interface().([]byte)
	return chunkparse.Done(res.FieldByName("Value").Interface(), rest), nil
}

func (r reflectedParser) JSONSchema() (*js.Schema, error) { return Describe(r.p.Interface()) }
