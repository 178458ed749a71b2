package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/chunkparse"
)

// Kind is the shape of a TypeSpec.
type Kind string

const (
	KindInt     Kind = "int"
	KindString  Kind = "string"
	KindVec     Kind = "vec"
	KindArray   Kind = "array"
	KindLiteral Kind = "literal"
)

// TypeSpec is a parsed type expression.
//
// Grammar:
//
//	type    = width | "int" range | "string" [ range ] | vec | array | literal
//	width   = "u8" | "u16" | "u32" | "u64" | "i8" | "i16" | "i32" | "i64"
//	range   = "[" integer ".." integer "]"
//	vec     = "vec<" type ">"
//	array   = "array<" type "," integer ">"
//	literal = "literal:" quoted
type TypeSpec struct {
	Kind Kind
	// Width is the bit width of a named integer type ("u8" -> 8), 0 for a
	// ranged int.
	Width  int
	Signed bool
	// Min and Max bound an int.
	Min, Max chunkparse.Int
	// MinLen and MaxLen bound a string in runes.
	MinLen, MaxLen int
	// Elem is the element type of vec and array; Len the arity of array.
	Elem *TypeSpec
	Len  int
	// Value is the text of a literal.
	Value string
}

// String renders the canonical expression; ParseTypeExpr(t.String()) yields
// an equal TypeSpec.
func (t *TypeSpec) String() string {
	switch t.Kind {
	case KindInt:
		if t.Width > 0 {
			if t.Signed {
				return "i" + strconv.Itoa(t.Width)
			}
			return "u" + strconv.Itoa(t.Width)
		}
		return fmt.Sprintf("int[%s..%s]", t.Min, t.Max)
	case KindString:
		if t.MinLen == 0 && t.MaxLen == chunkparse.Unbounded {
			return "string"
		}
		return fmt.Sprintf("string[%d..%s]", t.MinLen, lenString(t.MaxLen))
	case KindVec:
		return "vec<" + t.Elem.String() + ">"
	case KindArray:
		return fmt.Sprintf("array<%s, %d>", t.Elem, t.Len)
	case KindLiteral:
		return "literal:" + strconv.Quote(t.Value)
	}
	return string(t.Kind)
}

func lenString(n int) string {
	if n == chunkparse.Unbounded {
		return ""
	}
	return strconv.Itoa(n)
}

// ExprError reports a malformed type expression.
type ExprError struct {
	Expr   string
	Offset int
	Reason string
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("schema: invalid type expression %q at %d: %s", e.Expr, e.Offset, e.Reason)
}

// ParseTypeExpr parses a type expression such as "vec<array<u8, 2>>".
func ParseTypeExpr(expr string) (*TypeSpec, error) {
	l := &lexer{src: expr}
	t, err := l.typ()
	if err != nil {
		return nil, err
	}
	l.space()
	if l.pos != len(l.src) {
		return nil, l.fail("unexpected trailing input")
	}
	return t, nil
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) fail(reason string) *ExprError {
	return &ExprError{Expr: l.src, Offset: l.pos, Reason: reason}
}

func (l *lexer) space() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
}

func (l *lexer) accept(s string) bool {
	l.space()
	if strings.HasPrefix(l.src[l.pos:], s) {
		l.pos += len(s)
		return true
	}
	return false
}

func (l *lexer) expect(s string) error {
	if !l.accept(s) {
		return l.fail("expected " + strconv.Quote(s))
	}
	return nil
}

func (l *lexer) ident() string {
	l.space()
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			l.pos++
			continue
		}
		break
	}
	return l.src[start:l.pos]
}

func (l *lexer) integer() (chunkparse.Int, error) {
	l.space()
	start := l.pos
	neg := l.pos < len(l.src) && l.src[l.pos] == '-'
	if neg {
		l.pos++
	}
	digits := l.pos
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	if l.pos == digits {
		l.pos = start
		return chunkparse.Int{}, l.fail("expected integer")
	}
	mag, err := strconv.ParseUint(l.src[digits:l.pos], 10, 64)
	if err != nil {
		l.pos = start
		return chunkparse.Int{}, l.fail("integer out of range")
	}
	return chunkparse.Int{Neg: neg, Mag: mag}, nil
}

func (l *lexer) count() (int, error) {
	v, err := l.integer()
	if err != nil {
		return 0, err
	}
	if v.Neg && v.Mag != 0 || v.Mag > math.MaxInt32 {
		return 0, l.fail("count out of range")
	}
	return int(v.Mag), nil
}

var widths = map[string]int{"8": 8, "16": 16, "32": 32, "64": 64}

func (l *lexer) typ() (*TypeSpec, error) {
	start := l.pos
	name := l.ident()
	switch {
	case len(name) > 1 && (name[0] == 'u' || name[0] == 'i') && widths[name[1:]] > 0:
		return widthSpec(name[0] == 'i', widths[name[1:]]), nil
	case name == "int":
		if err := l.expect("["); err != nil {
			return nil, err
		}
		lo, err := l.integer()
		if err != nil {
			return nil, err
		}
		if err := l.expect(".."); err != nil {
			return nil, err
		}
		hi, err := l.integer()
		if err != nil {
			return nil, err
		}
		if err := l.expect("]"); err != nil {
			return nil, err
		}
		if lo.Cmp(hi) > 0 {
			return nil, l.fail("empty integer range")
		}
		return &TypeSpec{Kind: KindInt, Min: lo, Max: hi}, nil
	case name == "string":
		t := &TypeSpec{Kind: KindString, MaxLen: chunkparse.Unbounded}
		if !l.accept("[") {
			return t, nil
		}
		n, err := l.count()
		if err != nil {
			return nil, err
		}
		t.MinLen = n
		if err := l.expect(".."); err != nil {
			return nil, err
		}
		if !l.accept("]") {
			if t.MaxLen, err = l.count(); err != nil {
				return nil, err
			}
			if err := l.expect("]"); err != nil {
				return nil, err
			}
		}
		if t.MinLen > t.MaxLen {
			return nil, l.fail("empty length range")
		}
		return t, nil
	case name == "vec":
		if err := l.expect("<"); err != nil {
			return nil, err
		}
		elem, err := l.typ()
		if err != nil {
			return nil, err
		}
		if err := l.expect(">"); err != nil {
			return nil, err
		}
		return &TypeSpec{Kind: KindVec, Elem: elem}, nil
	case name == "array":
		if err := l.expect("<"); err != nil {
			return nil, err
		}
		elem, err := l.typ()
		if err != nil {
			return nil, err
		}
		if err := l.expect(","); err != nil {
			return nil, err
		}
		n, err := l.count()
		if err != nil {
			return nil, err
		}
		if err := l.expect(">"); err != nil {
			return nil, err
		}
		return &TypeSpec{Kind: KindArray, Elem: elem, Len: n}, nil
	case name == "literal":
		if err := l.expect(":"); err != nil {
			return nil, err
		}
		l.space()
		q, err := strconv.QuotedPrefix(l.src[l.pos:])
		if err != nil {
			return nil, l.fail("expected quoted literal")
		}
		v, _ := strconv.Unquote(q)
		l.pos += len(q)
		return &TypeSpec{Kind: KindLiteral, Value: v}, nil
	}
	l.pos = start
	return nil, l.fail("unknown type " + strconv.Quote(name))
}

func widthSpec(signed bool, bits int) *TypeSpec {
	t := &TypeSpec{Kind: KindInt, Width: bits, Signed: signed}
	if signed {
		half := uint64(1) << (bits - 1)
		t.Min, t.Max = chunkparse.Int{Neg: true, Mag: half}, chunkparse.Int{Mag: half - 1}
	} else {
		t.Max = chunkparse.Int{Mag: math.MaxUint64 >> (64 - bits)}
	}
	return t
}
