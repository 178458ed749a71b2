package dsl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/chunkparse"
	js "github.com/reoring/chunkparse/jsonschema"
)

// StringBuilder exposes chaining options for string runs while implementing
// Parser[string]. Every option returns a new parser; the receiver is never
// modified.
type StringBuilder interface {
	chunkparse.Parser[string]
	// Min sets the minimum length in runes.
	Min(n int) StringBuilder
	// Max sets the maximum length in runes.
	Max(n int) StringBuilder
	// Accept replaces the rune predicate.
	Accept(pred func(rune) bool) StringBuilder
	// Exclude additionally rejects the given runes.
	Exclude(rs ...rune) StringBuilder
}

// DefaultAccept is the default rune predicate of String: any rune that is
// not a Unicode control character.
func DefaultAccept(r rune) bool { return !unicode.IsControl(r) }

// String returns a parser for a run of runes accepted by the predicate
// (DefaultAccept unless replaced), with no length bounds.
//
// The run stops, leaving the rest of the chunk unconsumed, when the next rune
// is rejected by the predicate or the maximum length is reached. At the end of
// a non-empty chunk it waits for more bytes; an empty chunk (end of input)
// finishes it. Stopping below the minimum length is CodeTooShort. UTF-8
// sequences split across chunks are carried in the state.
func String() StringBuilder {
	return stringParser{min: 0, max: chunkparse.Unbounded, accept: DefaultAccept}
}

type stringParser struct {
	min, max int
	accept   func(rune) bool
	exclude  []rune
}

type stringState struct {
	text string
	n    int
	// pend holds the leading bytes of a rune split by the chunk boundary.
	pend string
}

func (p stringParser) Min(n int) StringBuilder { p.min = n; return p }
func (p stringParser) Max(n int) StringBuilder { p.max = n; return p }

func (p stringParser) Accept(pred func(rune) bool) StringBuilder {
	if pred == nil {
		pred = DefaultAccept
	}
	p.accept = pred
	return p
}

func (p stringParser) Exclude(rs ...rune) StringBuilder {
	p.exclude = append(slices.Clip(p.exclude), rs...)
	return p
}

func (p stringParser) allows(r rune) bool {
	return p.accept(r) && !slices.Contains(p.exclude, r)
}

func (p stringParser) Start() chunkparse.State { return stringState{} }

func (p stringParser) Parse(st chunkparse.State, in []byte) (chunkparse.Result[string], error) {
	var fail chunkparse.Result[string]
	s, err := stateAs[stringState]("string", st)
	if err != nil {
		return fail, err
	}
	data := in
	lead := len(s.pend)
	if lead > 0 {
		data = append([]byte(s.pend), in...)
	}
	// at converts a position in data to an offset in the caller's chunk
	at := func(pos int) int { return max(pos-lead, 0) }

	var b strings.Builder
	b.WriteString(s.text)
	n := s.n
	pos := 0
	pend := ""
	for pos < len(data) {
		if n >= p.max {
			return p.done(b.String(), n, in[at(pos):], at(pos))
		}
		r, size := utf8.DecodeRune(data[pos:])
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(data[pos:]) {
				pend = string(data[pos:])
				break
			}
			return fail, chunkparse.IssueAt(chunkparse.CodeInvalidUTF8, at(pos), nil)
		}
		if !p.allows(r) {
			if pos < lead {
				// the rejected rune began in an earlier chunk, so its bytes
				// can no longer be handed back as leftover
				return fail, chunkparse.MismatchAt(0, "accepted rune", string(r))
			}
			return p.done(b.String(), n, in[at(pos):], at(pos))
		}
		b.Write(data[pos : pos+size])
		n++
		pos += size
	}
	if len(in) == 0 {
		if pend != "" {
			return fail, chunkparse.IssueAt(chunkparse.CodeInvalidUTF8, 0, nil)
		}
		return p.done(b.String(), n, in, 0)
	}
	if n >= p.max && pend == "" {
		return p.done(b.String(), n, in[len(in):], len(in))
	}
	return chunkparse.Pending[string](stringState{text: b.String(), n: n, pend: pend}), nil
}

func (p stringParser) done(text string, n int, rest []byte, off int) (chunkparse.Result[string], error) {
	if n < p.min {
		return chunkparse.Result[string]{}, chunkparse.IssueAt(chunkparse.CodeTooShort, off, map[string]any{"min": p.min, "got": n})
	}
	return chunkparse.Done(text, rest), nil
}

func (p stringParser) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "string"}
	if p.min > 0 {
		n := p.min
		s.MinLength = &n
	}
	if p.max != chunkparse.Unbounded {
		n := p.max
		s.MaxLength = &n
	}
	return s, nil
}

// Quoted returns the double-quoted form of a string run: '"', the run with
// '"' excluded from its predicate, then '"'. No escape sequences are
// recognised. This is the canonical string parser of the type mapping.
func Quoted(run StringBuilder) chunkparse.Parser[string] {
	inner := Sequence(Literal(`"`), Sequence(run.Exclude('"'), Literal(`"`)))
	return quotedParser{
		Parser: Map(inner, func(v chunkparse.Pair[struct{}, chunkparse.Pair[string, struct{}]]) (string, error) {
			return v.Second.First, nil
		}),
		run: run,
	}
}

type quotedParser struct {
	chunkparse.Parser[string]
	run StringBuilder
}

func (q quotedParser) JSONSchema() (*js.Schema, error) { return Describe(q.run) }
