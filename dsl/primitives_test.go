package dsl_test

import (
	"testing"
	"unicode"

	"github.com/reoring/chunkparse"
	g "github.com/reoring/chunkparse/dsl"
)

func mustIssue(t *testing.T, err error, code string) chunkparse.Issue {
	t.Helper()
	iss, ok := chunkparse.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues with %s, got %v", code, err)
	}
	if iss[0].Code != code {
		t.Fatalf("expected %s, got %v", code, iss)
	}
	return iss[0]
}

func TestLiteral_Boundary(t *testing.T) {
	p := g.Literal("abc")

	r, err := p.Parse(p.Start(), []byte("ab"))
	if err != nil || r.Status != chunkparse.Incomplete {
		t.Fatalf("expected incomplete, got %v err=%v", r.Status, err)
	}
	r2, err := p.Parse(r.State, []byte("cde"))
	if err != nil || !r2.IsFinished() || string(r2.Remaining) != "de" {
		t.Fatalf("expected finished with leftover de, got %+v err=%v", r2, err)
	}

	_, err = p.Parse(r.State, []byte("x"))
	it := mustIssue(t, err, chunkparse.CodeMismatch)
	if it.Offset != 0 || it.Expected != "c" || it.Got != "x" {
		t.Fatalf("unexpected mismatch detail: %+v", it)
	}

	_, err = p.Parse(nil, []byte("abx"))
	if it := mustIssue(t, err, chunkparse.CodeMismatch); it.Offset != 2 {
		t.Fatalf("expected offset 2, got %d", it.Offset)
	}
}

func TestLiteral_EmptyMatchesImmediately(t *testing.T) {
	r, err := g.Literal("").Parse(nil, []byte("zz"))
	if err != nil || !r.IsFinished() || string(r.Remaining) != "zz" {
		t.Fatalf("empty literal should finish without consuming, got %+v err=%v", r, err)
	}
}

func TestForeignStateRejected(t *testing.T) {
	lit := g.Literal("ab")
	r, _ := lit.Parse(nil, []byte("a"))
	_, err := g.Int[uint8]().Parse(r.State, []byte("1"))
	mustIssue(t, err, chunkparse.CodeForeignState)
}

func TestInt_U8Range(t *testing.T) {
	p := g.Int[uint8]()
	for in, want := range map[string]uint8{"255": 255, "0": 0, "7": 7} {
		v, _, err := chunkparse.ParseAll(p, []byte(in))
		if err != nil || v != want {
			t.Fatalf("%s: got %d err=%v", in, v, err)
		}
	}
	for _, in := range []string{"256", "999", "1000", "-1"} {
		_, _, err := chunkparse.ParseAll(p, []byte(in))
		if err == nil {
			t.Fatalf("%s: expected rejection", in)
		}
	}
	_, _, err := chunkparse.ParseAll(p, []byte("256"))
	if it := mustIssue(t, err, chunkparse.CodeOutOfRange); it.Offset != 2 {
		t.Fatalf("expected rejection at the third digit, got offset %d", it.Offset)
	}
}

func TestInt_GreedyFinishAtBound(t *testing.T) {
	p := g.Int[uint8]()
	// no further digit can stay in range, so the value is complete without
	// waiting for a terminator
	r, err := p.Parse(nil, []byte("26"))
	if err != nil || !r.IsFinished() || r.Value != 26 {
		t.Fatalf("expected 26 finished, got %+v err=%v", r, err)
	}
	r, err = p.Parse(nil, []byte("25"))
	if err != nil || r.IsFinished() {
		t.Fatalf("25 may still grow to 250, got %+v err=%v", r, err)
	}
	r, err = p.Parse(nil, []byte("0"))
	if err != nil || !r.IsFinished() || r.Value != 0 {
		t.Fatalf("0 completes the numeral, got %+v err=%v", r, err)
	}
}

func TestInt_LeadingZeroAndSign(t *testing.T) {
	_, err := g.Int[int16]().Parse(nil, []byte("-01"))
	mustIssue(t, err, chunkparse.CodeMismatch)

	_, err = g.Int[uint16]().Parse(nil, []byte("-1"))
	mustIssue(t, err, chunkparse.CodeMismatch)

	r, err := g.Int[int8]().Parse(nil, []byte("-128,"))
	if err != nil || !r.IsFinished() || r.Value != -128 || string(r.Remaining) != "," {
		t.Fatalf("expected -128 with leftover ',', got %+v err=%v", r, err)
	}
	_, err = g.Int[int8]().Parse(nil, []byte("-129"))
	mustIssue(t, err, chunkparse.CodeOutOfRange)
}

func TestInt_Uint64Extremes(t *testing.T) {
	v, _, err := chunkparse.ParseAll(g.Int[uint64](), []byte("18446744073709551615"))
	if err != nil || v != 18446744073709551615 {
		t.Fatalf("max uint64: %d err=%v", v, err)
	}
	_, _, err = chunkparse.ParseAll(g.Int[uint64](), []byte("18446744073709551616"))
	mustIssue(t, err, chunkparse.CodeOutOfRange)

	w, _, err := chunkparse.ParseAll(g.Int[int64](), []byte("-9223372036854775808"))
	if err != nil || w != -9223372036854775808 {
		t.Fatalf("min int64: %d err=%v", w, err)
	}
}

func TestIntRange(t *testing.T) {
	p := g.IntRange[int](-5, 5)
	v, _, err := chunkparse.ParseAll(p, []byte("-5"))
	if err != nil || v != -5 {
		t.Fatalf("expected -5, got %d err=%v", v, err)
	}
	_, _, err = chunkparse.ParseAll(p, []byte("6"))
	mustIssue(t, err, chunkparse.CodeOutOfRange)

	// a prefix no continuation can bring into range fails at once
	hundreds := g.IntRange[uint8](100, 200)
	_, err = hundreds.Parse(nil, []byte("3"))
	if it := mustIssue(t, err, chunkparse.CodeOutOfRange); it.Offset != 0 {
		t.Fatalf("expected rejection at the first digit, got offset %d", it.Offset)
	}
	_, err = hundreds.Parse(nil, []byte("0"))
	mustIssue(t, err, chunkparse.CodeOutOfRange)
	_, err = hundreds.Parse(nil, []byte("21"))
	if it := mustIssue(t, err, chunkparse.CodeOutOfRange); it.Offset != 1 {
		t.Fatalf("expected rejection at the second digit, got offset %d", it.Offset)
	}
	for _, in := range []string{"1", "15", "20"} {
		r, err := hundreds.Parse(nil, []byte(in))
		if err != nil || r.IsFinished() {
			t.Fatalf("%s may still reach [100, 200], got %+v err=%v", in, r, err)
		}
	}
	v8, _, err := chunkparse.ParseAll(hundreds, []byte("2"), []byte("00"))
	if err != nil || v8 != 200 {
		t.Fatalf("expected 200, got %d err=%v", v8, err)
	}

	negative := g.IntRange[int](-200, -100)
	_, err = negative.Parse(nil, []byte("-3"))
	if it := mustIssue(t, err, chunkparse.CodeOutOfRange); it.Offset != 1 {
		t.Fatalf("expected rejection at the digit, got offset %d", it.Offset)
	}
	_, err = negative.Parse(nil, []byte("5"))
	mustIssue(t, err, chunkparse.CodeOutOfRange)
	n, _, err := chunkparse.ParseAll(negative, []byte("-1"), []byte("50"))
	if err != nil || n != -150 {
		t.Fatalf("expected -150, got %d err=%v", n, err)
	}

	// only negative values: a sign is required
	_, err = g.IntRange[int](-9, -1).Parse(nil, []byte("-"))
	if err != nil {
		t.Fatalf("a lone sign is a valid prefix: %v", err)
	}
}

func TestInt_NegativeZeroRejected(t *testing.T) {
	_, err := g.Int[int8]().Parse(nil, []byte("-0"))
	if it := mustIssue(t, err, chunkparse.CodeMismatch); it.Offset != 1 {
		t.Fatalf("expected rejection at the zero, got offset %d", it.Offset)
	}
	v, _, err := chunkparse.ParseAll(g.Int[int8](), []byte("0"))
	if err != nil || v != 0 {
		t.Fatalf("expected 0, got %d err=%v", v, err)
	}
}

func TestInt_NoDigits(t *testing.T) {
	_, err := g.Int[uint8]().Parse(nil, []byte("x"))
	if it := mustIssue(t, err, chunkparse.CodeMismatch); it.Got != "x" {
		t.Fatalf("unexpected detail: %+v", it)
	}
}

func TestString_StopsAtRejectedRune(t *testing.T) {
	r, err := g.String().Accept(unicode.IsDigit).Parse(nil, []byte("12a"))
	if err != nil || !r.IsFinished() || r.Value != "12" || string(r.Remaining) != "a" {
		t.Fatalf("expected 12 with leftover a, got %+v err=%v", r, err)
	}
}

func TestString_MaxAndMin(t *testing.T) {
	r, err := g.String().Max(3).Parse(nil, []byte("abcd"))
	if err != nil || !r.IsFinished() || r.Value != "abc" || string(r.Remaining) != "d" {
		t.Fatalf("expected abc with leftover d, got %+v err=%v", r, err)
	}
	r, err = g.String().Max(2).Parse(nil, []byte("ab"))
	if err != nil || !r.IsFinished() || r.Value != "ab" {
		t.Fatalf("reaching max should finish, got %+v err=%v", r, err)
	}

	_, _, err = chunkparse.ParseAll(g.String().Min(2), []byte("a"))
	if it := mustIssue(t, err, chunkparse.CodeTooShort); it.Params["min"] != 2 {
		t.Fatalf("unexpected params: %+v", it.Params)
	}
}

func TestString_SplitRuneAcrossChunks(t *testing.T) {
	v, _, err := chunkparse.ParseAll(g.String(), []byte("h\xc3"), []byte("\xa9llo"))
	if err != nil || v != "héllo" {
		t.Fatalf("expected héllo, got %q err=%v", v, err)
	}
	_, _, err = chunkparse.ParseAll(g.String(), []byte("a\xff"))
	mustIssue(t, err, chunkparse.CodeInvalidUTF8)
	_, _, err = chunkparse.ParseAll(g.String(), []byte("a\xc3"))
	mustIssue(t, err, chunkparse.CodeInvalidUTF8)
}

func TestString_DefaultRejectsControl(t *testing.T) {
	r, err := g.String().Parse(nil, []byte("ab\ncd"))
	if err != nil || !r.IsFinished() || r.Value != "ab" {
		t.Fatalf("expected ab, got %+v err=%v", r, err)
	}
}

func TestString_BuilderIsCopyOnWrite(t *testing.T) {
	base := g.String()
	_ = base.Max(1)
	_ = base.Exclude('b')
	r, err := base.Parse(nil, []byte("abc\n"))
	if err != nil || r.Value != "abc" {
		t.Fatalf("options leaked into the base builder: %+v err=%v", r, err)
	}
}

func TestQuoted(t *testing.T) {
	p := g.Quoted(g.String())
	v, rest, err := chunkparse.ParseAll(p, []byte(`"hi`), []byte(` there"!`))
	if err != nil || v != "hi there" || string(rest) != "!" {
		t.Fatalf("expected %q with leftover !, got %q %q err=%v", "hi there", v, rest, err)
	}
	_, _, err = chunkparse.ParseAll(p, []byte(`hi"`))
	mustIssue(t, err, chunkparse.CodeMismatch)
}
