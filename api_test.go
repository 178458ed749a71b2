package chunkparse_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/chunkparse"
	g "github.com/reoring/chunkparse/dsl"
)

func TestInt_ConversionsAndOrder(t *testing.T) {
	minI := chunkparse.IntOf(math.MinInt64)
	if minI.String() != "-9223372036854775808" {
		t.Fatalf("min int64 rendered as %s", minI)
	}
	if v, ok := minI.Int64(); !ok || v != math.MinInt64 {
		t.Fatalf("round trip of min int64 failed: %d %v", v, ok)
	}
	maxU := chunkparse.UintOf(math.MaxUint64)
	if _, ok := maxU.Int64(); ok {
		t.Fatalf("max uint64 must not fit int64")
	}
	if _, ok := minI.Uint64(); ok {
		t.Fatalf("negative value must not fit uint64")
	}
	order := []chunkparse.Int{minI, chunkparse.IntOf(-1), {}, chunkparse.IntOf(1), maxU}
	for i := 1; i < len(order); i++ {
		if order[i-1].Cmp(order[i]) >= 0 || order[i].Cmp(order[i-1]) <= 0 {
			t.Fatalf("expected %s < %s", order[i-1], order[i])
		}
	}
	if (chunkparse.Int{Neg: true}).Cmp(chunkparse.Int{}) != 0 {
		t.Fatalf("negative zero should equal zero")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := chunkparse.Issues{
		{Code: chunkparse.CodeMismatch, Offset: 3, Expected: "]", Got: ","},
		{Code: chunkparse.CodeTooFew, Offset: 1, Message: "too few"},
		{Code: chunkparse.CodeArity},
		{Code: chunkparse.CodeOverflow},
	}
	want := `mismatch at 3: expected "]", got ","; too_few at 1: too few; arity at 0; ... (total 4)`
	if got := iss.Error(); got != want {
		t.Fatalf("summary mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestIssues_UnwrapCause(t *testing.T) {
	cause := errors.New("boom")
	err := error(chunkparse.Issues{{Code: chunkparse.CodeTooFew, Cause: cause}})
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the cause")
	}
}

func TestCategoryOf(t *testing.T) {
	cases := map[string]chunkparse.Category{
		chunkparse.CodeMismatch:        chunkparse.CategoryStructural,
		chunkparse.CodeTooFew:          chunkparse.CategoryStructural,
		chunkparse.CodeInvalidUTF8:     chunkparse.CategoryStructural,
		chunkparse.CodeOutOfRange:      chunkparse.CategoryRange,
		chunkparse.CodeOverflow:        chunkparse.CategoryRange,
		chunkparse.CodeArity:           chunkparse.CategoryArity,
		chunkparse.CodeUnsupportedType: chunkparse.CategoryMapping,
		"custom":                       chunkparse.CategoryUnknown,
	}
	for code, want := range cases {
		if got := chunkparse.CategoryOf(code); got != want {
			t.Fatalf("CategoryOf(%s) = %s, want %s", code, got, want)
		}
	}
	if !chunkparse.IsCategory(chunkparse.IssueAt(chunkparse.CodeArity, 0, nil), chunkparse.CategoryArity) {
		t.Fatalf("IsCategory should detect arity")
	}
}

func TestRebaseAndRecode(t *testing.T) {
	err := chunkparse.Rebase(chunkparse.Issues{{Code: chunkparse.CodeMismatch, Offset: 2}, {Code: chunkparse.CodeOverflow, Offset: -1}}, 5)
	iss, _ := chunkparse.AsIssues(err)
	if iss[0].Offset != 7 || iss[1].Offset != -1 {
		t.Fatalf("unexpected offsets after rebase: %+v", iss)
	}
	err = chunkparse.Recode(chunkparse.IssueAt(chunkparse.CodeTooFew, 4, map[string]any{"got": 1}), chunkparse.CodeArity, map[string]any{"want": 2})
	iss, _ = chunkparse.AsIssues(err)
	if iss[0].Code != chunkparse.CodeArity || iss[0].Offset != 4 {
		t.Fatalf("unexpected recoded issue: %+v", iss[0])
	}
	if diff := cmp.Diff(map[string]any{"got": 1, "want": 2}, iss[0].Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	if iss[0].Message != "wrong number of elements (want 2, got 1)" {
		t.Fatalf("message not re-rendered: %q", iss[0].Message)
	}
}

func TestParseAll_ChunksAndLeftover(t *testing.T) {
	p := g.Vec(g.Int[uint8]())
	v, rest, err := chunkparse.ParseAll(p, []byte("[1, "), []byte("2]x"), []byte("yz"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff([]uint8{1, 2}, v); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if string(rest) != "xyz" {
		t.Fatalf("expected leftover xyz, got %q", rest)
	}
}

func TestParseAll_EndOfInputFinalizes(t *testing.T) {
	v, _, err := chunkparse.ParseAll(g.Int[uint16](), []byte("12"), []byte("3"))
	if err != nil || v != 123 {
		t.Fatalf("expected 123, got %d err=%v", v, err)
	}
	_, _, err = chunkparse.ParseAll(g.Vec(g.Int[uint8]()), []byte("[1"))
	if chunkparse.IssueCode(err) != chunkparse.CodeUnexpectedEnd {
		t.Fatalf("expected unexpected_end, got %v", err)
	}
}

func TestFeed_NilStateIsStart(t *testing.T) {
	p := g.Literal("ab")
	r1, err1 := chunkparse.Feed(p, nil, []byte("a"))
	r2, err2 := p.Parse(p.Start(), []byte("a"))
	if err1 != nil || err2 != nil || r1.Status != r2.Status || r1.Status != chunkparse.Incomplete {
		t.Fatalf("nil state and start state diverged: %v/%v %v/%v", r1.Status, r2.Status, err1, err2)
	}
}

func TestSession_ForkIndependence(t *testing.T) {
	s := chunkparse.NewSession(g.Vec(g.Int[uint8]()))
	if st, err := s.Push([]byte("[1, 2")); err != nil || st != chunkparse.Incomplete {
		t.Fatalf("push: %v %v", st, err)
	}
	fork := s.Fork()

	if _, err := s.Push([]byte(", 3]")); err != nil {
		t.Fatalf("origin push: %v", err)
	}
	if _, err := fork.Push([]byte("]")); err != nil {
		t.Fatalf("fork push: %v", err)
	}
	a, _, _ := s.Value()
	b, _, _ := fork.Value()
	if diff := cmp.Diff([]uint8{1, 2, 3}, a); diff != "" {
		t.Fatalf("origin value (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint8{1, 2}, b); diff != "" {
		t.Fatalf("fork value (-want +got):\n%s", diff)
	}
	if _, err := s.Push([]byte("x")); !errors.Is(err, chunkparse.ErrSessionDone) {
		t.Fatalf("expected ErrSessionDone, got %v", err)
	}
}

func TestSession_ErrorIsTerminal(t *testing.T) {
	s := chunkparse.NewSession(g.Int[uint8]())
	_, err := s.Push([]byte("25"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err = s.Push([]byte("6")); chunkparse.IssueCode(err) != chunkparse.CodeOutOfRange {
		t.Fatalf("expected out_of_range, got %v", err)
	}
	if _, again := s.Push([]byte("0")); again == nil || s.Err() == nil {
		t.Fatalf("errored session must stay failed")
	}
}

func TestSession_CloseAndResume(t *testing.T) {
	p := g.Int[int32]()
	r, err := p.Parse(nil, []byte("-4"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	s := chunkparse.ResumeSession(p, r.State)
	if _, err := s.Push([]byte("2")); err != nil {
		t.Fatalf("push: %v", err)
	}
	v, err := s.Close()
	if err != nil || v != -42 {
		t.Fatalf("expected -42, got %d err=%v", v, err)
	}
	if _, err := chunkparse.NewSession(g.Literal("x")).Close(); chunkparse.IssueCode(err) != chunkparse.CodeUnexpectedEnd {
		t.Fatalf("expected unexpected_end, got %v", err)
	}
}

func TestStatus_String(t *testing.T) {
	if chunkparse.Incomplete.String() != "incomplete" || chunkparse.Finished.String() != "finished" {
		t.Fatalf("unexpected status names")
	}
}
