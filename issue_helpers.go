package chunkparse

import (
	"fmt"

	"github.com/reoring/chunkparse/i18n"
)

// IssueAt creates a single-issue error with the given code at offset. Params
// are rendered into the translated message where the translator uses them.
func IssueAt(code string, offset int, params map[string]any) Issues {
	return Issues{{Code: code, Message: i18n.T(code, stringify(params)), Offset: offset, Params: params}}
}

// MismatchAt reports that got was found where expected was required.
func MismatchAt(offset int, expected, got string) Issues {
	data := map[string]string{"expected": expected, "got": got}
	return Issues{{
		Code:     CodeMismatch,
		Message:  i18n.T(CodeMismatch, data),
		Offset:   offset,
		Expected: expected,
		Got:      got,
	}}
}

// ForeignState reports a state that was not produced by the receiving parser
// kind.
func ForeignState(parser string, st State) Issues {
	return Issues{{
		Code:    CodeForeignState,
		Message: i18n.T(CodeForeignState, map[string]string{"parser": parser, "state": fmt.Sprintf("%T", st)}),
		Offset:  -1,
		Params:  map[string]any{"parser": parser, "state": fmt.Sprintf("%T", st)},
	}}
}

// Rebase shifts the offsets of a sub-parser's issues by delta so they point
// into the caller's chunk. Errors that are not Issues pass through unchanged.
func Rebase(err error, delta int) error {
	if err == nil || delta == 0 {
		return err
	}
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Offset >= 0 {
			it.Offset += delta
		}
		out[i] = it
	}
	return out
}

// Recode replaces the code (and message) of every issue carried by err while
// keeping offsets and params. It is used by aggregates that specialize a
// generic combinator failure, e.g. a count shortfall into an arity violation.
func Recode(err error, code string, params map[string]any) error {
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		merged := make(map[string]any, len(it.Params)+len(params))
		for k, v := range it.Params {
			merged[k] = v
		}
		for k, v := range params {
			merged[k] = v
		}
		it.Code = code
		it.Params = merged
		it.Message = i18n.T(code, stringify(merged))
		out[i] = it
	}
	return out
}

func stringify(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}
