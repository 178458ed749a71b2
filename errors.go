package chunkparse

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes
const (
	// structural mismatch
	CodeMismatch      = "mismatch"
	CodeTooFew        = "too_few"
	CodeTooShort      = "too_short"
	CodeInvalidUTF8   = "invalid_utf8"
	CodeForeignState  = "foreign_state"
	CodeUnexpectedEnd = "unexpected_end"
	// range violation
	CodeOutOfRange = "out_of_range"
	CodeOverflow   = "overflow"
	// arity violation
	CodeArity = "arity"
	// type-to-parser mapping
	CodeUnsupportedType = "unsupported_type"
)

// Category groups issue codes into the error taxonomy.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryStructural
	CategoryRange
	CategoryArity
	CategoryMapping
)

func (c Category) String() string {
	switch c {
	case CategoryStructural:
		return "structural"
	case CategoryRange:
		return "range"
	case CategoryArity:
		return "arity"
	case CategoryMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// CategoryOf classifies an issue code.
func CategoryOf(code string) Category {
	switch code {
	case CodeMismatch, CodeTooFew, CodeTooShort, CodeInvalidUTF8, CodeForeignState, CodeUnexpectedEnd:
		return CategoryStructural
	case CodeOutOfRange, CodeOverflow:
		return CategoryRange
	case CodeArity:
		return CategoryArity
	case CodeUnsupportedType:
		return CategoryMapping
	default:
		return CategoryUnknown
	}
}

// Issue describes one rejection.
type Issue struct {
	Code    string
	Message string
	// Offset is the byte offset of the rejection within the chunk passed to
	// the outermost Parse call (-1 when unknown).
	Offset int
	// Expected and Got carry the bytes involved in a mismatch, when known.
	Expected string
	Got      string
	// Params carries structured parameters (e.g. {"min":2, "got":1}).
	Params map[string]any
	Cause  error
}

// Issues is the error type returned by every parser.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. mismatch at 3: expected "]", got ","
		fmt.Fprintf(b, "%s at %d", it.Code, it.Offset)
		if it.Expected != "" || it.Got != "" {
			fmt.Fprintf(b, ": expected %q, got %q", it.Expected, it.Got)
		} else if it.Message != "" && it.Message != it.Code {
			b.WriteString(": ")
			b.WriteString(it.Message)
		}
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes the causes for errors.Is/As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueCode returns the code of the first issue carried by err, or "" when
// err is nil or not an Issues value.
func IssueCode(err error) string {
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		return iss[0].Code
	}
	return ""
}

// IsCategory reports whether err carries an issue of the given category.
func IsCategory(err error, c Category) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if CategoryOf(it.Code) == c {
			return true
		}
	}
	return false
}
