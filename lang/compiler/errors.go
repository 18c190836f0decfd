package compiler

import "strings"

// CompileError is a single diagnostic produced by the parser, already
// formatted for display: "[line N] Error at '<lexeme>':
// <msg>", "[line N] Error at end: <msg>" or "[line N] Error: <msg>" for
// synthesized-lexeme errors.
type CompileError struct {
	Line      int
	Formatted string
}

func (e *CompileError) Error() string { return e.Formatted }

// ErrorList accumulates every CompileError seen during a Compile call, in
// the order they were reported. It implements error and Unwrap() []error,
// the same shape as go/scanner's ErrorList, except that SIMPL positions
// are plain line numbers rather than file-set offsets.
type ErrorList []*CompileError

func (el ErrorList) Error() string {
	var b strings.Builder
	for i, e := range el {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

func (el ErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}
