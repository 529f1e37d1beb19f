package compiler

import "strings"

// CompileError aggregates every syntax error collected across one
// compilation (spec §7: a single bad program can report several errors,
// not just the first). Its Error() joins them with newlines, each already
// formatted as "[line N] Error at '...': message" by the parser.
type CompileError struct {
	Errs []error
}

func (e *CompileError) Error() string {
	lines := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func (e *CompileError) Unwrap() []error { return e.Errs }
