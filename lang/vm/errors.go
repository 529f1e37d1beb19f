package vm

import "strings"

// RuntimeError wraps a script-level fault together with the formatted
// stack trace captured at the moment it was raised (spec §7 "Runtime
// errors": "prints the message plus a full stack trace").
type RuntimeError struct {
	Message string
	Trace   []string
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, line := range e.Trace {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}
