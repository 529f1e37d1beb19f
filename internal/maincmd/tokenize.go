package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/hobbyl-lang/hobbyl/lang/lexer"
	"github.com/hobbyl-lang/hobbyl/lang/token"
)

// Tokenize runs the lexer over each file in args and prints its token
// stream, one token per line, in the teacher's "[line N]: KIND text" shape
// (SPEC_FULL.md's "tokenize" ambient-tooling command).
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		if err := tokenizeFile(stdio, path); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("tokenize: one or more files failed")
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	l := lexer.New(src)
	for {
		tok := l.Next()
		fmt.Fprintf(stdio.Stdout, "[line %d]: %s", tok.Line, tok.Kind)
		if tok.Text != "" && tok.Kind != token.EOF {
			fmt.Fprintf(stdio.Stdout, " %q", tok.Text)
		}
		if tok.Kind == token.ILLEGAL {
			fmt.Fprintf(stdio.Stdout, " (%s)", tok.Error)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}
