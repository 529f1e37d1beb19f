package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"

	"github.com/hobbyl-lang/hobbyl/internal/disasm"
	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
	"github.com/hobbyl-lang/hobbyl/lang/vm"
)

// Repl runs an interactive read-eval-print loop: each line is compiled and
// executed against a VM State that persists across lines, so declarations
// made on one line stay visible to the next (spec §6 "repl"; SPEC_FULL.md's
// ambient-tooling expansion).
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var cfg vm.Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid environment configuration: %s\n", err)
		return err
	}
	if c.GCInitial > 0 {
		cfg.GCInitial = c.GCInitial
	}

	state := vm.New(cfg, stdio.Stdout, stdio.Stderr)
	// mainer.Stdio only carries Stdout/Stderr (the teacher's CLI never reads
	// interactively); the REPL reads its lines directly from the process's
	// standard input.
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Fprintln(stdio.Stdout, "hobbyl repl — ':globals' lists bound globals, ':quit' exits")
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":globals":
			disasm.Globals(stdio.Stdout, state.Globals())
			continue
		}

		fn, err := compiler.Compile([]byte(line), state.Heap())
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}

		result, err := state.Run(fn)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		if !result.IsNil() {
			fmt.Fprintln(stdio.Stdout, value.ToString(result))
		}
	}
	return scanner.Err()
}
