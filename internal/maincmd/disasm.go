package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/hobbyl-lang/hobbyl/internal/disasm"
	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// Disasm compiles each file in args and prints its disassembled bytecode
// without executing it (component J, SPEC_FULL.md's ambient-tooling
// expansion).
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		if err := disasmFile(stdio, path); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("disasm: one or more files failed")
	}
	return nil
}

func disasmFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	heap := value.NewHeap()
	fn, err := compiler.Compile(src, heap)
	if err != nil {
		return err
	}

	disasm.Function(stdio.Stdout, fn, filepath.Base(path))
	return nil
}
