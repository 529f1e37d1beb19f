package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"

	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/vm"
)

// Run compiles and executes each file in args in turn, each getting its own
// fresh VM State (spec §6 "run").
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var cfg vm.Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid environment configuration: %s\n", err)
		return err
	}
	if c.GCInitial > 0 {
		cfg.GCInitial = c.GCInitial
	}

	var failed bool
	for _, path := range args {
		if err := runFile(stdio, cfg, path); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("run: one or more files failed")
	}
	return nil
}

func runFile(stdio mainer.Stdio, cfg vm.Config, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	state := vm.New(cfg, stdio.Stdout, stdio.Stderr)
	fn, err := compiler.Compile(src, state.Heap())
	if err != nil {
		return err
	}

	_, err = state.Run(fn)
	return err
}
