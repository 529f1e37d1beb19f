// Package vm executes Hobbyl bytecode (spec §4.H): a stack-based dispatch
// loop over a shared Value stack and call-frame stack, with closures,
// upvalues, the struct/instance/enum object model, and a tracing
// mark-and-sweep garbage collector.
package vm

import (
	"io"

	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// FramesMax is the maximum call-frame depth (spec §3 "Stack & frames").
const FramesMax = 64

// StackMax is the Value stack's fixed capacity (spec §3: "FRAMES_MAX × 256").
const StackMax = FramesMax * 256

// Config holds the VM's environment-tunable limits, loaded from the
// process environment via caarlos0/env (SPEC_FULL.md "Ambient stack:
// configuration"). Zero values fall back to the spec's hard-coded
// defaults in New.
type Config struct {
	GCInitial  int `env:"HOBBYL_GC_INITIAL"`
	FramesMax  int `env:"HOBBYL_FRAMES_MAX"`
	MaxSteps   int `env:"HOBBYL_MAX_STEPS"` // 0 = unbounded
}

// CallFrame is one activation record: a closure, an instruction pointer
// into its function's bytecode, and a base pointer denoting slot 0 of this
// frame on the shared Value stack (spec §3 "Stack & frames").
type CallFrame struct {
	closure *value.ObjClosure
	ip      int
	base    int
}

// State is the VM's complete execution state: the Value stack, the
// call-frame stack, the open-upvalue list, the global table, and the
// shared Heap (spec §4.H "State"). Stdout/Stderr follow the teacher's
// injected-io.Writer convention instead of a global logger, so a host can
// capture script output (SPEC_FULL.md "Ambient stack: logging").
type State struct {
	stack      []value.Value
	stackTop   int
	frames     []CallFrame
	frameCount int
	steps      int

	openUpvalues *value.ObjUpvalue

	globals value.Table
	heap    *value.Heap

	builtins *builtinRegistry

	grayStack []value.Obj

	lastErr error

	cfg Config

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a State with its globals and builtin registry populated
// (component I, builtins.go) and GC threshold seeded from cfg.
func New(cfg Config, stdout, stderr io.Writer) *State {
	framesMax := FramesMax
	if cfg.FramesMax > 0 {
		framesMax = cfg.FramesMax
	}
	s := &State{
		heap:   value.NewHeap(),
		cfg:    cfg,
		Stdout: stdout,
		Stderr: stderr,
		frames: make([]CallFrame, framesMax),
		stack:  make([]value.Value, framesMax*256),
	}
	if cfg.GCInitial > 0 {
		s.heap.SetNextGC(cfg.GCInitial)
	}
	s.builtins = newBuiltinRegistry(s)
	s.installBuiltins()
	return s
}

func (s *State) Heap() *value.Heap { return s.heap }

// Globals exposes the global-variable table, for host tooling like the
// REPL's ':globals' introspection command.
func (s *State) Globals() *value.Table { return &s.globals }

func (s *State) push(v value.Value) {
	s.stack[s.stackTop] = v
	s.stackTop++
}

func (s *State) pop() value.Value {
	s.stackTop--
	return s.stack[s.stackTop]
}

func (s *State) peek(distance int) value.Value {
	return s.stack[s.stackTop-1-distance]
}

func (s *State) resetStack() {
	s.stackTop = 0
	s.frameCount = 0
	s.openUpvalues = nil
	s.steps = 0
}

// maybeCollect triggers a GC cycle if the heap has crossed its threshold
// (spec §4.E "Trigger").
func (s *State) maybeCollect() {
	if s.heap.ShouldCollect() {
		s.collectGarbage()
	}
}
