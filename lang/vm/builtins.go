package vm

import (
	"fmt"
	"time"

	"github.com/dolthub/swiss"

	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// builtinRegistry backs the VM's host-function lookup at bootstrap
// (SPEC_FULL.md "domain stack": swiss.Map[string, *ObjHostFunction]). It
// is only consulted once, while installBuiltins seeds the global table;
// script code never queries it directly, since after bootstrap a builtin
// is just another global Value like any user-defined one.
type builtinRegistry struct {
	m *swiss.Map[string, *value.ObjHostFunction]
}

func newBuiltinRegistry(s *State) *builtinRegistry {
	return &builtinRegistry{m: swiss.NewMap[string, *value.ObjHostFunction](8)}
}

func (r *builtinRegistry) register(s *State, name string, fn value.HostFunc) {
	hf := s.heap.NewHostFunction(name, fn)
	r.m.Put(name, hf)
}

// installBuiltins defines clock, print, error, and toString as globals
// (spec §1 "host-language bindings", §6). These are the only built-ins in
// scope; everything else a script needs is expressed in Hobbyl itself.
func (s *State) installBuiltins() {
	s.builtins.register(s, "clock", builtinClock)
	s.builtins.register(s, "print", s.builtinPrint())
	s.builtins.register(s, "error", builtinError)
	s.builtins.register(s, "toString", s.builtinToString())

	s.builtins.m.Iter(func(name string, hf *value.ObjHostFunction) bool {
		key := s.heap.CopyString([]byte(name))
		s.globals.Set(key, value.FromObj(hf))
		return false
	})
}

func builtinClock(args []value.Value) (value.Value, bool, string) {
	return value.Number(float64(time.Now().UnixNano()) / 1e9), true, ""
}

// builtinPrint writes each argument's ToString form to Stdout, tab
// separated, followed by a newline, and returns nil (spec §6; confirmed by
// original_source/src/vm.c's printf("\t") between arguments).
func (s *State) builtinPrint() value.HostFunc {
	return func(args []value.Value) (value.Value, bool, string) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(s.Stdout, "\t")
			}
			fmt.Fprint(s.Stdout, value.ToString(a))
		}
		fmt.Fprintln(s.Stdout)
		return value.Nil, true, ""
	}
}

// builtinError is the script-level primitive to raise a runtime error
// (spec §7: "error(\"…\") is the script-level primitive to raise a runtime
// error"). Its message argument becomes the RuntimeError's text.
func builtinError(args []value.Value) (value.Value, bool, string) {
	msg := "error"
	if len(args) > 0 {
		msg = value.ToString(args[0])
	}
	return value.Nil, false, msg
}

// builtinToString exposes value.ToString (spec §6's string-form table) as
// a callable script primitive, returning a freshly interned string.
func (s *State) builtinToString() value.HostFunc {
	return func(args []value.Value) (value.Value, bool, string) {
		if len(args) != 1 {
			return value.Nil, false, "toString expects exactly one argument"
		}
		str := s.heap.CopyString([]byte(value.ToString(args[0])))
		return value.FromObj(str), true, ""
	}
}
