package vm_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
	"github.com/hobbyl-lang/hobbyl/lang/vm"
)

// run compiles and executes src against a fresh State, returning stdout.
func run(t *testing.T, src string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	state := vm.New(vm.Config{}, &out, &errOut)
	fn, err := compiler.Compile([]byte(src), state.Heap())
	require.NoError(t, err, "compile error: %s", errOut.String())
	_, err = state.Run(fn)
	require.NoError(t, err, "runtime error: %s", errOut.String())
	return out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	out := run(t, `
		print(2 + 3 * 4);
		print(2 ** 3 ** 2);
		print(7 % 3);
	`)
	require.Equal(t, "14\n512\n1\n", out)
}

func TestClosuresCaptureByReference(t *testing.T) {
	out := run(t, `
		func make() {
			var x = 0;
			func incr() { x = x + 1; return x; }
			return incr;
		}
		var f = make();
		print(f()); print(f()); print(f());
	`)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestStructMethodAndStatic(t *testing.T) {
	out := run(t, `
		struct P {
			var x = 0;
			var y = 0;
			func sum() { return self.x + self.y; }
			static func origin() { return P { .x = 0, .y = 0 }; }
		}
		var p = P { .x = 3, .y = 4 };
		print(p.sum());
		print(P:origin().x);
	`)
	require.Equal(t, "7\n0\n", out)
}

func TestLoopBreakContinueMatch(t *testing.T) {
	out := run(t, `
		var s = 0;
		var i = 0;
		while (i < 10) {
			i = i + 1;
			match (i) {
				case 3 => { continue; }
				case 7 => { break; }
			}
			s = s + i;
		}
		print(s);
	`)
	require.Equal(t, "18\n", out)
}

func TestStringInterningAndConcat(t *testing.T) {
	out := run(t, `
		var a = "foo";
		var b = "f" .. "oo";
		print(a == b);
	`)
	require.Equal(t, "true\n", out)
}

func TestEnum(t *testing.T) {
	out := run(t, `
		enum Color { Red, Green, Blue }
		print(Color:Green);
	`)
	require.Equal(t, "1\n", out)
}

func TestPrintJoinsMultipleArgumentsWithTab(t *testing.T) {
	out := run(t, `print(1, "two", 3);`)
	require.Equal(t, "1\ttwo\t3\n", out)
}

func TestGlobalRedefinitionIsLegalButAssignToUndefinedErrors(t *testing.T) {
	out := run(t, `
		var a = 1;
		var a = 2;
		print(a);
	`)
	require.Equal(t, "2\n", out)

	var outBuf, errBuf bytes.Buffer
	state := vm.New(vm.Config{}, &outBuf, &errBuf)
	fn, err := compiler.Compile([]byte("undeclared = 1;"), state.Heap())
	require.NoError(t, err)
	_, err = state.Run(fn)
	require.Error(t, err, "assigning to an undefined global must fail at runtime")
	require.Contains(t, err.Error(), "undefined variable")
}

func TestArrayIndexOutOfBoundsIsStrict(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	state := vm.New(vm.Config{}, &outBuf, &errBuf)
	fn, err := compiler.Compile([]byte("var a = [1, 2, 3]; print(a[3]);"), state.Heap())
	require.NoError(t, err)
	_, err = state.Run(fn)
	require.Error(t, err, "index == length must be rejected by the strict bounds check")
}

func TestArrayIndexInBoundsWorks(t *testing.T) {
	out := run(t, `var a = [1, 2, 3]; print(a[2]);`)
	require.Equal(t, "3\n", out)
}

func TestModuloLawHoldsForNumbers(t *testing.T) {
	out := run(t, `print(7 % 3); print(-7 % 3);`)
	require.Equal(t, "1\n-1\n", out, "Hobbyl's modulo follows math.Mod's sign convention, matching its IEEE-754 remainder semantics")
}

func TestToStringIsIdempotent(t *testing.T) {
	h := value.NewHeap()
	for _, v := range []value.Value{value.Number(3.5), value.Bool(true), value.Nil} {
		once := value.ToString(v)
		twice := value.ToString(value.FromObj(h.CopyString([]byte(once))))
		require.Equal(t, once, twice, "rendering a Value's string form again must not change it")
	}
	require.Equal(t, "3.5", value.ToString(value.Number(3.5)))
}

func TestRuntimeErrorCapturesStackTrace(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	state := vm.New(vm.Config{}, &outBuf, &errBuf)
	fn, err := compiler.Compile([]byte(`
		func boom() {
			return 1 + "not a number";
		}
		boom();
	`), state.Heap())
	require.NoError(t, err)
	_, err = state.Run(fn)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.NotEmpty(t, rerr.Trace)
}

func TestBuiltinErrorRaisesRuntimeError(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	state := vm.New(vm.Config{}, &outBuf, &errBuf)
	fn, err := compiler.Compile([]byte(`error("boom");`), state.Heap())
	require.NoError(t, err)
	_, err = state.Run(fn)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestGCReclaimsUnreachableObjectsWithoutCorruptingLiveState(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	state := vm.New(vm.Config{GCInitial: 1}, &outBuf, &errBuf)
	fn, err := compiler.Compile([]byte(`
		var kept = "kept";
		func churn() {
			var i = 0;
			while (i < 64) {
				var garbage = "x" .. "y" .. "z";
				i = i + 1;
			}
		}
		churn();
		print(kept);
	`), state.Heap())
	require.NoError(t, err)
	_, err = state.Run(fn)
	require.NoError(t, err, "runtime error: %s", errBuf.String())
	require.Equal(t, "kept\n", outBuf.String())
}

func TestModuloSpecialCaseNaN(t *testing.T) {
	require.True(t, math.IsNaN(math.Mod(1, 0)))
}
