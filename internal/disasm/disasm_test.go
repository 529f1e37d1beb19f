package disasm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hobbyl-lang/hobbyl/internal/disasm"
	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

func TestFunctionDisassemblesTopLevelAndNested(t *testing.T) {
	h := value.NewHeap()
	fn, err := compiler.Compile([]byte(`
		func add(a, b) {
			return a + b;
		}
		print(add(1, 2));
	`), h)
	require.NoError(t, err)

	var buf bytes.Buffer
	disasm.Function(&buf, fn, "script")
	out := buf.String()

	require.Contains(t, out, "== script ==")
	require.Contains(t, out, "CLOSURE")
	require.Contains(t, out, "CALL")
	require.Contains(t, out, "== add ==", "the nested function's own disassembly must be dumped recursively")
	require.Contains(t, out, "ADD")
	require.Contains(t, out, "RETURN")
}

func TestFunctionAnnotatesConstantOperands(t *testing.T) {
	h := value.NewHeap()
	fn, err := compiler.Compile([]byte(`var greeting = "hi";`), h)
	require.NoError(t, err)

	var buf bytes.Buffer
	disasm.Function(&buf, fn, "script")
	require.Contains(t, buf.String(), `; hi`)
	require.Contains(t, buf.String(), `; greeting`)
}

func TestGlobalsPrintsSortedBoundNames(t *testing.T) {
	h := value.NewHeap()
	globals := value.NewTable()
	globals.Set(h.CopyString([]byte("zebra")), value.Number(1))
	globals.Set(h.CopyString([]byte("alpha")), value.Number(2))

	var buf bytes.Buffer
	disasm.Globals(&buf, globals)
	require.Equal(t, "alpha = 2\nzebra = 1\n", buf.String())
}
