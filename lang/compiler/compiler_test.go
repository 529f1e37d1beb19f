package compiler_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hobbyl-lang/hobbyl/internal/filetest"
	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

var testUpdateCompilerTests = flag.Bool("test.update-compiler-tests", false, "If set, replace expected compiler error golden files with actual results.")

func mustCompile(t *testing.T, src string) *value.ObjFunction {
	t.Helper()
	fn, err := compiler.Compile([]byte(src), value.NewHeap())
	require.NoError(t, err)
	return fn
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	fn := mustCompile(t, "1 + 2 * 3;")
	require.Equal(t, []byte{
		byte(compiler.OpConstant), 0, byte(compiler.OpConstant), 1, byte(compiler.OpConstant), 2,
		byte(compiler.OpMultiply), byte(compiler.OpAdd), byte(compiler.OpPop),
		byte(compiler.OpNil), byte(compiler.OpReturn),
	}, fn.Code, "2 * 3 must be multiplied before the addition")
}

// TestCompileErrorsGolden compiles every testdata/in/*.hb source expected to
// fail and diffs the resulting CompileError text against testdata/out's
// golden .err file, the way the teacher's parser_test.go diffs parser output.
func TestCompileErrorsGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")
	for _, fi := range filetest.SourceFiles(t, srcDir, ".hb") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			_, cerr := compiler.Compile(src, value.NewHeap())
			var errText string
			if cerr != nil {
				errText = cerr.Error()
			}
			filetest.DiffErrors(t, fi, errText, resultDir, testUpdateCompilerTests)
		})
	}
}

func TestCompileRedeclareAtDifferentDepthOK(t *testing.T) {
	_, err := compiler.Compile([]byte("{ var a = 1; { var a = 2; } }"), value.NewHeap())
	require.NoError(t, err)
}

func TestCompileGlobalRedefinitionIsLegal(t *testing.T) {
	_, err := compiler.Compile([]byte("var a = 1; var a = 2;"), value.NewHeap())
	require.NoError(t, err, "redefining a global at top level is legal, unlike a local")
}

func TestCompileAggregatesMultipleErrors(t *testing.T) {
	_, err := compiler.Compile([]byte("{ var a = a; } { var b = b; }"), value.NewHeap())
	require.Error(t, err)
	var cerr *compiler.CompileError
	require.ErrorAs(t, err, &cerr)
	require.Len(t, cerr.Errs, 2)
}

func TestCompileClosureCapturesEnclosingLocal(t *testing.T) {
	src := `
		func counter() {
			var n = 0;
			func incr() {
				n = n + 1;
				return n;
			}
			return incr;
		}
	`
	fn := mustCompile(t, src)
	require.NotEmpty(t, fn.Constants, "the nested function must land in the constant pool")
	counter := fn.Constants[0].AsObj().(*value.ObjFunction)
	incr := counter.Constants[1].AsObj().(*value.ObjFunction)
	require.Equal(t, 1, incr.UpvalueCount, "incr must capture counter's local n as one upvalue")
}

func TestCompileStructDeclaration(t *testing.T) {
	src := `
		struct Point {
			var x = 0;
			var y = 0;
			func sum() {
				return self.x + self.y;
			}
			static func origin() {
				return Point{};
			}
		}
		var p = Point{.x = 1, .y = 2};
		Point:origin();
	`
	fn := mustCompile(t, src)
	require.NotEmpty(t, fn.Code)
}

func TestCompileEnumDeclaration(t *testing.T) {
	fn := mustCompile(t, `enum Color { RED, GREEN, BLUE }`)
	require.NotEmpty(t, fn.Code)
}

func TestCompileLoopBreak(t *testing.T) {
	src := `
		var i = 0;
		while (i < 10) {
			i = i + 1;
			if (i == 5) {
				break;
			}
		}
	`
	fn := mustCompile(t, src)
	require.NotEmpty(t, fn.Code)
}

func TestCompileTooManyConstantsErrors(t *testing.T) {
	src := "var a = 0;\n"
	for i := 0; i < 300; i++ {
		src += "a = a + 1;\n"
	}
	_, err := compiler.Compile([]byte(src), value.NewHeap())
	require.Error(t, err)
	require.Contains(t, err.Error(), "too many constants")
}
