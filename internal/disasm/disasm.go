// Package disasm renders a compiled ObjFunction's bytecode as a
// human-readable instruction listing, for the `hobbyl disasm` command.
package disasm

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// Function writes name's full disassembly to w: one line per instruction,
// each nested function constant dumped recursively afterward.
func Function(w io.Writer, fn *value.ObjFunction, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)

	offset := 0
	for offset < len(fn.Code) {
		offset = instruction(w, fn, offset)
	}

	for _, c := range fn.Constants {
		if c.IsObj() {
			if nested, ok := c.AsObj().(*value.ObjFunction); ok {
				fmt.Fprintln(w)
				nestedName := "<anonymous>"
				if nested.Name != nil {
					nestedName = nested.Name.String()
				}
				Function(w, nested, nestedName)
			}
		}
	}
}

// instruction decodes and prints the single instruction at offset, returning
// the offset of the next one.
func instruction(w io.Writer, fn *value.ObjFunction, offset int) int {
	op := compiler.Op(fn.Code[offset])
	line := 0
	if offset < len(fn.Lines) {
		line = fn.Lines[offset]
	}

	lineCol := fmt.Sprintf("%4d", line)
	if offset > 0 && offset-1 < len(fn.Lines) && fn.Lines[offset-1] == line {
		lineCol = "   |"
	}

	switch compiler.OperandSize(op) {
	case 0:
		fmt.Fprintf(w, "%04d %s %s\n", offset, lineCol, op)
		return offset + 1
	case 1:
		operand := fn.Code[offset+1]
		fmt.Fprintf(w, "%04d %s %-16s %4d%s\n", offset, lineCol, op, operand, constantHint(fn, op, operand))
		if op == compiler.OpClosure && int(operand) < len(fn.Constants) {
			// skip the (isLocal, index) pair emitted per captured upvalue
			if nested, ok := fn.Constants[operand].AsObj().(*value.ObjFunction); ok {
				return offset + 2 + 2*nested.UpvalueCount
			}
		}
		return offset + 2
	case 2:
		switch op {
		case compiler.OpInvoke, compiler.OpEnumValue:
			name, arg := fn.Code[offset+1], fn.Code[offset+2]
			fmt.Fprintf(w, "%04d %s %-16s %4d %4d%s\n", offset, lineCol, op, name, arg, constantHint(fn, op, name))
			return offset + 3
		default: // jump family: 2B big-endian offset
			hi, lo := fn.Code[offset+1], fn.Code[offset+2]
			jumpOffset := int(hi)<<8 | int(lo)
			target := offset + 3
			if op == compiler.OpLoop {
				target -= jumpOffset
			} else {
				target += jumpOffset
			}
			fmt.Fprintf(w, "%04d %s %-16s %4d -> %d\n", offset, lineCol, op, jumpOffset, target)
			return offset + 3
		}
	}
	fmt.Fprintf(w, "%04d %s illegal operand size for %s\n", offset, lineCol, op)
	return offset + 1
}

// constantHint annotates an instruction with the constant-pool value it
// names, for opcodes whose operand is a constant-pool index.
func constantHint(fn *value.ObjFunction, op compiler.Op, idx byte) string {
	switch op {
	case compiler.OpConstant, compiler.OpDefineGlobal, compiler.OpGetGlobal, compiler.OpSetGlobal,
		compiler.OpGetProperty, compiler.OpPushProperty, compiler.OpSetProperty, compiler.OpInitProperty,
		compiler.OpGetStatic, compiler.OpInvoke, compiler.OpEnum, compiler.OpStruct,
		compiler.OpEnumValue, compiler.OpStructField, compiler.OpMethod, compiler.OpStaticMethod:
		if int(idx) < len(fn.Constants) {
			return fmt.Sprintf(" ; %s", value.ToString(fn.Constants[idx]))
		}
	}
	return ""
}

// Globals writes the names bound in a global table in deterministic sorted
// order, for the REPL's `:globals` introspection command. Table iteration
// order is unspecified (spec §3), so the table is first snapshotted into a
// plain map keyed by name before sorting its keys.
func Globals(w io.Writer, globals *value.Table) {
	byName := make(map[string]value.Value, globals.Len())
	for _, k := range globals.Keys() {
		v, _ := globals.Get(k)
		byName[k.String()] = v
	}

	names := maps.Keys(byName)
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "%s = %s\n", n, value.ToString(byName[n]))
	}
}
