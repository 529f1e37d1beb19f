// Package compiler implements Hobbyl's single-pass Pratt parser and
// bytecode emitter (spec §4.G): source tokens are compiled directly into an
// ObjFunction's bytecode in one forward pass, with no intermediate AST.
package compiler

import "fmt"

// Op identifies one bytecode instruction (spec §4.H opcode table).
type Op byte

//nolint:revive
const (
	OpConstant Op = iota // CONSTANT <u8 idx>
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpArray        // ARRAY <u8 n>
	OpGetSubscript
	OpSetSubscript
	OpDefineGlobal // DEFINE_GLOBAL <u8 constIdx>
	OpGetGlobal    // <u8 constIdx>
	OpSetGlobal    // <u8 constIdx>
	OpGetLocal     // <u8 slot>
	OpSetLocal     // <u8 slot>
	OpGetUpvalue   // <u8 idx>
	OpSetUpvalue   // <u8 idx>
	OpGetProperty  // <u8 nameIdx>
	OpPushProperty // <u8 nameIdx>
	OpSetProperty  // <u8 nameIdx>
	OpInitProperty // <u8 nameIdx>
	OpGetStatic    // <u8 nameIdx>
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	OpConcat
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPow
	OpNegate
	OpNot
	OpJump             // <u16 be offset>
	OpJumpIfFalse      // <u16 be offset>
	OpInequalityJump   // <u16 be offset>
	OpLoop             // <u16 be offset>
	OpCall             // <u8 argc>
	OpInvoke           // <u8 nameIdx> <u8 argc>
	OpInstance
	OpClosure    // <u8 fnConstIdx> then per-upvalue (u8 isLocal, u8 index)
	OpCloseUpvalue
	OpReturn
	OpEnum       // <u8 nameIdx>
	OpStruct     // <u8 nameIdx>
	OpEnumValue  // <u8 nameIdx> <u8 value>
	OpStructField // <u8 nameIdx>
	OpMethod      // <u8 nameIdx>
	OpStaticMethod // <u8 nameIdx>
	OpBreak        // <u16 be placeholder, rewritten to OpJump>
)

var opNames = [...]string{
	OpConstant:       "CONSTANT",
	OpNil:            "NIL",
	OpTrue:           "TRUE",
	OpFalse:          "FALSE",
	OpPop:            "POP",
	OpArray:          "ARRAY",
	OpGetSubscript:   "GET_SUBSCRIPT",
	OpSetSubscript:   "SET_SUBSCRIPT",
	OpDefineGlobal:   "DEFINE_GLOBAL",
	OpGetGlobal:      "GET_GLOBAL",
	OpSetGlobal:      "SET_GLOBAL",
	OpGetLocal:       "GET_LOCAL",
	OpSetLocal:       "SET_LOCAL",
	OpGetUpvalue:     "GET_UPVALUE",
	OpSetUpvalue:     "SET_UPVALUE",
	OpGetProperty:    "GET_PROPERTY",
	OpPushProperty:   "PUSH_PROPERTY",
	OpSetProperty:    "SET_PROPERTY",
	OpInitProperty:   "INIT_PROPERTY",
	OpGetStatic:      "GET_STATIC",
	OpEqual:          "EQUAL",
	OpNotEqual:       "NOT_EQUAL",
	OpGreater:        "GREATER",
	OpGreaterEqual:   "GREATER_EQUAL",
	OpLess:           "LESS",
	OpLessEqual:      "LESSER_EQUAL",
	OpConcat:         "CONCAT",
	OpAdd:            "ADD",
	OpSubtract:       "SUBTRACT",
	OpMultiply:       "MULTIPLY",
	OpDivide:         "DIVIDE",
	OpModulo:         "MODULO",
	OpPow:            "POW",
	OpNegate:         "NEGATE",
	OpNot:            "NOT",
	OpJump:           "JUMP",
	OpJumpIfFalse:    "JUMP_IF_FALSE",
	OpInequalityJump: "INEQUALITY_JUMP",
	OpLoop:           "LOOP",
	OpCall:           "CALL",
	OpInvoke:         "INVOKE",
	OpInstance:       "INSTANCE",
	OpClosure:        "CLOSURE",
	OpCloseUpvalue:   "CLOSE_UPVALUE",
	OpReturn:         "RETURN",
	OpEnum:           "ENUM",
	OpStruct:         "STRUCT",
	OpEnumValue:      "ENUM_VALUE",
	OpStructField:    "STRUCT_FIELD",
	OpMethod:         "METHOD",
	OpStaticMethod:   "STATIC_METHOD",
	OpBreak:          "BREAK",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// OperandSize returns the number of immediate operand bytes following op in
// the bytecode stream (0 for none, matching spec §4.H's per-opcode table).
// For CLOSURE it counts only the function-constant index; the (isLocal,
// index) pair per upvalue that follows it is not included.
func OperandSize(op Op) int {
	switch op {
	case OpConstant, OpArray, OpDefineGlobal, OpGetGlobal, OpSetGlobal,
		OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpGetProperty,
		OpPushProperty, OpSetProperty, OpInitProperty, OpGetStatic, OpCall,
		OpClosure, OpEnum, OpStruct, OpStructField, OpMethod, OpStaticMethod:
		return 1
	case OpInvoke, OpEnumValue:
		return 2
	case OpJump, OpJumpIfFalse, OpInequalityJump, OpLoop, OpBreak:
		return 2
	default:
		return 0
	}
}
