package value

// ObjFunction holds one compiled function's bytecode, its parallel
// line-number table, its constant pool, and its arity/upvalue counts (spec
// §3 "Function"). The top-level script is a nameless ObjFunction.
type ObjFunction struct {
	Header
	Arity        int
	UpvalueCount int
	Name         *ObjString // nil for the top-level script

	Code      []byte
	Lines     []int // parallel to Code, one entry per opcode byte
	Constants []Value
}

func (f *ObjFunction) ObjKind() ObjKind { return ObjKindFunction }

// AddConstant appends v to the constant pool and returns its index. Per
// spec I5 a function may hold at most 256 constants; the caller (the
// compiler) is responsible for rejecting the 257th.
func (f *ObjFunction) AddConstant(v Value) int {
	f.Constants = append(f.Constants, v)
	return len(f.Constants) - 1
}

// WriteByte appends one bytecode byte, recording the source line it came
// from in the parallel Lines array (spec §3 "Function").
func (f *ObjFunction) WriteByte(b byte, line int) {
	f.Code = append(f.Code, b)
	f.Lines = append(f.Lines, line)
}

// HostFunc is the signature of a built-in function implementation (spec
// §4.H "HostFunction: opaque host callback"). args is the slice of
// argument values on the VM stack; ok=false signals a runtime error whose
// message is errMsg.
type HostFunc func(args []Value) (result Value, ok bool, errMsg string)

// ObjHostFunction is the heap representation of a host-provided builtin
// (spec §3 "HostFunction").
type ObjHostFunction struct {
	Header
	Name string
	Fn   HostFunc
}

func (h *ObjHostFunction) ObjKind() ObjKind { return ObjKindHostFunction }
