package value

// ObjKind tags the dynamic type of a heap Obj (spec §3 "Object kinds").
type ObjKind uint8

const (
	ObjKindString ObjKind = iota
	ObjKindFunction
	ObjKindClosure
	ObjKindUpvalue
	ObjKindHostFunction
	ObjKindBoundMethod
	ObjKindStruct
	ObjKindInstance
	ObjKindEnum
	ObjKindArray
)

func (k ObjKind) String() string {
	switch k {
	case ObjKindString:
		return "string"
	case ObjKindFunction:
		return "function"
	case ObjKindClosure:
		return "closure"
	case ObjKindUpvalue:
		return "upvalue"
	case ObjKindHostFunction:
		return "cfunction"
	case ObjKindBoundMethod:
		return "bound method"
	case ObjKindStruct:
		return "struct"
	case ObjKindInstance:
		return "instance"
	case ObjKindEnum:
		return "enum"
	case ObjKindArray:
		return "array"
	}
	return "unknown"
}

// Obj is implemented by every heap-allocated object kind. Every
// implementation embeds Header, which carries the GC's mark bit and the
// intrusive next-pointer used by sweep (spec §3 "Each heap object carries").
type Obj interface {
	ObjKind() ObjKind
	Marked() bool
	SetMarked(bool)
	Next() Obj
	SetNext(Obj)
}

// Header is the common heap-object prefix: the GC mark bit and the
// singly-linked "all objects" list pointer used by the sweep phase (spec
// §3, §4.E). It is embedded, never used standalone.
type Header struct {
	marked bool
	next   Obj
}

func (h *Header) Marked() bool    { return h.marked }
func (h *Header) SetMarked(m bool) { h.marked = m }
func (h *Header) Next() Obj       { return h.next }
func (h *Header) SetNext(o Obj)   { h.next = o }
