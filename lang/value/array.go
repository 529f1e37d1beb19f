package value

// ObjArray is a Value vector, indexable by non-negative integers (spec §3
// "Array"), built by the VM's ARRAY opcode. Its length is fixed when it is
// built.
type ObjArray struct {
	Header
	Values []Value
}

func (a *ObjArray) ObjKind() ObjKind { return ObjKindArray }

func (a *ObjArray) Len() int { return len(a.Values) }

// Get returns element i. The caller (the VM's GET_SUBSCRIPT handler) is
// responsible for bounds-checking per spec §9's corrected semantics
// (index >= Len() is out of bounds, unlike the original's off-by-one).
func (a *ObjArray) Get(i int) Value { return a.Values[i] }

func (a *ObjArray) Set(i int, v Value) { a.Values[i] = v }
