package value

// ObjStruct is a user-defined aggregate type: a name plus three Tables
// (spec §3 "Struct") — default field values assigned at instantiation,
// instance methods, and static ("Type:method") methods.
type ObjStruct struct {
	Header
	Name          *ObjString
	DefaultFields Table
	Methods       Table
	StaticMethods Table
}

func (s *ObjStruct) ObjKind() ObjKind { return ObjKindStruct }

// ObjInstance is a live value of some ObjStruct: a fixed field-key set
// (equal to the struct's default fields at construction time, spec I6)
// holding per-instance values.
type ObjInstance struct {
	Header
	Struct *ObjStruct
	Fields Table
}

func (i *ObjInstance) ObjKind() ObjKind { return ObjKindInstance }

// Attr implements property/method lookup for GET_PROPERTY: an instance
// field takes priority over a struct method of the same name, matching the
// original hobby-lang's `hl_OP_GET_PROPERTY` lookup order.
func (i *ObjInstance) Attr(h *Heap, name *ObjString) (Value, bool) {
	if v, ok := i.Fields.Get(name); ok {
		return v, true
	}
	if v, ok := i.Struct.Methods.Get(name); ok {
		closure := v.AsObj().(*ObjClosure)
		return FromObj(h.NewBoundMethod(FromObj(i), closure)), true
	}
	return Value{}, false
}
