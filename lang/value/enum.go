package value

// ObjEnum is an enumeration: a name plus a Table mapping each member name
// to its 0-based declaration-order integer Value (spec §3 "Enum").
type ObjEnum struct {
	Header
	Name   *ObjString
	Values Table
}

func (e *ObjEnum) ObjKind() ObjKind { return ObjKindEnum }
