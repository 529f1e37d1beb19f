// Package value implements Hobbyl's runtime value representation (spec §3):
// the tagged Value type, the heap object kinds it can reference, and the
// interned-string hash table shared by every aggregate. Growable Value
// vectors (bytecode constant pools, script arrays) are plain []Value slices.
package value

import "math"

// Kind identifies the dynamic type of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is Hobbyl's polymorphic runtime value: nil, a boolean, a 64-bit
// float, or a reference to a heap Obj (spec §3, §9 "Polymorphic Value
// representation"). This is the tagged-union encoding the design notes
// permit as an alternative to NaN-boxing; every opcode in lang/vm operates
// on this single representation, so unlike the teacher's per-kind Value
// interface, there is exactly one Go type flowing through the stack.
type Value struct {
	kind Kind
	num  float64
	obj  Obj
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// Bool returns the Value wrapping b.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

// Number returns the Value wrapping the float64 n.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// FromObj returns the Value referencing the heap object o.
func FromObj(o Obj) Value { return Value{kind: KindObj, obj: o} }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

func (v Value) AsBool() bool      { return v.num != 0 }
func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsObj() Obj        { return v.obj }

// Truth reports whether v is "truthy": everything except nil and false,
// including the number 0 (spec §3).
func (v Value) Truth() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.num != 0
	default:
		return true
	}
}

// Equal implements Value equality per spec §3: numbers compare by IEEE-754
// equality, object-typed values compare by identity except that interned
// strings always compare equal iff they are the same object (guaranteed by
// interning, so identity comparison already gives the right answer).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.num == b.num
	case KindNumber:
		return a.num == b.num
	case KindObj:
		return a.obj == b.obj
	}
	return false
}

// IsNaN reports whether v is the number NaN.
func (v Value) IsNaN() bool { return v.kind == KindNumber && math.IsNaN(v.num) }
