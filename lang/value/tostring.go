package value

import (
	"fmt"
	"math"
	"strconv"
)

// ToString renders v the way spec §6 specifies for print, toString, and
// error-message formatting.
func ToString(v Value) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.num)
	case KindObj:
		return objString(v.obj)
	}
	return "?"
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(n, 'g', 14, 64)
	}
}

func objString(o Obj) string {
	switch x := o.(type) {
	case *ObjString:
		return string(x.Bytes)
	case *ObjClosure:
		if x.Function.Name == nil {
			return "<script>"
		}
		return fmt.Sprintf("<function %s %p>", x.Name(), x)
	case *ObjFunction:
		if x.Name == nil {
			return "<script>"
		}
		return fmt.Sprintf("<function %s %p>", string(x.Name.Bytes), x)
	case *ObjBoundMethod:
		return objString(x.Method)
	case *ObjHostFunction:
		return fmt.Sprintf("<cfunction %p>", x)
	case *ObjStruct:
		return fmt.Sprintf("<struct %s>", string(x.Name.Bytes))
	case *ObjInstance:
		return fmt.Sprintf("<%s instance %p>", string(x.Struct.Name.Bytes), x)
	case *ObjEnum:
		return fmt.Sprintf("<enum %s>", string(x.Name.Bytes))
	case *ObjArray:
		return fmt.Sprintf("<array %p>", x)
	}
	return "<obj>"
}

// TypeName returns a short string describing v's dynamic type, used in
// runtime-error messages ("Can only call functions", etc.).
func TypeName(v Value) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObj:
		return v.obj.ObjKind().String()
	}
	return "?"
}
