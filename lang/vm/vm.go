package vm

import (
	"fmt"
	"math"

	"github.com/hobbyl-lang/hobbyl/lang/compiler"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// Run executes a freshly compiled top-level function to completion (spec
// §4.H "Dispatch loop"). It wraps fn in a closure and drives the call
// protocol exactly as a CALL opcode would for any other closure.
func (s *State) Run(fn *value.ObjFunction) (value.Value, error) {
	s.resetStack()
	closure := s.heap.NewClosure(fn)
	s.push(value.FromObj(closure))
	if !s.call(closure, 0) {
		return value.Nil, s.runtimeErr("failed to start script")
	}
	return s.run()
}

func (s *State) currentFrame() *CallFrame { return &s.frames[s.frameCount-1] }

func (s *State) readByte(f *CallFrame) byte {
	b := f.closure.Function.Code[f.ip]
	f.ip++
	return b
}

func (s *State) readShort(f *CallFrame) int {
	hi := s.readByte(f)
	lo := s.readByte(f)
	return int(hi)<<8 | int(lo)
}

func (s *State) readConstant(f *CallFrame) value.Value {
	return f.closure.Function.Constants[s.readByte(f)]
}

func (s *State) readString(f *CallFrame) *value.ObjString {
	return s.readConstant(f).AsObj().(*value.ObjString)
}

// run is the bytecode dispatch loop (spec §4.H). Every case refreshes its
// local frame pointer at the end if it may have changed frameCount.
func (s *State) run() (value.Value, error) {
	f := s.currentFrame()

	for {
		if s.cfg.MaxSteps > 0 {
			s.steps++
			if s.steps > s.cfg.MaxSteps {
				return value.Nil, s.runtimeErr("exceeded step budget of %d", s.cfg.MaxSteps)
			}
		}

		op := compiler.Op(s.readByte(f))

		switch op {
		case compiler.OpConstant:
			s.push(s.readConstant(f))

		case compiler.OpNil:
			s.push(value.Nil)
		case compiler.OpTrue:
			s.push(value.Bool(true))
		case compiler.OpFalse:
			s.push(value.Bool(false))
		case compiler.OpPop:
			s.pop()

		case compiler.OpArray:
			n := int(s.readByte(f))
			elems := make([]value.Value, n)
			copy(elems, s.stack[s.stackTop-n:s.stackTop])
			s.stackTop -= n
			arr := s.heap.NewArray(elems)
			s.push(value.FromObj(arr))
			s.maybeCollect()

		case compiler.OpGetSubscript:
			idxv := s.pop()
			arrv := s.pop()
			arr, ok := arrv.AsObj().(*value.ObjArray)
			if !ok {
				return value.Nil, s.runtimeErr("can only subscript arrays")
			}
			idx, ok := subscriptIndex(idxv, arr.Len())
			if !ok {
				return value.Nil, s.runtimeErr("array index out of bounds")
			}
			s.push(arr.Get(idx))

		case compiler.OpSetSubscript:
			v := s.pop()
			idxv := s.pop()
			arrv := s.pop()
			arr, ok := arrv.AsObj().(*value.ObjArray)
			if !ok {
				return value.Nil, s.runtimeErr("can only subscript arrays")
			}
			idx, ok := subscriptIndex(idxv, arr.Len())
			if !ok {
				return value.Nil, s.runtimeErr("array index out of bounds")
			}
			arr.Set(idx, v)
			s.push(v)

		case compiler.OpDefineGlobal:
			name := s.readString(f)
			s.globals.Set(name, s.peek(0))
			s.pop()

		case compiler.OpGetGlobal:
			name := s.readString(f)
			v, ok := s.globals.Get(name)
			if !ok {
				return value.Nil, s.runtimeErr("undefined variable '%s'", name.String())
			}
			s.push(v)

		case compiler.OpSetGlobal:
			name := s.readString(f)
			if s.globals.Set(name, s.peek(0)) {
				s.globals.Delete(name)
				return value.Nil, s.runtimeErr("undefined variable '%s'", name.String())
			}

		case compiler.OpGetLocal:
			slot := int(s.readByte(f))
			s.push(s.stack[f.base+slot])

		case compiler.OpSetLocal:
			slot := int(s.readByte(f))
			s.stack[f.base+slot] = s.peek(0)

		case compiler.OpGetUpvalue:
			idx := int(s.readByte(f))
			s.push(*f.closure.Upvalues[idx].Location)

		case compiler.OpSetUpvalue:
			idx := int(s.readByte(f))
			*f.closure.Upvalues[idx].Location = s.peek(0)

		case compiler.OpGetProperty:
			name := s.readString(f)
			inst, ok := s.peek(0).AsObj().(*value.ObjInstance)
			if !s.peek(0).IsObj() || !ok {
				return value.Nil, s.runtimeErr("only instances have properties")
			}
			v, found := inst.Attr(s.heap, name)
			if !found {
				return value.Nil, s.runtimeErr("undefined property '%s'", name.String())
			}
			s.pop()
			s.push(v)

		case compiler.OpPushProperty:
			name := s.readString(f)
			inst, ok := s.peek(0).AsObj().(*value.ObjInstance)
			if !s.peek(0).IsObj() || !ok {
				return value.Nil, s.runtimeErr("only instances have properties")
			}
			v, found := inst.Attr(s.heap, name)
			if !found {
				return value.Nil, s.runtimeErr("undefined property '%s'", name.String())
			}
			s.push(v)

		case compiler.OpSetProperty:
			name := s.readString(f)
			v := s.pop()
			inst, ok := s.peek(0).AsObj().(*value.ObjInstance)
			if !s.peek(0).IsObj() || !ok {
				return value.Nil, s.runtimeErr("only instances have properties")
			}
			if _, found := inst.Fields.Get(name); !found {
				return value.Nil, s.runtimeErr("undefined property '%s'", name.String())
			}
			inst.Fields.Set(name, v)
			s.pop()
			s.push(v)

		case compiler.OpInitProperty:
			name := s.readString(f)
			v := s.pop()
			inst, ok := s.peek(0).AsObj().(*value.ObjInstance)
			if !s.peek(0).IsObj() || !ok {
				return value.Nil, s.runtimeErr("only instances have properties")
			}
			if _, found := inst.Fields.Get(name); !found {
				return value.Nil, s.runtimeErr("undefined property '%s'", name.String())
			}
			inst.Fields.Set(name, v)

		case compiler.OpGetStatic:
			name := s.readString(f)
			top := s.pop()
			switch x := top.AsObj().(type) {
			case *value.ObjStruct:
				v, ok := x.StaticMethods.Get(name)
				if !ok {
					return value.Nil, s.runtimeErr("undefined static method '%s'", name.String())
				}
				s.push(v)
			case *value.ObjEnum:
				v, ok := x.Values.Get(name)
				if !ok {
					return value.Nil, s.runtimeErr("undefined enum value '%s'", name.String())
				}
				s.push(v)
			default:
				return value.Nil, s.runtimeErr("only structs and enums have static members")
			}

		case compiler.OpEqual:
			b := s.pop()
			a := s.pop()
			s.push(value.Bool(value.Equal(a, b)))
		case compiler.OpNotEqual:
			b := s.pop()
			a := s.pop()
			s.push(value.Bool(!value.Equal(a, b)))

		case compiler.OpGreater, compiler.OpGreaterEqual, compiler.OpLess, compiler.OpLessEqual:
			b, bok := s.peek(0).AsNumber(), s.peek(0).IsNumber()
			a, aok := s.peek(1).AsNumber(), s.peek(1).IsNumber()
			if !aok || !bok {
				return value.Nil, s.runtimeErr("operands must be numbers")
			}
			s.pop()
			s.pop()
			var r bool
			switch op {
			case compiler.OpGreater:
				r = a > b
			case compiler.OpGreaterEqual:
				r = a >= b
			case compiler.OpLess:
				r = a < b
			case compiler.OpLessEqual:
				r = a <= b
			}
			s.push(value.Bool(r))

		case compiler.OpConcat:
			bv := s.peek(0)
			av := s.peek(1)
			as, aok := av.AsObj().(*value.ObjString)
			bs, bok := bv.AsObj().(*value.ObjString)
			if !av.IsObj() || !bv.IsObj() || !aok || !bok {
				return value.Nil, s.runtimeErr("operands to '..' must be strings")
			}
			s.pop()
			s.pop()
			joined := make([]byte, 0, len(as.Bytes)+len(bs.Bytes))
			joined = append(joined, as.Bytes...)
			joined = append(joined, bs.Bytes...)
			result := s.heap.TakeString(joined)
			s.push(value.FromObj(result))
			s.maybeCollect()

		case compiler.OpAdd, compiler.OpSubtract, compiler.OpMultiply, compiler.OpDivide,
			compiler.OpModulo, compiler.OpPow:
			b, bok := s.peek(0).AsNumber(), s.peek(0).IsNumber()
			a, aok := s.peek(1).AsNumber(), s.peek(1).IsNumber()
			if !aok || !bok {
				return value.Nil, s.runtimeErr("operands must be numbers")
			}
			s.pop()
			s.pop()
			var r float64
			switch op {
			case compiler.OpAdd:
				r = a + b
			case compiler.OpSubtract:
				r = a - b
			case compiler.OpMultiply:
				r = a * b
			case compiler.OpDivide:
				r = a / b
			case compiler.OpModulo:
				r = math.Mod(a, b)
			case compiler.OpPow:
				r = math.Pow(a, b)
			}
			s.push(value.Number(r))

		case compiler.OpNegate:
			if !s.peek(0).IsNumber() {
				return value.Nil, s.runtimeErr("operand must be a number")
			}
			v := s.pop()
			s.push(value.Number(-v.AsNumber()))

		case compiler.OpNot:
			v := s.pop()
			s.push(value.Bool(!v.Truth()))

		case compiler.OpJump:
			offs := s.readShort(f)
			f.ip += offs

		case compiler.OpJumpIfFalse:
			offs := s.readShort(f)
			if !s.peek(0).Truth() {
				f.ip += offs
			}

		case compiler.OpInequalityJump:
			offs := s.readShort(f)
			b := s.pop()
			a := s.peek(0)
			if !value.Equal(a, b) {
				f.ip += offs
			}

		case compiler.OpLoop:
			offs := s.readShort(f)
			f.ip -= offs

		case compiler.OpCall:
			argc := int(s.readByte(f))
			if !s.callValue(s.peek(argc), argc) {
				return value.Nil, s.lastErr
			}
			f = s.currentFrame()

		case compiler.OpInvoke:
			name := s.readString(f)
			argc := int(s.readByte(f))
			if !s.invoke(name, argc) {
				return value.Nil, s.lastErr
			}
			f = s.currentFrame()

		case compiler.OpInstance:
			st, ok := s.peek(0).AsObj().(*value.ObjStruct)
			if !s.peek(0).IsObj() || !ok {
				return value.Nil, s.runtimeErr("can only instantiate structs")
			}
			inst := s.heap.NewInstance(st)
			s.pop()
			s.push(value.FromObj(inst))
			s.maybeCollect()

		case compiler.OpClosure:
			fn := s.readConstant(f).AsObj().(*value.ObjFunction)
			closure := s.heap.NewClosure(fn)
			s.push(value.FromObj(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := s.readByte(f)
				index := int(s.readByte(f))
				if isLocal != 0 {
					closure.Upvalues[i] = s.captureUpvalue(f.base + index)
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[index]
				}
			}
			s.maybeCollect()

		case compiler.OpCloseUpvalue:
			s.closeUpvalues(s.stackTop - 1)
			s.pop()

		case compiler.OpReturn:
			result := s.pop()
			s.closeUpvalues(f.base)
			s.frameCount--
			if s.frameCount == 0 {
				s.pop()
				return result, nil
			}
			s.stackTop = f.base
			s.push(result)
			f = s.currentFrame()

		case compiler.OpEnum:
			name := s.readString(f)
			e := s.heap.NewEnum(name)
			s.push(value.FromObj(e))
			s.maybeCollect()

		case compiler.OpStruct:
			name := s.readString(f)
			st := s.heap.NewStruct(name)
			s.push(value.FromObj(st))
			s.maybeCollect()

		case compiler.OpEnumValue:
			name := s.readString(f)
			idx := int(s.readByte(f))
			e := s.peek(0).AsObj().(*value.ObjEnum)
			e.Values.Set(name, value.Number(float64(idx)))

		case compiler.OpStructField:
			name := s.readString(f)
			defaultVal := s.pop()
			st := s.peek(0).AsObj().(*value.ObjStruct)
			st.DefaultFields.Set(name, defaultVal)

		case compiler.OpMethod:
			name := s.readString(f)
			method := s.pop()
			st := s.peek(0).AsObj().(*value.ObjStruct)
			st.Methods.Set(name, method)

		case compiler.OpStaticMethod:
			name := s.readString(f)
			method := s.pop()
			st := s.peek(0).AsObj().(*value.ObjStruct)
			st.StaticMethods.Set(name, method)

		case compiler.OpBreak:
			return value.Nil, s.runtimeErr("invalid opcode: BREAK reached at runtime")

		default:
			return value.Nil, s.runtimeErr("unknown opcode %d", byte(op))
		}
	}
}

// subscriptIndex validates idx against the redesigned, strict bounds check
// (SPEC_FULL.md's corrected reading of the original's off-by-one: reject
// idx == len rather than permit it).
func subscriptIndex(idxv value.Value, length int) (int, bool) {
	if !idxv.IsNumber() {
		return 0, false
	}
	n := idxv.AsNumber()
	idx := int(n)
	if float64(idx) != n || idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

func (s *State) runtimeErr(format string, args ...any) error {
	err := &RuntimeError{Message: fmt.Sprintf(format, args...), Trace: s.captureTrace()}
	s.lastErr = err
	s.resetStack()
	return err
}

func (s *State) captureTrace() []string {
	trace := make([]string, 0, s.frameCount)
	for i := s.frameCount - 1; i >= 0; i-- {
		fr := &s.frames[i]
		fn := fr.closure.Function
		line := 0
		if fr.ip-1 >= 0 && fr.ip-1 < len(fn.Lines) {
			line = fn.Lines[fr.ip-1]
		}
		name := "<script>"
		if fn.Name != nil {
			name = fn.Name.String()
		}
		trace = append(trace, fmt.Sprintf("[line %d] in %s()", line, name))
	}
	return trace
}

// call pushes a new frame invoking closure with argc arguments already on
// the stack below the current top (spec §4.H "Call protocol").
func (s *State) call(closure *value.ObjClosure, argc int) bool {
	if argc != closure.Function.Arity {
		s.runtimeErr("expected %d arguments but got %d", closure.Function.Arity, argc)
		return false
	}
	if s.frameCount == len(s.frames) {
		s.runtimeErr("stack overflow")
		return false
	}
	s.frames[s.frameCount] = CallFrame{
		closure: closure,
		base:    s.stackTop - argc - 1,
	}
	s.frameCount++
	return true
}

// callValue implements the three callable kinds in the call protocol, plus
// the "anything else" error case.
func (s *State) callValue(callee value.Value, argc int) bool {
	if callee.IsObj() {
		switch c := callee.AsObj().(type) {
		case *value.ObjClosure:
			return s.call(c, argc)
		case *value.ObjBoundMethod:
			s.stack[s.stackTop-argc-1] = c.Receiver
			return s.call(c.Method, argc)
		case *value.ObjHostFunction:
			args := append([]value.Value(nil), s.stack[s.stackTop-argc:s.stackTop]...)
			result, ok, errMsg := c.Fn(args)
			if !ok {
				s.runtimeErr("%s", errMsg)
				return false
			}
			s.stackTop -= argc + 1
			s.push(result)
			return true
		}
	}
	s.runtimeErr("can only call functions")
	return false
}

// invoke implements INVOKE's property-get-and-call fusion: the receiver at
// stack[top-argc-1] must be an instance; a field of the invoked name is
// called as a plain value (matching GET_PROPERTY's field-before-method
// priority), otherwise the method is bound and called directly without
// materializing an intermediate ObjBoundMethod.
func (s *State) invoke(name *value.ObjString, argc int) bool {
	receiver := s.peek(argc)
	inst, ok := receiver.AsObj().(*value.ObjInstance)
	if !receiver.IsObj() || !ok {
		s.runtimeErr("only instances have properties")
		return false
	}
	if v, found := inst.Fields.Get(name); found {
		s.stack[s.stackTop-argc-1] = v
		return s.callValue(v, argc)
	}
	method, found := inst.Struct.Methods.Get(name)
	if !found {
		s.runtimeErr("undefined property '%s'", name.String())
		return false
	}
	closure := method.AsObj().(*value.ObjClosure)
	return s.call(closure, argc)
}
