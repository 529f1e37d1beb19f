package vm

import "github.com/hobbyl-lang/hobbyl/lang/value"

// collectGarbage runs one full mark-and-sweep cycle (spec §4.E): mark
// roots, blacken the gray stack, weak-sweep the interned-strings table,
// then sweep the "all objects" list. GC only ever runs to completion at
// an allocation site, never interleaved with bytecode execution (spec §5
// "Ordering").
func (s *State) collectGarbage() {
	s.markRoots()
	s.traceReferences()
	s.heap.Strings().DeleteUnmarked()
	s.sweep()
	s.heap.SetNextGC(s.heap.Allocated() * 2)
}

// markRoots marks every root named in spec §2's control/data-flow
// paragraph: the Value stack, every call frame's closure, the open-upvalue
// list, the global table, and the interned-strings table's own keys are
// NOT marked here (they are weak references, swept separately).
func (s *State) markRoots() {
	for i := 0; i < s.stackTop; i++ {
		s.markValue(s.stack[i])
	}
	for i := 0; i < s.frameCount; i++ {
		s.markObject(s.frames[i].closure)
	}
	for uv := s.openUpvalues; uv != nil; uv = uv.NextOpen {
		s.markObject(uv)
	}
	s.markTable(&s.globals)
	s.markCompilerRoots()
}

// markCompilerRoots marks the function under construction by any compiler
// currently in progress (spec §9 "Compiler ↔ GC coupling"). Compilation
// happens fully before execution begins in this implementation (Compile
// returns a complete ObjFunction before the VM ever runs), so by the time
// collectGarbage can run there is never an in-progress compiler to root;
// this hook exists so that invariant stays true by construction rather
// than by accident; see lang/compiler.Compile.
func (s *State) markCompilerRoots() {}

func (s *State) markValue(v value.Value) {
	if v.IsObj() {
		s.markObject(v.AsObj())
	}
}

func (s *State) markObject(o value.Obj) {
	if o == nil || o.Marked() {
		return
	}
	o.SetMarked(true)
	s.grayStack = append(s.grayStack, o)
}

func (s *State) markTable(t *value.Table) {
	for _, k := range t.Keys() {
		s.markObject(k)
		v, _ := t.Get(k)
		s.markValue(v)
	}
}

// traceReferences implements the gray-stack worklist: pop an object,
// blacken it by marking everything it references (spec §4.E step 2).
func (s *State) traceReferences() {
	for len(s.grayStack) > 0 {
		n := len(s.grayStack) - 1
		o := s.grayStack[n]
		s.grayStack = s.grayStack[:n]
		s.blacken(o)
	}
}

func (s *State) blacken(o value.Obj) {
	switch obj := o.(type) {
	case *value.ObjString:
		// No outgoing references.
	case *value.ObjHostFunction:
		// No outgoing references.
	case *value.ObjUpvalue:
		s.markValue(obj.Closed)
	case *value.ObjFunction:
		if obj.Name != nil {
			s.markObject(obj.Name)
		}
		for _, c := range obj.Constants {
			s.markValue(c)
		}
	case *value.ObjClosure:
		s.markObject(obj.Function)
		for _, uv := range obj.Upvalues {
			s.markObject(uv)
		}
	case *value.ObjBoundMethod:
		s.markValue(obj.Receiver)
		s.markObject(obj.Method)
	case *value.ObjStruct:
		s.markObject(obj.Name)
		s.markTable(&obj.DefaultFields)
		s.markTable(&obj.Methods)
		s.markTable(&obj.StaticMethods)
	case *value.ObjInstance:
		s.markObject(obj.Struct)
		s.markTable(&obj.Fields)
	case *value.ObjEnum:
		s.markObject(obj.Name)
		s.markTable(&obj.Values)
	case *value.ObjArray:
		for _, v := range obj.Values {
			s.markValue(v)
		}
	}
}

// sweep walks the heap's "all objects" list, freeing everything left
// unmarked and clearing the mark bit on every survivor (spec §4.E step 4).
func (s *State) sweep() {
	var surviving value.Obj
	o := s.heap.Objects()
	for o != nil {
		next := o.Next()
		if o.Marked() {
			o.SetMarked(false)
			o.SetNext(surviving)
			surviving = o
		} else {
			s.heap.Free(objSize(o))
		}
		o = next
	}
	s.heap.SetObjects(surviving)
}

// objSize estimates an object's heap footprint for bytesAllocated
// bookkeeping, mirroring the sizes Heap's constructors registered it with.
func objSize(o value.Obj) int {
	switch obj := o.(type) {
	case *value.ObjString:
		return 24 + len(obj.Bytes)
	case *value.ObjFunction:
		return 64
	case *value.ObjClosure:
		return 32
	case *value.ObjUpvalue:
		return 24
	case *value.ObjHostFunction:
		return 24
	case *value.ObjBoundMethod:
		return 32
	case *value.ObjStruct:
		return 96
	case *value.ObjInstance:
		return 48
	case *value.ObjEnum:
		return 48
	case *value.ObjArray:
		return 24 + 8*len(obj.Values)
	}
	return 0
}
