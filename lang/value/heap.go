package value

// Heap owns the "all objects" list, the bytesAllocated/nextGC bookkeeping,
// and the interned-strings table shared by an entire Hobbyl State (spec
// §3, §4.C, §4.E). It provides the constructors for every heap object kind;
// the mark-and-sweep cycle itself lives in lang/vm, which knows the VM's
// roots, but calls back into Heap to register allocations and to sweep.
type Heap struct {
	objects        Obj
	bytesAllocated int
	nextGC         int

	strings Table
}

// NewHeap returns an empty Heap with the initial 1 MiB collection
// threshold from spec §4.E.
func NewHeap() *Heap {
	return &Heap{nextGC: 1 << 20}
}

// Allocated returns the current byte-size estimate tracked for GC
// triggering purposes.
func (h *Heap) Allocated() int { return h.bytesAllocated }

// NextGC returns the threshold at which the next collection is due.
func (h *Heap) NextGC() int { return h.nextGC }

// SetNextGC updates the threshold; called after a collection completes
// (spec §4.E: "nextGc := bytesAllocated * 2").
func (h *Heap) SetNextGC(n int) { h.nextGC = n }

// ShouldCollect reports whether bytesAllocated has crossed nextGC.
func (h *Heap) ShouldCollect() bool { return h.bytesAllocated >= h.nextGC }

// register links a freshly constructed object into the "all objects" list
// and accounts for its size. Every New* constructor below calls this
// exactly once, immediately after allocating.
func (h *Heap) register(o Obj, size int) {
	o.SetNext(h.objects)
	h.objects = o
	h.bytesAllocated += size
}

// Objects exposes the head of the intrusive "all objects" list, for the
// sweep phase in lang/vm.
func (h *Heap) Objects() Obj { return h.objects }

// SetObjects replaces the head of the "all objects" list; used by the
// sweeper after unlinking dead objects.
func (h *Heap) SetObjects(o Obj) { h.objects = o }

// Strings is the process-wide interned-string set (spec §4.C, §4.E step 3).
func (h *Heap) Strings() *Table { return &h.strings }

// Free reduces the allocation estimate by size; called by sweep for each
// object it unlinks.
func (h *Heap) Free(size int) { h.bytesAllocated -= size }

func (h *Heap) NewFunction() *ObjFunction {
	fn := &ObjFunction{}
	h.register(fn, 64)
	return fn
}

func (h *Heap) NewClosure(fn *ObjFunction) *ObjClosure {
	c := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
	h.register(c, 32)
	return c
}

func (h *Heap) NewUpvalue(slot *Value) *ObjUpvalue {
	uv := &ObjUpvalue{Location: slot}
	h.register(uv, 24)
	return uv
}

func (h *Heap) NewHostFunction(name string, fn HostFunc) *ObjHostFunction {
	hf := &ObjHostFunction{Name: name, Fn: fn}
	h.register(hf, 24)
	return hf
}

func (h *Heap) NewBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	bm := &ObjBoundMethod{Receiver: receiver, Method: method}
	h.register(bm, 32)
	return bm
}

func (h *Heap) NewStruct(name *ObjString) *ObjStruct {
	s := &ObjStruct{Name: name}
	h.register(s, 96)
	return s
}

func (h *Heap) NewInstance(strooct *ObjStruct) *ObjInstance {
	inst := &ObjInstance{Struct: strooct}
	strooct.DefaultFields.CopyInto(&inst.Fields)
	h.register(inst, 48)
	return inst
}

func (h *Heap) NewEnum(name *ObjString) *ObjEnum {
	e := &ObjEnum{Name: name}
	h.register(e, 48)
	return e
}

func (h *Heap) NewArray(elems []Value) *ObjArray {
	a := &ObjArray{Values: elems}
	h.register(a, 24+8*len(elems))
	return a
}
