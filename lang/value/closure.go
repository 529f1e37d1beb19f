package value

// ObjClosure pairs an ObjFunction with the array of upvalues it captured at
// creation time (spec §3 "Closure"). Closures, not bare functions, are
// what the VM calls and what scripts pass around as first-class values.
type ObjClosure struct {
	Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) ObjKind() ObjKind { return ObjKindClosure }

// Name returns the underlying function's name, or "<script>" for the
// nameless top-level function (spec §6 string-form table).
func (c *ObjClosure) Name() string {
	if c.Function.Name == nil {
		return "<script>"
	}
	return string(c.Function.Name.Bytes)
}

// ObjUpvalue is either "open" (Location points into a live stack slot) or
// "closed" (it owns a Value inline, Location points at Closed). Open
// upvalues are threaded into a singly linked list sorted by descending
// stack address (spec §3 "Upvalue", I2).
type ObjUpvalue struct {
	Header
	Location *Value
	Closed   Value
	NextOpen *ObjUpvalue // next entry in the VM's open-upvalue list
}

func (u *ObjUpvalue) ObjKind() ObjKind { return ObjKindUpvalue }

// Close moves the current value pointed to by Location into Closed and
// repoints Location at it, detaching this upvalue from the stack (spec
// §4.H "Upvalue lifecycle").
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjBoundMethod pairs a receiver value with the closure to invoke it with
// (spec §3 "BoundMethod").
type ObjBoundMethod struct {
	Header
	Receiver Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) ObjKind() ObjKind { return ObjKindBoundMethod }
