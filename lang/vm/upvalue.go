package vm

import (
	"unsafe"

	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// slotIndex recovers the stack slot a live upvalue's Location points into.
// Since s.stack never reallocates after New (its backing array is sized
// once), pointer arithmetic against its first element is stable for the
// State's whole lifetime.
func (s *State) slotIndex(p *value.Value) int {
	base := uintptr(unsafe.Pointer(&s.stack[0]))
	return int((uintptr(unsafe.Pointer(p)) - base) / unsafe.Sizeof(value.Value{}))
}

// captureUpvalue implements the capture half of spec §4.H's "Upvalue
// lifecycle": a linear walk of the open-upvalue list sorted by descending
// stack address, reusing an existing upvalue for the exact same slot.
func (s *State) captureUpvalue(slot int) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	uv := s.openUpvalues
	for uv != nil && s.slotIndex(uv.Location) > slot {
		prev = uv
		uv = uv.NextOpen
	}
	if uv != nil && s.slotIndex(uv.Location) == slot {
		return uv
	}

	created := s.heap.NewUpvalue(&s.stack[slot])
	created.NextOpen = uv
	if prev == nil {
		s.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

// closeUpvalues implements the close half: walk from the head while
// location >= lastSlot, moving each one's value inline and unlinking it
// (spec §4.H, I2).
func (s *State) closeUpvalues(lastSlot int) {
	for s.openUpvalues != nil && s.slotIndex(s.openUpvalues.Location) >= lastSlot {
		uv := s.openUpvalues
		uv.Close()
		s.openUpvalues = uv.NextOpen
	}
}
