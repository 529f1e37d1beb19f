package value

// ObjString is an immutable, UTF-8-ignorant byte sequence, interned so that
// two strings built from equal bytes are the same heap object (spec §3, I3).
type ObjString struct {
	Header
	Bytes []byte
	Hash  uint32
}

func (s *ObjString) ObjKind() ObjKind { return ObjKindString }
func (s *ObjString) String() string   { return string(s.Bytes) }

// fnv1a computes the FNV-1a hash of b, precomputed once at string
// construction time and cached on the ObjString (spec §3, §4.C).
func fnv1a(b []byte) uint32 {
	var h uint32 = 2166136261
	for _, c := range b {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}

// CopyString returns the interned ObjString for the given bytes, allocating
// and registering a new one only on a miss (spec §4.C). CopyString never
// triggers a collection itself. The interning table holds its strings
// weakly (the GC drops unmarked entries from it), so a returned string
// stays alive only while something reachable refers to it.
func (h *Heap) CopyString(b []byte) *ObjString {
	hash := fnv1a(b)
	if s := h.strings.findString(b, hash); s != nil {
		return s
	}
	owned := make([]byte, len(b))
	copy(owned, b)
	s := &ObjString{Bytes: owned, Hash: hash}
	h.register(s, 24+len(owned))
	h.strings.setString(s)
	return s
}

// TakeString is like CopyString but takes ownership of b, freeing the
// caller from having to copy it again when the string is already interned
// (spec §4.C "takeString").
func (h *Heap) TakeString(b []byte) *ObjString {
	hash := fnv1a(b)
	if s := h.strings.findString(b, hash); s != nil {
		return s
	}
	s := &ObjString{Bytes: b, Hash: hash}
	h.register(s, 24+len(b))
	h.strings.setString(s)
	return s
}
