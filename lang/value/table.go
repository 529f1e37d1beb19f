package value

// tableMaxLoad is the load factor at which a Table grows (spec §3: "load
// factor 0.75").
const tableMaxLoad = 0.75

type entry struct {
	key   *ObjString // nil key + Value(true) marks a tombstone
	value Value
	used  bool // false means "never occupied" (distinct from a tombstone)
}

// Table is the open-addressed, linear-probing hash table shared by every
// aggregate in Hobbyl: the interned-strings set, the VM's global-variable
// table, each ObjStruct's default-fields/methods/static-methods tables,
// each ObjInstance's fields table, and each ObjEnum's values table (spec
// §3). Capacity is always a power of two; deletion uses tombstones so that
// probe sequences remain valid after a delete.
type Table struct {
	count    int // live entries + tombstones
	entries  []entry
}

// NewTable returns an empty Table.
func NewTable() *Table { return &Table{} }

// Len reports the number of live (non-tombstone) entries.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.used && e.key != nil {
			n++
		}
	}
	return n
}

func (t *Table) findEntry(entries []entry, key *ObjString) *entry {
	index := key.Hash & uint32(len(entries)-1)
	var tombstone *entry
	for {
		e := &entries[index]
		if !e.used {
			if tombstone != nil {
				return tombstone
			}
			return e
		} else if e.key == nil {
			// tombstone
			if tombstone == nil {
				tombstone = e
			}
		} else if e.key == key {
			return e
		}
		index = (index + 1) & uint32(len(entries)-1)
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity)
	t.count = 0
	for _, e := range t.entries {
		if !e.used || e.key == nil {
			continue
		}
		dest := t.findEntry(entries, e.key)
		dest.key = e.key
		dest.value = e.value
		dest.used = true
		t.count++
	}
	t.entries = entries
}

// Get returns the value for key, or ok=false if key is absent.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	e := t.findEntry(t.entries, key)
	if !e.used || e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

// Set stores key=v, growing the table if the load factor would be
// exceeded. It returns true if this inserted a brand-new key.
func (t *Table) Set(key *ObjString, v Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		capacity := 8
		if len(t.entries) > 0 {
			capacity = len(t.entries) * 2
		}
		t.adjustCapacity(capacity)
	}
	e := t.findEntry(t.entries, key)
	isNew := !e.used || e.key == nil
	if !e.used {
		t.count++ // a reused tombstone is already counted
	}
	e.key = key
	e.value = v
	e.used = true
	return isNew
}

// Delete removes key, leaving a tombstone so later probe sequences still
// find entries that were inserted after a colliding key (spec §3).
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if !e.used || e.key == nil {
		return false
	}
	e.key = nil
	e.value = Bool(true) // tombstone marker value, per spec §3
	return true
}

// findString looks up an entry by raw bytes and precomputed hash, used by
// the interning constructors before a key object even exists (spec §4.C).
func (t *Table) findString(b []byte, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	index := hash & uint32(len(t.entries)-1)
	for {
		e := &t.entries[index]
		if !e.used {
			return nil
		} else if e.key != nil && e.key.Hash == hash && string(e.key.Bytes) == string(b) {
			return e.key
		}
		index = (index + 1) & uint32(len(t.entries)-1)
	}
}

// setString registers s as its own key/value pair (the interned-strings
// table is a set, implemented as a Table mapping each string to itself).
func (t *Table) setString(s *ObjString) {
	t.Set(s, FromObj(s))
}

// CopyInto copies every live entry of t into dest (used to seed an
// ObjInstance's fields table from its struct's default fields at
// construction time, spec §3 "Lifecycles").
func (t *Table) CopyInto(dest *Table) {
	for _, e := range t.entries {
		if e.used && e.key != nil {
			dest.Set(e.key, e.value)
		}
	}
}

// Keys returns the live keys in unspecified order (spec §3: "Iteration
// order is unspecified").
func (t *Table) Keys() []*ObjString {
	keys := make([]*ObjString, 0, t.count)
	for _, e := range t.entries {
		if e.used && e.key != nil {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// DeleteUnmarked removes every entry whose key is not marked, implementing
// the GC's weak-reference sweep of the interned-strings table (spec §4.E
// step 3: "the interning table does not keep strings alive").
func (t *Table) DeleteUnmarked() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.used && e.key != nil && !e.key.Marked() {
			e.key = nil
			e.value = Bool(true)
		}
	}
}
