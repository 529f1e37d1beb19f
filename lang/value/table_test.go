package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func str(h *Heap, s string) *ObjString { return h.CopyString([]byte(s)) }

func TestTableSetGetDelete(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()

	a := str(h, "a")
	b := str(h, "b")

	require.True(t, tbl.Set(a, Number(1)))
	require.False(t, tbl.Set(a, Number(2)), "re-setting an existing key is not a new insertion")

	v, ok := tbl.Get(a)
	require.True(t, ok)
	require.Equal(t, Number(2), v)

	_, ok = tbl.Get(b)
	require.False(t, ok)

	require.True(t, tbl.Delete(a))
	_, ok = tbl.Get(a)
	require.False(t, ok, "deleted key must no longer be visible")
	require.False(t, tbl.Delete(a), "deleting an absent key reports false")
}

func TestTableTombstoneDoesNotBreakProbeChain(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()

	// Force several keys into the same small table so some of them collide,
	// then delete one and confirm the survivor past it is still reachable.
	keys := make([]*ObjString, 0, 20)
	for i := 0; i < 20; i++ {
		k := str(h, string(rune('a'+i)))
		keys = append(keys, k)
		tbl.Set(k, Number(float64(i)))
	}

	require.True(t, tbl.Delete(keys[0]))
	for i, k := range keys {
		if i == 0 {
			continue
		}
		v, ok := tbl.Get(k)
		require.True(t, ok, "key %d should survive an unrelated delete", i)
		require.Equal(t, Number(float64(i)), v)
	}
}

func TestTableGrowsPastLoadFactor(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()

	for i := 0; i < 100; i++ {
		k := str(h, string(rune('A'+i)))
		tbl.Set(k, Number(float64(i)))
	}
	require.Equal(t, 100, tbl.Len())
}

func TestTableCopyInto(t *testing.T) {
	h := NewHeap()
	src, dst := NewTable(), NewTable()

	a := str(h, "a")
	src.Set(a, Number(1))
	src.CopyInto(dst)

	v, ok := dst.Get(a)
	require.True(t, ok)
	require.Equal(t, Number(1), v)
}

func TestTableDeleteUnmarked(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()

	live := str(h, "live")
	dead := str(h, "dead")
	tbl.setString(live)
	tbl.setString(dead)

	live.SetMarked(true)
	tbl.DeleteUnmarked()

	_, ok := tbl.Get(live)
	require.True(t, ok, "marked string keys survive the sweep")
	_, ok = tbl.Get(dead)
	require.False(t, ok, "unmarked string keys are swept from the interning table")
}

func TestTableFindString(t *testing.T) {
	h := NewHeap()
	s := str(h, "hello")
	require.Same(t, s, h.strings.findString([]byte("hello"), fnv1a([]byte("hello"))))
	require.Nil(t, h.strings.findString([]byte("nope"), fnv1a([]byte("nope"))))
}
