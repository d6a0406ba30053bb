package logo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKinds(t *testing.T) {
	assert.True(t, Nil.IsNil())
	assert.False(t, Nil.IsWord())
	assert.False(t, Nil.IsList())

	st := NewStore(1024)
	w, ok := st.Intern("hello")
	require.True(t, ok)
	assert.True(t, w.IsWord())
	assert.False(t, w.IsNil())

	l, ok := st.Cons(w, Nil)
	require.True(t, ok)
	assert.True(t, l.IsList())
}

func TestInternIsCaseInsensitive(t *testing.T) {
	st := NewStore(1024)
	a, ok := st.Intern("Hello")
	require.True(t, ok)
	b, ok := st.Intern("hello")
	require.True(t, ok)
	c, ok := st.Intern("HELLO")
	require.True(t, ok)

	assert.Equal(t, a, b, "case variants intern to one node")
	assert.Equal(t, a, c)
	assert.Equal(t, "Hello", st.WordText(a), "first spelling wins")

	d, ok := st.Intern("other")
	require.True(t, ok)
	assert.NotEqual(t, a, d)
}

func TestInternRejectsOverlongWords(t *testing.T) {
	st := NewStore(1024)
	_, ok := st.Intern(strings.Repeat("x", MaxWordLen+1))
	assert.False(t, ok)

	w, ok := st.Intern(strings.Repeat("x", MaxWordLen))
	require.True(t, ok)
	assert.Len(t, st.WordText(w), MaxWordLen)
}

func TestConsCarCdr(t *testing.T) {
	st := NewStore(1024)
	a, _ := st.Intern("a")
	b, _ := st.Intern("b")

	tail, ok := st.Cons(b, Nil)
	require.True(t, ok)
	head, ok := st.Cons(a, tail)
	require.True(t, ok)

	assert.Equal(t, a, st.Car(head))
	assert.Equal(t, tail, st.Cdr(head))
	assert.Equal(t, b, st.Car(tail))
	assert.True(t, st.Cdr(tail).IsNil())
	assert.Equal(t, 2, st.ListLen(head))

	c, _ := st.Intern("c")
	st.SetCar(head, c)
	assert.Equal(t, c, st.Car(head))
	st.SetCdr(head, Nil)
	assert.Equal(t, 1, st.ListLen(head))
}

func TestExhaustionIsRecoverable(t *testing.T) {
	st := NewStore(64)
	for {
		if _, ok := st.Cons(Nil, Nil); !ok {
			break
		}
	}
	// the atom region must still refuse cleanly rather than overlap cells
	_, ok := st.Intern(strings.Repeat("y", 64))
	assert.False(t, ok)
}

func TestSweepRebuildsFreeList(t *testing.T) {
	st := NewStore(1024)
	a, _ := st.Intern("a")
	for i := 0; i < 10; i++ {
		_, ok := st.Cons(a, Nil)
		require.True(t, ok)
	}
	carved := st.CellCount()
	require.Equal(t, 10, carved)

	freed := st.Sweep()
	assert.Equal(t, 10, freed)
	assert.Equal(t, 10, st.FreeCells())

	// allocation now reuses freed cells instead of carving new ones
	_, ok := st.Cons(a, Nil)
	require.True(t, ok)
	assert.Equal(t, carved, st.CellCount())
	assert.Equal(t, 9, st.FreeCells())
}

func TestMarkKeepsReachableCells(t *testing.T) {
	st := NewStore(1024)
	a, _ := st.Intern("a")
	b, _ := st.Intern("b")

	inner, _ := st.Cons(b, Nil)
	t2, _ := st.Cons(inner, Nil)
	root, _ := st.Cons(a, t2)
	garbage, _ := st.Cons(a, Nil)
	_ = garbage

	st.Mark(root)
	freed := st.Sweep()
	assert.Equal(t, 1, freed, "only the unreachable cell is freed")

	// the kept structure still reads back intact
	assert.Equal(t, a, st.Car(root))
	assert.Equal(t, inner, st.Car(st.Cdr(root)))
	assert.Equal(t, b, st.Car(inner))
}

func TestMarkHandlesDeepNesting(t *testing.T) {
	st := NewStore(16 * 1024)
	// build a leftward spine deeper than the marker's fixed work stack
	n := Nil
	for i := 0; i < 500; i++ {
		cell, ok := st.Cons(n, Nil)
		require.True(t, ok)
		n = cell
	}
	st.Mark(n)
	assert.Equal(t, 0, st.Sweep(), "every nested cell stays reachable")
}
