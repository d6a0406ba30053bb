package logo

import (
	"encoding/binary"
	"strings"
)

// A Node is a tagged 32-bit reference into a Store. The top two bits select
// the variant: nil, an interned word (payload is a byte offset into the atom
// region), or a list (payload is a cons cell index, counted down from the top
// of the arena). Index and offset zero are both valid payloads, so the tag
// alone decides what a Node is.
type Node uint32

// NodeKind reports which variant a Node is.
type NodeKind uint8

const (
	NilNode NodeKind = iota
	WordNode
	ListNode
)

const (
	nodeTagShift = 30
	nodeTagNil   = 0
	nodeTagWord  = 1
	nodeTagList  = 2

	nodePayloadMask = 1<<nodeTagShift - 1
)

// Nil is the empty Node; it doubles as the empty list.
const Nil Node = 0

func wordNode(off uint32) Node { return Node(nodeTagWord<<nodeTagShift | off&nodePayloadMask) }
func listNode(idx uint32) Node { return Node(nodeTagList<<nodeTagShift | idx&nodePayloadMask) }

// Kind returns the variant of n.
func (n Node) Kind() NodeKind {
	switch n >> nodeTagShift {
	case nodeTagWord:
		return WordNode
	case nodeTagList:
		if n.payload() != 0 {
			return ListNode
		}
	}
	return NilNode
}

func (n Node) payload() uint32 { return uint32(n) & nodePayloadMask }

// IsNil reports whether n is the nil node (or the reserved zero list index).
func (n Node) IsNil() bool { return n.Kind() == NilNode }

// IsWord reports whether n references an interned atom.
func (n Node) IsWord() bool { return n.Kind() == WordNode }

// IsList reports whether n references a cons cell.
func (n Node) IsList() bool { return n.Kind() == ListNode }

// A Store owns one fixed arena holding both atom storage and the cons pool.
// Atoms are interned bytes growing up from offset zero; cons cells are packed
// 32-bit pairs carved down from the top. The two regions must never overlap:
// every allocation checks the opposite boundary and fails, recoverably, when
// no room remains. Atoms are permanent; cells are reclaimed by mark/sweep.
type Store struct {
	arena   []byte
	atomTop int // first free byte above the interned atoms
	cells   int // cells carved off the top of the arena so far
	free    uint16
	nfree   int

	atoms map[string]Node // case-folded text -> interned word

	marks []uint64
}

const (
	// Each cell half is 16 bits: the high bit set means a word reference
	// (payload: atom byte offset divided by two; atoms are even-aligned),
	// clear means a cell index. Index zero is reserved and reads as nil.
	cellWordBit  = 0x8000
	cellHalfMask = 0x7fff

	maxCellIndex = cellHalfMask
	maxAtomBytes = 0x10000 // word half payload spans a 64KB atom region

	// MaxWordLen is the longest word the atom table will intern.
	MaxWordLen = 255

	// DefaultArenaSize is the Store arena size used when no option overrides it.
	DefaultArenaSize = 64 * 1024
)

// NewStore allocates a store with a fixed arena of the given byte size. All
// memory the store will ever use is acquired here; allocation never grows the
// arena afterward.
func NewStore(size int) *Store {
	if size < 64 {
		size = 64
	}
	return &Store{
		arena: make([]byte, size),
		atoms: make(map[string]Node),
		marks: make([]uint64, size/4/64+1),
	}
}

func (st *Store) cellFloor() int { return len(st.arena) - 4*st.cells }

// Intern returns the word node for text, adding it to the atom table if this
// is the first time it has been seen. Lookup is case-insensitive: words that
// differ only in case intern to the same node, so word equality is node
// equality. Returns false when the atom region is full or text is too long.
func (st *Store) Intern(text string) (Node, bool) {
	if len(text) > MaxWordLen {
		return Nil, false
	}
	key := strings.ToLower(text)
	if n, ok := st.atoms[key]; ok {
		return n, true
	}
	need := (1 + len(text) + 1) &^ 1 // length byte + text, kept even-aligned
	limit := st.cellFloor()
	if limit > maxAtomBytes {
		limit = maxAtomBytes
	}
	if st.atomTop+need > limit {
		return Nil, false
	}
	off := st.atomTop
	st.arena[off] = byte(len(text))
	copy(st.arena[off+1:], text)
	st.atomTop += need
	n := wordNode(uint32(off))
	st.atoms[key] = n
	return n, true
}

// WordText returns the stored spelling of an interned word.
func (st *Store) WordText(n Node) string {
	if !n.IsWord() {
		return ""
	}
	off := int(n.payload())
	if off >= st.atomTop {
		return ""
	}
	l := int(st.arena[off])
	return string(st.arena[off+1 : off+1+l])
}

// AtomBytes returns the atom-region high-water mark.
func (st *Store) AtomBytes() int { return st.atomTop }

// CellCount returns how many cells have been carved from the arena.
func (st *Store) CellCount() int { return st.cells }

// FreeCells returns how many carved cells sit on the free list.
func (st *Store) FreeCells() int { return st.nfree }

func (st *Store) cellAt(idx int) uint32 {
	p := len(st.arena) - 4*idx
	return binary.LittleEndian.Uint32(st.arena[p : p+4])
}

func (st *Store) setCellAt(idx int, v uint32) {
	p := len(st.arena) - 4*idx
	binary.LittleEndian.PutUint32(st.arena[p:p+4], v)
}

func (st *Store) nodeToHalf(n Node) uint16 {
	switch n.Kind() {
	case WordNode:
		return uint16(cellWordBit | (n.payload()>>1)&cellHalfMask)
	case ListNode:
		return uint16(n.payload() & cellHalfMask)
	}
	return 0
}

func (st *Store) halfToNode(h uint16) Node {
	if h == 0 {
		return Nil
	}
	if h&cellWordBit != 0 {
		return wordNode(uint32(h&cellHalfMask) << 1)
	}
	return listNode(uint32(h))
}

// Cons allocates a cell holding (car, cdr) and returns its list node. It
// fails, returning false, when neither the free list nor the gap below the
// cons pool can supply a cell; the caller is expected to collect garbage and
// retry, or report an out-of-space error.
func (st *Store) Cons(car, cdr Node) (Node, bool) {
	var idx int
	if st.free != 0 {
		idx = int(st.free)
		next := uint16(st.cellAt(idx) >> 16)
		st.free = next
		st.nfree--
	} else {
		if st.cells >= maxCellIndex || len(st.arena)-4*(st.cells+1) < st.atomTop {
			return Nil, false
		}
		st.cells++
		idx = st.cells
	}
	st.setCellAt(idx, uint32(st.nodeToHalf(car))|uint32(st.nodeToHalf(cdr))<<16)
	return listNode(uint32(idx)), true
}

// Car returns the head of a list node, or nil for anything else.
func (st *Store) Car(n Node) Node {
	if !n.IsList() {
		return Nil
	}
	return st.halfToNode(uint16(st.cellAt(int(n.payload()))))
}

// Cdr returns the tail of a list node, or nil for anything else.
func (st *Store) Cdr(n Node) Node {
	if !n.IsList() {
		return Nil
	}
	return st.halfToNode(uint16(st.cellAt(int(n.payload())) >> 16))
}

// SetCar overwrites the head of a list cell in place.
func (st *Store) SetCar(n, car Node) {
	if !n.IsList() {
		return
	}
	idx := int(n.payload())
	st.setCellAt(idx, st.cellAt(idx)&0xffff0000|uint32(st.nodeToHalf(car)))
}

// SetCdr overwrites the tail of a list cell in place.
func (st *Store) SetCdr(n, cdr Node) {
	if !n.IsList() {
		return
	}
	idx := int(n.payload())
	st.setCellAt(idx, st.cellAt(idx)&0x0000ffff|uint32(st.nodeToHalf(cdr))<<16)
}

// ListLen walks a list and returns its element count.
func (st *Store) ListLen(n Node) int {
	count := 0
	for n.IsList() {
		count++
		n = st.Cdr(n)
	}
	return count
}

func (st *Store) marked(idx int) bool { return st.marks[idx/64]&(1<<uint(idx%64)) != 0 }
func (st *Store) setMark(idx int)     { st.marks[idx/64] |= 1 << uint(idx%64) }

// Mark flags every cell reachable from root so the next Sweep keeps it.
// Marking follows list structure only; words carry no outgoing references.
// An explicit work stack bounds recursion depth regardless of list shape.
func (st *Store) Mark(root Node) {
	if !root.IsList() {
		return
	}
	stack := [64]Node{root}
	depth := 1
	for depth > 0 {
		depth--
		n := stack[depth]
		for n.IsList() {
			idx := int(n.payload())
			if st.marked(idx) {
				break
			}
			st.setMark(idx)
			if car := st.Car(n); car.IsList() {
				if depth < len(stack) {
					stack[depth] = car
					depth++
				} else {
					st.Mark(car) // stack full; spill into host recursion
				}
			}
			n = st.Cdr(n)
		}
	}
}

// Sweep rebuilds the free list from every carved cell that the preceding
// Mark calls did not reach, clears the mark bits, and returns the number of
// cells now free. Callers must present a complete root set first: any node
// read after a sweep without having been marked is a corruption bug.
func (st *Store) Sweep() int {
	st.free = 0
	st.nfree = 0
	for idx := st.cells; idx >= 1; idx-- {
		if st.marked(idx) {
			continue
		}
		st.setCellAt(idx, uint32(st.free)<<16)
		st.free = uint16(idx)
		st.nfree++
	}
	for i := range st.marks {
		st.marks[i] = 0
	}
	return st.nfree
}
