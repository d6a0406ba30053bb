package logo

import (
	"strings"
	"sync/atomic"
)

// Roots is implemented by every component that owns references into the
// object store. The interpreter invokes all of them before each sweep, so a
// new store of nodes only has to register itself here to be collected
// correctly rather than wiring its own callback into the collector.
type Roots interface {
	MarkRoots(mark func(Node))
}

// Interp is one self-contained interpreter: object store, frame stack,
// procedure and variable tables, primitive registry, and the console and
// device boundaries. Instances are independent; nothing in the engine is
// process-global. All methods must be called from a single goroutine — the
// only concession to concurrency is the polled interrupt flag.
type Interp struct {
	store  *Store
	frames frameStack

	procs     map[Node]*Procedure
	procOrder []Node

	globals     map[Node]Value
	globalOrder []Node

	prims map[string]*Primitive

	console Console
	devices Devices
	logfn   func(mess string, args ...interface{})

	extRoots []Roots
	sources  []*listReader
	builders []*listBuilder
	protect  []Node

	useVM  bool
	gcRuns int

	// top-level TEST state, used when no frame has one
	topTestSet bool
	topTestVal bool

	defining *definition
	breakReq int32
	lastCall string

	arenaSize  int
	frameDepth int
	bindSlots  int
	exprSlots  int
}

// definition tracks an in-progress TO ... END collection.
type definition struct {
	name   string
	params []string
	lines  *listBuilder
}

func (in *Interp) logf(mess string, args ...interface{}) {
	if in.logfn != nil {
		in.logfn(mess, args...)
	}
}

// Store exposes the interpreter's object store to primitives.
func (in *Interp) Store() *Store { return in.store }

// AddRoots registers an external node owner with the collector.
func (in *Interp) AddRoots(r Roots) { in.extRoots = append(in.extRoots, r) }

// Interrupt requests a break at the next statement boundary. It is the one
// method safe to call from another goroutine or a signal context: the engine
// never acts on it asynchronously, it polls between evaluator steps.
func (in *Interp) Interrupt() { atomic.StoreInt32(&in.breakReq, 1) }

func (in *Interp) interrupted() bool { return atomic.SwapInt32(&in.breakReq, 0) != 0 }

// intern returns the node for a word, reporting out-of-space as an error
// value. Atoms are permanent, so collection cannot make room for them.
func (in *Interp) intern(text string) (Node, *Error) {
	if len(text) > MaxWordLen {
		return Nil, &Error{Code: ErrWordTooLong}
	}
	if n, ok := in.store.Intern(text); ok {
		return n, nil
	}
	return Nil, &Error{Code: ErrOutOfSpace}
}

// cons allocates a cell, collecting garbage once on exhaustion before
// reporting out of space. Both inputs are protected across the collection.
func (in *Interp) cons(car, cdr Node) (Node, *Error) {
	if n, ok := in.store.Cons(car, cdr); ok {
		return n, nil
	}
	in.protect = append(in.protect, car, cdr)
	in.collect()
	in.protect = in.protect[:len(in.protect)-2]
	if n, ok := in.store.Cons(car, cdr); ok {
		return n, nil
	}
	return Nil, &Error{Code: ErrOutOfSpace}
}

// collect runs a full mark/sweep across every registered root owner.
func (in *Interp) collect() {
	mark := in.store.Mark
	for _, p := range in.procs {
		mark(p.body)
	}
	for _, v := range in.globals {
		mark(v.Node)
	}
	in.frames.MarkRoots(mark)
	for _, src := range in.sources {
		mark(src.rest)
		if src.pending != nil {
			mark(src.pending.list)
		}
	}
	for _, lb := range in.builders {
		mark(lb.head)
	}
	for _, n := range in.protect {
		mark(n)
	}
	if in.defining != nil && in.defining.lines != nil {
		mark(in.defining.lines.head)
	}
	for _, r := range in.extRoots {
		r.MarkRoots(mark)
	}
	in.gcRuns++
	freed := in.store.Sweep()
	in.logf("gc #%v: %v cells free of %v", in.gcRuns, freed, in.store.CellCount())
}

// listBuilder accumulates a list front to back. Open builders are collector
// roots, so a collection in the middle of building cannot reclaim the
// partial list.
type listBuilder struct {
	in   *Interp
	head Node
	tail Node
}

func (in *Interp) newListBuilder() (*listBuilder, *Error) {
	lb := &listBuilder{in: in}
	in.builders = append(in.builders, lb)
	return lb, nil
}

func (lb *listBuilder) appendNode(n Node) *Error {
	cell, err := lb.in.cons(n, Nil)
	if err != nil {
		return err
	}
	if lb.head.IsNil() {
		lb.head = cell
	} else {
		lb.in.store.SetCdr(lb.tail, cell)
	}
	lb.tail = cell
	return nil
}

func (lb *listBuilder) appendWord(text string) *Error {
	n, err := lb.in.intern(text)
	if err != nil {
		return err
	}
	return lb.appendNode(n)
}

// done hands the built list over; the builder stays registered until close.
func (lb *listBuilder) done() Node { return lb.head }

func (lb *listBuilder) close() {
	bs := lb.in.builders
	for i := len(bs) - 1; i >= 0; i-- {
		if bs[i] == lb {
			lb.in.builders = append(bs[:i], bs[i+1:]...)
			return
		}
	}
}

// lookupVar resolves :name against frame bindings, then the global table.
// A LOCAL that was never assigned shadows any global but has no value yet.
func (in *Interp) lookupVar(name Node) (Value, bool) {
	if v, ok := in.frames.lookup(name); ok {
		return v, !v.IsNone()
	}
	v, ok := in.globals[name]
	return v, ok
}

// setVar implements MAKE: assign the nearest call-scoped binding if one
// exists, else create or overwrite the global.
func (in *Interp) setVar(name Node, val Value) {
	if in.frames.assign(name, val) {
		return
	}
	if _, exists := in.globals[name]; !exists {
		in.globalOrder = append(in.globalOrder, name)
	}
	in.globals[name] = val
}

// EraseVar removes a global variable binding.
func (in *Interp) EraseVar(name string) {
	key := strings.ToLower(name)
	if n, ok := in.store.atoms[key]; ok {
		if _, bound := in.globals[n]; bound {
			delete(in.globals, n)
			for i, g := range in.globalOrder {
				if g == n {
					in.globalOrder = append(in.globalOrder[:i], in.globalOrder[i+1:]...)
					break
				}
			}
		}
	}
}

// setTest records a TEST outcome at the right scope.
func (in *Interp) setTest(val bool) {
	if !in.frames.setTest(val) {
		in.topTestSet = true
		in.topTestVal = val
	}
}

func (in *Interp) testValue() (val, ok bool) {
	if v, ok := in.frames.test(); ok {
		return v, true
	}
	return in.topTestVal, in.topTestSet
}

func (in *Interp) trueValue() Value {
	n, _ := in.intern("true")
	return WordVal(n)
}

func (in *Interp) falseValue() Value {
	n, _ := in.intern("false")
	return WordVal(n)
}

func (in *Interp) boolValue(b bool) Value {
	if b {
		return in.trueValue()
	}
	return in.falseValue()
}

// truth translates a predicate's result into a Go bool, reporting NotBool
// for anything that is not the word TRUE or FALSE.
func (in *Interp) truth(v Value, proc string) (bool, *Error) {
	if v.Kind == KindWord {
		switch strings.ToLower(in.store.WordText(v.Node)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, &Error{Code: ErrNotBool, Proc: FormatValue(in.store, v), Caller: proc}
}
