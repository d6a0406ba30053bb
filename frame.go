package logo

// A binding pairs a parameter or local name with its current value.
type binding struct {
	name Node
	val  Value
}

// A frame is one procedure activation: its bindings live in the shared
// binding arena starting at bindBase, its operand values in the shared
// expression arena above exprBase, and body/line hold the continuation
// cursors that let execution of the body resume after a primitive re-enters
// the evaluator. TEST state is per-frame but read through the prev chain.
type frame struct {
	prev     int
	proc     *Procedure
	bindBase int
	nparams  int
	nbinds   int
	exprBase int

	body Node // remaining body lines
	line Node // remaining tokens of the current line

	testSet bool
	testVal bool
}

// frameStack owns three fixed-capacity arenas: frame headers, bindings and
// expression values. Pushing records high-water marks; popping truncates
// back to them, releasing a whole activation in O(1). Capacities are set
// once at startup and exhaustion is reported, never grown past.
type frameStack struct {
	frames []frame
	binds  []binding
	exprs  []Value
}

const (
	// DefaultFrameDepth bounds simultaneous activations.
	DefaultFrameDepth = 64
	// DefaultBindingSlots bounds parameters plus locals across all frames.
	DefaultBindingSlots = 512
	// DefaultExprSlots bounds pending expression values across all frames.
	DefaultExprSlots = 256
)

func newFrameStack(depth, bindSlots, exprSlots int) frameStack {
	return frameStack{
		frames: make([]frame, 0, depth),
		binds:  make([]binding, 0, bindSlots),
		exprs:  make([]Value, 0, exprSlots),
	}
}

func (fs *frameStack) depth() int { return len(fs.frames) }

func (fs *frameStack) top() *frame {
	if len(fs.frames) == 0 {
		return nil
	}
	return &fs.frames[len(fs.frames)-1]
}

// push opens a new frame for proc and binds args as its first bindings.
func (fs *frameStack) push(proc *Procedure, args []Value) *Error {
	if len(fs.frames) == cap(fs.frames) || len(fs.binds)+len(args) > cap(fs.binds) {
		return &Error{Code: ErrOutOfSpace, Caller: proc.Name()}
	}
	fs.frames = append(fs.frames, frame{
		prev:     len(fs.frames) - 1,
		proc:     proc,
		bindBase: len(fs.binds),
		nparams:  len(args),
		nbinds:   len(args),
		exprBase: len(fs.exprs),
	})
	for i, arg := range args {
		fs.binds = append(fs.binds, binding{name: proc.params[i], val: arg})
	}
	return nil
}

// reuse is the tail-call path: it rebinds the top frame for proc in place,
// dropping locals, pending expression values and TEST state, without
// growing any arena. The caller guarantees len(args) fits where the old
// bindings sat plus whatever headroom the binding arena still has.
func (fs *frameStack) reuse(proc *Procedure, args []Value) *Error {
	f := fs.top()
	if f == nil {
		return fs.push(proc, args)
	}
	if f.bindBase+len(args) > cap(fs.binds) {
		return &Error{Code: ErrOutOfSpace, Caller: proc.Name()}
	}
	fs.binds = fs.binds[:f.bindBase]
	for i, arg := range args {
		fs.binds = append(fs.binds, binding{name: proc.params[i], val: arg})
	}
	fs.exprs = fs.exprs[:f.exprBase]
	f.proc = proc
	f.nparams = len(args)
	f.nbinds = len(args)
	f.body = Nil
	f.line = Nil
	f.testSet = false
	f.testVal = false
	return nil
}

// pop releases the top frame back to its recorded marks.
func (fs *frameStack) pop() {
	f := fs.top()
	if f == nil {
		return
	}
	fs.binds = fs.binds[:f.bindBase]
	fs.exprs = fs.exprs[:f.exprBase]
	fs.frames = fs.frames[:len(fs.frames)-1]
}

// lookup resolves name against the top frame's bindings, then each caller's
// in turn. Logo variables are call-scoped and dynamic, not lexical.
func (fs *frameStack) lookup(name Node) (Value, bool) {
	for i := len(fs.frames) - 1; i >= 0; i = fs.frames[i].prev {
		f := &fs.frames[i]
		for b := f.bindBase + f.nbinds - 1; b >= f.bindBase; b-- {
			if fs.binds[b].name == name {
				return fs.binds[b].val, true
			}
		}
	}
	return Value{}, false
}

// assign overwrites the nearest binding of name, reporting whether one was
// found anywhere on the chain.
func (fs *frameStack) assign(name Node, val Value) bool {
	for i := len(fs.frames) - 1; i >= 0; i = fs.frames[i].prev {
		f := &fs.frames[i]
		for b := f.bindBase + f.nbinds - 1; b >= f.bindBase; b-- {
			if fs.binds[b].name == name {
				fs.binds[b].val = val
				return true
			}
		}
	}
	return false
}

// bindLocal adds a fresh binding to the top frame. Only the top frame can
// grow, since its bindings end the arena.
func (fs *frameStack) bindLocal(name Node, val Value) *Error {
	f := fs.top()
	if f == nil {
		return nil // no frame: caller falls back to the global table
	}
	for b := f.bindBase; b < f.bindBase+f.nbinds; b++ {
		if fs.binds[b].name == name {
			fs.binds[b].val = val
			return nil
		}
	}
	if len(fs.binds) == cap(fs.binds) {
		return &Error{Code: ErrOutOfSpace, Caller: f.proc.Name()}
	}
	fs.binds = append(fs.binds, binding{name: name, val: val})
	f.nbinds++
	return nil
}

// setTest records a TEST outcome in the top frame.
func (fs *frameStack) setTest(val bool) bool {
	f := fs.top()
	if f == nil {
		return false
	}
	f.testSet = true
	f.testVal = val
	return true
}

// test reads the nearest TEST outcome, walking up through frames that have
// not run TEST themselves.
func (fs *frameStack) test() (val, ok bool) {
	for i := len(fs.frames) - 1; i >= 0; i = fs.frames[i].prev {
		if f := &fs.frames[i]; f.testSet {
			return f.testVal, true
		}
	}
	return false, false
}

// pushExpr parks a value on the expression arena so it stays visible to the
// collector while more of the expression is evaluated.
func (fs *frameStack) pushExpr(v Value) *Error {
	if len(fs.exprs) == cap(fs.exprs) {
		return &Error{Code: ErrOutOfSpace}
	}
	fs.exprs = append(fs.exprs, v)
	return nil
}

func (fs *frameStack) popExpr() Value {
	v := fs.exprs[len(fs.exprs)-1]
	fs.exprs = fs.exprs[:len(fs.exprs)-1]
	return v
}

func (fs *frameStack) exprMark() int { return len(fs.exprs) }

func (fs *frameStack) releaseExprs(mark int) { fs.exprs = fs.exprs[:mark] }

// MarkRoots presents every node a live activation can still reach.
func (fs *frameStack) MarkRoots(mark func(Node)) {
	for i := range fs.binds {
		mark(fs.binds[i].val.Node)
	}
	for i := range fs.exprs {
		mark(fs.exprs[i].Node)
	}
	for i := range fs.frames {
		mark(fs.frames[i].body)
		mark(fs.frames[i].line)
	}
}
