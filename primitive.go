package logo

import "strings"

// A PrimFunc implements one primitive. It receives the interpreter (and may
// re-enter the evaluator through it, e.g. to run a list argument) and the
// already-evaluated arguments. It must return a Result; reaching into the
// store mid-call is fine, but any node it wants to survive a collection has
// to be reachable from an argument, a frame, or a registered root.
type PrimFunc func(in *Interp, args []Value) Result

// A Primitive is one entry in the registration table: a default argument
// count used outside parentheses, and the function itself.
type Primitive struct {
	Name  string
	Arity int
	Fn    PrimFunc
}

// Register adds or replaces a primitive. Names are case-insensitive.
func (in *Interp) Register(name string, arity int, fn PrimFunc) {
	in.prims[strings.ToLower(name)] = &Primitive{Name: name, Arity: arity, Fn: fn}
	in.invalidateCompiled()
}

// Primitive looks up a registered primitive, or returns nil. The evaluator
// consults this table before the user procedure table.
func (in *Interp) Primitive(name string) *Primitive {
	return in.prims[strings.ToLower(name)]
}

// callPrim invokes a primitive and attaches the current procedure name to
// any error it reports, so messages read "... in PROC".
func (in *Interp) callPrim(p *Primitive, args []Value) Result {
	res := p.Fn(in, args)
	if res.Kind == ResError && res.Err != nil {
		res.Err = res.Err.InCaller(in.callerName())
	}
	return res
}

func (in *Interp) callerName() string {
	if f := in.frames.top(); f != nil {
		return f.proc.Name()
	}
	return ""
}
