package logo

import "strings"

// MaxParams is the most parameters a user procedure may declare.
const MaxParams = 8

// A Procedure is a user-defined word: its interned name, parameter names,
// and a body stored as a list of line lists so it can be re-tokenized
// straight from the store. Redefinition mutates the record in place, which
// keeps callers that captured the pointer current.
type Procedure struct {
	name     Node
	nameText string
	params   []Node
	body     Node

	buried  bool
	traced  bool
	stepped bool

	compiled *code // bytecode form, built on demand, dropped on redefine
}

// Name returns the procedure's spelling at definition time.
func (p *Procedure) Name() string { return p.nameText }

// Arity returns the number of declared parameters.
func (p *Procedure) Arity() int { return len(p.params) }

// Body returns the list-of-line-lists body node.
func (p *Procedure) Body() Node { return p.body }

// SetTraced toggles call tracing through the interpreter's log hook.
func (p *Procedure) SetTraced(on bool) { p.traced = on }

// SetBuried hides the procedure from workspace listings and erases.
func (p *Procedure) SetBuried(on bool) { p.buried = on }

// SetStepped toggles line-by-line stepping.
func (p *Procedure) SetStepped(on bool) { p.stepped = on }

// Proc looks up a user procedure by name, case-insensitively.
func (in *Interp) Proc(name string) *Procedure {
	n, ok := in.store.atoms[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return in.procByNode(n)
}

func (in *Interp) procByNode(name Node) *Procedure { return in.procs[name] }

// DefineProc creates or redefines a procedure. The body must already be a
// list of line lists; params are bound positionally at call time. Names
// shadowed by primitives are rejected so the primitive table stays
// authoritative.
func (in *Interp) DefineProc(name string, params []string, body Node) (*Procedure, *Error) {
	if len(params) > MaxParams {
		return nil, &Error{Code: ErrTooManyInputs, Proc: name}
	}
	if in.Primitive(name) != nil {
		return nil, &Error{Code: ErrAlreadyDefined, Proc: name}
	}
	nameNode, err := in.intern(name)
	if err != nil {
		return nil, err
	}
	paramNodes := make([]Node, len(params))
	for i, p := range params {
		pn, err := in.intern(p)
		if err != nil {
			return nil, err
		}
		paramNodes[i] = pn
	}
	defer in.invalidateCompiled()
	if p, ok := in.procs[nameNode]; ok {
		p.nameText = name
		p.params = paramNodes
		p.body = body
		return p, nil
	}
	p := &Procedure{name: nameNode, nameText: name, params: paramNodes, body: body}
	in.procs[nameNode] = p
	in.procOrder = append(in.procOrder, nameNode)
	return p, nil
}

// invalidateCompiled drops all compiled code. Instructions hold resolved
// procedure pointers and fixed arities, so any change to the callable
// tables forces recompilation on next use.
func (in *Interp) invalidateCompiled() {
	for _, p := range in.procs {
		p.compiled = nil
	}
}

// EraseProc removes a procedure definition; buried procedures are skipped
// unless force is set.
func (in *Interp) EraseProc(name string, force bool) bool {
	n, ok := in.store.atoms[strings.ToLower(name)]
	if !ok {
		return false
	}
	p, ok := in.procs[n]
	if !ok || p.buried && !force {
		return false
	}
	delete(in.procs, n)
	in.invalidateCompiled()
	for i, pn := range in.procOrder {
		if pn == n {
			in.procOrder = append(in.procOrder[:i], in.procOrder[i+1:]...)
			break
		}
	}
	return true
}

// EraseAll removes every unburied procedure and all global variables.
func (in *Interp) EraseAll() {
	for _, n := range append([]Node(nil), in.procOrder...) {
		if p := in.procs[n]; p != nil && !p.buried {
			in.EraseProc(p.nameText, false)
		}
	}
	for _, n := range append([]Node(nil), in.globalOrder...) {
		in.EraseVar(in.store.WordText(n))
	}
}

// Procedures returns the unburied procedures in definition order.
func (in *Interp) Procedures() []*Procedure {
	var out []*Procedure
	for _, n := range in.procOrder {
		if p := in.procs[n]; p != nil && !p.buried {
			out = append(out, p)
		}
	}
	return out
}
