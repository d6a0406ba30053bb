package logo

import (
	"errors"
	"strings"
)

// errNoCompile aborts compilation; the procedure falls back to the tree
// walker. Anything the compiler cannot express statically bails this way
// rather than approximating, so the two executors never disagree: GOTO,
// words with no definition yet, malformed lines whose errors the walker
// reports lazily.
var errNoCompile = errors.New("procedure not compilable")

type opcode uint8

const (
	opConst opcode = iota // push consts[a]
	opLoad                // push variable named by consts[a], NoValue if unbound
	opNeg                 // negate top of stack
	opBinop               // fold top two by operator tokenKind(a)
	opPrimV               // call prims[a] with b args, expecting a value
	opPrimS               // call prims[a] with b args at statement position
	opProcV               // call procs[a] with b args, expecting a value
	opProcS               // call procs[a] with b args at statement position
	opTail                // hand procs[a] with b args to the frame loop
	opWhat                // value left at statement position: report it
)

type instr struct {
	op   opcode
	a, b uint16
}

// code is one compiled procedure body. Its consts reference only nodes that
// stay reachable from the procedure's stored body (literals and sublists),
// so compiled code adds no collector roots. Redefining or erasing any
// procedure, or registering a primitive, drops all compiled code, which is
// what lets instructions hold resolved pointers and fixed arities.
type code struct {
	instrs []instr
	consts []Value
	prims  []*Primitive
	procs  []*Procedure
}

// noCode marks a procedure the compiler gave up on.
var noCode = &code{}

type compiler struct {
	in *Interp
	c  *code
}

func (in *Interp) compileProc(p *Procedure) *code {
	co := compiler{in: in, c: &code{}}
	if err := co.body(p); err != nil {
		return noCode
	}
	return co.c
}

func (co *compiler) body(p *Procedure) error {
	for lines := p.body; lines.IsList(); lines = co.in.store.Cdr(lines) {
		line := co.in.store.Car(lines)
		last := !co.in.store.Cdr(lines).IsList()
		if err := co.line(line, last); err != nil {
			return err
		}
	}
	return nil
}

func (co *compiler) line(line Node, last bool) error {
	lr := co.in.newListReader(line)
	defer lr.close()
	for {
		tok, terr := lr.peek()
		if terr != nil {
			return errNoCompile
		}
		if tok.kind == tkEOF {
			return nil
		}
		if err := co.statement(lr, last); err != nil {
			return err
		}
	}
}

// statement compiles one instruction of a body line. A statement that ends
// in a single outermost call gets the statement flavor of that call, which
// tolerates no output; anything else must justify its value and compiles to
// a trailing opWhat.
func (co *compiler) statement(src tokenSource, lastLine bool) error {
	tok, terr := src.peek()
	if terr != nil {
		return errNoCompile
	}
	if tok.kind == tkWord {
		if strings.EqualFold(tok.text, "goto") {
			return errNoCompile
		}
		if co.in.Primitive(tok.text) == nil {
			if p := co.in.Proc(tok.text); p != nil {
				return co.procStatement(src, p, lastLine)
			}
		}
	}
	topCall, err := co.expr(src, 0)
	if err != nil {
		return err
	}
	if topCall {
		co.flavorStatement()
		return nil
	}
	co.emit(opWhat, 0, 0)
	return nil
}

// procStatement compiles a statement that begins with a user procedure
// call. When nothing follows the arguments on the final line, the call is
// emitted as a tail instruction for the frame loop to restart in place.
func (co *compiler) procStatement(src tokenSource, p *Procedure, lastLine bool) error {
	if _, terr := src.next(); terr != nil {
		return errNoCompile
	}
	if err := co.args(src, p.Arity()); err != nil {
		return err
	}
	idx, err := co.procIndex(p)
	if err != nil {
		return err
	}
	if nxt, terr := src.peek(); terr == nil && nxt.kind == tkEOF && lastLine {
		co.emit(opTail, idx, uint16(p.Arity()))
	} else {
		co.emit(opProcS, idx, uint16(p.Arity()))
	}
	return nil
}

// flavorStatement retargets the just-emitted call for statement position.
func (co *compiler) flavorStatement() {
	last := &co.c.instrs[len(co.c.instrs)-1]
	switch last.op {
	case opPrimV:
		last.op = opPrimS
	case opProcV:
		last.op = opProcS
	}
}

// expr compiles the Pratt climb. topCall reports whether the whole
// expression was exactly one call, with no infix folding after it.
func (co *compiler) expr(src tokenSource, minBP int) (topCall bool, err error) {
	topCall, err = co.primary(src)
	if err != nil {
		return false, err
	}
	for {
		tok, terr := src.peek()
		if terr != nil {
			return false, errNoCompile
		}
		bp := bindingPower(tok.kind)
		if bp == 0 || bp <= minBP {
			return topCall, nil
		}
		src.next()
		if _, err := co.expr(src, bp); err != nil {
			return false, err
		}
		co.emit(opBinop, uint16(tok.kind), 0)
		topCall = false
	}
}

func (co *compiler) primary(src tokenSource) (bool, error) {
	tok, terr := src.next()
	if terr != nil {
		return false, errNoCompile
	}
	switch tok.kind {
	case tkNumber:
		return false, co.constVal(NumberVal(tok.num))
	case tkQuoted:
		n, err := co.in.intern(tok.text)
		if err != nil {
			return false, errNoCompile
		}
		return false, co.constVal(WordVal(n))
	case tkLeftBracket:
		if co.listHasGoto(tok.list) {
			return false, errNoCompile
		}
		return false, co.constVal(ListVal(tok.list))
	case tkColon:
		n, err := co.in.intern(tok.text)
		if err != nil {
			return false, errNoCompile
		}
		idx, cerr := co.addConst(WordVal(n))
		if cerr != nil {
			return false, cerr
		}
		co.emit(opLoad, idx, 0)
		return false, nil
	case tkMinus, tkUnaryMinus:
		if _, err := co.primary(src); err != nil {
			return false, err
		}
		co.emit(opNeg, 0, 0)
		return false, nil
	case tkLeftParen:
		return co.paren(src)
	case tkWord:
		if strings.EqualFold(tok.text, "goto") {
			return false, errNoCompile
		}
		return co.call(src, tok.text)
	}
	return false, errNoCompile
}

// listHasGoto reports whether a stored list mentions goto anywhere,
// sublists included. List constants can be run as branches of the body
// (IF, REPEAT, RUN), and a goto escaping one needs the walker's
// continuation cursors to reposition, so such bodies are not compiled.
func (co *compiler) listHasGoto(list Node) bool {
	for n := list; n.IsList(); n = co.in.store.Cdr(n) {
		elem := co.in.store.Car(n)
		if elem.IsWord() {
			if strings.EqualFold(co.in.store.WordText(elem), "goto") {
				return true
			}
		} else if elem.IsList() && co.listHasGoto(elem) {
			return true
		}
	}
	return false
}

// call compiles a bare word with its default argument count, primitives
// before procedures, same order as the walker.
func (co *compiler) call(src tokenSource, name string) (bool, error) {
	if prim := co.in.Primitive(name); prim != nil {
		if err := co.args(src, prim.Arity); err != nil {
			return false, err
		}
		idx, err := co.primIndex(prim)
		if err != nil {
			return false, err
		}
		co.emit(opPrimV, idx, uint16(prim.Arity))
		return true, nil
	}
	if p := co.in.Proc(name); p != nil {
		if err := co.args(src, p.Arity()); err != nil {
			return false, err
		}
		idx, err := co.procIndex(p)
		if err != nil {
			return false, err
		}
		co.emit(opProcV, idx, uint16(p.Arity()))
		return true, nil
	}
	return false, errNoCompile
}

func (co *compiler) args(src tokenSource, n int) error {
	for i := 0; i < n; i++ {
		if _, err := co.expr(src, 0); err != nil {
			return err
		}
	}
	return nil
}

func (co *compiler) paren(src tokenSource) (bool, error) {
	tok, terr := src.peek()
	if terr != nil {
		return false, errNoCompile
	}
	if tok.kind == tkWord {
		name := tok.text
		if strings.EqualFold(name, "goto") {
			return false, errNoCompile
		}
		if prim := co.in.Primitive(name); prim != nil {
			src.next()
			if prim.Arity == 0 {
				if nxt, _ := src.peek(); bindingPower(nxt.kind) != 0 {
					idx, err := co.primIndex(prim)
					if err != nil {
						return false, err
					}
					co.emit(opPrimV, idx, 0)
					return false, co.parenInfix(src)
				}
			}
			n, err := co.parenArgs(src)
			if err != nil {
				return false, err
			}
			idx, err := co.primIndex(prim)
			if err != nil {
				return false, err
			}
			co.emit(opPrimV, idx, uint16(n))
			return true, nil
		}
		if p := co.in.Proc(name); p != nil {
			src.next()
			n, err := co.parenArgs(src)
			if err != nil {
				return false, err
			}
			if n != p.Arity() {
				return false, errNoCompile
			}
			idx, err := co.procIndex(p)
			if err != nil {
				return false, err
			}
			co.emit(opProcV, idx, uint16(n))
			return true, nil
		}
		return false, errNoCompile
	}
	if _, err := co.expr(src, 0); err != nil {
		return false, err
	}
	return false, co.expect(src, tkRightParen)
}

// parenInfix compiles the operator chain after a zero-input primitive
// inside parentheses, up to the close paren.
func (co *compiler) parenInfix(src tokenSource) error {
	for {
		tok, terr := src.peek()
		if terr != nil {
			return errNoCompile
		}
		bp := bindingPower(tok.kind)
		if bp == 0 {
			return co.expect(src, tkRightParen)
		}
		src.next()
		if _, err := co.expr(src, bp); err != nil {
			return err
		}
		co.emit(opBinop, uint16(tok.kind), 0)
	}
}

// parenArgs compiles expressions greedily until the close paren, returning
// how many there were.
func (co *compiler) parenArgs(src tokenSource) (int, error) {
	count := 0
	for {
		tok, terr := src.peek()
		if terr != nil {
			return 0, errNoCompile
		}
		switch tok.kind {
		case tkRightParen:
			src.next()
			return count, nil
		case tkEOF:
			return 0, errNoCompile
		}
		if _, err := co.expr(src, 0); err != nil {
			return 0, err
		}
		count++
	}
}

func (co *compiler) expect(src tokenSource, kind tokenKind) error {
	tok, terr := src.next()
	if terr != nil || tok.kind != kind {
		return errNoCompile
	}
	return nil
}

func (co *compiler) emit(op opcode, a, b uint16) {
	co.c.instrs = append(co.c.instrs, instr{op: op, a: a, b: b})
}

func (co *compiler) constVal(v Value) error {
	idx, err := co.addConst(v)
	if err != nil {
		return err
	}
	co.emit(opConst, idx, 0)
	return nil
}

func (co *compiler) addConst(v Value) (uint16, error) {
	if len(co.c.consts) > 0xffff {
		return 0, errNoCompile
	}
	co.c.consts = append(co.c.consts, v)
	return uint16(len(co.c.consts) - 1), nil
}

func (co *compiler) primIndex(prim *Primitive) (uint16, error) {
	for i, p := range co.c.prims {
		if p == prim {
			return uint16(i), nil
		}
	}
	if len(co.c.prims) > 0xffff {
		return 0, errNoCompile
	}
	co.c.prims = append(co.c.prims, prim)
	return uint16(len(co.c.prims) - 1), nil
}

func (co *compiler) procIndex(p *Procedure) (uint16, error) {
	for i, q := range co.c.procs {
		if q == p {
			return uint16(i), nil
		}
	}
	if len(co.c.procs) > 0xffff {
		return 0, errNoCompile
	}
	co.c.procs = append(co.c.procs, p)
	return uint16(len(co.c.procs) - 1), nil
}
