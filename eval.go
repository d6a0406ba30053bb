package logo

// The tree-walking evaluator: a recursive-descent/Pratt hybrid over a token
// source. primary handles literals, variables, lists, parenthesized calls
// and word dispatch; exprBP climbs infix operators by binding power. The
// same code runs lines typed at the console, lines of procedure bodies fed
// back through the list re-tokenizer, and list arguments run by primitives.

// pendingCall carries a detected tail call out of body execution, replacing
// any shared trampoline state: the body runner fills it, the call loop
// consumes it.
type pendingCall struct {
	proc *Procedure
	args []Value
}

// runSource executes statements until the source is exhausted or one of
// them produces an abnormal result. When tc is non-nil the caller is a
// procedure body runner prepared to handle a tail call detected on the
// final statement.
func (in *Interp) runSource(src tokenSource, tc *pendingCall) Result {
	for {
		if in.interrupted() {
			return Throw("toplevel")
		}
		tok, err := src.peek()
		if err != nil {
			return Fail(err)
		}
		if tok.kind == tkEOF {
			return None()
		}
		if res := in.evalStatement(src, tc); res.abnormal() {
			return res
		}
		if tc != nil && tc.proc != nil {
			return None()
		}
	}
}

// evalStatement executes one instruction. A value produced at statement
// position is an error: commands say what to do with their results.
func (in *Interp) evalStatement(src tokenSource, tc *pendingCall) Result {
	if tc != nil {
		if tok, _ := src.peek(); tok.kind == tkWord && in.Primitive(tok.text) == nil {
			if p := in.Proc(tok.text); p != nil {
				return in.evalTailStatement(src, p, tc)
			}
		}
	}
	res := in.exprBP(src, 0)
	if res.Kind == ResOk {
		return Failf(ErrSayWhatToDo, FormatValue(in.store, res.Val), "")
	}
	// runSource checks for source exhaustion before each statement, so an
	// Eof here came back from a primitive (BYE) and must end the session
	return res
}

// evalTailStatement handles a statement that begins with a user procedure
// call: if nothing follows it on the line, it is in tail position, and the
// lookahead confirms that the call can be restarted in place instead of
// recursing.
func (in *Interp) evalTailStatement(src tokenSource, p *Procedure, tc *pendingCall) Result {
	if _, err := src.next(); err != nil {
		return Fail(err)
	}
	mark := in.frames.exprMark()
	args, res := in.collectArgs(src, p.Name(), p.Arity())
	if res.abnormal() {
		return res
	}
	if tok, _ := src.peek(); tok.kind == tkEOF {
		// copied off the arena; nothing allocates before the frame loop
		// rebinds them
		tc.proc = p
		tc.args = append([]Value(nil), args...)
		in.frames.releaseExprs(mark)
		return None()
	}
	res = in.callProc(p, args)
	in.frames.releaseExprs(mark)
	if res.Kind == ResOk {
		return Failf(ErrSayWhatToDo, FormatValue(in.store, res.Val), "")
	}
	return res
}

// exprBP is the Pratt climb: parse a primary, then fold in operators whose
// binding power exceeds minBP.
func (in *Interp) exprBP(src tokenSource, minBP int) Result {
	res := in.primary(src)
	if res.abnormal() || res.Kind == ResEof {
		return res
	}
	for {
		tok, err := src.peek()
		if err != nil {
			return Fail(err)
		}
		bp := bindingPower(tok.kind)
		if bp == 0 || bp <= minBP {
			return res
		}
		if _, err := src.next(); err != nil {
			return Fail(err)
		}
		if perr := in.frames.pushExpr(res.Val); perr != nil {
			return Fail(perr)
		}
		rhs := in.exprBP(src, bp)
		left := in.frames.popExpr()
		switch rhs.Kind {
		case ResOk:
		case ResEof:
			return Failf(ErrNotEnoughInputs, opText(tok.kind), "")
		case ResNone:
			return Failf(ErrDidntOutput, in.lastCall, "")
		default:
			return rhs
		}
		res = in.applyOp(tok.kind, left, rhs.Val)
		if res.abnormal() {
			return res
		}
	}
}

// primary parses one operand.
func (in *Interp) primary(src tokenSource) Result {
	tok, err := src.next()
	if err != nil {
		return Fail(err)
	}
	switch tok.kind {
	case tkEOF:
		return Eof()
	case tkNumber:
		return Ok(NumberVal(tok.num))
	case tkQuoted:
		n, err := in.intern(tok.text)
		if err != nil {
			return Fail(err)
		}
		return Ok(WordVal(n))
	case tkColon:
		n, err := in.intern(tok.text)
		if err != nil {
			return Fail(err)
		}
		if v, ok := in.lookupVar(n); ok {
			return Ok(v)
		}
		return Failf(ErrNoValue, tok.text, "")
	case tkLeftBracket:
		return Ok(ListVal(tok.list))
	case tkUnaryMinus, tkMinus:
		operand := in.primary(src)
		switch operand.Kind {
		case ResOk:
		case ResEof:
			return Failf(ErrNotEnoughInputs, "-", "")
		case ResNone:
			return Failf(ErrDidntOutput, in.lastCall, "")
		default:
			return operand
		}
		f, ok := in.toNumber(operand.Val)
		if !ok {
			return Failf(ErrDoesntLike, "-", FormatValue(in.store, operand.Val))
		}
		return Ok(NumberVal(-f))
	case tkLeftParen:
		return in.parenCall(src)
	case tkWord:
		return in.wordCall(src, tok.text)
	}
	return Failf(ErrUnexpected, opText(tok.kind), "")
}

// wordCall resolves a bare word, primitives first, then user procedures,
// and calls it with its default argument count.
func (in *Interp) wordCall(src tokenSource, name string) Result {
	if prim := in.Primitive(name); prim != nil {
		mark := in.frames.exprMark()
		args, res := in.collectArgs(src, prim.Name, prim.Arity)
		if res.abnormal() {
			return res
		}
		in.lastCall = prim.Name
		res = in.callPrim(prim, args)
		in.frames.releaseExprs(mark)
		return res
	}
	if p := in.Proc(name); p != nil {
		mark := in.frames.exprMark()
		args, res := in.collectArgs(src, p.Name(), p.Arity())
		if res.abnormal() {
			return res
		}
		in.lastCall = p.Name()
		res = in.callProc(p, args)
		in.frames.releaseExprs(mark)
		return res
	}
	return Failf(ErrDontKnowHow, name, "")
}

// collectArgs evaluates n argument expressions. Collected values park on
// the frame expression stack and stay there: the returned slice aliases
// those slots, so the arguments remain collector-visible while the call
// runs. The caller releases to its mark once the call is over. On failure
// the slots are already released.
func (in *Interp) collectArgs(src tokenSource, forName string, n int) ([]Value, Result) {
	mark := in.frames.exprMark()
	for i := 0; i < n; i++ {
		res := in.exprBP(src, 0)
		switch res.Kind {
		case ResOk:
		case ResEof:
			in.frames.releaseExprs(mark)
			return nil, Failf(ErrNotEnoughInputs, forName, "")
		case ResNone:
			in.frames.releaseExprs(mark)
			return nil, Failf(ErrDidntOutput, in.lastCall, "")
		default:
			in.frames.releaseExprs(mark)
			return nil, res
		}
		if err := in.frames.pushExpr(res.Val); err != nil {
			in.frames.releaseExprs(mark)
			return nil, Fail(err)
		}
	}
	return in.frames.exprs[mark:], None()
}

// parenCall parses a parenthesized form. A word naming a procedure makes
// this a variadic call collecting arguments up to the close paren, with one
// carve-out: a zero-input primitive followed by an infix operator falls
// through to ordinary infix parsing, so (count - 1) style expressions work.
func (in *Interp) parenCall(src tokenSource) Result {
	tok, err := src.peek()
	if err != nil {
		return Fail(err)
	}
	if tok.kind == tkWord {
		name := tok.text
		if prim := in.Primitive(name); prim != nil {
			src.next()
			if prim.Arity == 0 {
				if nxt, _ := src.peek(); bindingPower(nxt.kind) != 0 {
					in.lastCall = prim.Name
					res := in.callPrim(prim, nil)
					if res.Kind != ResOk {
						return res
					}
					return in.parenInfix(src, res)
				}
			}
			mark := in.frames.exprMark()
			args, res := in.collectParenArgs(src, prim.Name)
			if res.abnormal() {
				return res
			}
			in.lastCall = prim.Name
			res = in.callPrim(prim, args)
			in.frames.releaseExprs(mark)
			return res
		}
		if p := in.Proc(name); p != nil {
			src.next()
			mark := in.frames.exprMark()
			args, res := in.collectParenArgs(src, p.Name())
			if res.abnormal() {
				return res
			}
			if len(args) < p.Arity() {
				in.frames.releaseExprs(mark)
				return Failf(ErrNotEnoughInputs, p.Name(), "")
			}
			if len(args) > p.Arity() {
				in.frames.releaseExprs(mark)
				return Failf(ErrTooManyInputs, p.Name(), "")
			}
			in.lastCall = p.Name()
			res = in.callProc(p, args)
			in.frames.releaseExprs(mark)
			return res
		}
		src.next()
		return Failf(ErrDontKnowHow, name, "")
	}
	res := in.exprBP(src, 0)
	if res.abnormal() {
		return res
	}
	if res.Kind == ResEof {
		return Failf(ErrUnexpected, "(", "")
	}
	return in.closeParen(src, res)
}

// parenInfix continues infix parsing after a zero-input primitive inside
// parentheses, then insists on the close paren.
func (in *Interp) parenInfix(src tokenSource, left Result) Result {
	for {
		tok, err := src.peek()
		if err != nil {
			return Fail(err)
		}
		bp := bindingPower(tok.kind)
		if bp == 0 {
			return in.closeParen(src, left)
		}
		src.next()
		if perr := in.frames.pushExpr(left.Val); perr != nil {
			return Fail(perr)
		}
		rhs := in.exprBP(src, bp)
		lv := in.frames.popExpr()
		if rhs.Kind != ResOk {
			if rhs.Kind == ResEof {
				return Failf(ErrNotEnoughInputs, opText(tok.kind), "")
			}
			return rhs
		}
		left = in.applyOp(tok.kind, lv, rhs.Val)
		if left.abnormal() {
			return left
		}
	}
}

// collectParenArgs greedily evaluates expressions until the close paren.
// Like collectArgs, the returned slice aliases expression arena slots that
// the caller releases after the call.
func (in *Interp) collectParenArgs(src tokenSource, forName string) ([]Value, Result) {
	mark := in.frames.exprMark()
	count := 0
	for {
		tok, err := src.peek()
		if err != nil {
			in.frames.releaseExprs(mark)
			return nil, Fail(err)
		}
		if tok.kind == tkRightParen {
			src.next()
			break
		}
		if tok.kind == tkEOF {
			in.frames.releaseExprs(mark)
			return nil, Failf(ErrUnexpected, "(", "")
		}
		res := in.exprBP(src, 0)
		switch res.Kind {
		case ResOk:
		case ResNone:
			in.frames.releaseExprs(mark)
			return nil, Failf(ErrDidntOutput, in.lastCall, "")
		default:
			in.frames.releaseExprs(mark)
			return nil, res
		}
		if err := in.frames.pushExpr(res.Val); err != nil {
			in.frames.releaseExprs(mark)
			return nil, Fail(err)
		}
		count++
	}
	return in.frames.exprs[mark:], None()
}

func (in *Interp) closeParen(src tokenSource, res Result) Result {
	tok, err := src.next()
	if err != nil {
		return Fail(err)
	}
	if tok.kind != tkRightParen {
		return Failf(ErrUnexpected, "(", "")
	}
	return res
}

// applyOp evaluates one infix operator. Arithmetic and comparison both
// require numeric operands; anything else is refused rather than letting a
// NaN leak through.
func (in *Interp) applyOp(kind tokenKind, left, right Value) Result {
	a, ok := in.toNumber(left)
	if !ok {
		return Failf(ErrDoesntLike, opText(kind), FormatValue(in.store, left))
	}
	b, ok := in.toNumber(right)
	if !ok {
		return Failf(ErrDoesntLike, opText(kind), FormatValue(in.store, right))
	}
	switch kind {
	case tkPlus:
		return Ok(NumberVal(a + b))
	case tkMinus:
		return Ok(NumberVal(a - b))
	case tkStar:
		return Ok(NumberVal(a * b))
	case tkSlash:
		if b == 0 {
			return Failf(ErrDivideByZero, "/", "")
		}
		return Ok(NumberVal(a / b))
	case tkEquals:
		return Ok(in.boolValue(a == b))
	case tkLess:
		return Ok(in.boolValue(a < b))
	case tkGreater:
		return Ok(in.boolValue(a > b))
	}
	return Failf(ErrUnexpected, opText(kind), "")
}

// toNumber coerces a value to a number; words spelled like numbers count.
func (in *Interp) toNumber(v Value) (float32, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindWord:
		return parseNumberText(in.store.WordText(v.Node))
	}
	return 0, false
}

func parseNumberText(text string) (float32, bool) {
	return parseNumber(text)
}

// RunList runs a stored list as code: REPEAT bodies, IF branches and RUN
// all come through here. The reader registers as a collector root for the
// duration, and every abnormal result propagates to the caller untouched.
func (in *Interp) RunList(list Node) Result {
	lr := in.newListReader(list)
	defer lr.close()
	return in.runSource(lr, nil)
}

// EvalExpr evaluates a stored list as a single expression and returns its
// value, for primitives like IF that want a computed input from a list.
func (in *Interp) EvalExpr(list Node) Result {
	lr := in.newListReader(list)
	defer lr.close()
	res := in.exprBP(lr, 0)
	if res.Kind == ResEof {
		return None()
	}
	return res
}
