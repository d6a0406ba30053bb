package logo

// The bytecode executor. execProc compiles a procedure on first call and
// runs the result on the shared expression arena, so values in flight are
// collector-visible exactly as they are under the tree walker. Procedures
// the compiler bailed on run through the walker instead; either way the
// observable behavior is the same.
func (in *Interp) execProc(p *Procedure, tc *pendingCall) Result {
	if p.compiled == nil {
		p.compiled = in.compileProc(p)
	}
	c := p.compiled
	if c == noCode {
		return in.runBody(in.frames.top(), tc)
	}
	base := in.frames.exprMark()
	res := in.execCode(c, tc)
	in.frames.releaseExprs(base)
	if res.Kind == ResGoto {
		// only reachable when a run list jumps; compiled bodies have no
		// continuation cursors to reposition
		return Failf(ErrNoTag, res.Tag, "")
	}
	return res
}

func (in *Interp) execCode(c *code, tc *pendingCall) Result {
	for pc := 0; pc < len(c.instrs); pc++ {
		ins := c.instrs[pc]
		switch ins.op {
		case opConst:
			if err := in.frames.pushExpr(c.consts[ins.a]); err != nil {
				return Fail(err)
			}

		case opLoad:
			name := c.consts[ins.a].Node
			v, ok := in.lookupVar(name)
			if !ok {
				return Failf(ErrNoValue, in.store.WordText(name), "")
			}
			if err := in.frames.pushExpr(v); err != nil {
				return Fail(err)
			}

		case opNeg:
			v := in.frames.popExpr()
			f, ok := in.toNumber(v)
			if !ok {
				return Failf(ErrDoesntLike, "-", FormatValue(in.store, v))
			}
			if err := in.frames.pushExpr(NumberVal(-f)); err != nil {
				return Fail(err)
			}

		case opBinop:
			right := in.frames.popExpr()
			left := in.frames.popExpr()
			res := in.applyOp(tokenKind(ins.a), left, right)
			if res.abnormal() {
				return res
			}
			if err := in.frames.pushExpr(res.Val); err != nil {
				return Fail(err)
			}

		case opPrimV, opPrimS:
			if in.interrupted() {
				return Throw("toplevel")
			}
			prim := c.prims[ins.a]
			mark := in.frames.exprMark() - int(ins.b)
			in.lastCall = prim.Name
			res := in.callPrim(prim, in.frames.exprs[mark:])
			in.frames.releaseExprs(mark)
			if out, done := in.vmResult(ins.op == opPrimS, prim.Name, res); done {
				return out
			}

		case opProcV, opProcS:
			if in.interrupted() {
				return Throw("toplevel")
			}
			p := c.procs[ins.a]
			mark := in.frames.exprMark() - int(ins.b)
			in.lastCall = p.Name()
			res := in.callProc(p, in.frames.exprs[mark:])
			in.frames.releaseExprs(mark)
			if out, done := in.vmResult(ins.op == opProcS, p.Name(), res); done {
				return out
			}

		case opTail:
			mark := in.frames.exprMark() - int(ins.b)
			tc.proc = c.procs[ins.a]
			tc.args = append([]Value(nil), in.frames.exprs[mark:]...)
			in.frames.releaseExprs(mark)
			return None()

		case opWhat:
			v := in.frames.popExpr()
			return Failf(ErrSayWhatToDo, FormatValue(in.store, v), "")
		}
	}
	return None()
}

// vmResult applies the call discipline: expression positions demand a
// value, statement positions refuse one. done reports that execution of the
// code must end with the returned result.
func (in *Interp) vmResult(stmt bool, name string, res Result) (out Result, done bool) {
	switch res.Kind {
	case ResOk:
		if stmt {
			return Failf(ErrSayWhatToDo, FormatValue(in.store, res.Val), ""), true
		}
		if err := in.frames.pushExpr(res.Val); err != nil {
			return Fail(err), true
		}
		return Result{}, false
	case ResNone:
		if stmt {
			return Result{}, false
		}
		return Failf(ErrDidntOutput, name, ""), true
	}
	return res, true
}
