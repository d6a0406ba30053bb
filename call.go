package logo

import "strings"

// callProc validates arity, pushes a frame, and drives the body to
// completion. Tail calls detected by the body runner restart the loop on a
// rebound frame instead of recursing, which is what lets Logo recursion run
// deeper than the host stack.
func (in *Interp) callProc(p *Procedure, args []Value) Result {
	if len(args) < p.Arity() {
		return Failf(ErrNotEnoughInputs, p.Name(), "")
	}
	if len(args) > p.Arity() {
		return Failf(ErrTooManyInputs, p.Name(), "")
	}
	if err := in.frames.push(p, args); err != nil {
		return Fail(err)
	}
	res := in.runFrame()
	in.frames.pop()

	switch res.Kind {
	case ResStop, ResNone:
		return None()
	case ResOutput:
		return Ok(res.Val)
	case ResError:
		res.Err = res.Err.InCaller(p.Name())
	}
	return res
}

// runFrame executes the top frame's procedure, consuming pending tail calls
// by rebinding in place.
func (in *Interp) runFrame() Result {
	for {
		f := in.frames.top()
		p := f.proc
		if p.traced {
			in.traceCall(p)
		}

		var tc pendingCall
		var res Result
		if in.useVM && !p.stepped {
			res = in.execProc(p, &tc)
		} else {
			res = in.runBody(f, &tc)
		}
		if tc.proc == nil {
			return res
		}
		if err := in.frames.reuse(tc.proc, tc.args); err != nil {
			return Fail(err)
		}
	}
}

// runBody walks the body lines of the top frame's procedure, keeping the
// continuation cursors in the frame so the structure stays rooted and so
// execution can resume there after a re-entrant primitive call. The tail
// slot is only offered to the final line.
func (in *Interp) runBody(f *frame, tc *pendingCall) Result {
	f.body = f.proc.body
	f.line = Nil
	for {
		if f.line.IsNil() {
			if !f.body.IsList() {
				return None()
			}
			f.line = in.store.Car(f.body)
			f.body = in.store.Cdr(f.body)
			if f.line.IsNil() {
				continue
			}
		}
		if f.proc.stepped {
			in.logf("step %s: %s", f.proc.Name(), FormatValue(in.store, ListVal(f.line)))
		}

		lr := in.newListReader(f.line)
		last := !f.body.IsList()
		var res Result
		if last && tc != nil {
			res = in.runSource(lr, tc)
		} else {
			res = in.runSource(lr, nil)
		}
		lr.close()
		f.line = Nil

		switch {
		case res.Kind == ResGoto:
			if !in.gotoTag(f, res.Tag) {
				return Failf(ErrNoTag, res.Tag, "")
			}
		case res.abnormal():
			return res
		case tc != nil && tc.proc != nil:
			return None()
		}
	}
}

// gotoTag repositions the frame cursors just past a leading `tag "label`
// statement somewhere in the procedure body. Labels compare
// case-insensitively.
func (in *Interp) gotoTag(f *frame, label string) bool {
	for lines := f.proc.body; lines.IsList(); lines = in.store.Cdr(lines) {
		line := in.store.Car(lines)
		lr := in.newListReader(line)
		tok, _ := lr.next()
		if tok.kind == tkWord && strings.EqualFold(tok.text, "tag") {
			name, _ := lr.next()
			if (name.kind == tkQuoted || name.kind == tkWord) && strings.EqualFold(name.text, label) {
				f.body = in.store.Cdr(lines)
				f.line = lr.capture()
				lr.close()
				return true
			}
		}
		lr.close()
	}
	return false
}

func (in *Interp) traceCall(p *Procedure) {
	f := in.frames.top()
	var sb strings.Builder
	sb.WriteString(p.Name())
	for b := f.bindBase; b < f.bindBase+f.nparams; b++ {
		sb.WriteByte(' ')
		sb.WriteString(ShowValue(in.store, in.frames.binds[b].val))
	}
	in.logf("trace: %s", sb.String())
}
