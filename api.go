package logo

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/BlairLeduc/pico-logo-sub000/internal/panicerr"
)

// New builds an interpreter with the core primitives installed. The zero
// option set reads nothing, discards output and uses the default arena and
// stack sizes.
func New(opts ...Option) *Interp {
	in := &Interp{
		procs:   make(map[Node]*Procedure),
		globals: make(map[Node]Value),
		prims:   make(map[string]*Primitive),
	}
	in.applyOptions(opts...)
	in.store = NewStore(in.arenaSize)
	in.frames = newFrameStack(in.frameDepth, in.bindSlots, in.exprSlots)
	if in.devices == nil {
		in.devices = newHostDevices()
	}
	// the two truth words exist before any program can mention them
	in.store.Intern("true")
	in.store.Intern("false")
	registerCore(in)
	registerWorkspace(in)
	in.Register("continue", 0, primContinue)
	in.Register("co", 0, primContinue)
	return in
}

// Run drives the interaction loop against the console until end of input,
// BYE, or a host error. Panics inside primitives surface as errors rather
// than crashing the embedder.
func (in *Interp) Run(ctx context.Context) error {
	err := panicerr.Recover("logo", func() error {
		return in.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (in *Interp) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := in.console.ReadLine(in.prompt())
		if err != nil {
			return err
		}
		res := in.EvalLine(line)
		switch res.Kind {
		case ResError:
			if werr := in.console.WriteString(res.Err.Error() + "\n"); werr != nil {
				return werr
			}
		case ResThrow:
			// a CONTINUE with no PAUSE below it
			e := &Error{Code: ErrNoCatch, Proc: res.Tag}
			if werr := in.console.WriteString(e.Error() + "\n"); werr != nil {
				return werr
			}
		case ResEof:
			return nil
		}
	}
}

func (in *Interp) prompt() string {
	if in.defining != nil {
		return "> "
	}
	return "? "
}

// EvalLine feeds one line of input through the interpreter: collecting
// lines while a TO definition is open, starting one when the line begins
// with TO, and otherwise running the line's statements. A THROW nobody
// caught comes back as an error, except the interrupt tag, which just ends
// the line.
func (in *Interp) EvalLine(line string) Result {
	if in.defining != nil {
		return in.defineLine(line)
	}
	sc := in.newScanner(line)
	if tok, err := sc.peek(); err == nil && tok.kind == tkWord && strings.EqualFold(tok.text, "to") {
		sc.next()
		return in.startDefinition(sc)
	}
	res := in.runSource(sc, nil)
	switch res.Kind {
	case ResThrow:
		switch {
		case strings.EqualFold(res.Tag, "toplevel"):
			return None()
		case strings.EqualFold(res.Tag, "pause"):
			return res // consumed by the innermost PAUSE loop
		}
		return Failf(ErrNoCatch, res.Tag, "")
	case ResGoto:
		return Failf(ErrNoTag, res.Tag, "")
	}
	return res
}

// EvalText runs multi-line program text, stopping at the first abnormal
// result. Useful for loading a file before handing the console to the user.
func (in *Interp) EvalText(text string) Result {
	for _, line := range strings.Split(text, "\n") {
		if res := in.EvalLine(line); res.abnormal() {
			return res
		}
	}
	return None()
}

// startDefinition parses the title line after TO: a name followed by colon
// parameters.
func (in *Interp) startDefinition(sc *scanner) Result {
	tok, err := sc.next()
	if err != nil {
		return Fail(err)
	}
	if tok.kind != tkWord {
		return Failf(ErrNotEnoughInputs, "to", "")
	}
	name := tok.text
	if in.Primitive(name) != nil {
		return Failf(ErrAlreadyDefined, name, "")
	}
	var params []string
	for {
		tok, err := sc.next()
		if err != nil {
			return Fail(err)
		}
		if tok.kind == tkEOF {
			break
		}
		if tok.kind != tkColon {
			return Failf(ErrDoesntLike, "to", storedSpelling(tok))
		}
		if len(params) == MaxParams {
			return Failf(ErrTooManyInputs, name, "")
		}
		params = append(params, tok.text)
	}
	lb, lerr := in.newListBuilder()
	if lerr != nil {
		return Fail(lerr)
	}
	in.defining = &definition{name: name, params: params, lines: lb}
	return None()
}

// defineLine collects one body line, or finishes the definition on END.
func (in *Interp) defineLine(line string) Result {
	if strings.EqualFold(strings.TrimSpace(line), "end") {
		def := in.defining
		in.defining = nil
		body := def.lines.done()
		def.lines.close()
		p, err := in.DefineProc(def.name, def.params, body)
		if err != nil {
			return Fail(err)
		}
		return in.consoleWrite(p.Name() + " defined\n")
	}
	node, err := in.lineToList(line)
	if err != nil {
		return Fail(err)
	}
	if node.IsNil() {
		return None() // blank lines don't become body lines
	}
	if err := in.defining.lines.appendNode(node); err != nil {
		return Fail(err)
	}
	return None()
}

// lineToList retokenizes a source line into a stored line list, spelled the
// same way bracketed lists are stored.
func (in *Interp) lineToList(line string) (Node, *Error) {
	sc := in.newScanner(line)
	lb, err := in.newListBuilder()
	if err != nil {
		return Nil, err
	}
	defer lb.close()
	for {
		tok, err := sc.next()
		if err != nil {
			return Nil, err
		}
		switch tok.kind {
		case tkEOF:
			return lb.done(), nil
		case tkLeftBracket:
			if err := lb.appendNode(tok.list); err != nil {
				return Nil, err
			}
		default:
			if err := lb.appendWord(storedSpelling(tok)); err != nil {
				return Nil, err
			}
		}
	}
}

// primPause runs a nested interaction loop without unwinding the frame
// stack, so CONTINUE resumes the paused procedure right where it left off.
func primPause(in *Interp, args []Value) Result {
	where := in.callerName()
	if where == "" {
		where = "toplevel"
	}
	if res := in.consoleWrite("pausing... in " + where + "\n"); res.abnormal() {
		return res
	}
	for {
		line, err := in.console.ReadLine(where + "? ")
		if err != nil {
			return Throw("toplevel")
		}
		res := in.EvalLine(line)
		switch res.Kind {
		case ResError:
			if werr := in.console.WriteString(res.Err.Error() + "\n"); werr != nil {
				return Fail(&Error{Code: ErrConsole})
			}
		case ResThrow:
			if strings.EqualFold(res.Tag, "pause") {
				return None()
			}
			return res
		case ResEof:
			return res
		}
	}
}

// primContinue resumes from the innermost PAUSE.
func primContinue(in *Interp, args []Value) Result {
	return Throw("pause")
}
