package logo

// A Result is the outcome of one evaluation step. It stands in for
// exceptions: every layer returns one and inspects the kind before
// continuing, so stop/output/throw/pause/goto travel by ordinary returns.
// Anything that is not ResOk or ResNone must be propagated untouched unless
// a layer is documented to translate it.
type Result struct {
	Kind ResultKind
	Val  Value  // ResOk and ResOutput
	Tag  string // ResThrow tag, ResGoto label, ResPause procedure name
	Err  *Error // ResError
}

// ResultKind discriminates the Result union.
type ResultKind uint8

const (
	ResOk     ResultKind = iota // a value was produced
	ResNone                     // completed without a value
	ResStop                     // STOP: end the current procedure
	ResOutput                   // OUTPUT: end the current procedure with a value
	ResError                    // a reported error, carried as a value
	ResThrow                    // THROW: unwind until a matching CATCH
	ResPause                    // PAUSE: suspend into a nested interaction loop
	ResGoto                     // GOTO: transfer to a TAG within the procedure
	ResEof                      // the token source ran dry
)

// Ok wraps a produced value.
func Ok(v Value) Result { return Result{Kind: ResOk, Val: v} }

// None is the result of a command that completed without producing a value.
func None() Result { return Result{Kind: ResNone} }

// Stop ends the current procedure without a value.
func Stop() Result { return Result{Kind: ResStop} }

// Output ends the current procedure with a value.
func Output(v Value) Result { return Result{Kind: ResOutput, Val: v} }

// Throw unwinds to the nearest CATCH with a matching tag.
func Throw(tag string) Result { return Result{Kind: ResThrow, Tag: tag} }

// Pause suspends execution inside the named procedure.
func Pause(proc string) Result { return Result{Kind: ResPause, Tag: proc} }

// Goto requests a transfer to the given TAG label.
func Goto(label string) Result { return Result{Kind: ResGoto, Tag: label} }

// Eof reports an exhausted token source.
func Eof() Result { return Result{Kind: ResEof} }

// Fail wraps an error value.
func Fail(err *Error) Result { return Result{Kind: ResError, Err: err} }

// Failf builds and wraps an error in one step.
func Failf(code ErrCode, proc, arg string) Result {
	return Fail(&Error{Code: code, Proc: proc, Arg: arg})
}

// IsErr reports whether r carries an error.
func (r Result) IsErr() bool { return r.Kind == ResError }

// abnormal reports whether r must interrupt straight-line evaluation.
func (r Result) abnormal() bool {
	switch r.Kind {
	case ResOk, ResNone:
		return false
	}
	return true
}
