package logo

import (
	"fmt"
	"strings"
)

// ErrCode identifies one of the engine's reportable failures. Codes matter:
// they are the only way a caller can tell a logic mistake from resource
// exhaustion, and both are recoverable at the interaction loop.
type ErrCode int

const (
	ErrNone ErrCode = iota
	ErrOutOfSpace      // an arena (atoms, cells, frames, code) is full
	ErrDontKnowHow     // word resolves to neither primitive nor procedure
	ErrNoValue         // :variable has no binding
	ErrNotEnoughInputs // fewer arguments than the procedure requires
	ErrTooManyInputs   // more arguments than the procedure accepts
	ErrDoesntLike      // an input failed validation or coercion
	ErrDivideByZero    // division or remainder by zero
	ErrSayWhatToDo     // a value was produced at statement position
	ErrDidntOutput     // an expression call completed without a value
	ErrNotBool         // a predicate produced neither TRUE nor FALSE
	ErrNoCatch         // THROW tag reached the top without a CATCH
	ErrNoTag           // GOTO label not present in the procedure body
	ErrUnexpected      // stray token (unmatched bracket or paren)
	ErrAlreadyDefined  // TO names an existing primitive
	ErrNotInProcedure  // STOP/OUTPUT/GOTO outside any procedure
	ErrWordTooLong     // word exceeds the atom table limit
	ErrConsole         // the console rejected a write
)

var errTemplates = map[ErrCode]string{
	ErrOutOfSpace:      "out of space",
	ErrDontKnowHow:     "I don't know how to %s",
	ErrNoValue:         "%s has no value",
	ErrNotEnoughInputs: "not enough inputs to %s",
	ErrTooManyInputs:   "too many inputs to %s",
	ErrDoesntLike:      "%s doesn't like %s as input",
	ErrDivideByZero:    "%s can't divide by zero",
	ErrSayWhatToDo:     "you don't say what to do with %s",
	ErrDidntOutput:     "%s didn't output",
	ErrNotBool:         "%s is neither TRUE nor FALSE",
	ErrNoCatch:         "can't find catch tag for %s",
	ErrNoTag:           "can't find tag %s",
	ErrUnexpected:      "unexpected %s",
	ErrAlreadyDefined:  "%s is already defined",
	ErrNotInProcedure:  "can only use %s inside a procedure",
	ErrWordTooLong:     "word too long",
	ErrConsole:         "couldn't write to the console",
}

// An Error is a failure carried as a value. Code selects a message template;
// Proc, Arg and Caller fill its slots. Caller, when set, names the procedure
// that was running and is appended as an "in %s" suffix.
type Error struct {
	Code   ErrCode
	Proc   string
	Arg    string
	Caller string
}

// Error formats the message from the per-code template.
func (e *Error) Error() string {
	tmpl, ok := errTemplates[e.Code]
	if !ok {
		tmpl = fmt.Sprintf("error %d", int(e.Code))
	}
	var args []interface{}
	for _, slot := range []string{e.Proc, e.Arg} {
		if n := strings.Count(tmpl, "%s"); len(args) < n {
			args = append(args, slot)
		}
	}
	mess := tmpl
	if len(args) > 0 {
		mess = fmt.Sprintf(tmpl, args...)
	}
	if e.Caller != "" {
		mess += fmt.Sprintf(" in %s", e.Caller)
	}
	return mess
}

// InCaller returns a copy of e with the caller slot filled, if empty.
func (e *Error) InCaller(name string) *Error {
	if e.Caller != "" || name == "" {
		return e
	}
	c := *e
	c.Caller = name
	return &c
}
