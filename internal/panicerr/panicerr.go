// Package panicerr turns panics and runtime.Goexit inside a worker function
// into ordinary error returns, so a bug in an embedder primitive surfaces at
// the interaction loop instead of crashing the host.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f on its own goroutine and waits for it, reporting a panic
// or a goroutine exit as a non-nil error. The name labels the worker in
// error messages.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer sendGoexit(name, errch)
		defer sendPanic(name, errch)
		errch <- f()
	}()
	return <-errch
}

func sendPanic(name string, errch chan<- error) {
	if e := recover(); e != nil {
		select {
		case errch <- panicError{name: name, value: e, stack: debug.Stack()}:
		default:
		}
	}
}

// sendGoexit also runs after a normal return; the buffered send from f has
// already claimed the slot then, so the default arm drops the false alarm.
func sendGoexit(name string, errch chan<- error) {
	select {
	case errch <- goexitError(name):
	default:
	}
}

type panicError struct {
	name  string
	value interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name != "" {
		fmt.Fprintf(f, "%v ", pe.name)
	}
	fmt.Fprintf(f, "panicked: %v", pe.value)
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\npanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.value.(error)
	return err
}

type goexitError string

func (name goexitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns the captured stack trace when err came from a
// recovered panic, or the empty string.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
