package logo

import (
	"bytes"
	"io"

	"github.com/BlairLeduc/pico-logo-sub000/internal/conio"
)

// An Option configures an interpreter at construction time.
type Option interface{ apply(in *Interp) }

var defaults = []Option{
	WithInput(bytes.NewReader(nil)),
	WithOutput(io.Discard),
	WithArenaSize(DefaultArenaSize),
	WithFrameDepth(DefaultFrameDepth),
	WithBindingSlots(DefaultBindingSlots),
	WithExprSlots(DefaultExprSlots),
}

func (in *Interp) applyOptions(opts ...Option) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(in)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

// WithLogf installs a diagnostic log hook; collection stats, trace and step
// output all go through it.
type WithLogf func(mess string, args ...interface{})

func (logfn WithLogf) apply(in *Interp) { in.logfn = logfn }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type consoleOption struct{ c Console }
type devicesOption struct{ d Devices }
type arenaSizeOption int
type frameDepthOption int
type bindingSlotsOption int
type exprSlotsOption int
type bytecodeOption bool

// WithInput sets the reader behind the default console.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithOutput sets the writer behind the default console.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithConsole installs a complete console, replacing the default one.
func WithConsole(c Console) Option { return consoleOption{c} }

// WithDevices installs the host access used by RANDOM, WAIT and BATTERY.
func WithDevices(d Devices) Option { return devicesOption{d} }

// WithArenaSize sets the byte size of the object store arena.
func WithArenaSize(n int) Option { return arenaSizeOption(n) }

// WithFrameDepth bounds simultaneous procedure activations.
func WithFrameDepth(n int) Option { return frameDepthOption(n) }

// WithBindingSlots bounds parameters plus locals across all activations.
func WithBindingSlots(n int) Option { return bindingSlotsOption(n) }

// WithExprSlots bounds values in flight across all activations.
func WithExprSlots(n int) Option { return exprSlotsOption(n) }

// WithBytecode switches procedure bodies to the compiling executor.
func WithBytecode(on bool) Option { return bytecodeOption(on) }

func (i inputOption) apply(in *Interp) {
	if c, ok := in.console.(*ioConsole); ok {
		c.in = conio.NewLineReader(i.Reader)
	} else {
		in.console = NewConsole(i.Reader, io.Discard)
	}
}

func (o outputOption) apply(in *Interp) {
	if c, ok := in.console.(*ioConsole); ok {
		c.out = conio.NewWriteFlusher(o.Writer)
	} else {
		in.console = NewConsole(bytes.NewReader(nil), o.Writer)
	}
}

func (o consoleOption) apply(in *Interp) { in.console = o.c }

func (o devicesOption) apply(in *Interp) { in.devices = o.d }

func (n arenaSizeOption) apply(in *Interp) { in.arenaSize = int(n) }

func (n frameDepthOption) apply(in *Interp) { in.frameDepth = int(n) }

func (n bindingSlotsOption) apply(in *Interp) { in.bindSlots = int(n) }

func (n exprSlotsOption) apply(in *Interp) { in.exprSlots = int(n) }

func (b bytecodeOption) apply(in *Interp) { in.useVM = bool(b) }
