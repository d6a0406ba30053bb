package logo

import (
	"io"
	"math/rand"
	"time"

	"github.com/BlairLeduc/pico-logo-sub000/internal/conio"
)

// Console is the engine's window on the user: primitives print through it
// and the interaction loop reads lines from it. ReadLine reports io.EOF to
// end the session; interactive consoles show the prompt, others ignore it.
type Console interface {
	ReadLine(prompt string) (string, error)
	WriteString(s string) error
}

// Devices abstracts the host facilities primitives poke at, so embedders
// on real hardware can supply theirs and tests can supply fakes.
type Devices interface {
	Random() uint32
	Sleep(ms int)
	BatteryMillivolts() int
}

// NewConsole builds a plain reader/writer console. Output is buffered and
// flushed after every write so interleaving with prompts stays sane.
func NewConsole(r io.Reader, w io.Writer) Console {
	return &ioConsole{
		in:  conio.NewLineReader(r),
		out: conio.NewWriteFlusher(w),
	}
}

type ioConsole struct {
	in  *conio.LineReader
	out conio.WriteFlusher
}

func (c *ioConsole) ReadLine(prompt string) (string, error) { return c.in.ReadLine() }

func (c *ioConsole) WriteString(s string) error {
	if _, err := io.WriteString(c.out, s); err != nil {
		return err
	}
	return c.out.Flush()
}

func (in *Interp) consoleWrite(s string) Result {
	if err := in.console.WriteString(s); err != nil {
		return Fail(&Error{Code: ErrConsole})
	}
	return None()
}

// hostDevices backs Devices with the process clock and math/rand. There is
// no battery to measure, so it reports a steady nominal reading.
type hostDevices struct {
	rng *rand.Rand
}

func newHostDevices() *hostDevices {
	return &hostDevices{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (d *hostDevices) Random() uint32 { return d.rng.Uint32() }

func (d *hostDevices) Sleep(ms int) { time.Sleep(time.Duration(ms) * time.Millisecond) }

func (d *hostDevices) BatteryMillivolts() int { return 3300 }
