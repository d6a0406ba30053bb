package logo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interpTestCases []interpTestCase

func (its interpTestCases) run(t *testing.T) {
	for _, it := range its {
		t.Run(it.name, it.run)
	}
}

// withOptions applies extra options to every case, for running the same
// corpus under a different engine configuration.
func (its interpTestCases) withOptions(opts ...Option) interpTestCases {
	out := make(interpTestCases, len(its))
	for i, it := range its {
		out[i] = it.withOptions(opts...)
	}
	return out
}

func interpTest(name string, lines ...string) (it interpTestCase) {
	it.name = name
	it.lines = lines
	return it
}

type interpTestCase struct {
	name    string
	opts    []Option
	lines   []string
	wantOut string
	wantErr []string
	checks  []func(t *testing.T, in *Interp, td *testDevices)
}

func (it interpTestCase) withOptions(opts ...Option) interpTestCase {
	it.opts = append(it.opts, opts...)
	return it
}

func (it interpTestCase) expectOutput(out string) interpTestCase {
	it.wantOut = out
	return it
}

func (it interpTestCase) expectError(mess ...string) interpTestCase {
	it.wantErr = append(it.wantErr, mess...)
	return it
}

func (it interpTestCase) check(fns ...func(t *testing.T, in *Interp, td *testDevices)) interpTestCase {
	it.checks = append(it.checks, fns...)
	return it
}

// testDevices is a deterministic Devices: RANDOM always rolls the same,
// WAIT only accumulates, BATTERY reads a fixed voltage.
type testDevices struct {
	roll  uint32
	slept int
}

func (td *testDevices) Random() uint32 {
	if td.roll == 0 {
		return 4
	}
	return td.roll
}

func (td *testDevices) Sleep(ms int) { td.slept += ms }

func (td *testDevices) BatteryMillivolts() int { return 3210 }

func (it interpTestCase) run(t *testing.T) {
	var out strings.Builder
	td := &testDevices{}
	opts := append([]Option{WithOutput(&out), WithDevices(td)}, it.opts...)
	in := New(opts...)

	var errs []string
	for _, line := range it.lines {
		res := in.EvalLine(line)
		if res.Kind == ResEof {
			break
		}
		if res.Kind == ResError {
			require.NotNil(t, res.Err, "error result must carry an error")
			errs = append(errs, res.Err.Error())
		}
	}

	assert.Equal(t, it.wantOut, out.String(), "console output")
	assert.Equal(t, it.wantErr, errs, "reported errors")
	for _, fn := range it.checks {
		fn(t, in, td)
	}
}
