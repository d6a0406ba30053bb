package logo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	var out strings.Builder
	opts = append([]Option{
		WithInput(strings.NewReader(input)),
		WithOutput(&out),
		WithDevices(&testDevices{}),
	}, opts...)
	in := New(opts...)
	require.NoError(t, in.Run(context.Background()))
	return out.String()
}

func TestRunSession(t *testing.T) {
	out := runSession(t, strings.Join([]string{
		"print 1",
		"to twice :n",
		"output :n * 2",
		"end",
		"print twice 4",
	}, "\n"))
	assert.Equal(t, "1\ntwice defined\n8\n", out)
}

func TestRunReportsErrorsAndContinues(t *testing.T) {
	out := runSession(t, "foo\nprint 2\n")
	assert.Equal(t, "I don't know how to foo\n2\n", out)
}

func TestRunStopsAtBye(t *testing.T) {
	out := runSession(t, "print 1\nbye\nprint 2\n")
	assert.Equal(t, "1\n", out)
}

func TestByeInsideProcedure(t *testing.T) {
	out := runSession(t, strings.Join([]string{
		"to leave",
		"bye",
		"end",
		"print 1",
		"leave",
		"print 2",
	}, "\n"))
	assert.Equal(t, "leave defined\n1\n", out)
}

// PAUSE suspends the procedure mid-body; lines typed at the pause prompt
// run in its dynamic scope, and CONTINUE resumes right where it stopped.
func TestPauseAndContinue(t *testing.T) {
	out := runSession(t, strings.Join([]string{
		"to p :n",
		"print :n",
		"pause",
		"print :n + 1",
		"end",
		"p 1",
		"print :n",
		`make "n 10`,
		"co",
		"print 99",
	}, "\n"))
	assert.Equal(t, strings.Join([]string{
		"p defined",
		"1",
		"pausing... in p",
		"1",  // the paused frame's binding is visible
		"11", // and CONTINUE resumes with the changed binding
		"99",
	}, "\n")+"\n", out)
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := New(WithInput(strings.NewReader("print 1\n")))
	assert.Error(t, in.Run(ctx))
}

func TestDumpWorkspace(t *testing.T) {
	in := New()
	res := in.EvalText(strings.Join([]string{
		"to add :a :b",
		"output :a + :b",
		"end",
		`make "x 10`,
		`make "who "world`,
		`make "l [a b]`,
	}, "\n"))
	require.NotEqual(t, ResError, res.Kind)

	var out strings.Builder
	require.NoError(t, in.DumpWorkspace(&out))
	assert.Equal(t, strings.Join([]string{
		"to add :a :b",
		"output :a + :b",
		"end",
		`make "x 10`,
		`make "who "world`,
		`make "l [a b]`,
	}, "\n")+"\n", out.String())
}

func TestEraseAll(t *testing.T) {
	in := New()
	in.EvalText("to f\noutput 1\nend")
	in.EvalLine(`make "x 10`)
	require.NotNil(t, in.Proc("f"))

	in.EraseAll()
	assert.Nil(t, in.Proc("f"))
	res := in.EvalLine("print :x")
	require.Equal(t, ResError, res.Kind)
	assert.Equal(t, ErrNoValue, res.Err.Code)
}
