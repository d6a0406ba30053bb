package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The bytecode executor must be indistinguishable from the tree walker, so
// it runs the exact same corpus.
func TestBytecode(t *testing.T) {
	coreScenarios().withOptions(WithBytecode(true)).run(t)
}

func defineForTest(t *testing.T, in *Interp, text string) {
	t.Helper()
	res := in.EvalText(text)
	require.NotEqual(t, ResError, res.Kind, "definition failed")
}

func TestCompileTailCall(t *testing.T) {
	in := New(WithBytecode(true))
	defineForTest(t, in, "to f :n\nif :n = 0 [stop]\nf :n - 1\nend")

	p := in.Proc("f")
	require.NotNil(t, p)
	c := in.compileProc(p)
	require.NotEqual(t, noCode, c, "body should compile")
	require.NotEmpty(t, c.instrs)
	assert.Equal(t, opTail, c.instrs[len(c.instrs)-1].op,
		"final call of the final line compiles as a tail instruction")
}

func TestCompileBailsOnGoto(t *testing.T) {
	in := New(WithBytecode(true))
	defineForTest(t, in, "to g\ntag \"top\ngoto \"top\nend")

	p := in.Proc("g")
	require.NotNil(t, p)
	assert.Equal(t, noCode, in.compileProc(p),
		"goto bodies fall back to the tree walker")
}

func TestCompileBailsOnGotoInList(t *testing.T) {
	in := New(WithBytecode(true))
	defineForTest(t, in, "to g :n\ntag \"top\nif :n > 0 [make \"n :n - 1 goto \"top]\nend")

	p := in.Proc("g")
	require.NotNil(t, p)
	assert.Equal(t, noCode, in.compileProc(p),
		"a goto hiding in a branch list still forces the walker")
}

func TestCompileStatementFlavor(t *testing.T) {
	in := New(WithBytecode(true))
	defineForTest(t, in, "to say :w\nprint :w\nend")

	p := in.Proc("say")
	c := in.compileProc(p)
	require.NotEqual(t, noCode, c)
	require.NotEmpty(t, c.instrs)
	assert.Equal(t, opPrimS, c.instrs[len(c.instrs)-1].op,
		"a statement-position primitive call tolerates no output")
}

func TestRedefinitionInvalidatesCompiledCode(t *testing.T) {
	in := New(WithBytecode(true))
	defineForTest(t, in, "to f\noutput 1\nend")

	p := in.Proc("f")
	p.compiled = in.compileProc(p)
	require.NotNil(t, p.compiled)

	defineForTest(t, in, "to h\noutput 2\nend")
	assert.Nil(t, p.compiled, "any definition change drops all compiled code")
}

func TestBytecodeMatchesWalkerOnExpressions(t *testing.T) {
	exprs := []string{
		"output 1 + 2 * 3 - 4",
		"output (sum 1 2 3) * 2",
		"output first [a b]",
		"output minus :x",
		"output :x < 10",
	}
	for _, body := range exprs {
		t.Run(body, func(t *testing.T) {
			text := "to calc :x\n" + body + "\nend"

			walker := New()
			defineForTest(t, walker, text)
			vm := New(WithBytecode(true))
			defineForTest(t, vm, text)

			wp, vp := walker.Proc("calc"), vm.Proc("calc")
			require.NotNil(t, wp)
			require.NotNil(t, vp)

			arg := NumberVal(7)
			wres := walker.callProc(wp, []Value{arg})
			vres := vm.callProc(vp, []Value{arg})
			require.Equal(t, ResOk, wres.Kind)
			require.Equal(t, ResOk, vres.Kind)
			assert.Equal(t,
				FormatValue(walker.store, wres.Val),
				FormatValue(vm.store, vres.Val))
		})
	}
}
