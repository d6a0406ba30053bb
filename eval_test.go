package logo

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coreScenarios is the behavior corpus shared by the tree walker and the
// bytecode executor.
func coreScenarios() interpTestCases {
	return interpTestCases{
		interpTest("print sum",
			"print sum 3 4",
		).expectOutput("7\n"),

		interpTest("infix precedence",
			"print 1 + 2 * 3",
		).expectOutput("7\n"),

		interpTest("comparisons",
			"print 2 < 3",
			"print 2 > 3",
			"print 2 = 2",
		).expectOutput("true\nfalse\ntrue\n"),

		interpTest("make and thing",
			`make "x 10`,
			"print :x",
			`print thing "x`,
		).expectOutput("10\n10\n"),

		interpTest("repeat",
			`repeat 3 [print "hi]`,
		).expectOutput("hi\nhi\nhi\n"),

		interpTest("variadic paren call",
			"print (sum 1 2 3 4 5)",
		).expectOutput("15\n"),

		interpTest("quotient by zero",
			"print quotient 10 0",
		).expectError("quotient can't divide by zero"),

		interpTest("infix divide by zero",
			"print 10 / 0",
		).expectError("/ can't divide by zero"),

		interpTest("unknown word",
			"foo 1",
		).expectError("I don't know how to foo"),

		interpTest("value at statement position",
			"3",
		).expectError("you don't say what to do with 3"),

		interpTest("command in expression position",
			"print print 1",
		).expectOutput("1\n").expectError("print didn't output"),

		interpTest("define and call",
			"to greet",
			`print "hello`,
			"end",
			"greet",
		).expectOutput("greet defined\nhello\n"),

		interpTest("parameters and output",
			"to double :n",
			"output :n * 2",
			"end",
			"print double 21",
		).expectOutput("double defined\n42\n"),

		interpTest("tail recursion in constant frames",
			"to f :n",
			"if :n = 0 [stop]",
			"f :n - 1",
			"end",
			"f 10000",
		).withOptions(WithFrameDepth(8)).expectOutput("f defined\n"),

		interpTest("non-tail recursion exhausts frames",
			"to r :n",
			"if :n > 0 [r :n - 1]",
			"end",
			"r 100",
		).withOptions(WithFrameDepth(16)).
			expectOutput("r defined\n").
			expectError("out of space in r"),

		interpTest("stop at toplevel",
			"stop",
		).expectError("can only use stop inside a procedure"),

		interpTest("output at toplevel",
			"output 3",
		).expectError("can only use output inside a procedure"),

		interpTest("test iftrue iffalse",
			"test 2 < 3",
			`iftrue [print "yes]`,
			`iffalse [print "no]`,
		).expectOutput("yes\n"),

		interpTest("ifelse",
			`ifelse 1 < 2 [print "a] [print "b]`,
			`ifelse 1 > 2 [print "a] [print "b]`,
		).expectOutput("a\nb\n"),

		interpTest("predicate must be boolean",
			`if 5 [print "x]`,
		).expectError("5 is neither TRUE nor FALSE in if"),

		interpTest("throw and catch",
			`catch "done [print 1 throw "done print 2]`,
			"print 3",
		).expectOutput("1\n3\n"),

		interpTest("uncaught throw",
			`throw "blah`,
		).expectError("can't find catch tag for blah"),

		interpTest("catch error tag",
			`catch "error [print quotient 1 0]`,
			`print "ok`,
		).expectOutput("ok\n"),

		interpTest("goto and tag",
			"to cdown :n",
			`tag "top`,
			"if :n = 0 [stop]",
			"print :n",
			`make "n :n - 1`,
			`goto "top`,
			"end",
			"cdown 3",
		).expectOutput("cdown defined\n3\n2\n1\n"),

		interpTest("goto inside a branch list",
			"to burn :n",
			`tag "top`,
			`if :n > 0 [print :n make "n :n - 1 goto "top]`,
			"end",
			"burn 2",
		).expectOutput("burn defined\n2\n1\n"),

		interpTest("missing tag",
			"to lost",
			`goto "nowhere`,
			"end",
			"lost",
		).expectOutput("lost defined\n").
			expectError("can't find tag nowhere in lost"),

		interpTest("words and lists",
			"print first [a b c]",
			`print butfirst "hello`,
			"print count [a b c]",
			`print count "word`,
			`print word "fu "bar`,
			`show fput "x [y z]`,
			"print emptyp []",
			"show list 1 [a]",
		).expectOutput("a\nello\n3\n4\nfubar\n[x y z]\ntrue\n[1 [a]]\n"),

		interpTest("first of a number",
			"print first 123",
		).expectOutput("1\n"),

		interpTest("negative literals and minus",
			"print -3 + 1",
			"print minus 5",
			`make "n 5`,
			"print - :n",
		).expectOutput("-2\n-5\n-5\n"),

		interpTest("n exponent literal",
			"print 1n2",
		).expectOutput("0.01\n"),

		interpTest("comment runs to end of line",
			"print 1 ; the rest is ignored",
		).expectOutput("1\n"),

		interpTest("random through devices",
			"print random 3",
		).expectOutput("1\n"),

		interpTest("battery and paren infix",
			"print battery",
			"print (battery + 1)",
		).expectOutput("3210\n3211\n"),

		interpTest("paren forms in a body",
			"to volt",
			"output (battery + 1)",
			"end",
			"to total",
			"output (sum 1 2 3)",
			"end",
			"print volt",
			"print total",
		).expectOutput("volt defined\ntotal defined\n3211\n6\n"),

		interpTest("wait counts sixtieths",
			"wait 60",
		).check(func(t *testing.T, in *Interp, td *testDevices) {
			assert.Equal(t, 1000, td.slept)
		}),

		interpTest("erase",
			"to g",
			"print 1",
			"end",
			`erase "g`,
			"g",
		).expectOutput("g defined\n").
			expectError("I don't know how to g"),

		interpTest("local bindings vanish on return",
			"to setl",
			`local "tmp`,
			`make "tmp 5`,
			"print :tmp",
			"end",
			"setl",
			"print :tmp",
		).expectOutput("setl defined\n5\n").
			expectError("tmp has no value"),

		interpTest("printout",
			"to hi",
			`print "hello`,
			"end",
			`po "hi`,
		).expectOutput("hi defined\nto hi\nprint \"hello\nend\n"),

		interpTest("bye ends the session",
			"print 1",
			"bye",
			"print 2",
		).expectOutput("1\n"),

		interpTest("redefining a primitive is refused",
			"to print",
		).expectError("print is already defined"),
	}
}

func TestEval(t *testing.T) {
	coreScenarios().run(t)
}

func TestEvalText(t *testing.T) {
	in := New()
	res := in.EvalText("to add3 :a :b :c\noutput :a + :b + :c\nend")
	require.Equal(t, ResNone, res.Kind)
	p := in.Proc("add3")
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Arity())
}

func TestInterruptEndsLine(t *testing.T) {
	var out strings.Builder
	in := New(WithOutput(&out))
	in.Interrupt()
	res := in.EvalLine("print 1")
	assert.Equal(t, ResNone, res.Kind)
	assert.Empty(t, out.String(), "interrupted line must not run")
}

func TestTraceLogsCalls(t *testing.T) {
	var logged []string
	in := New(WithOutput(io.Discard), WithLogf(func(mess string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(mess, args...))
	}))
	res := in.EvalText("to f :n\nprint :n\nend")
	require.NotEqual(t, ResError, res.Kind)
	in.EvalLine(`trace "f`)
	in.EvalLine("f 7")
	assert.Contains(t, logged, "trace: f 7")
}

func TestStepLogsBodyLines(t *testing.T) {
	var logged []string
	in := New(WithOutput(io.Discard), WithLogf(func(mess string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(mess, args...))
	}))
	res := in.EvalText("to f :n\nprint :n\nend")
	require.NotEqual(t, ResError, res.Kind)
	in.EvalLine(`step "f`)
	in.EvalLine("f 7")
	assert.Contains(t, logged, "step f: print :n")

	logged = nil
	in.EvalLine(`unstep "f`)
	in.EvalLine("f 7")
	assert.Empty(t, logged)
}

// Arguments already evaluated must stay in the collector's root set while
// the primitive they feed is still allocating. The setup leaves two free
// cells and two garbage ones: the scanner's sublists take the free pair, so
// LIST has to collect mid-call, with its arguments its only protection.
func TestPrimitiveArgumentsSurviveCollection(t *testing.T) {
	var out strings.Builder
	in := New(WithOutput(&out), WithArenaSize(512))
	for _, w := range []string{"a", "b", "keep"} {
		_, err := in.intern(w)
		require.Nil(t, err)
	}
	keep, _ := in.intern("keep")

	chain := Nil
	for {
		cell, ok := in.store.Cons(Nil, chain)
		if !ok {
			break
		}
		chain = cell
	}
	in.setVar(keep, ListVal(chain))

	head := in.store.Cdr(in.store.Cdr(chain))
	in.setVar(keep, ListVal(head))
	in.collect()
	head = in.store.Cdr(in.store.Cdr(head))
	in.setVar(keep, ListVal(head))

	res := in.EvalLine("show (list [a] [b])")
	require.NotEqual(t, ResError, res.Kind, "%v", res.Err)
	assert.Equal(t, "[[a] [b]]\n", out.String())
}

func TestCollectorReclaimsListGarbage(t *testing.T) {
	in := New(WithArenaSize(2048))
	for i := 0; i < 200; i++ {
		res := in.EvalLine("show [a b c d e f]")
		require.NotEqual(t, ResError, res.Kind, "iteration %d", i)
	}
	assert.Greater(t, in.gcRuns, 0, "expected at least one collection")
}

func TestRunListPublicAPI(t *testing.T) {
	in := New()
	var got string
	in.Register("grab", 1, func(in *Interp, args []Value) Result {
		got = FormatValue(in.Store(), args[0])
		return None()
	})

	sc := in.newScanner("[grab 2 + 3]")
	tok, err := sc.next()
	require.Nil(t, err)
	require.Equal(t, tkLeftBracket, tok.kind)

	res := in.RunList(tok.list)
	assert.Equal(t, ResNone, res.Kind)
	assert.Equal(t, "5", got)
}
