package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defineParams(t *testing.T, in *Interp, name string, params ...string) *Procedure {
	t.Helper()
	p, err := in.DefineProc(name, params, Nil)
	require.Nil(t, err)
	return p
}

func TestFrameBindingLookup(t *testing.T) {
	in := New()
	outer := defineParams(t, in, "outer", "x", "y")
	inner := defineParams(t, in, "inner", "x")

	xn, _ := in.intern("x")
	yn, _ := in.intern("y")

	require.Nil(t, in.frames.push(outer, []Value{NumberVal(1), NumberVal(2)}))
	v, ok := in.frames.lookup(xn)
	require.True(t, ok)
	assert.Equal(t, float32(1), v.Num)

	// the inner binding of x shadows; y stays visible through the chain
	require.Nil(t, in.frames.push(inner, []Value{NumberVal(9)}))
	v, _ = in.frames.lookup(xn)
	assert.Equal(t, float32(9), v.Num)
	v, ok = in.frames.lookup(yn)
	require.True(t, ok)
	assert.Equal(t, float32(2), v.Num)

	// assign rebinds the nearest occurrence only
	require.True(t, in.frames.assign(xn, NumberVal(7)))
	in.frames.pop()
	v, _ = in.frames.lookup(xn)
	assert.Equal(t, float32(1), v.Num)

	in.frames.pop()
	_, ok = in.frames.lookup(xn)
	assert.False(t, ok)
}

func TestFrameLocals(t *testing.T) {
	in := New()
	p := defineParams(t, in, "p", "x")
	ln, _ := in.intern("loc")

	require.Nil(t, in.frames.push(p, []Value{NumberVal(1)}))
	require.Nil(t, in.frames.bindLocal(ln, NumberVal(5)))
	v, ok := in.frames.lookup(ln)
	require.True(t, ok)
	assert.Equal(t, float32(5), v.Num)

	in.frames.pop()
	_, ok = in.frames.lookup(ln)
	assert.False(t, ok, "locals vanish with their frame")
}

func TestFrameReuseKeepsDepthAndArenas(t *testing.T) {
	in := New()
	p := defineParams(t, in, "p", "x")

	require.Nil(t, in.frames.push(p, []Value{NumberVal(1)}))
	depth := in.frames.depth()
	binds := len(in.frames.binds)

	ln, _ := in.intern("loc")
	require.Nil(t, in.frames.bindLocal(ln, NumberVal(5)))
	require.Nil(t, in.frames.pushExpr(NumberVal(6)))

	require.Nil(t, in.frames.reuse(p, []Value{NumberVal(2)}))
	assert.Equal(t, depth, in.frames.depth())
	assert.Equal(t, binds, len(in.frames.binds), "locals are dropped on reuse")
	assert.Equal(t, 0, in.frames.exprMark(), "pending values are dropped on reuse")

	xn, _ := in.intern("x")
	v, _ := in.frames.lookup(xn)
	assert.Equal(t, float32(2), v.Num)
}

func TestFrameOverflow(t *testing.T) {
	in := New(WithFrameDepth(1))
	p := defineParams(t, in, "p")

	require.Nil(t, in.frames.push(p, nil))
	err := in.frames.push(p, nil)
	require.NotNil(t, err)
	assert.Equal(t, ErrOutOfSpace, err.Code)
}

func TestExprArenaOverflow(t *testing.T) {
	in := New(WithExprSlots(2))
	require.Nil(t, in.frames.pushExpr(NumberVal(1)))
	require.Nil(t, in.frames.pushExpr(NumberVal(2)))
	err := in.frames.pushExpr(NumberVal(3))
	require.NotNil(t, err)
	assert.Equal(t, ErrOutOfSpace, err.Code)
}

func TestTestStateFollowsTheChain(t *testing.T) {
	in := New()
	p := defineParams(t, in, "p")

	in.setTest(true)
	v, ok := in.testValue()
	require.True(t, ok)
	assert.True(t, v, "toplevel TEST")

	require.Nil(t, in.frames.push(p, nil))
	v, ok = in.testValue()
	require.True(t, ok)
	assert.True(t, v, "callee sees the caller's TEST")

	in.setTest(false)
	v, _ = in.testValue()
	assert.False(t, v)

	in.frames.pop()
	v, _ = in.testValue()
	assert.True(t, v, "popping restores the outer TEST")
}
