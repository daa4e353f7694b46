package coroutine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/coroutine"
	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
)

func compile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	chunk, err := parser.ParseChunk("test.tea", []byte(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, compiler.O0)
	require.NoError(t, err)
	return prog
}

func TestRunToCompletion(t *testing.T) {
	prog := compile(t, `1 + 2`)
	eng := coroutine.New(prog, context.New(context.DefaultDialect()))

	res := eng.Run()
	require.NoError(t, res.Err)
	assert.Equal(t, coroutine.Done, res.State)
	n, err := res.Value.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.False(t, eng.CanBeContinued())
}

func TestSuspendAndResume(t *testing.T) {
	prog := compile(t, `
def fac := 1
def n := 1
repeat {
	yield fac
	fac := fac * n
	n := n + 1
}
`)
	eng := coroutine.New(prog, context.New(context.DefaultDialect()))

	res := eng.Run()
	require.NoError(t, res.Err)
	require.Equal(t, coroutine.Yielded, res.State)
	n1, _ := res.Value.GetAsInteger()
	assert.EqualValues(t, 1, n1)
	assert.True(t, eng.CanBeContinued())

	res = eng.Run()
	require.NoError(t, res.Err)
	require.Equal(t, coroutine.Yielded, res.State)
	n2, _ := res.Value.GetAsInteger()
	assert.EqualValues(t, 1, n2)

	res = eng.Run()
	require.NoError(t, res.Err)
	n3, _ := res.Value.GetAsInteger()
	assert.EqualValues(t, 2, n3)
}

func TestResetRestartsFromTop(t *testing.T) {
	prog := compile(t, `
def x := 10
yield x
x := x + 1
`)
	eng := coroutine.New(prog, context.New(context.DefaultDialect()))

	res := eng.Run()
	require.Equal(t, coroutine.Yielded, res.State)
	assert.True(t, eng.CanBeContinued())

	eng.Reset()
	assert.False(t, eng.CanBeContinued())

	res = eng.Run()
	require.NoError(t, res.Err)
	require.Equal(t, coroutine.Yielded, res.State)
	n, _ := res.Value.GetAsInteger()
	assert.EqualValues(t, 10, n)
}

func TestSetInputParameters(t *testing.T) {
	prog := compile(t, `arg0 + arg1`)
	ctx := context.New(context.DefaultDialect())
	eng := coroutine.New(prog, ctx)

	require.NoError(t, eng.SetInputParameters(value.I64(4), value.I64(6)))

	res := eng.Run()
	require.NoError(t, res.Err)
	n, err := res.Value.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)
}

func TestRunAfterCompletionErrors(t *testing.T) {
	prog := compile(t, `1`)
	eng := coroutine.New(prog, context.New(context.DefaultDialect()))

	res := eng.Run()
	require.NoError(t, res.Err)
	require.Equal(t, coroutine.Done, res.State)

	res = eng.Run()
	assert.Error(t, res.Err)
}
