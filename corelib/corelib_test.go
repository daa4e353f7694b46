package corelib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/corelib"
	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/evaluator"
	"github.com/teascript-go/teascript/lang/parser"
)

func run(t *testing.T, ctx *context.Context, src string) value.Value {
	t.Helper()
	chunk, err := parser.ParseChunk("test.tea", []byte(src))
	require.NoError(t, err)
	ip := evaluator.New(ctx)
	sig := ip.Start(chunk)
	require.NoError(t, sig.Err)
	require.Equal(t, evaluator.SigDone, sig.Kind)
	return sig.Value
}

func newBootstrapped(t *testing.T, cfg config.Settings) *context.Context {
	t.Helper()
	ctx := context.New(cfg.Dialect)
	require.NoError(t, corelib.BootstrapEvaluator(ctx, cfg))
	return ctx
}

func fullSettings() config.Settings {
	return config.Settings{Dialect: context.DefaultDialect(), Level: config.LevelFull}
}

func TestTypeDescriptorsAndConstants(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `i64`)
	assert.Equal(t, value.KindTypeInfo, v.Kind())

	v = run(t, ctx, `_exit_success`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestStringBuiltins(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `_strlen( "hello" )`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	v = run(t, ctx, `_substr( "hello world", 6, 5 )`)
	s, err := v.GetAsString()
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	v = run(t, ctx, `_strfind( "hello world", "world" )`)
	n, err = v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
}

func TestTupleBuiltins(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `
def t := _tuple_create()
_tuple_append( t, 1 )
_tuple_append( t, 2 )
_tuple_size( t )
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestStrlenCountsBytesNotGlyphs(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `_strlen( "héllo" )`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 6, n, "é is 2 bytes in UTF-8")

	v = run(t, ctx, `_strglyphlen( "héllo" )`)
	n, err = v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestStratReturnsCompleteCodePointFromMidByteOffset(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	// "héllo": h=byte0, é=bytes1-2, l=byte3 ...
	v := run(t, ctx, `_strat( "héllo", 2 )`)
	s, err := v.GetAsString()
	require.NoError(t, err)
	assert.Equal(t, "é", s, "byte offset 2 falls inside é's encoding, so strat must snap back to its start")

	v = run(t, ctx, `_strat( "héllo", 1 )`)
	s, err = v.GetAsString()
	require.NoError(t, err)
	assert.Equal(t, "é", s)
}

func TestBufferBuiltins(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `
def b := _buffer_create( 8 )
_buffer_set_u32( b, 0, 305419896 )
_buffer_get_u32( b, 0 )
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 305419896, n)

	v = run(t, ctx, `
def b := _buffer_create( 4 )
_buffer_len( b )
`)
	n, err = v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "a fresh buffer has zero live length even though it has capacity")

	v = run(t, ctx, `
def b := _buffer_create( 4 )
_buffer_resize( b, 4 )
_buffer_len( b )
`)
	n, err = v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	v = run(t, ctx, `
def b := _buffer_create( 16 )
_buffer_set_string( b, 0, "hi" )
_buffer_get_string( b, 0, 2 )
`)
	s, err := v.GetAsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	v = run(t, ctx, `
def b := _buffer_create( 2 )
_buffer_set_u32( b, 0, 1 ) catch (err) {
    -1
}
`)
	n, err = v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, -1, n, "writing a u32 into a 2-byte buffer must fail, not silently grow it")
}

func TestSeqConstructsForallableSequence(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `
def total := 0
forall (n in _seq(1, 5, 1)) {
    total := total + n
}
total
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 15, n)

	v = run(t, ctx, `
def total := 0
forall (n in _seq(10, 0, -2)) {
    total := total + n
}
total
`)
	n, err = v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 30, n, "10+8+6+4+2+0")
}

func TestSeqRejectsStepDirectionMismatch(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `
_seq(1, 5, -1) catch (err) {
    -1
}
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, -1, n)
}

func TestErrorBuiltins(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `
def e := make_runtime_error( "my_error", "something broke" )
_error_get_code( e )
`)
	s, err := v.GetAsString()
	require.NoError(t, err)
	assert.Equal(t, "my_error", s)
}

func TestEvalBuiltin(t *testing.T) {
	ctx := newBootstrapped(t, fullSettings())

	v := run(t, ctx, `_eval( "1 + 2" )`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestOptOutDisablesBuiltin(t *testing.T) {
	cfg := fullSettings()
	cfg.NoEval = true
	ctx := newBootstrapped(t, cfg)
	assert.False(t, ctx.IsDefined("_eval"))
}

func TestLevelGatesBuiltin(t *testing.T) {
	cfg := fullSettings()
	cfg.Level = config.LevelMinimal
	ctx := newBootstrapped(t, cfg)
	assert.False(t, ctx.IsDefined("_strlen"))
	assert.True(t, ctx.IsDefined("PI"))
}
