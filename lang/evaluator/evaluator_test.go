package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/typesystem"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/evaluator"
	"github.com/teascript-go/teascript/lang/parser"
)

// newTestContext mirrors lang/vm's test context: seeds the type-name
// globals `is`/`as` resolve through, standing in for corelib's bootstrap.
func newTestContext() *context.Context {
	ctx := context.New(context.DefaultDialect())
	reg := typesystem.NewRegistry()
	for _, name := range []string{
		"NaV", "Bool", "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64",
		"f32", "f64", "String", "Buffer", "TypeInfo", "Tuple", "Function",
		"IntegerSequence", "Error", "Passthrough",
	} {
		ti, _ := reg.Lookup(name)
		_ = ctx.Add(name, value.TypeInfoValue(ti))
	}
	return ctx
}

// run parses and evaluates src's top-level chunk, returning its result.
func run(t *testing.T, src string) value.Value {
	t.Helper()
	chunk, err := parser.ParseChunk("test.tea", []byte(src))
	require.NoError(t, err)

	ip := evaluator.New(newTestContext())
	sig := ip.Start(chunk)
	require.NoError(t, sig.Err)
	require.Equal(t, evaluator.SigDone, sig.Kind)
	return sig.Value
}

func TestArithmetic(t *testing.T) {
	v := run(t, `1 + 2 * 3`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestDefAndAssign(t *testing.T) {
	v := run(t, `
def x := 1
x := x + 41
x
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestIfElse(t *testing.T) {
	v := run(t, `
def x := 10
def result := ""
if x > 5 {
    result := "big"
} else {
    result := "small"
}
result
`)
	s, err := v.GetAsString()
	require.NoError(t, err)
	assert.Equal(t, "big", s)
}

func TestFunctionCall(t *testing.T) {
	v := run(t, `
func add(a, b) {
    return a + b
}
add(3, 4)
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestRecursiveFunction(t *testing.T) {
	v := run(t, `
func fact(n) {
    if n <= 1 {
        return 1
    }
    return n * fact(n - 1)
}
fact(5)
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 120, n)
}

func TestCatchHandlesError(t *testing.T) {
	v := run(t, `
def result := (1 / 0) catch (err) {
    -1
}
result
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, -1, n)
}

func TestCatchBindsErrorName(t *testing.T) {
	v := run(t, `
def result := (1 / 0) catch (err) {
    err
}
result
`)
	assert.Equal(t, value.KindError, v.Kind())
}

func TestRepeatAndStop(t *testing.T) {
	v := run(t, `
def total := 0
def i := 0
repeat {
    if i >= 5 {
        stop
    }
    total := total + i
    i := i + 1
}
total
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)
}

func TestForallOverTuple(t *testing.T) {
	v := run(t, `
def sum := 0
forall (item in (1, 2, 3)) {
    sum := sum + item
}
sum
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
}

func TestExitUnwindsPastCatch(t *testing.T) {
	chunk, err := parser.ParseChunk("test.tea", []byte(`
func f() {
    _Exit 99
}
def result := f() catch (err) {
    -1
}
result
`))
	require.NoError(t, err)

	ip := evaluator.New(newTestContext())
	sig := ip.Start(chunk)
	require.NoError(t, sig.Err)
	require.Equal(t, evaluator.SigExited, sig.Kind)
	n, err := sig.Value.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 99, n)
}

func TestIsAndAsOperators(t *testing.T) {
	v := run(t, `1 is i32`)
	b, err := v.GetAsBool()
	require.NoError(t, err)
	assert.True(t, b)

	v = run(t, `"42" as i32`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestInOperator(t *testing.T) {
	v := run(t, `2 in (1, 2, 3)`)
	b, err := v.GetAsBool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestTupleFieldAccess(t *testing.T) {
	v := run(t, `
def p := (x: 1, y: 2)
p.x + p.y
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSuspendAndResume(t *testing.T) {
	chunk, err := parser.ParseChunk("test.tea", []byte(`
yield 1
41 + 1
`))
	require.NoError(t, err)

	ip := evaluator.New(newTestContext())
	sig := ip.Start(chunk)
	require.NoError(t, sig.Err)
	require.Equal(t, evaluator.SigYielded, sig.Kind)
	n, err := sig.Value.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	sig = ip.Resume(value.Value{})
	require.NoError(t, sig.Err)
	require.Equal(t, evaluator.SigDone, sig.Kind)
	n, err = sig.Value.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}
