// Package conformance checks spec.md §8's requirement that lang/vm (C9)
// and lang/evaluator (C7) produce identical observable results for the
// same program: one table of scripts, run to completion on each engine in
// turn, comparing their final values.
package conformance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/typesystem"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/evaluator"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/vm"
)

func newCtx() *context.Context {
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

func runVM(t *testing.T, src string) value.Value {
	t.Helper()
	chunk, err := parser.ParseChunk("conformance.tea", []byte(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, compiler.O0)
	require.NoError(t, err)

	th := vm.NewThread(newCtx())
	fn := &vm.Function{Funcode: prog.Toplevel, Prog: prog}
	sig := th.Start(fn, nil)
	require.NoError(t, sig.Err)
	require.Equal(t, vm.SigDone, sig.Kind)
	return sig.Value
}

func runEvaluator(t *testing.T, src string) value.Value {
	t.Helper()
	chunk, err := parser.ParseChunk("conformance.tea", []byte(src))
	require.NoError(t, err)

	ip := evaluator.New(newCtx())
	sig := ip.Start(chunk)
	require.NoError(t, sig.Err)
	require.Equal(t, evaluator.SigDone, sig.Kind)
	return sig.Value
}

// scripts is the S1-S6-style conformance table: small programs exercising
// one language feature each, run on both engines, with the observed result
// compared via its printed form (value.Value.PrintValue), since the two
// engines' internal Kind tags for numeric literals are not required to be
// byte-for-byte equal, only their printed/semantic meaning.
var scripts = []struct {
	name string
	src  string
}{
	{"arithmetic", `1 + 2 * 3 - 4 / 2`},
	{"string comparison", `"foo" == "foo"`},
	{"if-else", `def x := 3
if x > 5 {
    "big"
} else {
    "small"
}`},
	{"recursive function", `
func fact(n) {
    if n <= 1 {
        return 1
    }
    return n * fact(n - 1)
}
fact(6)
`},
	{"catch swallows error", `
(1 / 0) catch (err) {
    -1
}
`},
	{"repeat/stop accumulator", `
def total := 0
def i := 0
repeat {
    if i >= 10 {
        stop
    }
    total := total + i
    i := i + 1
}
total
`},
	{"forall over tuple", `
def sum := 0
forall (item in (1, 2, 3, 4, 5)) {
    sum := sum + item
}
sum
`},
	{"tuple field access", `
def p := (x: 2, y: 5)
p.x * p.y
`},
	{"is/as operators", `
def ok := 1 is i32
def n := "10" as i32
ok and (n == 10)
`},
	{"dynamic scoping across call", `
def x := 1
func bump() {
    x := x + 1
    return x
}
bump() + bump()
`},
	{"identity test across a shared pair", `
def a @= 1
def b @= a
a @@ b
`},
	{"identity test across an unrelated pair", `
def a := 1
def b := 2
a @@ b
`},
	{"share_count of a shared pair", `
def a @= 1
def b @= a
@?a == @?b
`},
}

func TestEnginesAgree(t *testing.T) {
	for _, s := range scripts {
		t.Run(s.name, func(t *testing.T) {
			vmResult := runVM(t, s.src)
			evalResult := runEvaluator(t, s.src)
			assert.Equal(t, vmResult.PrintValue(), evalResult.PrintValue(),
				"VM and evaluator diverged on %q", s.name)
		})
	}
}

func TestEnginesAgreeOnExit(t *testing.T) {
	const src = `
func f() {
    _Exit 7
}
def result := f() catch (err) {
    -1
}
result
`
	chunk, err := parser.ParseChunk("conformance.tea", []byte(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, compiler.O0)
	require.NoError(t, err)

	th := vm.NewThread(newCtx())
	fn := &vm.Function{Funcode: prog.Toplevel, Prog: prog}
	vmSig := th.Start(fn, nil)
	require.NoError(t, vmSig.Err)
	require.Equal(t, vm.SigExited, vmSig.Kind)

	ip := evaluator.New(newCtx())
	evalChunk, err := parser.ParseChunk("conformance.tea", []byte(src))
	require.NoError(t, err)
	evalSig := ip.Start(evalChunk)
	require.NoError(t, evalSig.Err)
	require.Equal(t, evaluator.SigExited, evalSig.Kind)

	assert.Equal(t, vmSig.Value.PrintValue(), evalSig.Value.PrintValue())
}
