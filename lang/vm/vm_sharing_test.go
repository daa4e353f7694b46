package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/corelib"
	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/vm"
)

// runWithCorelib is like run but also bootstraps the corelib builtins
// (_tuple_set et al.) into the context, needed for tests that mutate a
// tuple through its index rather than through the `:=`/`@=` surface.
func runWithCorelib(t *testing.T, src string) value.Value {
	t.Helper()
	ctx := newTestContext()
	require.NoError(t, corelib.BootstrapVM(ctx, config.Settings{Level: config.LevelUtil}))

	chunk, err := parser.ParseChunk("test.tea", []byte(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, compiler.O0)
	require.NoError(t, err)

	th := vm.NewThread(ctx)
	fn := &vm.Function{Funcode: prog.Toplevel, Prog: prog}
	sig := th.Start(fn, nil)
	require.NoError(t, sig.Err)
	require.Equal(t, vm.SigDone, sig.Kind)
	return sig.Value
}

// TestUnsharedDefCopiesTuple guards against aliasing an unshared binding's
// composite payload: `def u := t` must materialize a fresh tuple, not a
// second reference to t's backing storage (spec §3 "unshared values are
// copies").
func TestUnsharedDefCopiesTuple(t *testing.T) {
	v := runWithCorelib(t, `
def t := (1, 2, 3)
def u := t
_tuple_set(u, 0, 99)
_tuple_val(t, 0)
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "mutating u must not mutate t: u was never made shared")
}

// TestUnsharedReassignCopiesTuple is the same guard for `:=` to an existing
// name rather than a fresh `def`.
func TestUnsharedReassignCopiesTuple(t *testing.T) {
	v := runWithCorelib(t, `
def t := (1, 2, 3)
def u := (0, 0, 0)
u := t
_tuple_set(u, 0, 99)
_tuple_val(t, 0)
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

// TestSharedAssignStillAliasesTuple confirms the fix for unshared copies did
// not also break `@=`'s intentional aliasing of the same cell.
func TestSharedAssignStillAliasesTuple(t *testing.T) {
	v := runWithCorelib(t, `
def t @= (1, 2, 3)
def u @= t
_tuple_set(u, 0, 99)
_tuple_val(t, 0)
`)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 99, n, "u and t share a cell, so mutating u must be visible through t")
}
