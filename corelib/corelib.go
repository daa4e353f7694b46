// Package corelib implements the staged bootstrap of spec §4.11 (component
// C11): the set of globals (type descriptors, constants, and native
// functions) a fresh Context is populated with before any user program runs.
//
// Grounded on the teacher's lang/machine/universe.go predeclared-name table
// (the shape the registration table below generalizes) and on
// original_source/include/teascript/CoreLibrary.hpp for the staged bootstrap
// level (minimal/util/core/full) and the opt-out bitmask concept, both of
// which internal/config.Settings already models.
//
// corelib itself never imports lang/vm or lang/evaluator: a Callable value
// is inherently engine-specific (vm.Callable and evaluator.Callable are
// distinct interfaces over distinct thread types), so this package exposes
// plain Go functions plus a small adapter hook (wrap) that the caller
// supplies. BootstrapVM and BootstrapEvaluator, in their respective files,
// are the two concrete adapters.
package corelib

import (
	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
)

// Fn is the engine-agnostic shape every native corelib function has: it
// operates purely on argument values, with no access to the calling
// thread/interpreter. This covers every builtin in the registration table;
// none of them need to re-enter the running script (`_eval`/`eval_file`,
// which do, are registered separately by vm_bootstrap.go and
// evaluator_bootstrap.go).
type Fn func(args []value.Value) (value.Value, error)

// global is one entry of the bootstrap table: either a plain Value (type
// descriptors, constants) or a native function, gated by bootstrap Level and
// optionally by an OptOut flag.
type global struct {
	name  string
	level config.Level
	opt   config.OptOut // 0 means not individually opt-out-able
	value value.Value   // set when fn is nil
	fn    Fn            // set when this entry is a callable
}

// MakeCallable adapts a Fn into an engine-specific KindFunction Value. Both
// BootstrapVM and BootstrapEvaluator supply one of these.
type MakeCallable func(name string, fn Fn) value.Value

// Bootstrap populates ctx with every global whose Level is within cfg.Level
// and whose OptOut flag (if any) is not set in cfg's mask, then latches
// bootstrap protection so no further `_`-prefixed name can be introduced
// from script code. Native functions are turned into Context values via
// makeCallable, deferring the engine-specific wrapping to the caller.
func Bootstrap(ctx *context.Context, cfg config.Settings, makeCallable MakeCallable) error {
	for _, g := range globals() {
		if g.level > cfg.Level {
			continue
		}
		if g.opt != 0 && cfg.OptOutMask().Has(g.opt) {
			continue
		}
		v := g.value
		if g.fn != nil {
			v = makeCallable(g.name, g.fn)
		}
		if err := ctx.Add(g.name, v); err != nil {
			return err
		}
	}
	ctx.LatchBootstrap()
	return nil
}
