// Package coroutine implements the resumable coroutine engine of spec
// §4.10 (component C10): a facade over lang/vm's Thread that turns "run a
// program to completion" into "run until yield/suspend, and resume later."
//
// Grounded on the teacher's lang/machine/thread.go split between an
// immutable compiled Program and a Thread holding the per-run mutable
// state (call stack, step counter): Engine generalizes Thread.RunProgram's
// "run once, to completion" into spec §4.10's run/run_for/can_be_continued
// cycle, which lang/vm.Thread's own Start/Resume pair already supports
// (they exist specifically so this package can sit on top of them).
package coroutine

import (
	"fmt"

	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/vm"
)

// Result is what Run/RunFor hand back: the coroutine's current state plus,
// for Yielded (and Done), the produced value.
type Result struct {
	State State
	Value value.Value
	Err   error
}

// State mirrors vm.SignalKind under the vocabulary spec §4.10 uses.
type State int

const (
	Done State = iota
	Suspended
	Yielded
	Exited
)

func (s State) String() string {
	switch s {
	case Done:
		return "done"
	case Suspended:
		return "suspended"
	case Yielded:
		return "yielded"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// Engine wraps (program, context, vm state) per spec §4.10. Multiple
// Engines may share the same compiled *compiler.Program safely, since a
// Program is never mutated after Compile returns; each Engine's Context and
// underlying vm.Thread are entirely private to it.
type Engine struct {
	Prog *compiler.Program
	Ctx  *context.Context

	MaxSteps     uint64
	MaxCallDepth int

	th       *vm.Thread
	lastSig  vm.Signal
	hasRun   bool
	finished bool
}

// New creates an Engine ready to run prog against ctx.
func New(prog *compiler.Program, ctx *context.Context) *Engine {
	return &Engine{Prog: prog, Ctx: ctx}
}

// SetInputParameters installs values as `arg0`, `arg1`, ... and `argN` (the
// count) in the Engine's Context, for the next Run/RunFor call to see (spec
// §4.10). It must be called before the coroutine starts; calling it after
// CanBeContinued() is pointless since a running program's globals are
// already fixed, but is not itself an error.
func (e *Engine) SetInputParameters(values ...value.Value) error {
	for i, v := range values {
		if err := e.defineOrAssign(fmt.Sprintf("arg%d", i), v); err != nil {
			return err
		}
	}
	return e.defineOrAssign("argN", value.I64(int64(len(values))))
}

func (e *Engine) defineOrAssign(name string, v value.Value) error {
	if e.Ctx.IsDefined(name) {
		return e.Ctx.Assign(name, v, false)
	}
	return e.Ctx.Add(name, v)
}

// Run executes until the next yield, suspend, or completion (spec §4.10
// `operator()`/`run()`). The returned Result's Value is only meaningful for
// Yielded and Done/Exited; Suspended carries no value.
func (e *Engine) Run() Result {
	return e.RunFor(0)
}

// RunFor is Run with an instruction-count budget; 0 means unlimited. The
// budget is cumulative over the coroutine's whole lifetime (lang/vm.Thread
// counts steps from the first Start call onward, across every Resume), not
// reset per call. A budget that expires mid-run reports as an error,
// distinct from a genuine suspend/yield/completion.
func (e *Engine) RunFor(maxSteps uint64) Result {
	if e.finished {
		return Result{State: Done, Err: fmt.Errorf("coroutine: program has already completed, call Reset first")}
	}

	if !e.hasRun {
		e.th = vm.NewThread(e.Ctx)
		e.th.MaxCallDepth = e.MaxCallDepth
		e.th.MaxSteps = maxSteps
		fn := &vm.Function{Funcode: e.Prog.Toplevel, Prog: e.Prog}
		e.hasRun = true
		e.lastSig = e.th.Start(fn, nil)
	} else {
		e.th.MaxSteps = maxSteps
		e.lastSig = e.th.Resume(value.NaV())
	}
	return e.toResult()
}

func (e *Engine) toResult() Result {
	sig := e.lastSig
	switch sig.Kind {
	case vm.SigDone:
		e.finished = true
		return Result{State: Done, Value: sig.Value, Err: sig.Err}
	case vm.SigExited:
		e.finished = true
		return Result{State: Exited, Value: sig.Value, Err: sig.Err}
	case vm.SigSuspended:
		return Result{State: Suspended}
	case vm.SigYielded:
		return Result{State: Yielded, Value: sig.Value}
	default:
		e.finished = true
		return Result{State: Done, Err: fmt.Errorf("coroutine: unrecognized signal %v", sig.Kind)}
	}
}

// CanBeContinued reports whether the coroutine is suspended or has yielded
// and is not yet finished (spec §4.10 `can_be_continued`).
func (e *Engine) CanBeContinued() bool {
	return e.hasRun && !e.finished
}

// Reset zeroes the vm state while preserving the compiled program (spec
// §4.10 `reset`): the next Run/RunFor call starts the top-level chunk from
// its first instruction again, in a freshly pushed Thread.
func (e *Engine) Reset() {
	e.th = nil
	e.lastSig = vm.Signal{}
	e.hasRun = false
	e.finished = false
}

// ChangeCoroutine replaces the compiled program while keeping the Context
// (spec §4.10 `change_coroutine`), implicitly resetting run state since the
// old Thread's call stack referred to the old program's bytecode.
func (e *Engine) ChangeCoroutine(prog *compiler.Program) {
	e.Prog = prog
	e.Reset()
}
