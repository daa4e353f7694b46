// Package evaluator implements the recursive tree-walking interpreter of
// spec component C7: it evaluates lang/ast trees directly, without a
// lang/compiler/lang/vm compile step, to back the core library's bootstrap
// and the host-facing `_eval`/`eval_file` builtins. It must produce results
// identical to lang/compiler+lang/vm for the same program.
//
// Grounded on no direct teacher analogue (the teacher only ever compiles to
// bytecode); the dispatch shape follows the general recursive-eval design
// spec.md §9 calls for, and the goroutine-based suspend/yield/`_Exit`
// machinery mirrors lang/vm's Thread, adapted from bytecode dispatch to
// tree recursion.
package evaluator

import (
	"fmt"

	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/ast"
)

// SignalKind tags what a running Interp's step channel delivered: the
// program ran to completion, suspended, yielded a value, or hit `_Exit`.
// Mirrors lang/vm's SignalKind exactly, since both engines must report the
// same outcomes for the same program (spec §8).
type SignalKind int

const (
	SigDone SignalKind = iota
	SigSuspended
	SigYielded
	SigExited
)

// Signal is what a running Interp sends back to its driver whenever it
// stops running, for any reason.
type Signal struct {
	Kind  SignalKind
	Value value.Value
	Err   error
}

// exitSignal unwinds every enclosing scope and evaluation frame via a Go
// panic: `_Exit` (spec §4.6/§7) must skip every intervening `catch`, and a
// plain panic bypasses them all in one unwind, recovered only at Interp's
// outermost entry point.
type exitSignal struct{ value value.Value }

// ctrlKind tags the tree-shaped, non-local control flow that return/stop/
// loop produce: unlike suspend/yield/_Exit (handled via channels and panic,
// see the package doc), these must unwind through a statically unknown
// number of nested Go call frames (one per nested block), so they are
// threaded explicitly as an extra return value instead.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlStop
	ctrlLoop
)

type ctrl struct {
	kind  ctrlKind
	value value.Value
	label string
}

func (c ctrl) none() bool { return c.kind == ctrlNone }

// Interp drives one program's execution: a Context (component C5), step and
// call-depth budgets, and -- like lang/vm's Thread -- a channel pair used
// to hand control back to whatever goroutine is driving it when `suspend`/
// `yield` is reached. Every Interp method that blocks on these channels
// must run on the goroutine Start (or Resume) launched: the goroutine's own
// native call stack is the coroutine's saved continuation, exactly as in
// lang/vm.
type Interp struct {
	Ctx          *context.Context
	Debug        func(value.Value) // host sink for `debug expr`; no-op if nil
	MaxSteps     uint64            // 0 means unlimited
	MaxCallDepth int               // 0 means unlimited

	steps     uint64
	callDepth int

	resultCh chan Signal
	resumeCh chan value.Value
}

// New creates an Interp bound to ctx.
func New(ctx *context.Context) *Interp {
	return &Interp{Ctx: ctx, resultCh: make(chan Signal), resumeCh: make(chan value.Value)}
}

// Start begins evaluating chunk on a dedicated goroutine and returns the
// first Signal it produces (SigDone on normal completion, SigExited on
// `_Exit`, or SigSuspended/SigYielded if evaluation reaches one first).
func (ip *Interp) Start(chunk *ast.Chunk) Signal {
	go func() {
		v, exited, err := ip.runTop(chunk)
		kind := SigDone
		if exited {
			kind = SigExited
		}
		ip.resultCh <- Signal{Kind: kind, Value: v, Err: err}
	}()
	return <-ip.resultCh
}

// Resume hands resumeValue back to a suspended/yielded Interp (it becomes
// the result of the `suspend`/`yield` expression) and returns the next
// Signal produced.
func (ip *Interp) Resume(resumeValue value.Value) Signal {
	ip.resumeCh <- resumeValue
	return <-ip.resultCh
}

func (ip *Interp) runTop(chunk *ast.Chunk) (v value.Value, exited bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if es, ok := r.(*exitSignal); ok {
				v, exited, err = es.value, true, nil
				return
			}
			panic(r)
		}
	}()
	v, c, err := ip.evalBlockExpr(chunk.Block)
	if err != nil {
		return value.Value{}, false, err
	}
	switch c.kind {
	case ctrlNone:
		return v, false, nil
	case ctrlReturn:
		return value.Value{}, false, fmt.Errorf("return outside of a function")
	default:
		return value.Value{}, false, fmt.Errorf("stop/loop outside of a repeat/forall loop")
	}
}

func (ip *Interp) suspend() value.Value {
	ip.resultCh <- Signal{Kind: SigSuspended}
	return <-ip.resumeCh
}

func (ip *Interp) yield(v value.Value) value.Value {
	ip.resultCh <- Signal{Kind: SigYielded, Value: v}
	return <-ip.resumeCh
}

// call invokes a user-defined Function's body, consuming any `return`
// signal at this boundary (spec §4.7): a `stop`/`loop` reaching the top of
// the function body uncaught by a loop within it is a runtime error.
func (ip *Interp) call(fn *Function, args []value.Value) (value.Value, error) {
	if ip.MaxCallDepth > 0 && ip.callDepth >= ip.MaxCallDepth {
		return value.Value{}, fmt.Errorf("call stack depth exceeded (%d)", ip.MaxCallDepth)
	}
	ip.callDepth++
	defer func() { ip.callDepth-- }()

	ip.Ctx.EnterScope()
	defer ip.Ctx.ExitScope() //nolint:errcheck // ExitScope only fails for the (unreachable here) global scope

	if err := bindParams(ip.Ctx, fn.Params, args); err != nil {
		return value.Value{}, err
	}
	v, c, err := ip.evalBlockExpr(fn.Body)
	if err != nil {
		return value.Value{}, err
	}
	switch c.kind {
	case ctrlNone:
		return v, nil
	case ctrlReturn:
		return c.value, nil
	default:
		return value.Value{}, fmt.Errorf("stop/loop outside of a repeat/forall loop")
	}
}

// bindParams consumes args into the current scope's parameter queue per
// spec §4.5/§4.7, mirroring lang/vm's bindParams exactly.
func bindParams(ctx *context.Context, params []*ast.ParamDecl, args []value.Value) error {
	if len(args) != len(params) {
		return fmt.Errorf("function accepts %d argument(s), %d given", len(params), len(args))
	}
	vs := make([]value.Value, len(args))
	copy(vs, args)
	ctx.SetParamList(vs)
	for _, p := range params {
		v, err := ctx.ConsumeParam()
		if err != nil {
			return err
		}
		if p.Shared {
			v = v.MakeShared()
		}
		v = v.WithConst(p.Const)
		if err := ctx.Add(p.Name.Lit, v); err != nil {
			return err
		}
	}
	return nil
}

// evalBlock evaluates b's statements in place for effect only, discarding
// every value (spec §4.6: `if`/`repeat`/`forall` bodies are statements, not
// expressions, in this dialect). It stops at the first non-none ctrl.
func (ip *Interp) evalBlock(b *ast.Block) (ctrl, error) {
	for _, stmt := range b.Stmts {
		c, err := ip.evalStmt(stmt)
		if err != nil {
			return ctrl{}, err
		}
		if !c.none() {
			return c, nil
		}
	}
	return ctrl{}, nil
}

// evalBlockExpr evaluates b the way evalBlock does, except the last
// statement's value becomes the block's own value instead of being
// discarded (spec §4.7: "on return with v produce v, otherwise the body's
// last expression value"), mirroring lang/compiler's compileBlockExpr
// exactly: an *ast.ExprStmt's expression is the block's value, a trailing
// suspend/yield's resume value is the block's value, and anything else
// that does not itself leave a value defaults to NaV.
func (ip *Interp) evalBlockExpr(b *ast.Block) (value.Value, ctrl, error) {
	n := len(b.Stmts)
	if n == 0 {
		return value.NaV(), ctrl{}, nil
	}
	for _, stmt := range b.Stmts[:n-1] {
		c, err := ip.evalStmt(stmt)
		if err != nil {
			return value.Value{}, ctrl{}, err
		}
		if !c.none() {
			return value.Value{}, c, nil
		}
	}
	switch last := b.Stmts[n-1].(type) {
	case *ast.ExprStmt:
		v, err := ip.evalExpr(last.X)
		return v, ctrl{}, err
	case *ast.SuspendStmt:
		return ip.suspend(), ctrl{}, nil
	case *ast.YieldStmt:
		v := value.NaV()
		if last.Value != nil {
			var err error
			v, err = ip.evalExpr(last.Value)
			if err != nil {
				return value.Value{}, ctrl{}, err
			}
		}
		return ip.yield(v), ctrl{}, nil
	default:
		c, err := ip.evalStmt(last)
		if err != nil {
			return value.Value{}, ctrl{}, err
		}
		if !c.none() {
			return value.Value{}, c, nil
		}
		return value.NaV(), ctrl{}, nil
	}
}
