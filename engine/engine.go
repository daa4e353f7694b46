// Package engine implements the host-facing embedding API of spec §6: a
// single entry point a Go program uses to run TeaScript code, exchange
// variables with it, and register native callbacks -- without the host
// needing to know about lang/compiler, lang/vm, or corelib directly.
//
// Grounded on original_source/include/teascript/Engine.hpp/EngineBase.hpp
// for the method set (ExecuteCode/ExecuteScript/AddVar/AddConst/GetVar/
// RegisterUserCallback/CallFunc) and on the teacher's internal/maincmd for
// how a compiled Program is driven end to end (parse, compile, run).
// Engine runs scripts on the stack VM (component C9): that is the
// production execution path spec §9 calls out C9 as the default engine
// for, with lang/evaluator (C7) reserved for corelib's own bootstrap and
// the `_eval`/`eval_file` builtins.
package engine

import (
	"fmt"
	"os"

	"github.com/teascript-go/teascript/corelib"
	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/vm"
)

// Engine is a ready-to-use TeaScript runtime: one Context, bootstrapped
// once at construction, against which ExecuteCode/ExecuteScript/CallFunc
// all run.
type Engine struct {
	ctx *context.Context
	cfg config.Settings
}

// New constructs an Engine bootstrapped at cfg's Level/OptOut settings. The
// zero config.Settings (after filling in a Dialect) bootstraps at
// config.LevelMinimal with no opt-outs; callers typically start from
// config.Load() and adjust Level as needed.
func New(cfg config.Settings) (*Engine, error) {
	ctx := context.New(cfg.Dialect)
	if err := corelib.BootstrapVM(ctx, cfg); err != nil {
		return nil, fmt.Errorf("engine: bootstrap: %w", err)
	}
	return &Engine{ctx: ctx, cfg: cfg}, nil
}

// NewFull is a convenience constructor for the common case: the default
// Dialect, full core library bootstrap, no opt-outs.
func NewFull() (*Engine, error) {
	return New(config.Settings{Dialect: context.DefaultDialect(), Level: config.LevelFull})
}

// ExecuteCode parses, compiles, and runs code to completion, returning the
// value of its last expression (spec §6). name is used only in parse error
// messages.
func (e *Engine) ExecuteCode(code, name string) (value.Value, error) {
	if name == "" {
		name = "_USER_CODE_"
	}
	chunk, err := parser.ParseChunk(name, []byte(code))
	if err != nil {
		return value.Value{}, err
	}
	prog, err := compiler.Compile(chunk, compiler.O0)
	if err != nil {
		return value.Value{}, err
	}
	th := vm.NewThread(e.ctx)
	fn := &vm.Function{Funcode: prog.Toplevel, Prog: prog}
	sig := th.Start(fn, nil)
	if sig.Err != nil {
		return value.Value{}, sig.Err
	}
	if sig.Kind != vm.SigDone && sig.Kind != vm.SigExited {
		return value.Value{}, fmt.Errorf("engine: script suspended or yielded; use the coroutine package to run it")
	}
	return sig.Value, nil
}

// ExecuteScript reads path off disk (stripping a leading UTF-8 BOM, which
// in-memory ExecuteCode callers never have to worry about), binds args as
// `arg0`.."argN" (spec §4.10/§6), and runs it exactly like ExecuteCode.
func (e *Engine) ExecuteScript(path string, args []value.Value) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	for i, a := range args {
		if err := e.setGlobal(fmt.Sprintf("arg%d", i), a); err != nil {
			return value.Value{}, err
		}
	}
	if err := e.setGlobal("argN", value.I64(int64(len(args)))); err != nil {
		return value.Value{}, err
	}
	return e.ExecuteCode(string(stripBOM(data)), path)
}

// CallFunc invokes the global function named name with params, without
// running any surrounding script (spec §6's CallFunc). The function must
// already be bound in the Engine's Context, e.g. by a prior ExecuteCode or
// AddVar call.
func (e *Engine) CallFunc(name string, params []value.Value) (value.Value, error) {
	v, err := e.ctx.Find(name)
	if err != nil {
		return value.Value{}, err
	}
	callable, err := vm.AsCallable(v)
	if err != nil {
		return value.Value{}, err
	}
	th := vm.NewThread(e.ctx)
	return callable.Call(th, params)
}

// AddVar binds name to v as a mutable global, creating it if it does not
// already exist and overwriting it otherwise (spec §6's AddVar).
func (e *Engine) AddVar(name string, v value.Value) error {
	return e.setGlobal(name, v.WithConst(false))
}

// AddConst is AddVar for an immutable global (spec §6's AddConst).
func (e *Engine) AddConst(name string, v value.Value) error {
	return e.setGlobal(name, v.WithConst(true))
}

// GetVar looks up a global by name (spec §6's GetVar).
func (e *Engine) GetVar(name string) (value.Value, error) {
	return e.ctx.Find(name)
}

// RegisterUserCallback exposes a Go function to scripts under name (spec
// §6's RegisterUserCallback): calling it from TeaScript invokes fn exactly
// like any corelib builtin.
func (e *Engine) RegisterUserCallback(name string, fn func(args []value.Value) (value.Value, error)) error {
	v := vm.NewBuiltinValue(&vm.Builtin{
		Name: name,
		Fn: func(th *vm.Thread, args []value.Value) (value.Value, error) {
			return fn(args)
		},
	})
	return e.setGlobal(name, v)
}

func (e *Engine) setGlobal(name string, v value.Value) error {
	if e.ctx.IsDefined(name) {
		return e.ctx.Assign(name, v, false)
	}
	return e.ctx.Add(name, v)
}

func stripBOM(b []byte) []byte {
	const bom = "\xef\xbb\xbf"
	if len(b) >= 3 && string(b[:3]) == bom {
		return b[3:]
	}
	return b
}
