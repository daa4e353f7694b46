package corelib

import (
	"fmt"
	"os"

	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/vm"
)

// BootstrapVM populates ctx for execution by lang/vm's Thread: every
// registered native function becomes a vm.Builtin, which is how the
// registration table plugs into the CALL opcode's Callable dispatch
// (see lang/vm/value.go's package doc).
func BootstrapVM(ctx *context.Context, cfg config.Settings) error {
	if err := Bootstrap(ctx, cfg, func(name string, fn Fn) value.Value {
		return vm.NewBuiltinValue(&vm.Builtin{
			Name: name,
			Fn: func(th *vm.Thread, args []value.Value) (value.Value, error) {
				return fn(args)
			},
		})
	}); err != nil {
		return err
	}
	return registerEvalVM(ctx, cfg)
}

// runSourceVM parses and compiles src, then runs it to completion on a fresh
// Thread sharing ctx, exactly as `_eval`/`eval_file` require (spec §4.11):
// the evaluated code sees and can mutate the caller's globals.
func runSourceVM(ctx *context.Context, filename string, src []byte) (value.Value, error) {
	chunk, err := parser.ParseChunk(filename, src)
	if err != nil {
		return value.Value{}, err
	}
	prog, err := compiler.Compile(chunk, compiler.O0)
	if err != nil {
		return value.Value{}, err
	}
	th := vm.NewThread(ctx)
	fn := &vm.Function{Funcode: prog.Toplevel, Prog: prog}
	sig := th.Start(fn, nil)
	if sig.Err != nil {
		return value.Value{}, sig.Err
	}
	if sig.Kind != vm.SigDone && sig.Kind != vm.SigExited {
		return value.Value{}, fmt.Errorf("_eval: evaluated source suspended or yielded, which is not supported")
	}
	return sig.Value, nil
}

func registerEvalVM(ctx *context.Context, cfg config.Settings) error {
	if cfg.Level < config.LevelCore || cfg.OptOutMask().Has(config.NoEval) {
		return nil
	}
	evalFn := vm.NewBuiltinValue(&vm.Builtin{
		Name: "_eval",
		Fn: func(th *vm.Thread, args []value.Value) (value.Value, error) {
			if err := wantArgs("_eval", args, 1); err != nil {
				return value.Value{}, err
			}
			src, err := args[0].GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return runSourceVM(ctx, "eval", []byte(src))
		},
	})
	if err := ctx.Add("_eval", evalFn); err != nil {
		return err
	}
	evalFileFn := vm.NewBuiltinValue(&vm.Builtin{
		Name: "eval_file",
		Fn: func(th *vm.Thread, args []value.Value) (value.Value, error) {
			if err := wantArgs("eval_file", args, 1); err != nil {
				return value.Value{}, err
			}
			path, err := args[0].GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return value.Value{}, readErr
			}
			return runSourceVM(ctx, path, stripBOM(data))
		},
	})
	return ctx.Add("eval_file", evalFileFn)
}

// stripBOM removes a leading UTF-8 byte order mark, which `eval_file`
// (unlike in-memory `_eval`) may encounter in a file read straight off disk.
func stripBOM(b []byte) []byte {
	const bom = "\xef\xbb\xbf"
	if len(b) >= 3 && string(b[:3]) == bom {
		return b[3:]
	}
	return b
}
