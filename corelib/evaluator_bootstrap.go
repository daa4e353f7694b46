package corelib

import (
	"fmt"
	"os"

	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/evaluator"
	"github.com/teascript-go/teascript/lang/parser"
)

// BootstrapEvaluator populates ctx for execution by lang/evaluator's Interp:
// every registered native function becomes an evaluator.Builtin, the tree
// interpreter's equivalent of vm.Builtin.
func BootstrapEvaluator(ctx *context.Context, cfg config.Settings) error {
	if err := Bootstrap(ctx, cfg, func(name string, fn Fn) value.Value {
		return evaluator.NewBuiltinValue(&evaluator.Builtin{
			Name: name,
			Fn: func(ip *evaluator.Interp, args []value.Value) (value.Value, error) {
				return fn(args)
			},
		})
	}); err != nil {
		return err
	}
	return registerEvalEvaluator(ctx, cfg)
}

func runSourceEvaluator(ctx *context.Context, filename string, src []byte) (value.Value, error) {
	chunk, err := parser.ParseChunk(filename, src)
	if err != nil {
		return value.Value{}, err
	}
	ip := evaluator.New(ctx)
	sig := ip.Start(chunk)
	if sig.Err != nil {
		return value.Value{}, sig.Err
	}
	if sig.Kind != evaluator.SigDone && sig.Kind != evaluator.SigExited {
		return value.Value{}, fmt.Errorf("_eval: evaluated source suspended or yielded, which is not supported")
	}
	return sig.Value, nil
}

func registerEvalEvaluator(ctx *context.Context, cfg config.Settings) error {
	if cfg.Level < config.LevelCore || cfg.OptOutMask().Has(config.NoEval) {
		return nil
	}
	evalFn := evaluator.NewBuiltinValue(&evaluator.Builtin{
		Name: "_eval",
		Fn: func(ip *evaluator.Interp, args []value.Value) (value.Value, error) {
			if err := wantArgs("_eval", args, 1); err != nil {
				return value.Value{}, err
			}
			src, err := args[0].GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return runSourceEvaluator(ctx, "eval", []byte(src))
		},
	})
	if err := ctx.Add("_eval", evalFn); err != nil {
		return err
	}
	evalFileFn := evaluator.NewBuiltinValue(&evaluator.Builtin{
		Name: "eval_file",
		Fn: func(ip *evaluator.Interp, args []value.Value) (value.Value, error) {
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
			return runSourceEvaluator(ctx, path, stripBOM(data))
		},
	})
	return ctx.Add("eval_file", evalFileFn)
}
