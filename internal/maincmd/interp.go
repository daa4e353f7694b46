package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/teascript-go/teascript/corelib"
	"github.com/teascript-go/teascript/internal/config"
	tscontext "github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/lang/evaluator"
	"github.com/teascript-go/teascript/lang/parser"
)

// Interp executes each file with the tree-walking evaluator (component C7)
// instead of the VM, for comparing the two engines' observable behavior
// (spec §8).
func (c *Cmd) Interp(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := c.loadSettings()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	for _, path := range args {
		if err := runFileEvaluator(stdio, cfg, path); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}

func runFileEvaluator(stdio mainer.Stdio, cfg config.Settings, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chunk, err := parser.ParseChunk(path, stripBOM(src))
	if err != nil {
		return err
	}

	tsctx := tscontext.New(cfg.Dialect)
	if err := corelib.BootstrapEvaluator(tsctx, cfg); err != nil {
		return err
	}

	ip := evaluator.New(tsctx)
	sig := ip.Start(chunk)
	if sig.Err != nil {
		return sig.Err
	}
	if sig.Kind == evaluator.SigDone || sig.Kind == evaluator.SigExited {
		fmt.Fprintln(stdio.Stdout, sig.Value.PrintValue())
	}
	return nil
}
