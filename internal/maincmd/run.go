package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/teascript-go/teascript/corelib"
	"github.com/teascript-go/teascript/internal/config"
	tscontext "github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/vm"
)

// Run compiles and executes each file on the stack VM (component C9),
// printing each file's resulting value in turn.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := c.loadSettings()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	for _, path := range args {
		if err := runFileVM(stdio, cfg, path); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}

func runFileVM(stdio mainer.Stdio, cfg config.Settings, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chunk, err := parser.ParseChunk(path, stripBOM(src))
	if err != nil {
		return err
	}
	prog, err := compiler.Compile(chunk, compiler.O0)
	if err != nil {
		return err
	}

	tsctx := tscontext.New(cfg.Dialect)
	if err := corelib.BootstrapVM(tsctx, cfg); err != nil {
		return err
	}

	th := vm.NewThread(tsctx)
	fn := &vm.Function{Funcode: prog.Toplevel, Prog: prog}
	sig := th.Start(fn, nil)
	if sig.Err != nil {
		return sig.Err
	}
	if sig.Kind == vm.SigDone || sig.Kind == vm.SigExited {
		fmt.Fprintln(stdio.Stdout, sig.Value.PrintValue())
	}
	return nil
}

// loadSettings resolves bootstrap settings from the environment, then
// overrides the level from --level if given.
func (c *Cmd) loadSettings() (config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}
	if c.Level != "" {
		lvl, err := config.ParseLevel(c.Level)
		if err != nil {
			return config.Settings{}, err
		}
		cfg.Level = lvl
	}
	return cfg, nil
}
