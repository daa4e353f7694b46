package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/teascript-go/teascript/corelib"
	tscontext "github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/coroutine"
	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
)

// Coroutine runs a file as a resumable coroutine (component C10), printing
// every yielded value until the program suspends indefinitely or completes.
func (c *Cmd) Coroutine(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := c.loadSettings()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("coroutine: a file must be provided")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	chunk, err := parser.ParseChunk(args[0], stripBOM(src))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	prog, err := compiler.Compile(chunk, compiler.O0)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	tsctx := tscontext.New(cfg.Dialect)
	if err := corelib.BootstrapVM(tsctx, cfg); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	eng := coroutine.New(prog, tsctx)
	for {
		res := eng.Run()
		if res.Err != nil {
			fmt.Fprintln(stdio.Stderr, res.Err)
			return res.Err
		}
		switch res.State {
		case coroutine.Yielded:
			fmt.Fprintf(stdio.Stdout, "yield: %s\n", res.Value.PrintValue())
		case coroutine.Suspended:
			fmt.Fprintln(stdio.Stdout, "suspended indefinitely, stopping")
			return nil
		case coroutine.Done, coroutine.Exited:
			fmt.Fprintf(stdio.Stdout, "done: %s\n", res.Value.PrintValue())
			return nil
		}
	}
}
