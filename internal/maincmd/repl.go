package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"

	"github.com/teascript-go/teascript/corelib"
	tscontext "github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/evaluator"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/scanner"
)

// Repl is an interactive read-eval-print loop over the tree evaluator,
// driven by parser.ParsePartial so a statement spanning several lines with
// an open brace keeps prompting for more input instead of erroring on the
// first incomplete line. All pending lines are parsed again from a zero
// PartialState on every new line. An unterminated raw string is reported as
// a scan error rather than continued on the next line.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := c.loadSettings()
	if err != nil {
		return err
	}

	tsctx := tscontext.New(cfg.Dialect)
	if err := corelib.BootstrapEvaluator(tsctx, cfg); err != nil {
		return err
	}

	sc := bufio.NewScanner(stdio.Stdin)
	var pending strings.Builder
	var state scanner.PartialState
	lineOffset := 0

	fmt.Fprint(stdio.Stdout, "> ")
	for sc.Scan() {
		pending.WriteString(sc.Text())
		pending.WriteByte('\n')

		stmts, next, complete, err := parser.ParsePartial([]byte(pending.String()), lineOffset, scanner.PartialState{})
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			pending.Reset()
			state = scanner.PartialState{}
			fmt.Fprint(stdio.Stdout, "> ")
			continue
		}
		if !complete {
			state = next
			fmt.Fprint(stdio.Stdout, "... ")
			continue
		}

		chunk := &ast.Chunk{Block: &ast.Block{Stmts: stmts}}
		ip := evaluator.New(tsctx)
		sig := ip.Start(chunk)
		switch {
		case sig.Err != nil:
			fmt.Fprintln(stdio.Stderr, sig.Err)
		case sig.Kind == evaluator.SigDone:
			fmt.Fprintln(stdio.Stdout, sig.Value.PrintValue())
		case sig.Kind == evaluator.SigExited:
			fmt.Fprintln(stdio.Stdout, sig.Value.PrintValue())
			return nil
		default:
			fmt.Fprintln(stdio.Stderr, "repl: suspend/yield are not supported at the top level")
		}

		lineOffset += strings.Count(pending.String(), "\n")
		pending.Reset()
		state = scanner.PartialState{}
		fmt.Fprint(stdio.Stdout, "> ")
	}
	fmt.Fprintln(stdio.Stdout)
	if pending.Len() > 0 {
		if err := parser.ParsePartialEnd(state); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return sc.Err()
}
