package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var firstErr error
	printer := ast.Printer{Output: stdio.Stdout, Pos: ast.PosCompact}
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		chunk, err := parser.ParseChunk(path, stripBOM(src))
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := printer.Print(chunk); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// stripBOM removes a leading UTF-8 byte order mark from a file read off
// disk, matching corelib's eval_file handling (spec §4.11 / §6: a script
// file, unlike an in-memory source string, may carry one).
func stripBOM(b []byte) []byte {
	const bom = "\xef\xbb\xbf"
	if len(b) >= 3 && string(b[:3]) == bom {
		return b[3:]
	}
	return b
}
