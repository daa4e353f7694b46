package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/teascript-go/teascript/lang/scanner"
	"github.com/teascript-go/teascript/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var firstErr error
	for _, path := range args {
		if err := tokenizeFile(stdio, path); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func tokenizeFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(src, 0, scanner.PartialState{}, errs.Add)

	for {
		tok, val := s.Scan()
		fmt.Fprintf(stdio.Stdout, "%s: %s", val.Pos, tok)
		if val.Raw != "" {
			fmt.Fprintf(stdio.Stdout, " %q", val.Raw)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok == token.EOF {
			break
		}
	}
	return errs.Err()
}
