// Package ast defines the abstract syntax tree produced by lang/parser for
// TeaScript source (spec §4.6). It is a quasi-lossless tree: every node
// carries its source span for diagnostics, but whitespace and comments are
// not retained as part of any node.
//
// Grounded on the teacher's lang/ast package: the Node/Expr/Stmt interface
// split, the fmt.Formatter-based debug printer, and the Visitor/Walk pattern
// are reused verbatim in shape; only the concrete node set is TeaScript's
// own (def/const/undef/repeat/forall/func/catch/tuple-literal/string-
// interpolation, replacing the teacher's Lua-like statement/expression set).
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teascript-go/teascript/lang/token"
)

// Node is any node of the AST.
type Node interface {
	// Format implements fmt.Formatter; only 'v' and 's' verbs are supported.
	// '#' prints child counts, a width pads/truncates the label, '-' pads on
	// the right and '+' disables padding.
	fmt.Formatter

	// Span reports the node's start and end source position.
	Span() (start, end token.Pos)

	// Walk enters each child node, implementing the Visitor pattern.
	Walk(v Visitor)
}

// Expr is any expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is any statement node.
type Stmt interface {
	Node

	// BlockEnding reports true for return, stop, loop, suspend, yield and
	// _Exit, after which compileBlockExpr adds no implicit block value. The
	// parser does not require such a statement to be last in its block.
	BlockEnding() bool
}

// Chunk is the root of a parsed source file or REPL fragment.
type Chunk struct {
	Name       string
	Block      *Block
	EOF        token.Pos
	Directives []token.Value // raw `##` directive lines, in source order
}

// Block is a sequence of statements delimited by braces or by chunk bounds.
type Block struct {
	Start token.Pos
	End   token.Pos
	Stmts []Stmt
}

func (n *Chunk) Format(f fmt.State, verb rune) { format(f, verb, n, "chunk", nil) }
func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}
	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		switch {
		case len(runes) >= w:
			runes = runes[:w]
		case minus:
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		case !plus:
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

// Unwrap strips nested ParenExpr wrappers.
func Unwrap(e Expr) Expr {
	if pe, ok := e.(*ParenExpr); ok {
		return Unwrap(pe.Expr)
	}
	return e
}

// IsAssignable reports whether e is a valid assignment target: an
// identifier, a dot-selector, or an index expression (spec §4.6).
func IsAssignable(e Expr) bool {
	switch e := e.(type) {
	case *IdentExpr:
		return true
	case *DotExpr:
		return IsAssignable(Unwrap(e.Left))
	case *IndexExpr:
		return IsAssignable(Unwrap(e.Prefix))
	default:
		return false
	}
}
