package ast

import (
	"fmt"
	"io"
	"strings"
)

// PosMode controls whether Printer emits source positions alongside nodes.
type PosMode int

const (
	PosNone PosMode = iota
	PosCompact
)

// Printer pretty-prints an AST, mainly for the `parse` CLI subcommand and
// tests. Grounded on the teacher's lang/ast.Printer: a Visitor-driven
// indenting walk, generalized to this package's Pos type (which already
// carries line/col, so no separate token.File lookup is needed).
type Printer struct {
	Output  io.Writer
	Pos     PosMode
	NodeFmt string
}

func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, pos: p.Pos, nodeFmt: p.NodeFmt}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	pos     PosMode
	nodeFmt string
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}
	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.pos != PosNone {
		format += "[%s:%s] "
		start, end := n.Span()
		args = append(args, start.String(), end.String())
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
