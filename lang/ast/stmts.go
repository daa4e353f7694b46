package ast

import (
	"fmt"

	"github.com/teascript-go/teascript/lang/token"
)

type (
	// DefStmt declares a new variable: `def name := expr`, `const name :=
	// expr`, or the shared forms using `@=` (spec §4.6). The parser always
	// sets Value: it requires `:=` or `@=` and an expression after the name
	// whatever the dialect's DeclareIdentifiersWithoutAssignAllowed says.
	DefStmt struct {
		Start   token.Pos
		Const   bool
		Mutable bool
		Name    *IdentExpr
		OpPos   token.Pos
		Shared  bool // true if bound with @= rather than :=
		Value   Expr
	}

	// AssignStmt assigns to an existing, already-assignable target (spec
	// §4.6): `target := expr` or the shared form `target @= expr`.
	AssignStmt struct {
		Left   Expr
		OpPos  token.Pos
		Shared bool
		Right  Expr
	}

	// UndefStmt implements `undef name` (spec §4.5 "remove").
	UndefStmt struct {
		Start token.Pos
		Name  *IdentExpr
	}

	// DebugStmt implements `debug expr`: prints expr's representation to the
	// host's debug sink.
	DebugStmt struct {
		Start token.Pos
		Value Expr
	}

	// ExprStmt is an expression used as a statement.
	ExprStmt struct {
		X Expr
	}

	// IfStmt is `if (cond) { then } [else elseStmt]`; Else may be nil, a
	// *Block, or another *IfStmt to model an else-if chain.
	IfStmt struct {
		Start token.Pos
		Cond  Expr
		Then  *Block
		Else  Stmt
	}

	// RepeatStmt is `repeat [label] { body }`, looping until a matching
	// `stop` (spec §4.6).
	RepeatStmt struct {
		Start token.Pos
		Label *IdentExpr
		Body  *Block
	}

	// ForallStmt is `forall ([label] id in seq) { body }`, iterating an
	// IntegerSequence or indexable value, binding id each step.
	ForallStmt struct {
		Start token.Pos
		Label *IdentExpr
		Ident *IdentExpr
		Seq   Expr
		Body  *Block
	}

	// FuncDeclStmt is a named function declaration: `func name(params) {
	// body }`, sugar for `def name := func(params) { body }`.
	FuncDeclStmt struct {
		Start token.Pos
		Name  *IdentExpr
		Sig   *FuncSignature
		Body  *Block
		End   token.Pos
	}

	// ReturnStmt is `return [expr]` (spec §4.6); Value is nil for a bare
	// return.
	ReturnStmt struct {
		Start token.Pos
		Value Expr
	}

	// StopStmt is `stop [label] [with expr]`, terminating the nearest (or
	// matching-labeled) enclosing repeat/forall, optionally producing a
	// value for that loop construct.
	StopStmt struct {
		Start token.Pos
		Label *IdentExpr
		With  Expr
	}

	// LoopStmt is `loop [label]`, the continue-equivalent restarting the
	// nearest (or matching-labeled) enclosing repeat/forall.
	LoopStmt struct {
		Start token.Pos
		Label *IdentExpr
	}

	// SuspendStmt is the bare `suspend` coroutine statement.
	SuspendStmt struct {
		Start token.Pos
	}

	// YieldStmt is `yield [expr]`.
	YieldStmt struct {
		Start token.Pos
		Value Expr
	}

	// ExitStmt is `_Exit expr`, unwinding every scope and leaving the host
	// with the evaluated exit code/value.
	ExitStmt struct {
		Start token.Pos
		Value Expr
	}

	// BadStmt is a placeholder for a statement that failed to parse,
	// spanning the tokens skipped during panic-mode error recovery.
	BadStmt struct {
		Start token.Pos
		End   token.Pos
	}
)

func (n *DefStmt) BlockEnding() bool      { return false }
func (n *AssignStmt) BlockEnding() bool   { return false }
func (n *UndefStmt) BlockEnding() bool    { return false }
func (n *DebugStmt) BlockEnding() bool    { return false }
func (n *ExprStmt) BlockEnding() bool     { return false }
func (n *IfStmt) BlockEnding() bool       { return false }
func (n *RepeatStmt) BlockEnding() bool   { return false }
func (n *ForallStmt) BlockEnding() bool   { return false }
func (n *FuncDeclStmt) BlockEnding() bool { return false }
func (n *ReturnStmt) BlockEnding() bool   { return true }
func (n *StopStmt) BlockEnding() bool     { return true }
func (n *LoopStmt) BlockEnding() bool     { return true }
func (n *SuspendStmt) BlockEnding() bool  { return true }
func (n *YieldStmt) BlockEnding() bool    { return true }
func (n *ExitStmt) BlockEnding() bool     { return true }
func (n *BadStmt) BlockEnding() bool      { return false }

func (n *DefStmt) Format(f fmt.State, verb rune) {
	lbl := "def"
	if n.Const {
		lbl = "const"
	} else if n.Mutable {
		lbl = "mutable"
	}
	format(f, verb, n, lbl+" "+n.Name.Lit, nil)
}
func (n *DefStmt) Span() (start, end token.Pos) {
	if n.Value != nil {
		_, end = n.Value.Span()
	} else {
		_, end = n.Name.Span()
	}
	return n.Start, end
}
func (n *DefStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *AssignStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *UndefStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "undef "+n.Name.Lit, nil) }
func (n *UndefStmt) Span() (start, end token.Pos) {
	_, end = n.Name.Span()
	return n.Start, end
}
func (n *UndefStmt) Walk(v Visitor) { Walk(v, n.Name) }

func (n *DebugStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "debug", nil) }
func (n *DebugStmt) Span() (start, end token.Pos) {
	_, end = n.Value.Span()
	return n.Start, end
}
func (n *DebugStmt) Walk(v Visitor) { Walk(v, n.Value) }

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr-stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.X) }

func (n *IfStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "if", nil) }
func (n *IfStmt) Span() (start, end token.Pos) {
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.Start, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}

func (n *RepeatStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "repeat", nil) }
func (n *RepeatStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *RepeatStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
	Walk(v, n.Body)
}

func (n *ForallStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "forall", nil) }
func (n *ForallStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *ForallStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
	Walk(v, n.Ident)
	Walk(v, n.Seq)
	Walk(v, n.Body)
}

func (n *FuncDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "func "+n.Name.Lit, map[string]int{"params": len(n.Sig.Params)})
}
func (n *FuncDeclStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *FuncDeclStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, p := range n.Sig.Params {
		Walk(v, p.Name)
	}
	Walk(v, n.Body)
}

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Pos) {
	end = n.Start + token.Pos(len("return"))
	if n.Value != nil {
		_, end = n.Value.Span()
	}
	return n.Start, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *StopStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "stop", nil) }
func (n *StopStmt) Span() (start, end token.Pos) {
	end = n.Start + token.Pos(len("stop"))
	if n.With != nil {
		_, end = n.With.Span()
	} else if n.Label != nil {
		_, end = n.Label.Span()
	}
	return n.Start, end
}
func (n *StopStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
	if n.With != nil {
		Walk(v, n.With)
	}
}

func (n *LoopStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "loop", nil) }
func (n *LoopStmt) Span() (start, end token.Pos) {
	end = n.Start + token.Pos(len("loop"))
	if n.Label != nil {
		_, end = n.Label.Span()
	}
	return n.Start, end
}
func (n *LoopStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}

func (n *SuspendStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "suspend", nil) }
func (n *SuspendStmt) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len("suspend"))
}
func (n *SuspendStmt) Walk(v Visitor) {}

func (n *YieldStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "yield", nil) }
func (n *YieldStmt) Span() (start, end token.Pos) {
	end = n.Start + token.Pos(len("yield"))
	if n.Value != nil {
		_, end = n.Value.Span()
	}
	return n.Start, end
}
func (n *YieldStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *ExitStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "_Exit", nil) }
func (n *ExitStmt) Span() (start, end token.Pos) {
	_, end = n.Value.Span()
	return n.Start, end
}
func (n *ExitStmt) Walk(v Visitor) { Walk(v, n.Value) }

func (n *BadStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad stmt!", nil) }
func (n *BadStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadStmt) Walk(v Visitor)                {}
