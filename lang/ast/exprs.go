package ast

import (
	"fmt"

	"github.com/teascript-go/teascript/lang/token"
)

type (
	// IdentExpr is a bare identifier reference.
	IdentExpr struct {
		Start token.Pos
		Lit   string
	}

	// LiteralExpr is a literal bool/int/float/string (spec §4.6).
	LiteralExpr struct {
		Type  token.Token // INT, FLOAT, STRING, TRUE or FALSE
		Start token.Pos
		Raw   string      // uninterpreted source text, for diagnostics
		Value interface{} // int64 | float64 | string | bool
	}

	// KeyVal is one element of a TupleExpr: an optional Key (nil for a
	// purely positional element) and a Value.
	KeyVal struct {
		Key   *IdentExpr // nil if positional
		Colon token.Pos
		Value Expr
	}

	// TupleExpr is a tuple/array/record literal: `( e1, k: e2, ... )`
	// (spec §3/§4.4). A literal with at least one keyed KeyVal and no
	// positional ones reads as a record; otherwise as an array.
	TupleExpr struct {
		Lparen token.Pos
		Items  []*KeyVal
		Commas []token.Pos
		Rparen token.Pos
	}

	// BinOpExpr is a binary expression, including both symbolic (+, ==) and
	// keyword (mod, bit_and, eq) spellings (spec §4.6).
	BinOpExpr struct {
		Left  Expr
		Type  token.Token
		Op    token.Pos
		Right Expr
	}

	// UnaryOpExpr is a prefix unary expression (-x, not x, bit_not x).
	UnaryOpExpr struct {
		Type  token.Token
		Op    token.Pos
		Right Expr
	}

	// CallExpr is a function call, e.g. f(x, y).
	CallExpr struct {
		Fn     Expr
		Lparen token.Pos
		Args   []Expr
		Commas []token.Pos
		Rparen token.Pos
	}

	// DotExpr is a selector expression, e.g. x.y (spec §4.4 keyed tuple
	// access sugar).
	DotExpr struct {
		Left  Expr
		Dot   token.Pos
		Right *IdentExpr
	}

	// IndexExpr is an index expression, e.g. x[i] (spec §4.4 positional
	// tuple access).
	IndexExpr struct {
		Prefix Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// ParenExpr is a parenthesized expression used purely for grouping
	// (distinct from TupleExpr, which always has Items).
	ParenExpr struct {
		Lparen token.Pos
		Expr   Expr
		Rparen token.Pos
	}

	// FuncExpr is a function literal (spec §4.6): `func(params) { body }`.
	FuncExpr struct {
		Func token.Pos
		Sig  *FuncSignature
		Body *Block
		End  token.Pos
	}

	// ParamDecl is one function parameter, with its dialect modifiers
	// (spec §4.6 parameter grammar: optional def/const/mutable and @/@=
	// sharing marks).
	ParamDecl struct {
		Const   bool
		Mutable bool
		Shared  bool
		SharedAssign bool // true if declared with @= rather than @
		Name    *IdentExpr
	}

	// FuncSignature is a function's parameter list.
	FuncSignature struct {
		Lparen token.Pos
		Params []*ParamDecl
		Commas []token.Pos
		Rparen token.Pos
	}

	// CatchExpr is the postfix `expr catch errName { handler }` operator of
	// spec §4.6/§4.9, which evaluates Try and, on failure, binds the error
	// to ErrName and evaluates Handler instead.
	CatchExpr struct {
		Try     Expr
		Catch   token.Pos
		ErrName *IdentExpr
		Handler *Block
		End     token.Pos
	}

	// InterpExpr is a string-interpolation literal composed of literal text
	// segments interleaved with embedded expressions (`"text %(expr) more"`,
	// spec §4.6).
	InterpExpr struct {
		Start    token.Pos
		Segments []InterpSegment
		End      token.Pos
	}

	// InterpSegment is one piece of an InterpExpr: either literal Text (Expr
	// nil) or an embedded expression (Text empty, Expr non-nil).
	InterpSegment struct {
		Text string
		Expr Expr
	}

	// TypeOfExpr implements `typeof expr` / `typename expr` (spec §4.6).
	TypeOfExpr struct {
		Start token.Pos
		Name  bool // true for typename, false for typeof
		Right Expr
	}

	// IsDefinedExpr implements `is_defined(ident)` (spec §4.6).
	IsDefinedExpr struct {
		Start  token.Pos
		Lparen token.Pos
		Ident  *IdentExpr
		Rparen token.Pos
	}

	// BadExpr is a placeholder for an expression that failed to parse.
	BadExpr struct {
		Start token.Pos
		End   token.Pos
	}
)

// expr marks each expression node type as an Expr.
func (n *IdentExpr) expr()    {}
func (n *LiteralExpr) expr()  {}
func (n *TupleExpr) expr()   {}
func (n *BinOpExpr) expr()    {}
func (n *UnaryOpExpr) expr()  {}
func (n *CallExpr) expr()     {}
func (n *DotExpr) expr()      {}
func (n *IndexExpr) expr()    {}
func (n *ParenExpr) expr()    {}
func (n *FuncExpr) expr()     {}
func (n *CatchExpr) expr()    {}
func (n *InterpExpr) expr()   {}
func (n *TypeOfExpr) expr()   {}
func (n *IsDefinedExpr) expr(){}
func (n *BadExpr) expr()      {}

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Lit, nil) }
func (n *IdentExpr) Span() (start, end token.Pos)  { return n.Start, n.Start + token.Pos(len(n.Lit)) }
func (n *IdentExpr) Walk(v Visitor)                {}

func (n *LiteralExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Type.String()+" "+n.Raw, nil) }
func (n *LiteralExpr) Span() (start, end token.Pos)  { return n.Start, n.Start + token.Pos(len(n.Raw)) }
func (n *LiteralExpr) Walk(v Visitor)                {}

func (n *TupleExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "tuple", map[string]int{"items": len(n.Items)})
}
func (n *TupleExpr) Span() (start, end token.Pos) { return n.Lparen, n.Rparen + 1 }
func (n *TupleExpr) Walk(v Visitor) {
	for _, kv := range n.Items {
		if kv.Key != nil {
			Walk(v, kv.Key)
		}
		Walk(v, kv.Value)
	}
}

func (n *BinOpExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "binary "+n.Type.GoString(), nil) }
func (n *BinOpExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinOpExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *UnaryOpExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unary "+n.Type.GoString(), nil) }
func (n *UnaryOpExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.Op, end
}
func (n *UnaryOpExpr) Walk(v Visitor) { Walk(v, n.Right) }

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Fn.Span()
	return start, n.Rparen + 1
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *DotExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr.ident", nil) }
func (n *DotExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *DotExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index]", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Prefix.Span()
	return start, n.Rbrack + 1
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Prefix)
	Walk(v, n.Index)
}

func (n *ParenExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "(expr)", nil) }
func (n *ParenExpr) Span() (start, end token.Pos)  { return n.Lparen, n.Rparen + 1 }
func (n *ParenExpr) Walk(v Visitor)                { Walk(v, n.Expr) }

func (n *FuncExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "func", map[string]int{"params": len(n.Sig.Params)})
}
func (n *FuncExpr) Span() (start, end token.Pos) { return n.Func, n.End }
func (n *FuncExpr) Walk(v Visitor) {
	for _, p := range n.Sig.Params {
		Walk(v, p.Name)
	}
	Walk(v, n.Body)
}

func (n *CatchExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "catch", nil) }
func (n *CatchExpr) Span() (start, end token.Pos) {
	start, _ = n.Try.Span()
	return start, n.End
}
func (n *CatchExpr) Walk(v Visitor) {
	Walk(v, n.Try)
	if n.ErrName != nil {
		Walk(v, n.ErrName)
	}
	Walk(v, n.Handler)
}

func (n *InterpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "string-interp", map[string]int{"segments": len(n.Segments)})
}
func (n *InterpExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *InterpExpr) Walk(v Visitor) {
	for _, s := range n.Segments {
		if s.Expr != nil {
			Walk(v, s.Expr)
		}
	}
}

func (n *TypeOfExpr) Format(f fmt.State, verb rune) {
	lbl := "typeof"
	if n.Name {
		lbl = "typename"
	}
	format(f, verb, n, lbl, nil)
}
func (n *TypeOfExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.Start, end
}
func (n *TypeOfExpr) Walk(v Visitor) { Walk(v, n.Right) }

func (n *IsDefinedExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "is_defined", nil) }
func (n *IsDefinedExpr) Span() (start, end token.Pos)  { return n.Start, n.Rparen + 1 }
func (n *IsDefinedExpr) Walk(v Visitor)                { Walk(v, n.Ident) }

func (n *BadExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad expr!", nil) }
func (n *BadExpr) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadExpr) Walk(v Visitor)                {}
