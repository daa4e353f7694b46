package evaluator

import (
	"fmt"
	"strings"

	"github.com/teascript-go/teascript/internal/tuple"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/token"
)

// evalExpr dispatches one expression. Unlike evalStmt, it never returns a
// ctrl: return/stop/loop cannot occur in expression position in this
// grammar, and a function call's own `return` is fully consumed at that
// call's boundary (see Interp.call) before evalExpr returns to its caller.
func (ip *Interp) evalExpr(e ast.Expr) (value.Value, error) {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		return literalValue(x), nil
	case *ast.IdentExpr:
		return ip.Ctx.Find(x.Lit)
	case *ast.TupleExpr:
		return ip.evalTupleExpr(x)
	case *ast.BinOpExpr:
		return ip.evalBinOpExpr(x)
	case *ast.UnaryOpExpr:
		return ip.evalUnaryOpExpr(x)
	case *ast.CallExpr:
		return ip.evalCallExpr(x)
	case *ast.DotExpr:
		left, err := ip.evalExpr(x.Left)
		if err != nil {
			return value.Value{}, err
		}
		return tuple.Index(left, value.String(x.Right.Lit))
	case *ast.IndexExpr:
		prefix, err := ip.evalExpr(x.Prefix)
		if err != nil {
			return value.Value{}, err
		}
		idx, err := ip.evalExpr(x.Index)
		if err != nil {
			return value.Value{}, err
		}
		return tuple.Index(prefix, idx)
	case *ast.ParenExpr:
		return ip.evalExpr(x.Expr)
	case *ast.FuncExpr:
		return NewFunctionValue(x.Sig.Params, x.Body, ""), nil
	case *ast.CatchExpr:
		return ip.evalCatchExpr(x)
	case *ast.InterpExpr:
		return ip.evalInterpExpr(x)
	case *ast.TypeOfExpr:
		return ip.evalTypeOfExpr(x)
	case *ast.IsDefinedExpr:
		return value.Bool(ip.Ctx.IsDefined(x.Ident.Lit)), nil
	case *ast.BadExpr:
		return value.Value{}, fmt.Errorf("cannot evaluate a malformed expression")
	default:
		return value.Value{}, fmt.Errorf("evaluator: unsupported expression node %T", e)
	}
}

func literalValue(x *ast.LiteralExpr) value.Value {
	switch v := x.Value.(type) {
	case nil:
		return value.NaV()
	case int64:
		return value.I64(v)
	case uint64:
		return value.U64(v)
	case float64:
		return value.F64(v)
	case string:
		return value.String(v)
	case bool:
		return value.Bool(v)
	default:
		panic(fmt.Sprintf("evaluator: unsupported literal %T", x.Value))
	}
}

func (ip *Interp) evalTupleExpr(x *ast.TupleExpr) (value.Value, error) {
	t := tuple.New()
	for _, item := range x.Items {
		v, err := ip.evalExpr(item.Value)
		if err != nil {
			return value.Value{}, err
		}
		if item.Key != nil {
			if err := t.AppendKeyed(item.Key.Lit, v); err != nil {
				return value.Value{}, err
			}
		} else {
			if err := t.AppendPositional(v); err != nil {
				return value.Value{}, err
			}
		}
	}
	return value.New(value.KindTuple, t, value.Config{}), nil
}

var binFuncs = map[token.Token]func(x, y value.Value) (value.Value, error){
	token.PLUS:    value.Add,
	token.MINUS:   value.Sub,
	token.STAR:    value.Mul,
	token.SLASH:   value.Div,
	token.BIT_AND: value.BitAnd,
	token.BIT_OR:  value.BitOr,
	token.BIT_XOR: value.BitXor,
	token.BIT_LSH: value.BitLsh,
	token.BIT_RSH: value.BitRsh,
}

var cmpOps = map[token.Token]string{
	token.LT: "<", token.LE: "<=", token.GT: ">", token.GE: ">=",
	token.EQ: "==", token.NE: "!=",
	token.LT_KW: "<", token.LE_KW: "<=", token.GT_KW: ">", token.GE_KW: ">=",
	token.EQ_KW: "==", token.NE_KW: "!=",
}

// evalBinOpExpr mirrors lang/compiler's compileBinOpExpr operator-by-
// operator, calling straight into internal/value's shared arithmetic so
// the two engines cannot drift on primitive semantics.
func (ip *Interp) evalBinOpExpr(x *ast.BinOpExpr) (value.Value, error) {
	switch x.Type {
	case token.AND:
		l, err := ip.evalExpr(x.Left)
		if err != nil {
			return value.Value{}, err
		}
		lb, err := l.GetAsBool()
		if err != nil {
			return value.Value{}, err
		}
		if !lb {
			return l, nil
		}
		return ip.evalExpr(x.Right)
	case token.OR:
		l, err := ip.evalExpr(x.Left)
		if err != nil {
			return value.Value{}, err
		}
		lb, err := l.GetAsBool()
		if err != nil {
			return value.Value{}, err
		}
		if lb {
			return l, nil
		}
		return ip.evalExpr(x.Right)
	case token.IS:
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		name, err := value.TypeNameOf(r)
		if err != nil {
			return value.Value{}, err
		}
		ok, err := l.Is(name)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(ok), nil
	case token.AS:
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		name, err := value.TypeNameOf(r)
		if err != nil {
			return value.Value{}, err
		}
		return l.As(name)
	case token.IN:
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		ok, err := tuple.Membership(l, r)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(ok), nil
	case token.PERCENT, token.MOD:
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		// `%` is both string concatenation and numeric modulo (spec §4.6),
		// dispatched dynamically on operand kind, matching lang/vm's PERCENT
		// opcode (the compiler likewise emits one opcode for both spellings).
		if l.Kind() == value.KindString || r.Kind() == value.KindString {
			return value.Concat(l, r)
		}
		return value.Mod(l, r)
	case token.ATAT:
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(l.SameCell(r)), nil
	}
	if op, ok := cmpOps[x.Type]; ok {
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		b, err := value.Compare(op, l, r)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(b), nil
	}
	if fn, ok := binFuncs[x.Type]; ok {
		l, r, err := ip.evalPair(x.Left, x.Right)
		if err != nil {
			return value.Value{}, err
		}
		return fn(l, r)
	}
	return value.Value{}, fmt.Errorf("unsupported binary operator %s", x.Type)
}

func (ip *Interp) evalPair(le, re ast.Expr) (value.Value, value.Value, error) {
	l, err := ip.evalExpr(le)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	r, err := ip.evalExpr(re)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	return l, r, nil
}

func (ip *Interp) evalUnaryOpExpr(x *ast.UnaryOpExpr) (value.Value, error) {
	v, err := ip.evalExpr(x.Right)
	if err != nil {
		return value.Value{}, err
	}
	switch x.Type {
	case token.MINUS:
		return value.Negate(v)
	case token.NOT:
		b, err := v.GetAsBool()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(!b), nil
	case token.BIT_NOT:
		return value.BitNot(v)
	case token.ATQUESTION:
		return value.I64(int64(v.ShareCount())), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported unary operator %s", x.Type)
	}
}

func (ip *Interp) evalCallExpr(x *ast.CallExpr) (value.Value, error) {
	fn, err := ip.evalExpr(x.Fn)
	if err != nil {
		return value.Value{}, err
	}
	args := make([]value.Value, len(x.Args))
	for i, a := range x.Args {
		v, err := ip.evalExpr(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	c, err := AsCallable(fn)
	if err != nil {
		return value.Value{}, err
	}
	return c.Call(ip, args)
}

// evalCatchExpr implements the postfix `expr catch [(err)] { handler }`
// operator (spec §4.6/§4.9): the error binds into the *current* scope for
// the handler's duration, not a fresh nested one (same Open Question
// resolution as lang/compiler's compileCatchExpr). `_Exit`'s panic is not
// recovered here, so it bypasses catch exactly as lang/vm's exitSignal
// bypasses its covered-range table.
func (ip *Interp) evalCatchExpr(x *ast.CatchExpr) (value.Value, error) {
	v, err := ip.evalExpr(x.Try)
	if err == nil {
		return v, nil
	}
	errName := ""
	if x.ErrName != nil {
		errName = x.ErrName.Lit
		if addErr := ip.Ctx.Add(errName, value.ErrorValueFor(err)); addErr != nil {
			return value.Value{}, addErr
		}
	}
	hv, c, herr := ip.evalBlockExpr(x.Handler)
	if errName != "" {
		if remErr := ip.Ctx.Remove(errName); remErr != nil && herr == nil {
			herr = remErr
		}
	}
	if herr != nil {
		return value.Value{}, herr
	}
	if !c.none() {
		return value.Value{}, fmt.Errorf("evaluator: unexpected control flow out of a catch handler")
	}
	return hv, nil
}

// evalInterpExpr lowers `"text %(expr) more"` by concatenating literal
// segments and stringified expression results, matching lang/compiler's
// compileInterpExpr.
func (ip *Interp) evalInterpExpr(x *ast.InterpExpr) (value.Value, error) {
	var b strings.Builder
	for _, seg := range x.Segments {
		if seg.Expr == nil {
			b.WriteString(seg.Text)
			continue
		}
		v, err := ip.evalExpr(seg.Expr)
		if err != nil {
			return value.Value{}, err
		}
		s, err := v.GetAsString()
		if err != nil {
			return value.Value{}, err
		}
		b.WriteString(s)
	}
	return value.String(b.String()), nil
}

func (ip *Interp) evalTypeOfExpr(x *ast.TypeOfExpr) (value.Value, error) {
	v, err := ip.evalExpr(x.Right)
	if err != nil {
		return value.Value{}, err
	}
	if x.Name {
		return value.String(v.Kind().String()), nil
	}
	return value.TypeInfoValue(value.TypeInfoFor(v.Kind())), nil
}
