package parser

import (
	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/scanner"
	"github.com/teascript-go/teascript/lang/token"
)

func (p *parser) parseExpr() ast.Expr { return p.parseSubExpr(0) }

var binopPriority = map[token.Token]struct{ left, right int }{
	token.OR: {1, 1},
	token.AND: {2, 2},
	token.EQ: {3, 3}, token.NE: {3, 3}, token.LT: {3, 3}, token.LE: {3, 3},
	token.GT: {3, 3}, token.GE: {3, 3},
	token.EQ_KW: {3, 3}, token.NE_KW: {3, 3}, token.LT_KW: {3, 3}, token.LE_KW: {3, 3},
	token.GT_KW: {3, 3}, token.GE_KW: {3, 3},
	token.IS: {4, 4}, token.IN: {4, 4},
	token.ATAT: {3, 3},
	token.BIT_OR: {5, 5}, token.BIT_XOR: {6, 6}, token.BIT_AND: {7, 7},
	token.BIT_LSH: {8, 8}, token.BIT_RSH: {8, 8},
	token.PLUS: {10, 10}, token.MINUS: {10, 10},
	token.STAR: {11, 11}, token.SLASH: {11, 11}, token.PERCENT: {11, 11}, token.MOD: {11, 11},
	token.AS: {12, 12},
}

func isUnop(tok token.Token) bool {
	return tok == token.MINUS || tok == token.NOT || tok == token.BIT_NOT || tok == token.ATQUESTION
}

const unopPriority = 13

func (p *parser) parseSubExpr(priority int) ast.Expr {
	var left ast.Expr
	if isUnop(p.tok) {
		typ := p.tok
		opPos := p.expect(p.tok)
		right := p.parseSubExpr(unopPriority)
		left = &ast.UnaryOpExpr{Type: typ, Op: opPos, Right: right}
	} else {
		left = p.parseSimpleExpr()
	}

	for {
		pr, ok := binopPriority[p.tok]
		if !ok || pr.left <= priority {
			break
		}
		typ := p.tok
		opPos := p.expect(p.tok)
		right := p.parseSubExpr(pr.right)
		left = &ast.BinOpExpr{Left: left, Type: typ, Op: opPos, Right: right}
	}
	return left
}

func (p *parser) parseSimpleExpr() ast.Expr {
	switch p.tok {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		return p.parseAtomExpr()
	case token.FUNC:
		return p.parseFuncExpr()
	case token.TYPEOF, token.TYPENAME:
		return p.parseTypeOfExpr()
	case token.IS_DEFINED:
		return p.parseIsDefinedExpr()
	default:
		return p.parseSuffixedExpr()
	}
}

func (p *parser) parseAtomExpr() ast.Expr {
	pos := p.val.Pos
	switch p.tok {
	case token.INT:
		var v interface{} = p.val.Int
		if p.val.Uint != 0 {
			v = p.val.Uint
		}
		lit := &ast.LiteralExpr{Type: token.INT, Start: pos, Raw: p.val.Raw, Value: v}
		p.advance()
		return lit
	case token.FLOAT:
		lit := &ast.LiteralExpr{Type: token.FLOAT, Start: pos, Raw: p.val.Raw, Value: p.val.Float}
		p.advance()
		return lit
	case token.STRING:
		val := p.val
		p.advance()
		if val.HasInterp {
			return p.parseInterpString(pos, val.String)
		}
		return &ast.LiteralExpr{Type: token.STRING, Start: pos, Raw: val.Raw, Value: val.String}
	case token.TRUE:
		p.advance()
		return &ast.LiteralExpr{Type: token.TRUE, Start: pos, Raw: "true", Value: true}
	case token.FALSE:
		p.advance()
		return &ast.LiteralExpr{Type: token.FALSE, Start: pos, Raw: "false", Value: false}
	default:
		p.errorExpected(pos, []token.Token{token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE})
		panic(errPanicMode)
	}
}

// parseInterpString splits a scanned string's decoded text on `%( … )`
// markers (left in place by the scanner, spec §4.6) and parses each
// embedded expression with a fresh parser instance over that substring.
func (p *parser) parseInterpString(pos token.Pos, decoded string) ast.Expr {
	expr := &ast.InterpExpr{Start: pos}
	i := 0
	for i < len(decoded) {
		if decoded[i] == '%' && i+1 < len(decoded) && decoded[i+1] == '(' {
			depth := 1
			j := i + 2
			for j < len(decoded) && depth > 0 {
				switch decoded[j] {
				case '(':
					depth++
				case ')':
					depth--
				}
				j++
			}
			inner := decoded[i+2 : j-1]
			sub, err := ParseExprString(inner)
			if err != nil {
				p.error(pos, "invalid %(...) expression: "+err.Error())
			}
			expr.Segments = append(expr.Segments, ast.InterpSegment{Expr: sub})
			i = j
			continue
		}
		start := i
		for i < len(decoded) && !(decoded[i] == '%' && i+1 < len(decoded) && decoded[i+1] == '(') {
			i++
		}
		if i > start {
			expr.Segments = append(expr.Segments, ast.InterpSegment{Text: decoded[start:i]})
		}
	}
	expr.End = pos
	return expr
}

func (p *parser) parseTypeOfExpr() ast.Expr {
	pos := p.val.Pos
	isName := p.tok == token.TYPENAME
	p.advance()
	right := p.parseSubExpr(unopPriority)
	return &ast.TypeOfExpr{Start: pos, Name: isName, Right: right}
}

func (p *parser) parseIsDefinedExpr() ast.Expr {
	pos := p.expect(token.IS_DEFINED)
	lparen := p.expect(token.LPAREN)
	ident := p.parseIdentExpr()
	rparen := p.expect(token.RPAREN)
	return &ast.IsDefinedExpr{Start: pos, Lparen: lparen, Ident: ident, Rparen: rparen}
}

func (p *parser) parseFuncExpr() *ast.FuncExpr {
	fn := p.expect(token.FUNC)
	sig := p.parseFuncSignature()
	body := p.parseBlock()
	return &ast.FuncExpr{Func: fn, Sig: sig, Body: body, End: body.End}
}

func (p *parser) parseFuncSignature() *ast.FuncSignature {
	var sig ast.FuncSignature
	sig.Lparen = p.expect(token.LPAREN)
	for p.tok != token.RPAREN && p.tok != token.EOF {
		sig.Params = append(sig.Params, p.parseParamDecl())
		if p.tok == token.COMMA {
			sig.Commas = append(sig.Commas, p.expect(token.COMMA))
		} else {
			break
		}
	}
	sig.Rparen = p.expect(token.RPAREN)
	return &sig
}

func (p *parser) parseParamDecl() *ast.ParamDecl {
	var pd ast.ParamDecl
	for {
		switch p.tok {
		case token.DEF:
			p.advance()
		case token.CONST:
			pd.Const = true
			p.advance()
		case token.MUTABLE:
			pd.Mutable = true
			p.advance()
		case token.AT:
			pd.Shared = true
			p.advance()
		default:
			goto done
		}
	}
done:
	if p.tok == token.ATEQ {
		pd.Shared = true
		pd.SharedAssign = true
		p.advance()
	}
	pd.Name = p.parseIdentExpr()
	return &pd
}

func (p *parser) parseIdentExpr() *ast.IdentExpr {
	pos := p.val.Pos
	lit := p.val.Raw
	p.expect(token.IDENT)
	return &ast.IdentExpr{Start: pos, Lit: lit}
}

// parseSuffixedExpr parses an ident/tuple/paren primary followed by any
// chain of `.ident`, `[expr]`, or `(args)` suffixes (spec §4.6).
func (p *parser) parseSuffixedExpr() ast.Expr {
	return p.continueSuffixedFrom(p.parsePrimaryExpr())
}

func (p *parser) parseCatchExpr(try ast.Expr) *ast.CatchExpr {
	catchPos := p.expect(token.CATCH)
	var errName *ast.IdentExpr
	if p.tok == token.LPAREN {
		p.advance()
		errName = p.parseIdentExpr()
		p.expect(token.RPAREN)
	}
	body := p.parseBlock()
	return &ast.CatchExpr{Try: try, Catch: catchPos, ErrName: errName, Handler: body, End: body.End}
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	switch p.tok {
	case token.IDENT:
		return p.parseIdentExpr()
	case token.LPAREN:
		return p.parseTupleOrParenExpr()
	default:
		p.errorExpected(p.val.Pos, []token.Token{token.IDENT, token.LPAREN})
		panic(errPanicMode)
	}
}

func (p *parser) parseTupleOrParenExpr() ast.Expr {
	lparen := p.expect(token.LPAREN)
	if p.tok == token.RPAREN {
		rparen := p.expect(token.RPAREN)
		return &ast.TupleExpr{Lparen: lparen, Rparen: rparen}
	}

	first := p.parseKeyVal()
	if p.tok == token.RPAREN && first.Key == nil {
		rparen := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: lparen, Expr: first.Value, Rparen: rparen}
	}

	items := []*ast.KeyVal{first}
	var commas []token.Pos
	for p.tok == token.COMMA {
		commas = append(commas, p.expect(token.COMMA))
		if p.tok == token.RPAREN {
			break
		}
		items = append(items, p.parseKeyVal())
	}
	rparen := p.expect(token.RPAREN)
	return &ast.TupleExpr{Lparen: lparen, Items: items, Commas: commas, Rparen: rparen}
}

// parseKeyVal parses one tuple element: either a bare expression
// (positional) or `ident: expr` (keyed), per spec §3/§4.4.
func (p *parser) parseKeyVal() *ast.KeyVal {
	if p.tok == token.IDENT {
		ident := p.parseIdentExpr()
		if p.tok == token.COLON {
			colon := p.expect(token.COLON)
			val := p.parseExpr()
			return &ast.KeyVal{Key: ident, Colon: colon, Value: val}
		}
		// not a key after all; resume as a normal expression starting
		// with that identifier (handled via suffix chain continuation).
		expr := p.continueBinaryFrom(p.continueSuffixedFrom(ident), 0)
		return &ast.KeyVal{Value: expr}
	}
	return &ast.KeyVal{Value: p.parseExpr()}
}

// continueSuffixedFrom resumes suffix parsing (.x, [i], (args), catch) from
// an already-parsed primary, used when parseKeyVal had to look ahead past
// an IDENT to decide it wasn't a `key:` prefix.
func (p *parser) continueSuffixedFrom(primary ast.Expr) ast.Expr {
	for {
		switch p.tok {
		case token.DOT:
			dot := p.expect(token.DOT)
			primary = &ast.DotExpr{Left: primary, Dot: dot, Right: p.parseIdentExpr()}
		case token.LBRACK:
			lb := p.expect(token.LBRACK)
			idx := p.parseExpr()
			rb := p.expect(token.RBRACK)
			primary = &ast.IndexExpr{Prefix: primary, Lbrack: lb, Index: idx, Rbrack: rb}
		case token.LPAREN:
			lp := p.expect(token.LPAREN)
			var args []ast.Expr
			var commas []token.Pos
			for p.tok != token.RPAREN && p.tok != token.EOF {
				args = append(args, p.parseExpr())
				if p.tok == token.COMMA {
					commas = append(commas, p.expect(token.COMMA))
				} else {
					break
				}
			}
			rp := p.expect(token.RPAREN)
			primary = &ast.CallExpr{Fn: primary, Lparen: lp, Args: args, Commas: commas, Rparen: rp}
		case token.CATCH:
			primary = p.parseCatchExpr(primary)
		default:
			return primary
		}
	}
}

func (p *parser) continueBinaryFrom(left ast.Expr, priority int) ast.Expr {
	for {
		pr, ok := binopPriority[p.tok]
		if !ok || pr.left <= priority {
			break
		}
		typ := p.tok
		opPos := p.expect(p.tok)
		right := p.parseSubExpr(pr.right)
		left = &ast.BinOpExpr{Left: left, Type: typ, Op: opPos, Right: right}
	}
	return left
}

// ParseExprString parses a single standalone expression, used for `%(...)`
// in-string evaluation segments (spec §4.6).
func ParseExprString(src string) (ast.Expr, error) {
	var p parser
	p.init([]byte(src), 1, scanner.PartialState{})
	defer func() {
		if r := recover(); r != nil && r != errPanicMode {
			panic(r)
		}
	}()
	expr := p.parseExpr()
	if err := p.errors.Err(); err != nil {
		return expr, err
	}
	return expr, nil
}
