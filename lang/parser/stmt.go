package parser

import (
	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/token"
)

// parseStmt parses one statement (spec §4.6 statement grammar). A panic
// with errPanicMode propagates to parseStmtRecovered for error recovery.
func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.DEF, token.CONST:
		return p.parseDefStmt()
	case token.UNDEF:
		return p.parseUndefStmt()
	case token.DEBUG:
		return p.parseDebugStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.REPEAT:
		return p.parseRepeatStmt()
	case token.FORALL:
		return p.parseForallStmt()
	case token.FUNC:
		return p.parseFuncDeclStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.STOP:
		return p.parseStopStmt()
	case token.LOOP:
		return p.parseLoopStmt()
	case token.SUSPEND:
		pos := p.expect(token.SUSPEND)
		return &ast.SuspendStmt{Start: pos}
	case token.YIELD:
		return p.parseYieldStmt()
	case token.IDENT:
		if p.val.Raw == "_Exit" {
			return p.parseExitStmt()
		}
		return p.parseAssignOrExprStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *parser) parseDefStmt() ast.Stmt {
	start := p.val.Pos
	isConst := p.tok == token.CONST
	p.advance() // consume def/const

	mutable := false
	if p.tok == token.MUTABLE {
		mutable = true
		p.advance()
	}
	name := p.parseIdentExpr()

	shared := false
	var opPos token.Pos
	switch p.tok {
	case token.ASSIGN:
		opPos = p.expect(token.ASSIGN)
	case token.ATEQ:
		shared = true
		opPos = p.expect(token.ATEQ)
	default:
		p.errorExpected(p.val.Pos, []token.Token{token.ASSIGN, token.ATEQ})
		panic(errPanicMode)
	}
	value := p.parseExpr()
	return &ast.DefStmt{Start: start, Const: isConst, Mutable: mutable, Name: name, OpPos: opPos, Shared: shared, Value: value}
}

func (p *parser) parseUndefStmt() ast.Stmt {
	start := p.expect(token.UNDEF)
	name := p.parseIdentExpr()
	return &ast.UndefStmt{Start: start, Name: name}
}

func (p *parser) parseDebugStmt() ast.Stmt {
	start := p.expect(token.DEBUG)
	value := p.parseExpr()
	return &ast.DebugStmt{Start: start, Value: value}
}

func (p *parser) parseIfStmt() ast.Stmt {
	start := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBlock()
	stmt := &ast.IfStmt{Start: start, Cond: cond, Then: then}
	if p.tok == token.ELSE {
		p.advance()
		if p.tok == token.IF {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *parser) parseOptionalLabel() *ast.IdentExpr {
	if p.tok == token.IDENT {
		return p.parseIdentExpr()
	}
	return nil
}

func (p *parser) parseRepeatStmt() ast.Stmt {
	start := p.expect(token.REPEAT)
	label := p.parseOptionalLabel()
	body := p.parseBlock()
	return &ast.RepeatStmt{Start: start, Label: label, Body: body}
}

func (p *parser) parseForallStmt() ast.Stmt {
	start := p.expect(token.FORALL)
	var label *ast.IdentExpr
	p.expect(token.LPAREN)
	first := p.parseIdentExpr()
	var ident *ast.IdentExpr
	if p.tok == token.IN {
		ident = first
	} else {
		label = first
		ident = p.parseIdentExpr()
	}
	p.expect(token.IN)
	seq := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.ForallStmt{Start: start, Label: label, Ident: ident, Seq: seq, Body: body}
}

func (p *parser) parseFuncDeclStmt() ast.Stmt {
	start := p.expect(token.FUNC)
	name := p.parseIdentExpr()
	sig := p.parseFuncSignature()
	body := p.parseBlock()
	return &ast.FuncDeclStmt{Start: start, Name: name, Sig: sig, Body: body, End: body.End}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	start := p.expect(token.RETURN)
	var value ast.Expr
	if p.tok != token.RBRACE && p.tok != token.EOF {
		value = p.parseExpr()
	}
	return &ast.ReturnStmt{Start: start, Value: value}
}

func (p *parser) parseStopStmt() ast.Stmt {
	start := p.expect(token.STOP)
	label := p.parseOptionalLabel()
	var with ast.Expr
	if p.tok == token.WITH {
		p.advance()
		with = p.parseExpr()
	}
	return &ast.StopStmt{Start: start, Label: label, With: with}
}

func (p *parser) parseLoopStmt() ast.Stmt {
	start := p.expect(token.LOOP)
	label := p.parseOptionalLabel()
	return &ast.LoopStmt{Start: start, Label: label}
}

func (p *parser) parseYieldStmt() ast.Stmt {
	start := p.expect(token.YIELD)
	var value ast.Expr
	if p.tok != token.RBRACE && p.tok != token.EOF {
		value = p.parseExpr()
	}
	return &ast.YieldStmt{Start: start, Value: value}
}

func (p *parser) parseExitStmt() ast.Stmt {
	start := p.val.Pos
	p.advance() // consume `_Exit` ident
	value := p.parseExpr()
	return &ast.ExitStmt{Start: start, Value: value}
}

// parseAssignOrExprStmt parses either `lvalue [@]= expr` (AssignStmt) or a
// bare expression statement, disambiguating after parsing the leading
// expression (spec §4.6: assignment targets are themselves expressions —
// idents, dotted paths, or indexing).
func (p *parser) parseAssignOrExprStmt() ast.Stmt {
	left := p.parseExpr()
	switch p.tok {
	case token.ASSIGN:
		opPos := p.expect(token.ASSIGN)
		right := p.parseExpr()
		return &ast.AssignStmt{Left: left, OpPos: opPos, Right: right}
	case token.ATEQ:
		opPos := p.expect(token.ATEQ)
		right := p.parseExpr()
		return &ast.AssignStmt{Left: left, OpPos: opPos, Shared: true, Right: right}
	default:
		return &ast.ExprStmt{X: left}
	}
}
