package parser

import (
	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/token"
)

// parseChunk parses a whole self-contained source fragment: a sequence of
// statements up to EOF (spec §4.6 grammar root).
func (p *parser) parseChunk() *ast.Chunk {
	start := p.val.Pos
	stmts := p.parseStmtListUntil(token.EOF)
	end := p.val.Pos
	return &ast.Chunk{
		Block:      &ast.Block{Start: start, End: end, Stmts: stmts},
		EOF:        end,
		Directives: p.directives,
	}
}

// parseBlock parses a `{ stmt* }` brace-delimited block. In partial mode
// (ParsePartial, spec §9 scenario S6) running out of input before the
// closing brace is not an error: the caller reads the scanner's BraceDepth
// off the returned PartialState to know more input is needed, instead of
// parseBlock raising a hard "expected }" error on every incomplete
// fragment a REPL feeds in one line at a time.
func (p *parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	stmts := p.parseStmtListUntil(token.RBRACE)
	if p.partial && p.tok == token.EOF {
		return &ast.Block{Start: start, End: p.val.Pos, Stmts: stmts}
	}
	end := p.expect(token.RBRACE)
	return &ast.Block{Start: start, End: end, Stmts: stmts}
}

// parseStmtListUntil parses statements until the given terminator token (or
// EOF) is reached, recovering from malformed statements in panic mode: on
// error, tokens are skipped up to the next statement boundary so the parser
// can keep reporting further errors instead of bailing out entirely
// (grounded on the teacher's panic-mode recovery shape).
func (p *parser) parseStmtListUntil(until token.Token) []ast.Stmt {
	var stmts []ast.Stmt
	for p.tok != until && p.tok != token.EOF {
		stmt := p.parseStmtRecovered()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) parseStmtRecovered() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			stmt = p.recoverToStmtBoundary()
		}
	}()
	return p.parseStmt()
}

// recoverToStmtBoundary skips tokens until it finds one that plausibly
// starts a new statement or a block/chunk terminator, returning a BadStmt
// spanning the skipped range.
func (p *parser) recoverToStmtBoundary() ast.Stmt {
	start := p.val.Pos
	for !tokenIn(p.tok, token.EOF, token.RBRACE) && !startsStmt(p.tok) {
		p.advance()
	}
	return &ast.BadStmt{Start: start, End: p.val.Pos}
}

func startsStmt(tok token.Token) bool {
	switch tok {
	case token.DEF, token.CONST, token.UNDEF, token.DEBUG, token.IF, token.REPEAT,
		token.FORALL, token.FUNC, token.RETURN, token.STOP, token.LOOP,
		token.SUSPEND, token.YIELD:
		return true
	default:
		return false
	}
}
