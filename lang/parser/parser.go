// Package parser implements TeaScript's recursive-descent, precedence-
// climbing parser (spec §4.6, component C6's parsing half), producing
// lang/ast trees directly from lang/scanner tokens with no separate token
// slice materialized.
//
// Grounded on the teacher's lang/parser package: the init/advance/expect/
// error scaffolding and the panic-mode statement-level error recovery
// (errPanicMode, recovered into a bad statement) are reused in shape.
// ParsePartial/ParsePartialEnd (spec §4.6/§9) are new: they thread an
// explicit *PartialState through repeated calls instead of hidden parser
// globals, per the design note in spec.md §9.
package parser

import (
	"errors"
	"fmt"

	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/scanner"
	"github.com/teascript-go/teascript/lang/token"
)

// ParseChunk parses a complete, self-contained source fragment.
func ParseChunk(filename string, src []byte) (*ast.Chunk, error) {
	var p parser
	p.init(src, 1, scanner.PartialState{})
	ch := p.parseChunk()
	ch.Name = filename
	return ch, p.errors.Err()
}

// ParsePartial parses one fragment of a multi-fragment input (spec §9
// scenario S6, the parse_partial REPL flow): it returns the statements
// parsed so far, the scanner's continuation state, and whether the fragment
// is syntactically complete (false means "feed more input and call again").
func ParsePartial(src []byte, lineOffset int, state scanner.PartialState) (stmts []ast.Stmt, next scanner.PartialState, complete bool, err error) {
	var p parser
	p.init(src, lineOffset, state)
	p.partial = true
	stmts = p.parseStmtListUntil(token.EOF)
	next = p.scanner.State()
	complete = next.BraceDepth == 0 && !next.InRawString
	return stmts, next, complete, p.errors.Err()
}

// ParsePartialEnd finalizes a parse_partial sequence: any outstanding brace
// depth or unterminated raw string is now a hard parsing_error rather than
// "need more input" (spec §9 scenario S6).
func ParsePartialEnd(state scanner.PartialState) error {
	if state.BraceDepth != 0 {
		return errors.New("parsing_error: unexpected end of input, unbalanced '{'")
	}
	if state.InRawString {
		return errors.New("parsing_error: unexpected end of input, unterminated raw string")
	}
	return nil
}

type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	partial bool

	tok token.Token
	val token.Value

	// directives accumulates every `##` line seen so far, in source order.
	// The parser only collects the raw text and otherwise treats directive
	// lines as whitespace; the compiler copies them into Program.Directives.
	// Neither interprets them: there is no minimum_version check and no
	// enable/disable toggling.
	directives []token.Value
}

// Directives returns every `##` directive line collected while parsing.
func (p *parser) Directives() []token.Value { return p.directives }

func (p *parser) init(src []byte, lineOffset int, state scanner.PartialState) {
	p.scanner.Init(src, lineOffset, state, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok, p.val = p.scanner.Scan()
	for p.tok == token.NEWLINE || p.tok == token.SEMI || p.tok == token.DIRECTIVE {
		if p.tok == token.DIRECTIVE {
			p.directives = append(p.directives, p.val)
		}
		p.tok, p.val = p.scanner.Scan()
	}
}

var errPanicMode = errors.New("panic")

func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos
	for _, t := range toks {
		if p.tok == t {
			p.advance()
			return pos
		}
	}
	p.errorExpected(pos, toks)
	panic(errPanicMode)
}

func (p *parser) error(pos token.Pos, msg string) { p.errors.Add(pos, msg) }

func (p *parser) errorExpected(pos token.Pos, toks []token.Token) {
	msg := "expected "
	if len(toks) == 1 {
		msg += toks[0].GoString()
	} else {
		msg += "one of"
		for _, t := range toks {
			msg += " " + t.GoString()
		}
	}
	msg += fmt.Sprintf(", found %s", p.tok.GoString())
	p.error(pos, msg)
}

func tokenIn(tok token.Token, toks ...token.Token) bool {
	for _, t := range toks {
		if tok == t {
			return true
		}
	}
	return false
}
