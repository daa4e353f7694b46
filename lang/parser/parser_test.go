package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/parser"
	"github.com/teascript-go/teascript/lang/scanner"
)

func TestParseChunkBasics(t *testing.T) {
	chunk, err := parser.ParseChunk("t.tea", []byte(`
def x := 1
if x > 0 {
    x := x + 1
}
x
`))
	require.NoError(t, err)
	require.NotNil(t, chunk)
	assert.NotEmpty(t, chunk.Block.Stmts)
}

func TestParseChunkSyntaxError(t *testing.T) {
	_, err := parser.ParseChunk("t.tea", []byte(`def x := `))
	assert.Error(t, err)
}

func TestParsePartialIncompleteThenComplete(t *testing.T) {
	stmts, state, complete, err := parser.ParsePartial([]byte("if x > 0 {\n"), 0, scanner.PartialState{})
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Empty(t, stmts)

	stmts, _, complete, err = parser.ParsePartial([]byte("if x > 0 {\n  x := 1\n}\n"), 0, state)
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Len(t, stmts, 1)
}

func TestParsePartialEndOnUnterminated(t *testing.T) {
	_, state, complete, err := parser.ParsePartial([]byte("if x > 0 {\n"), 0, scanner.PartialState{})
	require.NoError(t, err)
	require.False(t, complete)

	err = parser.ParsePartialEnd(state)
	assert.Error(t, err)
}

func TestParseFunctionDecl(t *testing.T) {
	chunk, err := parser.ParseChunk("t.tea", []byte(`
func add(a, b) {
    return a + b
}
`))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	_, ok := chunk.Block.Stmts[0].(*ast.FuncDeclStmt)
	assert.True(t, ok)
}

func TestParseTupleLiteral(t *testing.T) {
	chunk, err := parser.ParseChunk("t.tea", []byte(`(x: 1, y: 2)`))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	exprStmt, ok := chunk.Block.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	tup, ok := exprStmt.X.(*ast.TupleExpr)
	require.True(t, ok)
	assert.Len(t, tup.Items, 2)
}
