package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/lang/compiler"
	"github.com/teascript-go/teascript/lang/parser"
)

func compile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	chunk, err := parser.ParseChunk("t.tea", []byte(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, compiler.O0)
	require.NoError(t, err)
	return prog
}

func opcodes(fc *compiler.Funcode) []compiler.Opcode {
	ops := make([]compiler.Opcode, len(fc.Code))
	for i, insn := range fc.Code {
		ops[i] = insn.Op
	}
	return ops
}

func containsOp(ops []compiler.Opcode, op compiler.Opcode) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func TestCompileArithmeticEmitsBinOp(t *testing.T) {
	prog := compile(t, `1 + 2`)
	ops := opcodes(prog.Toplevel)
	assert.True(t, containsOp(ops, compiler.PLUS))
	assert.True(t, containsOp(ops, compiler.CONSTANT))
}

func TestCompileTupleLiteralEmitsMaketuple(t *testing.T) {
	prog := compile(t, `(x: 1, y: 2)`)
	ops := opcodes(prog.Toplevel)
	assert.True(t, containsOp(ops, compiler.MAKETUPLE))
}

func TestCompileFuncDeclRegistersFunction(t *testing.T) {
	prog := compile(t, `
func add(a, b) {
    return a + b
}
`)
	require.Len(t, prog.Functions, 1)
	fc := prog.Functions[0]
	assert.Equal(t, "add", fc.Name)
	require.Len(t, fc.Params, 2)
	assert.Equal(t, "a", fc.Params[0].Name)
	assert.Equal(t, "b", fc.Params[1].Name)
	assert.True(t, containsOp(opcodes(fc), compiler.RETURN))
}

func TestCompileCatchEmitsCoveredRange(t *testing.T) {
	prog := compile(t, `
def result := (1 / 0) catch (err) {
    -1
}
`)
	require.NotEmpty(t, prog.Toplevel.Catches)
	c := prog.Toplevel.Catches[0]
	assert.Equal(t, "err", c.ErrName)
	assert.Less(t, c.PC0, c.PC1)
}

func TestCompileDebugExprEmitsDebugOpcode(t *testing.T) {
	prog := compile(t, `debug 1 + 1`)
	ops := opcodes(prog.Toplevel)
	assert.True(t, containsOp(ops, compiler.DEBUG))
}

func TestCompileExitEmitsExitOpcode(t *testing.T) {
	prog := compile(t, `_Exit 1`)
	ops := opcodes(prog.Toplevel)
	assert.True(t, containsOp(ops, compiler.EXIT))
}

func TestCompileSyntaxErrorPropagates(t *testing.T) {
	chunk, err := parser.ParseChunk("t.tea", []byte(`def x := `))
	require.Error(t, err)
	_ = chunk
}
