// Package compiler lowers lang/ast trees into the flat bytecode form
// consumed by lang/vm (spec §4.6, component C8): per-function instruction
// slices, a shared constant pool, an interned name table standing in for a
// symbol table, and per-instruction source positions for runtime error
// reporting.
//
// Grounded on the teacher's lang/compiler package for the overall shape
// (one Funcode per function, a Program tying them together, block
// statements linearized into a flat instruction slice with patched jump
// targets). There is no resolver-style pre-pass: names are interned into
// the name table during code generation, since component C5's Context
// resolves names dynamically at runtime rather than through compile-time
// slot allocation (see opcode.go's package doc).
package compiler

import (
	"fmt"

	"github.com/teascript-go/teascript/lang/ast"
	"github.com/teascript-go/teascript/lang/token"
)

// Level selects an optimization level. All three must produce identical
// observable results (spec §4.6); O1/O2 are reserved for future peephole
// and dynamic-to-static name resolution passes (see DESIGN.md) and
// presently compile identically to O0.
type Level int

const (
	O0 Level = iota
	O1
	O2
)

// Compile lowers a parsed chunk into a Program.
func Compile(chunk *ast.Chunk, level Level) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(compileError); ok {
				err = fmt.Errorf("%s: %s", ce.pos, ce.msg)
				return
			}
			panic(r)
		}
	}()

	prog = &Program{}
	for _, d := range chunk.Directives {
		prog.Directives = append(prog.Directives, d)
	}

	c := &funcCompiler{prog: prog, level: level}
	top := &Funcode{Prog: prog, Name: "<main>"}
	c.fn = top
	c.compileBlockExpr(chunk.Block, chunk.EOF)
	c.emit(RETURN, 0, chunk.EOF)
	top.Code = c.code
	prog.Toplevel = top
	return prog, nil
}

type compileError struct {
	pos token.Pos
	msg string
}

func fail(pos token.Pos, format string, args ...interface{}) {
	panic(compileError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

// loopCtx tracks one enclosing repeat/forall for stop/loop resolution.
type loopCtx struct {
	label      string
	breakJumps []int // indices into code needing their Arg patched to the loop's end address
	continueAt int    // address to jump back to for `loop`
}

type funcCompiler struct {
	prog  *Program
	level Level
	fn    *Funcode
	code  []Insn
	loops []loopCtx
}

func (c *funcCompiler) emit(op Opcode, arg uint32, pos token.Pos) int {
	c.code = append(c.code, Insn{Op: op, Arg: arg, Pos: pos})
	return len(c.code) - 1
}

func (c *funcCompiler) patchJump(idx int) { c.code[idx].Arg = uint32(len(c.code)) }

func (c *funcCompiler) nameIdx(name string) uint32 { return c.prog.addName(name) }

// compileBlock compiles a sequence of statements in place (no new scope is
// pushed here; callers that need one emit ENTERSCOPE/EXITSCOPE themselves).
func (c *funcCompiler) compileBlock(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.compileStmt(stmt)
	}
}

// compileScopedBlock compiles a block wrapped in its own Context scope,
// used for if/repeat/forall/function bodies (spec §4.5 scope-stack model).
func (c *funcCompiler) compileScopedBlock(b *ast.Block, pos token.Pos) {
	c.emit(ENTERSCOPE, 0, pos)
	c.compileBlock(b)
	c.emit(EXITSCOPE, 0, pos)
}

// compileSuspendExpr emits SUSPEND bare, leaving the resume value on the
// stack for the caller to consume (compileStmt pops it immediately;
// compileBlockExpr's last-statement case lets it stand as the block's
// value instead).
func (c *funcCompiler) compileSuspendExpr(s *ast.SuspendStmt) {
	c.emit(SUSPEND, 0, s.Start)
}

// compileYieldExpr emits YIELD bare, mirroring compileSuspendExpr.
func (c *funcCompiler) compileYieldExpr(s *ast.YieldStmt, pos token.Pos) {
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.emit(CONSTANT, c.prog.addConstant(nil), pos)
	}
	c.emit(YIELD, 0, pos)
}

// compileBlockExpr compiles b the way compileBlock does, except the last
// statement's value becomes the block's own value instead of being
// discarded: an *ast.ExprStmt's expression is left on the stack uncompiled
// away by the usual trailing POP, a suspend/yield resumes with exactly one
// value pushed and that value is left as-is (compileStmt's usual trailing
// POP is skipped for these two), and any other kind of last statement that
// does not already leave its own value on the stack (spec §4.6:
// return/stop/loop/_Exit never fall through) is followed by an implicit
// `nil`. Used for a function body's implicit return value (spec §4.7) and a
// `catch` handler's result.
func (c *funcCompiler) compileBlockExpr(b *ast.Block, pos token.Pos) {
	n := len(b.Stmts)
	if n == 0 {
		c.emit(CONSTANT, c.prog.addConstant(nil), pos)
		return
	}
	for _, stmt := range b.Stmts[:n-1] {
		c.compileStmt(stmt)
	}
	switch last := b.Stmts[n-1].(type) {
	case *ast.ExprStmt:
		c.compileExpr(last.X)
		return
	case *ast.SuspendStmt:
		c.compileSuspendExpr(last)
		return
	case *ast.YieldStmt:
		lastPos, _ := last.Span()
		c.compileYieldExpr(last, lastPos)
		return
	default:
		c.compileStmt(last)
		if !last.BlockEnding() {
			c.emit(CONSTANT, c.prog.addConstant(nil), pos)
		}
	}
}

func (c *funcCompiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.DefStmt:
		c.compileDefStmt(s)
	case *ast.AssignStmt:
		c.compileAssignStmt(s)
	case *ast.UndefStmt:
		pos, _ := s.Span()
		c.emit(UNDEF, c.nameIdx(s.Name.Lit), pos)
	case *ast.DebugStmt:
		pos, _ := s.Span()
		c.compileExpr(s.Value)
		c.emit(DEBUG, 0, pos)
	case *ast.ExprStmt:
		pos, _ := s.Span()
		c.compileExpr(s.X)
		c.emit(POP, 0, pos)
	case *ast.IfStmt:
		c.compileIfStmt(s)
	case *ast.RepeatStmt:
		c.compileRepeatStmt(s)
	case *ast.ForallStmt:
		c.compileForallStmt(s)
	case *ast.FuncDeclStmt:
		c.compileFuncDeclStmt(s)
	case *ast.ReturnStmt:
		pos, _ := s.Span()
		if s.Value != nil {
			c.compileExpr(s.Value)
		} else {
			c.emit(CONSTANT, c.prog.addConstant(nil), pos)
		}
		c.emit(RETURN, 0, pos)
	case *ast.StopStmt:
		c.compileStopStmt(s)
	case *ast.LoopStmt:
		c.compileLoopStmt(s)
	case *ast.SuspendStmt:
		c.compileSuspendExpr(s)
		c.emit(POP, 0, s.Start)
	case *ast.YieldStmt:
		pos, _ := s.Span()
		c.compileYieldExpr(s, pos)
		c.emit(POP, 0, pos)
	case *ast.ExitStmt:
		pos, _ := s.Span()
		c.compileExpr(s.Value)
		c.emit(EXIT, 0, pos)
	case *ast.BadStmt:
		fail(s.Start, "cannot compile a malformed statement")
	default:
		pos, _ := stmt.Span()
		fail(pos, "unsupported statement node %T", stmt)
	}
}

func (c *funcCompiler) compileDefStmt(s *ast.DefStmt) {
	pos, _ := s.Span()
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.emit(CONSTANT, c.prog.addConstant(nil), pos)
	}
	var flags DefFlags
	if s.Const {
		flags |= FlagConst
	}
	if s.Mutable {
		flags |= FlagMutable
	}
	arg := EncodeDefArg(c.nameIdx(s.Name.Lit), flags)
	if s.Shared {
		c.emit(DEFSHARED, arg, pos)
	} else {
		c.emit(DEFLOCAL, arg, pos)
	}
}

// compileAssignStmt handles `target := expr` / `target @= expr` for every
// assignable target shape (spec §4.6 IsAssignable): plain identifiers,
// `.field` selectors, and `[index]` expressions.
func (c *funcCompiler) compileAssignStmt(s *ast.AssignStmt) {
	pos, _ := s.Span()
	if !ast.IsAssignable(s.Left) {
		fail(pos, "left-hand side of assignment is not assignable")
	}
	switch left := ast.Unwrap(s.Left).(type) {
	case *ast.IdentExpr:
		c.compileExpr(s.Right)
		idx := c.nameIdx(left.Lit)
		if s.Shared {
			c.emit(ASSIGNSHARED, idx, pos)
		} else {
			c.emit(ASSIGN, idx, pos)
		}
	case *ast.DotExpr:
		c.compileExpr(left.Left)
		c.compileExpr(s.Right)
		c.emit(SETDOT, c.nameIdx(left.Right.Lit), pos)
	case *ast.IndexExpr:
		c.compileExpr(left.Prefix)
		c.compileExpr(left.Index)
		c.compileExpr(s.Right)
		c.emit(SETINDEX, 0, pos)
	default:
		fail(pos, "unsupported assignment target")
	}
}

func (c *funcCompiler) compileIfStmt(s *ast.IfStmt) {
	c.compileExpr(s.Cond)
	cjmp := c.emit(CJMP, 0, s.Start)
	c.compileScopedBlock(s.Then, s.Start)
	if s.Else == nil {
		c.patchJump(cjmp)
		return
	}
	jmp := c.emit(JMP, 0, s.Start)
	c.patchJump(cjmp)
	switch e := s.Else.(type) {
	case *ast.Block:
		c.compileScopedBlock(e, s.Start)
	default:
		c.compileStmt(e)
	}
	c.patchJump(jmp)
}

func (c *funcCompiler) compileRepeatStmt(s *ast.RepeatStmt) {
	label := ""
	if s.Label != nil {
		label = s.Label.Lit
	}
	start := len(c.code)
	c.loops = append(c.loops, loopCtx{label: label, continueAt: start})
	c.emit(ENTERSCOPE, 0, s.Start)
	c.compileBlock(s.Body)
	c.emit(EXITSCOPE, 0, s.Start)
	c.emit(JMP, uint32(start), s.Start)

	lp := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	for _, idx := range lp.breakJumps {
		c.patchJump(idx)
	}
}

// compileForallStmt lowers `forall ([label] id in seq) { body }` using the
// iterator-stack opcodes (spec §4.6), binding id fresh in its own scope
// each iteration so closures created in the body capture distinct values.
func (c *funcCompiler) compileForallStmt(s *ast.ForallStmt) {
	label := ""
	if s.Label != nil {
		label = s.Label.Lit
	}
	c.compileExpr(s.Seq)
	c.emit(ITERPUSH, 0, s.Start)

	start := len(c.code)
	c.loops = append(c.loops, loopCtx{label: label, continueAt: start})
	iterjmp := c.emit(ITERJMP, 0, s.Start)
	c.emit(ENTERSCOPE, 0, s.Start)
	c.emit(DEFLOCAL, EncodeDefArg(c.nameIdx(s.Ident.Lit), 0), s.Start)
	c.compileBlock(s.Body)
	c.emit(EXITSCOPE, 0, s.Start)
	c.emit(JMP, uint32(start), s.Start)
	c.patchJump(iterjmp)
	c.emit(ITERPOP, 0, s.Start)

	lp := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	for _, idx := range lp.breakJumps {
		c.patchJump(idx)
	}
}

func (c *funcCompiler) findLoop(label string) (int, bool) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if label == "" || c.loops[i].label == label {
			return i, true
		}
	}
	return 0, false
}

func (c *funcCompiler) compileStopStmt(s *ast.StopStmt) {
	label := ""
	if s.Label != nil {
		label = s.Label.Lit
	}
	i, ok := c.findLoop(label)
	if !ok {
		fail(s.Start, "stop outside of a repeat/forall loop")
	}
	if s.With != nil {
		// repeat/forall are statements, not expressions, in this dialect: the
		// with-value has no destination to propagate to, so it is evaluated
		// (for its side effects and to surface errors at the right position)
		// and discarded. See DESIGN.md.
		c.compileExpr(s.With)
		c.emit(POP, 0, s.Start)
	}
	jmp := c.emit(JMP, 0, s.Start)
	c.loops[i].breakJumps = append(c.loops[i].breakJumps, jmp)
}

func (c *funcCompiler) compileLoopStmt(s *ast.LoopStmt) {
	label := ""
	if s.Label != nil {
		label = s.Label.Lit
	}
	i, ok := c.findLoop(label)
	if !ok {
		fail(s.Start, "loop outside of a repeat/forall loop")
	}
	c.emit(JMP, uint32(c.loops[i].continueAt), s.Start)
}

func (c *funcCompiler) compileFuncDeclStmt(s *ast.FuncDeclStmt) {
	idx := c.compileFuncLiteral(s.Sig, s.Body, s.Start, s.Name.Lit)
	c.emit(MAKEFUNC, idx, s.Start)
	c.emit(DEFLOCAL, EncodeDefArg(c.nameIdx(s.Name.Lit), 0), s.Start)
}

// compileFuncLiteral compiles a nested function body into its own Funcode,
// appends it to the program's function table, and returns its index (used
// as MAKEFUNC's argument).
func (c *funcCompiler) compileFuncLiteral(sig *ast.FuncSignature, body *ast.Block, pos token.Pos, name string) uint32 {
	fn := &Funcode{Prog: c.prog, Name: name, Pos: pos}
	for _, p := range sig.Params {
		fn.Params = append(fn.Params, Param{Name: p.Name.Lit, Const: p.Const, Mutable: p.Mutable, Shared: p.Shared})
	}

	nested := &funcCompiler{prog: c.prog, level: c.level, fn: fn}
	nested.compileBlockExpr(body, pos)
	nested.emit(RETURN, 0, pos)
	fn.Code = nested.code

	c.prog.Functions = append(c.prog.Functions, fn)
	return uint32(len(c.prog.Functions) - 1)
}

func (c *funcCompiler) compileExpr(e ast.Expr) {
	pos, _ := e.Span()
	switch x := e.(type) {
	case *ast.LiteralExpr:
		c.compileLiteral(x, pos)
	case *ast.IdentExpr:
		c.emit(LOOKUP, c.nameIdx(x.Lit), pos)
	case *ast.TupleExpr:
		c.compileTupleExpr(x, pos)
	case *ast.BinOpExpr:
		c.compileBinOpExpr(x, pos)
	case *ast.UnaryOpExpr:
		c.compileUnaryOpExpr(x, pos)
	case *ast.CallExpr:
		c.compileExpr(x.Fn)
		for _, a := range x.Args {
			c.compileExpr(a)
		}
		c.emit(CALL, uint32(len(x.Args)), pos)
	case *ast.DotExpr:
		c.compileExpr(x.Left)
		c.emit(DOT, c.nameIdx(x.Right.Lit), pos)
	case *ast.IndexExpr:
		c.compileExpr(x.Prefix)
		c.compileExpr(x.Index)
		c.emit(INDEX, 0, pos)
	case *ast.ParenExpr:
		c.compileExpr(x.Expr)
	case *ast.FuncExpr:
		idx := c.compileFuncLiteral(x.Sig, x.Body, pos, "")
		c.emit(MAKEFUNC, idx, pos)
	case *ast.CatchExpr:
		c.compileCatchExpr(x, pos)
	case *ast.InterpExpr:
		c.compileInterpExpr(x, pos)
	case *ast.TypeOfExpr:
		c.compileTypeOfExpr(x, pos)
	case *ast.IsDefinedExpr:
		c.emit(ISDEFINED, c.nameIdx(x.Ident.Lit), pos)
	case *ast.BadExpr:
		fail(x.Start, "cannot compile a malformed expression")
	default:
		fail(pos, "unsupported expression node %T", e)
	}
}

func (c *funcCompiler) compileLiteral(x *ast.LiteralExpr, pos token.Pos) {
	switch x.Type {
	case token.TRUE:
		c.emit(TRUE, 0, pos)
	case token.FALSE:
		c.emit(FALSE, 0, pos)
	default:
		c.emit(CONSTANT, c.prog.addConstant(x.Value), pos)
	}
}

func (c *funcCompiler) compileTupleExpr(x *ast.TupleExpr, pos token.Pos) {
	for _, item := range x.Items {
		if item.Key != nil {
			c.emit(CONSTANT, c.prog.addConstant(item.Key.Lit), pos)
		} else {
			c.emit(CONSTANT, c.prog.addConstant(nil), pos)
		}
		c.compileExpr(item.Value)
	}
	c.emit(MAKETUPLE, uint32(len(x.Items)), pos)
}

var binOpcodes = map[token.Token]Opcode{
	token.PLUS: PLUS, token.MINUS: MINUS, token.STAR: STAR, token.SLASH: SLASH,
	token.PERCENT: PERCENT, token.MOD: PERCENT,
	token.LT: LT, token.LE: LE, token.GT: GT, token.GE: GE,
	token.LT_KW: LT, token.LE_KW: LE, token.GT_KW: GT, token.GE_KW: GE,
	token.EQ: EQL, token.NE: NEQ, token.EQ_KW: EQL, token.NE_KW: NEQ,
	token.BIT_AND: BITAND, token.BIT_OR: BITOR, token.BIT_XOR: BITXOR,
	token.BIT_LSH: BITLSH, token.BIT_RSH: BITRSH,
}

func (c *funcCompiler) compileBinOpExpr(x *ast.BinOpExpr, pos token.Pos) {
	switch x.Type {
	case token.AND:
		c.compileExpr(x.Left)
		c.emit(DUP, 0, pos)
		cjmp := c.emit(CJMP, 0, pos)
		c.emit(POP, 0, pos)
		c.compileExpr(x.Right)
		c.patchJump(cjmp)
		return
	case token.OR:
		c.compileExpr(x.Left)
		c.emit(DUP, 0, pos)
		c.emit(NOT, 0, pos)
		cjmp := c.emit(CJMP, 0, pos)
		c.emit(POP, 0, pos)
		c.compileExpr(x.Right)
		c.patchJump(cjmp)
		return
	case token.IS:
		c.compileExpr(x.Left)
		c.compileExpr(x.Right)
		c.emit(ISTYPE, 0, pos)
		return
	case token.IN:
		c.compileExpr(x.Left)
		c.compileExpr(x.Right)
		c.emit(IN, 0, pos)
		return
	case token.AS:
		c.compileExpr(x.Left)
		c.compileExpr(x.Right)
		c.emit(ASTYPE, 0, pos)
		return
	case token.ATAT:
		c.compileExpr(x.Left)
		c.compileExpr(x.Right)
		c.emit(SAMECELL, 0, pos)
		return
	}
	op, ok := binOpcodes[x.Type]
	if !ok {
		fail(pos, "unsupported binary operator %s", x.Type)
	}
	c.compileExpr(x.Left)
	c.compileExpr(x.Right)
	c.emit(op, 0, pos)
}

func (c *funcCompiler) compileUnaryOpExpr(x *ast.UnaryOpExpr, pos token.Pos) {
	c.compileExpr(x.Right)
	switch x.Type {
	case token.MINUS:
		c.emit(UMINUS, 0, pos)
	case token.NOT:
		c.emit(NOT, 0, pos)
	case token.BIT_NOT:
		c.emit(BITNOT, 0, pos)
	case token.ATQUESTION:
		c.emit(SHARECOUNT, 0, pos)
	default:
		fail(pos, "unsupported unary operator %s", x.Type)
	}
}

// compileCatchExpr lowers the postfix `expr catch [(err)] { handler }`
// operator (spec §4.6/§4.9) to a covered instruction range: the VM jumps to
// the handler's start address on any runtime error raised while executing
// Try, with the error value available to bind to ErrName. The error binds
// into the *current* scope, not a fresh nested one (spec §9 open question:
// the source this was distilled from does the same).
func (c *funcCompiler) compileCatchExpr(x *ast.CatchExpr, pos token.Pos) {
	pc0 := len(c.code)
	c.compileExpr(x.Try)
	jmp := c.emit(JMP, 0, pos)
	pc1 := len(c.code)
	startPC := len(c.code)

	errName := ""
	if x.ErrName != nil {
		errName = x.ErrName.Lit
		c.emit(DEFLOCAL, EncodeDefArg(c.nameIdx(errName), 0), pos)
	} else {
		c.emit(POP, 0, pos)
	}
	c.compileBlockExpr(x.Handler, pos)
	if errName != "" {
		c.emit(UNDEF, c.nameIdx(errName), pos)
	}
	c.patchJump(jmp)

	c.fn.Catches = append(c.fn.Catches, Catch{PC0: uint32(pc0), PC1: uint32(pc1), StartPC: uint32(startPC), ErrName: errName})
}

// compileInterpExpr lowers `"text %(expr) more"` by concatenating literal
// segments and stringified expression results (spec §4.6).
func (c *funcCompiler) compileInterpExpr(x *ast.InterpExpr, pos token.Pos) {
	first := true
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			c.compileExpr(seg.Expr)
		} else {
			c.emit(CONSTANT, c.prog.addConstant(seg.Text), pos)
		}
		if first {
			first = false
			continue
		}
		c.emit(PERCENT, 0, pos) // string-concat via the `%` binary operator, resolved dynamically by the VM on string operands
	}
	if first {
		c.emit(CONSTANT, c.prog.addConstant(""), pos)
	}
}

func (c *funcCompiler) compileTypeOfExpr(x *ast.TypeOfExpr, pos token.Pos) {
	c.compileExpr(x.Right)
	if x.Name {
		c.emit(TYPENAME, 0, pos)
	} else {
		c.emit(TYPEOF, 0, pos)
	}
}
