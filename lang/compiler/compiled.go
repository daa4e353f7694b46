package compiler

import "github.com/teascript-go/teascript/lang/token"

// Param records one function parameter's name and its def-style modifiers
// (spec §4.6 parameter grammar), used by the VM to bind arguments into the
// callee's Context scope (component C5's FIFO parameter queue).
type Param struct {
	Name    string
	Const   bool
	Mutable bool
	Shared  bool
}

// Catch marks a covered instruction range [PC0, PC1) whose runtime errors
// jump to StartPC with the error value available under ErrName, lowering
// the postfix `catch` operator of spec §4.6/§4.9. An entry is appended
// after those of any catch nested inside it, so inner catches come first;
// the VM picks the covering entry with the largest PC0 (the innermost),
// whatever the order.
type Catch struct {
	PC0, PC1 uint32
	StartPC  uint32
	ErrName  string // "" if the handler does not bind the error
}

// Insn is one decoded instruction: an opcode plus its optional argument.
// Unlike the teacher's variable-length varint encoding, TeaScript keeps a
// flat slice of fixed-shape Insn values -- a deliberate simplification
// (spec components C8/C9 ask only for "instructions[]", not a specific wire
// density) that keeps compiler and VM code straightforward to read and step
// through while debugging.
type Insn struct {
	Op  Opcode
	Arg uint32
	Pos token.Pos // source position, for runtime error locations (spec §4.6 debug locations)
}

// Funcode is the compiled code of one function (or the top-level chunk).
// There is no Locals/Cells/Freevars slot table: TeaScript variables are
// resolved dynamically through internal/context at every LOOKUP/ASSIGN
// (see opcode.go's package doc), so the only per-function symbol-table
// information the VM needs is the parameter list used to bind arguments on
// entry.
type Funcode struct {
	Prog    *Program
	Name    string
	Pos     token.Pos
	Code    []Insn
	Params  []Param
	Catches []Catch
}

// Program is a fully compiled chunk: its top-level function, any nested
// function literals, the constant pool and variable-name table they share,
// and the parser's collected `##` directive lines.
type Program struct {
	Toplevel   *Funcode
	Functions  []*Funcode
	Constants  []interface{} // int64 | uint64 | float64 | string | bool
	Names      []string      // interned variable/field names, indexed by LOOKUP/ASSIGN/DOT etc.
	Directives []token.Value
}

func (p *Program) addConstant(v interface{}) uint32 {
	for i, c := range p.Constants {
		if c == v {
			return uint32(i)
		}
	}
	p.Constants = append(p.Constants, v)
	return uint32(len(p.Constants) - 1)
}

func (p *Program) addName(name string) uint32 {
	for i, n := range p.Names {
		if n == name {
			return uint32(i)
		}
	}
	p.Names = append(p.Names, name)
	return uint32(len(p.Names) - 1)
}
