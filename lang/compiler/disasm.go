package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders fn's instructions as text, one per line, in the
// `pc  op  arg` shape the teacher's debugging tools use -- useful for
// snapshot tests and for inspecting what a given program compiled to.
func Disassemble(fn *Funcode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s\n", fn.Name)
	for pc, insn := range fn.Code {
		if insn.Op.HasArg() {
			fmt.Fprintf(&b, "%4d\t%s\t%d\n", pc, insn.Op, insn.Arg)
		} else {
			fmt.Fprintf(&b, "%4d\t%s\n", pc, insn.Op)
		}
	}
	return b.String()
}

// ParseOpcodeName looks up an Opcode by its textual mnemonic (the inverse of
// Opcode.String), used by tests that assert on disassembly text.
func ParseOpcodeName(name string) (Opcode, bool) {
	op, ok := reverseLookupOpcode[name]
	return op, ok
}
