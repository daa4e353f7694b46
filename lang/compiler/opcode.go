package compiler

import "fmt"

// Version is bumped whenever the instruction encoding changes, to force
// recompilation of anything that cached a Program.
const Version = 0

// Opcode is one bytecode instruction kind. Stack pictures in the comments
// follow the teacher's "x y OP z" convention: values left of OP are popped,
// values right of OP are pushed.
//
// Unlike the teacher's Starlark-family VM, TeaScript variables are dynamic
// (spec §4.5, component C5): there is no compile-time slot resolution for
// locals/freevars. Every variable opcode below carries a name (an index
// into Program.Names) and is serviced at runtime by internal/context,
// which performs the scope walk. This keeps the VM's observable semantics
// identical across optimization levels by construction, at the cost of the
// array-indexed-locals speedup the teacher's resolver buys (see DESIGN.md).
type Opcode uint8

const ( //nolint:revive
	NOP Opcode = iota

	DUP  //   x DUP x x
	POP  //   x POP -
	EXCH // x y EXCH y x

	// binary comparisons (order matches token.Token LT..GE)
	LT
	LE
	GT
	GE
	EQL
	NEQ

	// binary arithmetic (order matches token.Token PLUS..PERCENT)
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	// bitwise binary ops
	BITAND
	BITOR
	BITXOR
	BITLSH
	BITRSH

	// unary operators
	UMINUS     // x UMINUS -x
	NOT        // x NOT    bool
	BITNOT     // x BITNOT ~x
	SHARECOUNT // x SHARECOUNT n - n is the number of live bindings sharing x's cell, or 1 if unshared

	TRUE  // - TRUE True
	FALSE // - FALSE False

	RETURN   //     value RETURN -
	SETINDEX //   a i new SETINDEX -       a may be a tuple/array/record
	INDEX    //       a i INDEX   elem
	ENTERSCOPE //        - ENTERSCOPE -    push a new Context scope
	EXITSCOPE  //        - EXITSCOPE  -    pop the current Context scope

	TYPEOF   //            x TYPEOF   string
	TYPENAME //            x TYPENAME string

	DEBUG // value DEBUG - forwards value to the host debug sink, then discards it
	EXIT  // value EXIT  - unwinds every enclosing scope and leaves via the host's distinguished exit path

	IN        // elem seq IN bool - membership test over a tuple/array/IntegerSequence/string
	ISTYPE    // x typename ISTYPE bool  - typename is a string naming a runtime type
	ASTYPE    // x typename ASTYPE y     - bad_value_cast error if x cannot convert to typename
	SAMECELL  // x y SAMECELL bool       - true iff x and y are shared and back onto the same cell

	// --- opcodes with an argument go below this line ---

	JMP  //    - JMP<addr>     -
	CJMP // cond CJMP<addr>    -       pops cond, jumps if false

	CONSTANT  //                - CONSTANT<constant>  value
	MAKETUPLE // k1 x1..kn xn MAKETUPLE<n>           tuple  each k is a key string or NaV
	MAKEFUNC  //                - MAKEFUNC<func>       fn (closes over current scope)

	LOOKUP      //          - LOOKUP<name>           value
	DEFLOCAL    //      value DEFLOCAL<name>         -     def/const, flags in arg
	DEFSHARED   //      value DEFSHARED<name>        -     @= binding
	ASSIGN      //      value ASSIGN<name>           -     := to existing target
	ASSIGNSHARED//      value ASSIGNSHARED<name>     -     @= to existing target
	UNDEF       //          - UNDEF<name>            -
	ISDEFINED   //          - ISDEFINED<name>         bool
	DOT         //          x DOT<name>              y     y = x.name
	SETDOT      //        x y SETDOT<name>           -     x.name = y

	ITERPUSH //   seq ITERPUSH     -   pushes onto the iterator stack
	ITERPOP  //     - ITERPOP      -   pops the iterator stack
	ITERJMP  //     - ITERJMP<addr> elem  and falls through, or jumps to addr when exhausted

	SUSPEND //     - SUSPEND        v   suspend coroutine; on resume, push the resume value
	YIELD   // value YIELD          v   yield value; on resume, push the resume value

	// n is the number of positional arguments.
	CALL

	OpcodeArgMin = JMP
	OpcodeMax    = CALL
)

var opcodeNames = [...]string{
	NOP: "nop", DUP: "dup", POP: "pop", EXCH: "exch",
	LT: "lt", LE: "le", GT: "gt", GE: "ge", EQL: "eql", NEQ: "neq",
	PLUS: "plus", MINUS: "minus", STAR: "star", SLASH: "slash", PERCENT: "percent",
	BITAND: "bitand", BITOR: "bitor", BITXOR: "bitxor", BITLSH: "bitlsh", BITRSH: "bitrsh",
	UMINUS: "uminus", NOT: "not", BITNOT: "bitnot", SHARECOUNT: "sharecount",
	TRUE: "true", FALSE: "false",
	RETURN: "return", SETINDEX: "setindex", INDEX: "index",
	ENTERSCOPE: "enterscope", EXITSCOPE: "exitscope",
	JMP: "jmp", CJMP: "cjmp",
	CONSTANT: "constant", MAKETUPLE: "maketuple", MAKEFUNC: "makefunc",
	LOOKUP: "lookup", DEFLOCAL: "deflocal", DEFSHARED: "defshared",
	ASSIGN: "assign", ASSIGNSHARED: "assignshared",
	UNDEF: "undef", ISDEFINED: "isdefined", DOT: "dot", SETDOT: "setdot",
	TYPEOF: "typeof", TYPENAME: "typename",
	DEBUG: "debug", EXIT: "exit",
	IN: "in", ISTYPE: "istype", ASTYPE: "astype", SAMECELL: "samecell",
	ITERPUSH: "iterpush", ITERPOP: "iterpop", ITERJMP: "iterjmp",
	SUSPEND: "suspend", YIELD: "yield",
	CALL: "call",
}

var reverseLookupOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, s := range opcodeNames {
		if s != "" {
			m[s] = Opcode(op)
		}
	}
	return m
}()

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

func (op Opcode) HasArg() bool { return op >= OpcodeArgMin }

// DefFlags packs DefStmt/ParamDecl modifiers into a DEFLOCAL/DEFSHARED
// instruction's argument alongside the name index (spec §4.5).
type DefFlags uint32

const (
	FlagConst DefFlags = 1 << iota
	FlagMutable
	FlagSharedAssign
)

// EncodeDefArg packs a name index (into Program.Names) and def flags into a
// single instruction argument: low 24 bits name index, high 8 bits flags.
func EncodeDefArg(nameIdx uint32, flags DefFlags) uint32 {
	return nameIdx | (uint32(flags) << 24)
}

// DecodeDefArg is the inverse of EncodeDefArg.
func DecodeDefArg(arg uint32) (nameIdx uint32, flags DefFlags) {
	return arg & 0x00ffffff, DefFlags(arg >> 24)
}
