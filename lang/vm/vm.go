package vm

import (
	"fmt"

	"github.com/teascript-go/teascript/internal/context"
	"github.com/teascript-go/teascript/internal/tuple"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/compiler"
)

// SignalKind tags what a Thread's step channel delivered: the program ran to
// completion, suspended, yielded a value, or hit `_Exit` (spec §9's
// StepResult = Value | Signal design note, realized here as channel
// messages rather than a Go-level return type, since suspend/yield must be
// able to resume an arbitrarily deep nested call -- see Signal doc below).
type SignalKind int

const (
	SigDone SignalKind = iota
	SigSuspended
	SigYielded
	SigExited
)

// Signal is what a running Thread sends back to its driver (the coroutine
// package's Engine) whenever it stops running, for any reason.
type Signal struct {
	Kind  SignalKind
	Value value.Value
	Err   error
}

// exitSignal unwinds every enclosing scope and call frame via a Go panic,
// since `_Exit` (spec §4.6/§7) must skip every intervening `catch` the way a
// runtime error would not -- catches are matched explicitly against the
// covered-PC-range table in run(), so a plain panic bypasses them entirely
// and is only ever recovered at the Thread's outermost entry point.
type exitSignal struct{ value value.Value }

// Thread drives one program's execution: a Context (component C5), step and
// call-depth budgets, and -- when SUSPEND/YIELD are reached -- a pair of
// channels used to hand control back to whatever goroutine is driving it.
// Every Thread method that blocks on these channels must be called from the
// goroutine Start (or Resume) launched, mirroring a classic Go
// generator-over-channels pattern: the goroutine's own stack is the
// coroutine's saved continuation, so no bytecode-level state capture is
// needed across a suspend/resume boundary.
type Thread struct {
	Ctx          *context.Context
	Debug        func(value.Value) // host sink for `debug expr`; no-op if nil
	MaxSteps     uint64            // 0 means unlimited
	MaxCallDepth int               // 0 means unlimited

	steps     uint64
	callDepth int

	resultCh chan Signal
	resumeCh chan value.Value
}

// NewThread creates a Thread bound to ctx.
func NewThread(ctx *context.Context) *Thread {
	return &Thread{Ctx: ctx, resultCh: make(chan Signal), resumeCh: make(chan value.Value)}
}

// Start begins executing fn(args) on a dedicated goroutine and returns the
// first Signal it produces (SigDone on a normal return, SigExited on
// `_Exit`, or SigSuspended/SigYielded if the body reaches one first).
func (th *Thread) Start(fn Callable, args []value.Value) Signal {
	go func() {
		v, exited, err := th.runTop(fn, args)
		kind := SigDone
		if exited {
			kind = SigExited
		}
		th.resultCh <- Signal{Kind: kind, Value: v, Err: err}
	}()
	return <-th.resultCh
}

// Resume hands resumeValue back to a suspended/yielded Thread (it becomes
// the result of the `suspend`/`yield` expression) and returns the next
// Signal produced.
func (th *Thread) Resume(resumeValue value.Value) Signal {
	th.resumeCh <- resumeValue
	return <-th.resultCh
}

// runTop recovers the exitSignal panic `_Exit` raises, reporting it to the
// caller as (value, exited=true, nil) rather than as an error, since
// `_Exit` is a control-flow signal (spec §4.6/§7), not a runtime failure.
func (th *Thread) runTop(fn Callable, args []value.Value) (v value.Value, exited bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if es, ok := r.(*exitSignal); ok {
				v, exited, err = es.value, true, nil
				return
			}
			panic(r)
		}
	}()
	v, err = fn.Call(th, args)
	return v, false, err
}

func (th *Thread) call(fn *Function, args []value.Value) (value.Value, error) {
	if th.MaxCallDepth > 0 && th.callDepth >= th.MaxCallDepth {
		return value.Value{}, fmt.Errorf("call stack depth exceeded (%d)", th.MaxCallDepth)
	}
	th.callDepth++
	defer func() { th.callDepth-- }()

	th.Ctx.EnterScope()
	defer th.Ctx.ExitScope() //nolint:errcheck // ExitScope only fails for the (unreachable here) global scope

	if err := bindParams(th.Ctx, fn.Funcode.Params, args); err != nil {
		return value.Value{}, err
	}
	return th.run(fn)
}

// bindParams consumes args into the current scope's parameter queue per
// spec §4.5/§4.7: "bind parameters by consuming the queue in order
// (respecting param modifiers)". Surplus or missing arguments are a runtime
// error; TeaScript has no variadic parameter form.
func bindParams(ctx *context.Context, params []compiler.Param, args []value.Value) error {
	if len(args) != len(params) {
		return fmt.Errorf("function accepts %d argument(s), %d given", len(params), len(args))
	}
	vs := make([]value.Value, len(args))
	copy(vs, args)
	ctx.SetParamList(vs)
	for _, p := range params {
		v, err := ctx.ConsumeParam()
		if err != nil {
			return err
		}
		if p.Shared {
			v = v.MakeShared()
		}
		v = v.WithConst(p.Const)
		if err := ctx.Add(p.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// opStack is a simple growable value stack; the compiler does not track a
// per-function maximum stack depth (lang/compiler/compiled.go's simplified
// Funcode), so unlike the teacher's preallocated array this grows via plain
// Go append.
type opStack struct {
	vs []value.Value
}

func (s *opStack) push(v value.Value) { s.vs = append(s.vs, v) }
func (s *opStack) pop() value.Value {
	v := s.vs[len(s.vs)-1]
	s.vs = s.vs[:len(s.vs)-1]
	return v
}
func (s *opStack) popN(n int) []value.Value {
	vs := append([]value.Value(nil), s.vs[len(s.vs)-n:]...)
	s.vs = s.vs[:len(s.vs)-n]
	return vs
}
func (s *opStack) top() value.Value { return s.vs[len(s.vs)-1] }

// run executes fn's bytecode to completion (RETURN), a propagating error, or
// an exitSignal panic (caught by runTop). It is the direct runtime
// counterpart of lang/compiler's code generation: every opcode
// lang/compiler/compiler.go emits is handled here.
func (th *Thread) run(fn *Function) (value.Value, error) {
	fcode := fn.Funcode
	code := fcode.Code
	var stack opStack
	var iterstack []iterator
	defer func() {
		for _, it := range iterstack {
			_ = it // iterators hold no external resource to release in this implementation
		}
	}()

	pc := uint32(0)
	var result value.Value
	var inFlightErr error

	// raise records a runtime error at fromPC: if a Catch table entry
	// covers fromPC, it pushes the error value and rewinds execution to
	// StartPC, which is the handler's own DEFLOCAL-or-POP prologue (see
	// compileCatchExpr) -- so the same dispatch loop binds
	// ErrName and runs the handler body exactly as if it were ordinary
	// code, with no second interpreter needed. Otherwise it signals the
	// loop to stop.
	raise := func(err error, fromPC uint32) (newPC uint32, handled bool, fatal error) {
		if catch, ok := findCatch(fcode.Catches, fromPC); ok {
			stack.push(value.ErrorValueFor(err))
			return catch.StartPC, true, nil
		}
		return 0, false, err
	}

loop:
	for {
		th.steps++
		if th.MaxSteps > 0 && th.steps > th.MaxSteps {
			inFlightErr = fmt.Errorf("execution step budget exceeded (%d)", th.MaxSteps)
			break loop
		}

		insn := code[pc]
		op := insn.Op
		arg := insn.Arg
		fromPC := pc
		pc++

		switch op {
		case compiler.NOP:
		case compiler.DUP:
			stack.push(stack.top())
		case compiler.POP:
			stack.pop()
		case compiler.EXCH:
			n := len(stack.vs)
			stack.vs[n-1], stack.vs[n-2] = stack.vs[n-2], stack.vs[n-1]

		case compiler.LT, compiler.LE, compiler.GT, compiler.GE, compiler.EQL, compiler.NEQ:
			y := stack.pop()
			x := stack.pop()
			ok, err := value.Compare(cmpOpName(op), x, y)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(value.Bool(ok))

		case compiler.PLUS, compiler.MINUS, compiler.STAR, compiler.SLASH, compiler.PERCENT,
			compiler.BITAND, compiler.BITOR, compiler.BITXOR, compiler.BITLSH, compiler.BITRSH:
			y := stack.pop()
			x := stack.pop()
			z, err := binaryOp(op, x, y)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(z)

		case compiler.UMINUS:
			x := stack.pop()
			z, err := value.Negate(x)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(z)
		case compiler.NOT:
			x := stack.pop()
			b, err := x.GetAsBool()
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(value.Bool(!b))
		case compiler.BITNOT:
			x := stack.pop()
			z, err := value.BitNot(x)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(z)
		case compiler.SHARECOUNT:
			x := stack.pop()
			stack.push(value.I64(int64(x.ShareCount())))

		case compiler.TRUE:
			stack.push(value.Bool(true))
		case compiler.FALSE:
			stack.push(value.Bool(false))

		case compiler.RETURN:
			result = stack.pop()
			inFlightErr = nil
			break loop

		case compiler.SETINDEX:
			z := stack.pop()
			y := stack.pop()
			x := stack.pop()
			if err := tuple.SetIndex(x, y, z); err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
		case compiler.INDEX:
			y := stack.pop()
			x := stack.pop()
			z, err := tuple.Index(x, y)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(z)

		case compiler.ENTERSCOPE:
			th.Ctx.EnterScope()
		case compiler.EXITSCOPE:
			if err := th.Ctx.ExitScope(); err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}

		case compiler.TYPEOF:
			x := stack.pop()
			stack.push(value.TypeInfoValue(value.TypeInfoFor(x.Kind())))
		case compiler.TYPENAME:
			x := stack.pop()
			stack.push(value.String(x.Kind().String()))

		case compiler.DEBUG:
			x := stack.pop()
			if th.Debug != nil {
				th.Debug(x)
			}

		case compiler.EXIT:
			panic(&exitSignal{value: stack.pop()})

		case compiler.IN:
			y := stack.pop()
			x := stack.pop()
			ok, err := tuple.Membership(x, y)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(value.Bool(ok))

		case compiler.ISTYPE:
			y := stack.pop()
			x := stack.pop()
			name, err := value.TypeNameOf(y)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			ok, err := x.Is(name)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(value.Bool(ok))

		case compiler.ASTYPE:
			y := stack.pop()
			x := stack.pop()
			name, err := value.TypeNameOf(y)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			z, err := x.As(name)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(z)

		case compiler.SAMECELL:
			y := stack.pop()
			x := stack.pop()
			stack.push(value.Bool(x.SameCell(y)))

		case compiler.JMP:
			pc = arg
		case compiler.CJMP:
			cond := stack.pop()
			b, err := cond.GetAsBool()
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			if !b {
				pc = arg
			}

		case compiler.CONSTANT:
			stack.push(constantValue(fcode.Prog.Constants[arg]))

		case compiler.MAKETUPLE:
			n := int(arg)
			items := stack.popN(2 * n)
			t := tuple.New()
			for i := 0; i < n; i++ {
				key := items[2*i]
				val := items[2*i+1]
				if key.Kind() == value.KindString {
					_ = t.AppendKeyed(key.Data().(string), val)
				} else {
					_ = t.AppendPositional(val)
				}
			}
			stack.push(value.New(value.KindTuple, t, value.Config{}))

		case compiler.MAKEFUNC:
			nested := fcode.Prog.Functions[arg]
			stack.push(NewFunctionValue(fcode.Prog, nested))

		case compiler.LOOKUP:
			v, err := th.Ctx.Find(fcode.Prog.Names[arg])
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(v)

		case compiler.DEFLOCAL, compiler.DEFSHARED:
			v := stack.pop()
			nameIdx, flags := compiler.DecodeDefArg(arg)
			name := fcode.Prog.Names[nameIdx]
			if op == compiler.DEFSHARED || flags&compiler.FlagSharedAssign != 0 {
				v = v.MakeShared()
			}
			v = v.WithConst(flags&compiler.FlagConst != 0)
			if err := th.Ctx.Add(name, v); err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}

		case compiler.ASSIGN, compiler.ASSIGNSHARED:
			v := stack.pop()
			name := fcode.Prog.Names[arg]
			if err := th.Ctx.Assign(name, v, op == compiler.ASSIGNSHARED); err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}

		case compiler.UNDEF:
			if err := th.Ctx.Remove(fcode.Prog.Names[arg]); err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}

		case compiler.ISDEFINED:
			stack.push(value.Bool(th.Ctx.IsDefined(fcode.Prog.Names[arg])))

		case compiler.DOT:
			x := stack.pop()
			v, err := tuple.Index(x, value.String(fcode.Prog.Names[arg]))
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(v)
		case compiler.SETDOT:
			y := stack.pop()
			x := stack.pop()
			if err := tuple.SetIndex(x, value.String(fcode.Prog.Names[arg]), y); err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}

		case compiler.ITERPUSH:
			x := stack.pop()
			it, err := newIterator(x)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			iterstack = append(iterstack, it)
		case compiler.ITERPOP:
			iterstack = iterstack[:len(iterstack)-1]
		case compiler.ITERJMP:
			it := iterstack[len(iterstack)-1]
			if v, ok := it.Next(); ok {
				stack.push(v)
			} else {
				pc = arg
			}

		case compiler.SUSPEND:
			th.resultCh <- Signal{Kind: SigSuspended}
			resumeVal := <-th.resumeCh
			stack.push(resumeVal)
		case compiler.YIELD:
			v := stack.pop()
			th.resultCh <- Signal{Kind: SigYielded, Value: v}
			resumeVal := <-th.resumeCh
			stack.push(resumeVal)

		case compiler.CALL:
			n := int(arg)
			args := stack.popN(n)
			callee := stack.pop()
			c, err := AsCallable(callee)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			z, err := c.Call(th, args)
			if err != nil {
				if np, handled, fatal := raise(err, fromPC); handled {
					pc = np
					continue loop
				} else {
					inFlightErr = fatal
					break loop
				}
			}
			stack.push(z)

		default:
			panic(fmt.Sprintf("vm: unimplemented opcode %s", op))
		}
	}

	return result, inFlightErr
}

func cmpOpName(op compiler.Opcode) string {
	switch op {
	case compiler.LT:
		return "<"
	case compiler.LE:
		return "<="
	case compiler.GT:
		return ">"
	case compiler.GE:
		return ">="
	case compiler.EQL:
		return "=="
	case compiler.NEQ:
		return "!="
	default:
		return ""
	}
}

func binaryOp(op compiler.Opcode, x, y value.Value) (value.Value, error) {
	switch op {
	case compiler.PLUS:
		return value.Add(x, y)
	case compiler.MINUS:
		return value.Sub(x, y)
	case compiler.STAR:
		return value.Mul(x, y)
	case compiler.SLASH:
		return value.Div(x, y)
	case compiler.PERCENT:
		// `%` is both string concatenation and numeric modulo (spec §4.6);
		// the compiler emits one opcode for both token.PERCENT and
		// token.MOD, so the VM dispatches on the operand kind instead.
		if x.Kind() == value.KindString || y.Kind() == value.KindString {
			return value.Concat(x, y)
		}
		return value.Mod(x, y)
	case compiler.BITAND:
		return value.BitAnd(x, y)
	case compiler.BITOR:
		return value.BitOr(x, y)
	case compiler.BITXOR:
		return value.BitXor(x, y)
	case compiler.BITLSH:
		return value.BitLsh(x, y)
	case compiler.BITRSH:
		return value.BitRsh(x, y)
	default:
		return value.Value{}, fmt.Errorf("unsupported binary opcode %s", op)
	}
}

func constantValue(c interface{}) value.Value {
	switch v := c.(type) {
	case nil:
		return value.NaV()
	case int64:
		return value.I64(v)
	case uint64:
		return value.U64(v)
	case float64:
		return value.F64(v)
	case string:
		return value.String(v)
	case bool:
		return value.Bool(v)
	default:
		panic(fmt.Sprintf("vm: unsupported constant %T", c))
	}
}

// findCatch returns the innermost Catch covering pc: nested catch
// expressions are fully contained within their enclosing one's [PC0, PC1)
// range, so the innermost match is the covering entry with the largest
// PC0.
func findCatch(catches []compiler.Catch, pc uint32) (compiler.Catch, bool) {
	best := compiler.Catch{}
	found := false
	for _, c := range catches {
		if pc >= c.PC0 && pc < c.PC1 {
			if !found || c.PC0 > best.PC0 {
				best, found = c, true
			}
		}
	}
	return best, found
}
