package evaluator

import (
	"fmt"

	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/ast"
)

// Callable is implemented by every value CallExpr can invoke: user-defined
// functions (Function) and host-registered builtins (Builtin), mirroring
// lang/vm's Callable but parameterized on *Interp instead of *vm.Thread.
type Callable interface {
	Call(ip *Interp, args []value.Value) (value.Value, error)
	CallableName() string
}

// Function is the runtime representation of a user-defined `func` value
// (spec §3 Value kind `Function`), holding the raw AST body rather than a
// compiled Funcode: lang/evaluator walks the tree directly instead of
// executing bytecode.
type Function struct {
	Params []*ast.ParamDecl
	Body   *ast.Block
	Name   string
}

func (f *Function) CallableName() string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

func (f *Function) String() string { return "func " + f.CallableName() }

func (f *Function) Call(ip *Interp, args []value.Value) (value.Value, error) {
	return ip.call(f, args)
}

// NewFunctionValue wraps a function literal's parameters and body as a
// first-class KindFunction Value.
func NewFunctionValue(params []*ast.ParamDecl, body *ast.Block, name string) value.Value {
	return value.New(value.KindFunction, Callable(&Function{Params: params, Body: body, Name: name}), value.Config{})
}

// BuiltinFunc is the Go signature every corelib entry implements for the
// evaluator engine.
type BuiltinFunc func(ip *Interp, args []value.Value) (value.Value, error)

// Builtin wraps a host-implemented function (component C11's registration
// table) as a Callable the evaluator can invoke from CallExpr exactly like a
// user-defined Function.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (b *Builtin) CallableName() string { return b.Name }
func (b *Builtin) String() string       { return "builtin " + b.Name }
func (b *Builtin) Call(ip *Interp, args []value.Value) (value.Value, error) {
	return b.Fn(ip, args)
}

// NewBuiltinValue wraps a Builtin as a first-class KindFunction Value.
func NewBuiltinValue(b *Builtin) value.Value {
	return value.New(value.KindFunction, Callable(b), value.Config{})
}

// AsCallable extracts the Callable stored in a KindFunction Value.
func AsCallable(v value.Value) (Callable, error) {
	if v.Kind() != value.KindFunction {
		return nil, fmt.Errorf("%s value is not callable", v.Kind())
	}
	c, ok := v.Data().(Callable)
	if !ok {
		return nil, fmt.Errorf("malformed function value")
	}
	return c, nil
}
