// Package context implements TeaScript's Context (spec §4.5, component C5):
// a stack of scopes providing variable bind/lookup/remove/assign, a FIFO
// parameter queue used for function-call binding, and dialect settings.
//
// Grounded on the teacher's lang/resolver block-stack shape (a block links to
// its parent, forming a chain walked from innermost outward), reinterpreted
// as a *dynamic*, runtime name-keyed stack rather than the teacher's
// static/compile-time binding resolution -- spec §4.5's find/assign/add all
// operate by name at call time, which is the defining difference between a
// tree-walking dynamic-scope interpreter (TeaScript, per this spec) and a
// statically-resolved closure-based one (the teacher's own language). See
// DESIGN.md for the full rationale.
package context

import (
	"strings"

	"github.com/dolthub/swiss"
	"github.com/teascript-go/teascript/internal/value"
)

// Kind of failure produced by Context operations, mirroring spec §7's error
// kinds that originate from this layer.
type FailureKind string

const (
	Redefinition      FailureKind = "redefinition_of_variable"
	UnknownIdentifier FailureKind = "unknown_identifier"
	InternalName      FailureKind = "internal_name"
	ParamUnderflow    FailureKind = "runtime_error"
)

type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return string(f.Kind) + ": " + f.Message }

func fail(kind FailureKind, msg string) error { return &Failure{Kind: kind, Message: msg} }

// variableCollection is an insertion-ordered name -> Value map (spec §4.5).
// Grounded on internal/tuple's use of dolthub/swiss for the same "ordered
// slice + swiss-table index" shape.
type variableCollection struct {
	names []string
	vals  []value.Value
	index *swiss.Map[string, int]
}

func newVariableCollection() *variableCollection {
	return &variableCollection{index: swiss.NewMap[string, int](8)}
}

func (vc *variableCollection) get(name string) (value.Value, bool) {
	i, ok := vc.index.Get(name)
	if !ok {
		return value.Value{}, false
	}
	return vc.vals[i], true
}

func (vc *variableCollection) add(name string, v value.Value) bool {
	if _, exists := vc.index.Get(name); exists {
		return false
	}
	vc.index.Put(name, len(vc.names))
	vc.names = append(vc.names, name)
	vc.vals = append(vc.vals, v)
	return true
}

func (vc *variableCollection) set(name string, v value.Value) bool {
	i, ok := vc.index.Get(name)
	if !ok {
		return false
	}
	vc.vals[i] = v
	return true
}

func (vc *variableCollection) remove(name string) (value.Value, bool) {
	i, ok := vc.index.Get(name)
	if !ok {
		return value.Value{}, false
	}
	v := vc.vals[i]
	vc.names = append(vc.names[:i], vc.names[i+1:]...)
	vc.vals = append(vc.vals[:i], vc.vals[i+1:]...)
	vc.index = swiss.NewMap[string, int](uint32(len(vc.names)))
	for j, n := range vc.names {
		vc.index.Put(n, j)
	}
	return v, true
}

func (vc *variableCollection) each(f func(name string, v value.Value)) {
	for i, n := range vc.names {
		f(n, vc.vals[i])
	}
}

// Scope is one frame in the Context: bindings, a parameter queue, and a
// current source-location breadcrumb (spec §4.5).
type Scope struct {
	vars       *variableCollection
	paramQueue []value.Value
	paramHead  int
	breadcrumb string // last source location touched in this scope, as formatted text
}

func newScope() *Scope {
	return &Scope{vars: newVariableCollection()}
}

// SetBreadcrumb records the most recent source location evaluated in this
// scope (spec §4.5: "a current source-location breadcrumb").
func (s *Scope) SetBreadcrumb(loc string) { s.breadcrumb = loc }

// Breadcrumb returns the scope's last recorded source location.
func (s *Scope) Breadcrumb() string { return s.breadcrumb }

// Context is a stack of Scopes; the bottom is the global scope.
type Context struct {
	scopes      []*Scope
	dialect     Dialect
	bootstrapped bool
}

// New creates a Context with a single global scope.
func New(d Dialect) *Context {
	c := &Context{dialect: d}
	c.scopes = append(c.scopes, newScope())
	return c
}

// Dialect returns the Context's dialect settings.
func (c *Context) Dialect() Dialect { return c.dialect }

// SetDialect replaces the Context's dialect settings.
func (c *Context) SetDialect(d Dialect) { c.dialect = d }

// LatchBootstrap marks bootstrapping complete: from this point on, user code
// may not Add an identifier beginning with '_' (spec §4.5/§4.11).
func (c *Context) LatchBootstrap() { c.bootstrapped = true }

// Bootstrapped reports whether LatchBootstrap has been called.
func (c *Context) Bootstrapped() bool { return c.bootstrapped }

func isInternalName(name string) bool { return strings.HasPrefix(name, "_") }

// Depth returns the current scope-stack depth (1 == only the global scope).
func (c *Context) Depth() int { return len(c.scopes) }

// EnterScope pushes a new local scope.
func (c *Context) EnterScope() {
	c.scopes = append(c.scopes, newScope())
}

// ExitScope pops the current scope, purging its parameter queue and locals
// regardless of how control reached this point (spec §4.5/§5: every scope
// acquisition is paired with a release on all exit paths). The bottom
// (global) scope can never be exited.
func (c *Context) ExitScope() error {
	if len(c.scopes) <= 1 {
		return fail(ParamUnderflow, "cannot exit the global scope")
	}
	top := c.scopes[len(c.scopes)-1]
	top.each(func(_ string, v value.Value) { v.Release() })
	top.paramQueue = nil
	top.paramHead = 0
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

func (s *Scope) each(f func(name string, v value.Value)) { s.vars.each(f) }

// current returns the top-of-stack scope.
func (c *Context) current() *Scope { return c.scopes[len(c.scopes)-1] }

// global returns the bottom-of-stack scope.
func (c *Context) global() *Scope { return c.scopes[0] }

// Add appends a new binding to the current scope (spec §4.5 "add"). It fails
// with Redefinition if name already exists in the current scope, or with
// InternalName if name is `_`-prefixed and bootstrapping has completed.
func (c *Context) Add(name string, v value.Value) error {
	if c.bootstrapped && isInternalName(name) {
		return fail(InternalName, "cannot define reserved identifier "+name)
	}
	if v.IsShared() {
		v.Retain()
	} else {
		v = v.Copy()
	}
	if !c.current().vars.add(name, v) {
		return fail(Redefinition, "variable already defined in this scope: "+name)
	}
	return nil
}

// Find looks up name: local scopes top-down, then global (spec §4.5
// "find"). Names beginning with '_' skip local scopes entirely -- they are
// always resolved against the global scope only.
func (c *Context) Find(name string) (value.Value, error) {
	if isInternalName(name) {
		if v, ok := c.global().vars.get(name); ok {
			return v, nil
		}
		return value.Value{}, fail(UnknownIdentifier, "unknown identifier: "+name)
	}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i].vars.get(name); ok {
			return v, nil
		}
	}
	return value.Value{}, fail(UnknownIdentifier, "unknown identifier: "+name)
}

// IsDefined reports whether name resolves in this Context.
func (c *Context) IsDefined(name string) bool {
	_, err := c.Find(name)
	return err == nil
}

// Assign walks the scope stack to find an existing binding for name and
// mutates it in place (spec §4.5 "assign"); missing name fails with
// UnknownIdentifier, unless the dialect auto-defines unknown identifiers, in
// which case it is added to the current scope instead.
func (c *Context) Assign(name string, v value.Value, shared bool) error {
	scopesToSearch := c.scopes
	start := len(scopesToSearch) - 1
	if isInternalName(name) {
		start = 0
		scopesToSearch = c.scopes[:1]
	}
	for i := start; i >= 0; i-- {
		s := scopesToSearch[i]
		cur, ok := s.vars.get(name)
		if !ok {
			continue
		}
		if shared {
			if err := cur.SharedAssign(v); err != nil {
				return err
			}
		} else {
			if err := cur.Assign(v); err != nil {
				return err
			}
		}
		s.vars.set(name, cur)
		return nil
	}
	if c.dialect.AutoDefineUnknownIdentifiers {
		return c.Add(name, v)
	}
	return fail(UnknownIdentifier, "unknown identifier: "+name)
}

// Remove removes name from the current scope only (spec §4.5 "remove").
func (c *Context) Remove(name string) error {
	v, ok := c.current().vars.remove(name)
	if !ok {
		if c.dialect.UndefineUnknownIdentifiersAllowed {
			return nil
		}
		return fail(UnknownIdentifier, "unknown identifier: "+name)
	}
	v.Release()
	return nil
}

// SetParamList installs the FIFO parameter queue for the current scope
// (spec §4.5 "set_param_list"), used to bind function-call arguments.
func (c *Context) SetParamList(values []value.Value) {
	s := c.current()
	s.paramQueue = values
	s.paramHead = 0
}

// ConsumeParam pops the next parameter off the current scope's FIFO queue.
// Underflow is a runtime error (spec §4.5).
func (c *Context) ConsumeParam() (value.Value, error) {
	s := c.current()
	if s.paramHead >= len(s.paramQueue) {
		return value.Value{}, fail(ParamUnderflow, "parameter queue underflow")
	}
	v := s.paramQueue[s.paramHead]
	s.paramHead++
	return v, nil
}

// ParamCount returns the number of parameters remaining in the current
// scope's queue.
func (c *Context) ParamCount() int {
	s := c.current()
	return len(s.paramQueue) - s.paramHead
}

// CurrentScope exposes the top-of-stack Scope, e.g. for setting the source
// breadcrumb during evaluation.
func (c *Context) CurrentScope() *Scope { return c.current() }

// ScopedNewScope is the canonical RAII-style guard of spec §4.5: it enters a
// scope on construction and must have Exit called on every exit path
// (normal return, error, or control-flow signal) by the caller, typically
// via `defer`.
type ScopedNewScope struct {
	ctx *Context
}

// Enter pushes a new scope and returns a guard whose Exit pops it.
func Enter(ctx *Context) *ScopedNewScope {
	ctx.EnterScope()
	return &ScopedNewScope{ctx: ctx}
}

// Exit pops the scope opened by Enter. It is safe to call multiple times.
func (g *ScopedNewScope) Exit() {
	if g == nil || g.ctx == nil {
		return
	}
	_ = g.ctx.ExitScope()
	g.ctx = nil
}
