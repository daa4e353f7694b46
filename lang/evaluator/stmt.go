package evaluator

import (
	"fmt"

	"github.com/teascript-go/teascript/internal/tuple"
	"github.com/teascript-go/teascript/internal/value"
	"github.com/teascript-go/teascript/lang/ast"
)

// evalStmt dispatches one statement, returning a non-none ctrl only for
// return/stop/loop (see interp.go's package doc for why suspend/yield/
// _Exit never appear here).
func (ip *Interp) evalStmt(s ast.Stmt) (ctrl, error) {
	switch st := s.(type) {
	case *ast.DefStmt:
		return ctrl{}, ip.evalDefStmt(st)
	case *ast.AssignStmt:
		return ctrl{}, ip.evalAssignStmt(st)
	case *ast.UndefStmt:
		return ctrl{}, ip.Ctx.Remove(st.Name.Lit)
	case *ast.DebugStmt:
		v, err := ip.evalExpr(st.Value)
		if err != nil {
			return ctrl{}, err
		}
		if ip.Debug != nil {
			ip.Debug(v)
		}
		return ctrl{}, nil
	case *ast.ExprStmt:
		_, err := ip.evalExpr(st.X)
		return ctrl{}, err
	case *ast.IfStmt:
		return ip.evalIfStmt(st)
	case *ast.RepeatStmt:
		return ip.evalRepeatStmt(st)
	case *ast.ForallStmt:
		return ip.evalForallStmt(st)
	case *ast.FuncDeclStmt:
		fn := NewFunctionValue(st.Sig.Params, st.Body, st.Name.Lit)
		return ctrl{}, ip.Ctx.Add(st.Name.Lit, fn)
	case *ast.ReturnStmt:
		v := value.NaV()
		if st.Value != nil {
			var err error
			v, err = ip.evalExpr(st.Value)
			if err != nil {
				return ctrl{}, err
			}
		}
		return ctrl{kind: ctrlReturn, value: v}, nil
	case *ast.StopStmt:
		label := ""
		if st.Label != nil {
			label = st.Label.Lit
		}
		if st.With != nil {
			// repeat/forall are statements, not expressions, in this dialect:
			// the with-value has no destination to propagate to, so it is
			// evaluated (for side effects and to surface errors at the right
			// position) and discarded, matching lang/compiler's compileStopStmt.
			if _, err := ip.evalExpr(st.With); err != nil {
				return ctrl{}, err
			}
		}
		return ctrl{kind: ctrlStop, label: label}, nil
	case *ast.LoopStmt:
		label := ""
		if st.Label != nil {
			label = st.Label.Lit
		}
		return ctrl{kind: ctrlLoop, label: label}, nil
	case *ast.SuspendStmt:
		ip.suspend()
		return ctrl{}, nil
	case *ast.YieldStmt:
		v := value.NaV()
		if st.Value != nil {
			var err error
			v, err = ip.evalExpr(st.Value)
			if err != nil {
				return ctrl{}, err
			}
		}
		ip.yield(v)
		return ctrl{}, nil
	case *ast.ExitStmt:
		v, err := ip.evalExpr(st.Value)
		if err != nil {
			return ctrl{}, err
		}
		panic(&exitSignal{value: v})
	case *ast.BadStmt:
		return ctrl{}, fmt.Errorf("cannot evaluate a malformed statement")
	default:
		return ctrl{}, fmt.Errorf("evaluator: unsupported statement node %T", s)
	}
}

func (ip *Interp) evalDefStmt(s *ast.DefStmt) error {
	v := value.NaV()
	if s.Value != nil {
		var err error
		v, err = ip.evalExpr(s.Value)
		if err != nil {
			return err
		}
	}
	if s.Shared {
		v = v.MakeShared()
	}
	v = v.WithConst(s.Const)
	return ip.Ctx.Add(s.Name.Lit, v)
}

// evalAssignStmt handles `target := expr` / `target @= expr` for every
// assignable target shape (spec §4.6 IsAssignable): plain identifiers,
// `.field` selectors, and `[index]` expressions.
func (ip *Interp) evalAssignStmt(s *ast.AssignStmt) error {
	if !ast.IsAssignable(s.Left) {
		return fmt.Errorf("left-hand side of assignment is not assignable")
	}
	switch left := ast.Unwrap(s.Left).(type) {
	case *ast.IdentExpr:
		v, err := ip.evalExpr(s.Right)
		if err != nil {
			return err
		}
		return ip.Ctx.Assign(left.Lit, v, s.Shared)
	case *ast.DotExpr:
		x, err := ip.evalExpr(left.Left)
		if err != nil {
			return err
		}
		v, err := ip.evalExpr(s.Right)
		if err != nil {
			return err
		}
		return tuple.SetIndex(x, value.String(left.Right.Lit), v)
	case *ast.IndexExpr:
		x, err := ip.evalExpr(left.Prefix)
		if err != nil {
			return err
		}
		idx, err := ip.evalExpr(left.Index)
		if err != nil {
			return err
		}
		v, err := ip.evalExpr(s.Right)
		if err != nil {
			return err
		}
		return tuple.SetIndex(x, idx, v)
	default:
		return fmt.Errorf("unsupported assignment target")
	}
}

func (ip *Interp) evalIfStmt(s *ast.IfStmt) (ctrl, error) {
	cond, err := ip.evalExpr(s.Cond)
	if err != nil {
		return ctrl{}, err
	}
	b, err := cond.GetAsBool()
	if err != nil {
		return ctrl{}, err
	}
	if b {
		return ip.evalScopedBlock(s.Then)
	}
	switch e := s.Else.(type) {
	case nil:
		return ctrl{}, nil
	case *ast.Block:
		return ip.evalScopedBlock(e)
	default:
		return ip.evalStmt(e)
	}
}

func (ip *Interp) evalScopedBlock(b *ast.Block) (ctrl, error) {
	ip.Ctx.EnterScope()
	defer ip.Ctx.ExitScope() //nolint:errcheck // ExitScope only fails for the (unreachable here) global scope
	return ip.evalBlock(b)
}

// matchLoop reports whether a stop/loop ctrl with label is meant for this
// loop iteration: an empty label always matches the nearest enclosing loop.
func matchLoop(c ctrl, label string) bool {
	return c.label == "" || c.label == label
}

func (ip *Interp) evalRepeatStmt(s *ast.RepeatStmt) (ctrl, error) {
	label := ""
	if s.Label != nil {
		label = s.Label.Lit
	}
	for {
		c, err := ip.evalScopedBlock(s.Body)
		if err != nil {
			return ctrl{}, err
		}
		switch c.kind {
		case ctrlNone:
			continue
		case ctrlLoop:
			if matchLoop(c, label) {
				continue
			}
			return c, nil
		case ctrlStop:
			if matchLoop(c, label) {
				return ctrl{}, nil
			}
			return c, nil
		default: // ctrlReturn
			return c, nil
		}
	}
}

// evalForallStmt lowers `forall ([label] id in seq) { body }`, binding id
// fresh in its own scope each iteration so closures created in the body
// capture distinct values, mirroring lang/compiler's compileForallStmt.
func (ip *Interp) evalForallStmt(s *ast.ForallStmt) (ctrl, error) {
	label := ""
	if s.Label != nil {
		label = s.Label.Lit
	}
	seq, err := ip.evalExpr(s.Seq)
	if err != nil {
		return ctrl{}, err
	}
	it, err := value.NewIterable(seq)
	if err != nil {
		return ctrl{}, err
	}
	for {
		v, ok := it.Next()
		if !ok {
			return ctrl{}, nil
		}
		c, err := func() (ctrl, error) {
			ip.Ctx.EnterScope()
			defer ip.Ctx.ExitScope() //nolint:errcheck // ExitScope only fails for the (unreachable here) global scope
			if err := ip.Ctx.Add(s.Ident.Lit, v); err != nil {
				return ctrl{}, err
			}
			return ip.evalBlock(s.Body)
		}()
		if err != nil {
			return ctrl{}, err
		}
		switch c.kind {
		case ctrlNone:
			continue
		case ctrlLoop:
			if matchLoop(c, label) {
				continue
			}
			return c, nil
		case ctrlStop:
			if matchLoop(c, label) {
				return ctrl{}, nil
			}
			return c, nil
		default: // ctrlReturn
			return c, nil
		}
	}
}
