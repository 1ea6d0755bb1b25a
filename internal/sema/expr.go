package sema

import (
	"wyweb/internal/ast"
	"wyweb/internal/ir"
	"wyweb/internal/syntax"
	"wyweb/internal/token"
	"wyweb/internal/types"
)

// mode describes where an expression appears.
type mode uint8

const (
	modeCode     mode = iota // executable code
	modeAssert               // assert/assume: ==> allowed
	modeContract             // requires, where, loop invariants: no calls
	modeEnsures              // as modeContract, plus result
)

func (m mode) specification() bool { return m != modeCode }
func (m mode) pure() bool          { return m == modeContract || m == modeEnsures }

func (c *checker) checkCond(e ast.Expr, parent syntax.Item, m mode) ir.Expr {
	out := c.checkExpr(e, parent, m)
	if !types.IsBool(out.Type()) {
		c.errorf(e, "expected bool, found %s", display(out.Type()))
	}
	return out
}

func (c *checker) checkExpr(e ast.Expr, parent syntax.Item, m mode) ir.Expr {
	switch e := e.(type) {
	case *ast.IntLit:
		out := &ir.Const{T: types.Int, Int: e.Value}
		c.lowered(out, parent, e)
		return out

	case *ast.BoolLit:
		out := &ir.Const{T: types.Bool, Bool: e.Value}
		c.lowered(out, parent, e)
		return out

	case *ast.Ident:
		v, ok := c.lookup(e.Name)
		if !ok {
			c.errorf(e, "unknown variable %s", e.Name)
		}
		out := &ir.Ref{Var: v}
		c.lowered(out, parent, e)
		return out

	case *ast.ResultExpr:
		if m != modeEnsures {
			c.errorf(e, "result is only allowed in ensures clauses")
		}
		if c.fn.Result == types.Void {
			c.errorf(e, "function %s does not return a value", c.fn.Name)
		}
		out := &ir.Result{T: c.fn.Result}
		c.lowered(out, parent, e)
		return out

	case *ast.UnaryExpr:
		out := &ir.Unary{Op: e.Op}
		c.lowered(out, parent, e)
		out.X = c.checkExpr(e.X, out, m)
		if e.Op == token.Minus {
			c.expectInt(out.X, e.X)
			out.T = types.Int
		} else {
			c.expectBool(out.X, e.X)
			out.T = types.Bool
		}
		return out

	case *ast.BinaryExpr:
		return c.checkBinary(e, parent, m)

	case *ast.CallExpr:
		return c.checkCall(e, parent, m, false)
	}
	c.errorf(e, "unsupported expression")
	return nil
}

func (c *checker) checkBinary(e *ast.BinaryExpr, parent syntax.Item, m mode) ir.Expr {
	if e.Op == token.Implies && !m.specification() {
		c.errorf(e, "==> is only allowed in specifications")
	}
	out := &ir.Binary{Op: e.Op}
	c.lowered(out, parent, e)
	out.X = c.checkExpr(e.X, out, m)
	out.Y = c.checkExpr(e.Y, out, m)

	switch e.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		c.expectInt(out.X, e.X)
		c.expectInt(out.Y, e.Y)
		out.T = types.Int
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		c.expectInt(out.X, e.X)
		c.expectInt(out.Y, e.Y)
		out.T = types.Bool
	case token.EqEq, token.BangEq:
		lt, rt := out.X.Type(), out.Y.Type()
		if lt == types.Void || types.Underlying(lt) != types.Underlying(rt) {
			c.errorf(e, "cannot compare %s with %s", display(lt), display(rt))
		}
		out.T = types.Bool
	case token.AndAnd, token.OrOr, token.Implies:
		c.expectBool(out.X, e.X)
		c.expectBool(out.Y, e.Y)
		out.T = types.Bool
	default:
		c.errorf(e, "unsupported operator %s", e.Op)
	}
	return out
}

func (c *checker) checkCall(e *ast.CallExpr, parent syntax.Item, m mode, stmt bool) *ir.Call {
	if m.pure() {
		c.errorf(e, "function calls are not allowed in contracts")
	}
	fn := c.resolveFunc(e)
	if !stmt && fn.Result == types.Void {
		c.errorf(e, "function %s does not return a value", fn.Name)
	}
	if len(e.Args) != len(fn.Params) {
		c.errorf(e, "function %s expects %d arguments, found %d", fn.Name, len(fn.Params), len(e.Args))
	}
	out := &ir.Call{Func: fn}
	c.lowered(out, parent, e)
	for i, a := range e.Args {
		arg := c.checkExpr(a, out, m)
		c.assignable(arg, fn.Params[i].Type, a)
		out.Args = append(out.Args, arg)
	}
	return out
}

func (c *checker) resolveFunc(e *ast.CallExpr) *ir.Func {
	if e.Qualifier != "" {
		mod, ok := c.aliases[e.Qualifier]
		if !ok {
			c.errorf(e, "unknown module %s", e.Qualifier)
		}
		fn := mod.Func(e.Name)
		if fn == nil {
			c.errorf(e, "unknown function %s::%s", e.Qualifier, e.Name)
		}
		return fn
	}
	if fn, ok := c.funcs[e.Name]; ok {
		return fn
	}
	var found *ir.Func
	for _, path := range c.mod.Imports {
		mod, _ := c.imports.Module(path)
		if fn := mod.Func(e.Name); fn != nil {
			if found != nil && found != fn {
				c.errorf(e, "function %s is ambiguous", e.Name)
			}
			found = fn
		}
	}
	if found == nil {
		c.errorf(e, "unknown function %s", e.Name)
	}
	return found
}

func (c *checker) expectInt(e ir.Expr, origin syntax.Item) {
	if !types.IsInt(e.Type()) {
		c.errorf(origin, "expected int, found %s", display(e.Type()))
	}
}

func (c *checker) expectBool(e ir.Expr, origin syntax.Item) {
	if !types.IsBool(e.Type()) {
		c.errorf(origin, "expected bool, found %s", display(e.Type()))
	}
}

func display(t types.Type) string {
	if n, ok := t.(*types.Named); ok {
		return n.Name
	}
	if t == nil {
		return "void"
	}
	return t.String()
}
