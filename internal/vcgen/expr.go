package vcgen

import (
	"slices"

	"wyweb/internal/ir"
	"wyweb/internal/token"
	"wyweb/internal/types"
	"wyweb/internal/vform"
)

// exprCtx is where an expression is translated. A nil st marks a contract:
// no obligations are produced and calls cannot occur.
type exprCtx struct {
	st     *state
	env    map[*ir.Var]vform.Expr
	result vform.Expr
	guards []vform.Expr
}

func (g *generator) ctx(st *state) exprCtx {
	return exprCtx{st: st, env: st.env}
}

// pure translates a contract clause under env, with result bound to result.
func (g *generator) pure(e ir.Expr, env map[*ir.Var]vform.Expr, result vform.Expr) vform.Expr {
	return g.expr(e, exprCtx{env: env, result: result})
}

func (g *generator) expr(e ir.Expr, c exprCtx) vform.Expr {
	switch x := e.(type) {
	case *ir.Const:
		if types.IsBool(x.T) {
			return &vform.Bool{Value: x.Bool}
		}
		return &vform.Int{Value: x.Int}

	case *ir.Ref:
		if v, ok := c.env[x.Var]; ok {
			return v
		}
		return &vform.Ref{Name: x.Var.Name, Type: x.Var.Type}

	case *ir.Result:
		if c.result == nil {
			return &vform.Ref{Name: "result", Type: x.T}
		}
		return c.result

	case *ir.Unary:
		return &vform.Unary{Op: x.Op, X: g.expr(x.X, c)}

	case *ir.Binary:
		l := g.expr(x.X, c)
		rc := c
		switch x.Op {
		case token.AndAnd, token.Implies:
			rc.guards = append(slices.Clone(c.guards), l)
		case token.OrOr:
			rc.guards = append(slices.Clone(c.guards), vform.Not(l))
		}
		r := g.expr(x.Y, rc)
		if (x.Op == token.Slash || x.Op == token.Percent) && c.st != nil {
			g.oblige(c.st, c.guards, vform.KindDivision, nonZero(r), x)
		}
		return &vform.Binary{Op: x.Op, X: l, Y: r}

	case *ir.Call:
		args := make([]vform.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = g.expr(a, c)
		}
		return g.call(x, args, c)
	}
	return vform.True
}

// call checks the callee's precondition and the constraints of its
// parameters, then stands for the result with a fresh variable that satisfies
// the postcondition.
func (g *generator) call(x *ir.Call, args []vform.Expr, c exprCtx) vform.Expr {
	callee := x.Func
	sub := make(map[*ir.Var]vform.Expr, len(args))
	for i, p := range callee.Params {
		sub[p] = args[i]
	}
	if c.st == nil {
		return g.freshVar(callee.Name, callee.Result)
	}
	for i, p := range callee.Params {
		if named, ok := p.Type.(*types.Named); ok && !types.Identical(x.Args[i].Type(), p.Type) {
			g.oblige(c.st, c.guards, vform.KindTypeInvariant, &vform.Is{X: args[i], Type: named}, x.Args[i])
		}
	}
	for _, req := range callee.Requires {
		g.oblige(c.st, c.guards, vform.KindPrecondition, g.pure(req, sub, nil), x)
	}
	if callee.Result == types.Void {
		return vform.True
	}
	r := g.freshVar(callee.Name, callee.Result)
	for _, ens := range callee.Ensures {
		c.st.assume(g.pure(ens, sub, r))
	}
	return r
}

func nonZero(e vform.Expr) vform.Expr {
	return &vform.Binary{Op: token.BangEq, X: e, Y: &vform.Int{Value: 0}}
}
