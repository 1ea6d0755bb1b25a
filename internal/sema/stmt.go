package sema

import (
	"wyweb/internal/ast"
	"wyweb/internal/ir"
	"wyweb/internal/syntax"
	"wyweb/internal/types"
)

func (c *checker) checkBlock(b *ast.Block, parent syntax.Item) []ir.Stmt {
	c.pushScope()
	defer c.popScope()
	out := make([]ir.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		out = append(out, c.checkStmt(s, parent)...)
	}
	return out
}

// checkStmt возвращает срез: вложенный блок раскрывается в окружающий.
func (c *checker) checkStmt(s ast.Stmt, parent syntax.Item) []ir.Stmt {
	switch s := s.(type) {
	case *ast.Block:
		return c.checkBlock(s, parent)

	case *ast.DeclStmt:
		t := c.resolveType(s.Type)
		out := &ir.Decl{}
		c.lowered(out, parent, s)
		out.Init = c.checkExpr(s.Init, out, modeCode)
		c.assignable(out.Init, t, s.Init)
		out.Var = c.newVar(s.Name, t, out, s)
		return []ir.Stmt{out}

	case *ast.AssignStmt:
		v, ok := c.lookup(s.Name)
		if !ok {
			c.errorf(s, "unknown variable %s", s.Name)
		}
		out := &ir.Assign{Var: v}
		c.lowered(out, parent, s)
		out.Value = c.checkExpr(s.Value, out, modeCode)
		c.assignable(out.Value, v.Type, s.Value)
		return []ir.Stmt{out}

	case *ast.AssertStmt:
		out := &ir.Assert{}
		c.lowered(out, parent, s)
		out.Cond = c.checkCond(s.Cond, out, modeAssert)
		return []ir.Stmt{out}

	case *ast.AssumeStmt:
		out := &ir.Assume{}
		c.lowered(out, parent, s)
		out.Cond = c.checkCond(s.Cond, out, modeAssert)
		return []ir.Stmt{out}

	case *ast.PrintStmt:
		out := &ir.Print{}
		c.lowered(out, parent, s)
		out.Value = c.checkExpr(s.Value, out, modeCode)
		if out.Value.Type() == types.Void {
			c.errorf(s.Value, "cannot print a value of type void")
		}
		return []ir.Stmt{out}

	case *ast.ReturnStmt:
		return []ir.Stmt{c.checkReturn(s, parent)}

	case *ast.CallStmt:
		out := &ir.CallStmt{}
		c.lowered(out, parent, s)
		out.Call = c.checkCall(s.Call, out, modeCode, true)
		return []ir.Stmt{out}

	case *ast.IfStmt:
		out := &ir.If{}
		c.lowered(out, parent, s)
		out.Cond = c.checkCond(s.Cond, out, modeCode)
		out.Then = c.checkBlock(s.Then, out)
		if s.Else != nil {
			c.pushScope()
			out.Else = c.checkStmt(s.Else, out)
			c.popScope()
		}
		return []ir.Stmt{out}

	case *ast.WhileStmt:
		out := &ir.While{}
		c.lowered(out, parent, s)
		out.Cond = c.checkCond(s.Cond, out, modeCode)
		for _, inv := range s.Invariants {
			out.Invariants = append(out.Invariants, c.checkCond(inv, out, modeContract))
		}
		out.Body = c.checkBlock(s.Body, out)
		out.Modified = modified(out.Body)
		return []ir.Stmt{out}
	}
	c.errorf(s, "unsupported statement")
	return nil
}

func (c *checker) checkReturn(s *ast.ReturnStmt, parent syntax.Item) ir.Stmt {
	if c.fn.Main {
		c.errorf(s, "return outside of a function")
	}
	out := &ir.Return{}
	c.lowered(out, parent, s)
	switch {
	case s.Value == nil && c.fn.Result != types.Void:
		c.errorf(s, "missing return value")
	case s.Value != nil && c.fn.Result == types.Void:
		c.errorf(s.Value, "function %s does not return a value", c.fn.Name)
	case s.Value != nil:
		out.Value = c.checkExpr(s.Value, out, modeCode)
		c.assignable(out.Value, c.fn.Result, s.Value)
	}
	return out
}

func (c *checker) assignable(e ir.Expr, to types.Type, origin syntax.Item) {
	if !types.AssignableTo(e.Type(), to) {
		c.errorf(origin, "expected %s, found %s", display(to), display(e.Type()))
	}
}

// terminates: каждый путь заканчивается return.
func terminates(stmts []ir.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch s := stmts[len(stmts)-1].(type) {
	case *ir.Return:
		return true
	case *ir.If:
		return terminates(s.Then) && terminates(s.Else)
	}
	return false
}

// modified собирает переменные, присваиваемые в теле и объявленные снаружи.
func modified(body []ir.Stmt) []*ir.Var {
	declared := map[*ir.Var]bool{}
	seen := map[*ir.Var]bool{}
	var out []*ir.Var
	var walk func([]ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for _, s := range stmts {
			switch s := s.(type) {
			case *ir.Decl:
				declared[s.Var] = true
			case *ir.Assign:
				if !seen[s.Var] {
					seen[s.Var] = true
					out = append(out, s.Var)
				}
			case *ir.If:
				walk(s.Then)
				walk(s.Else)
			case *ir.While:
				walk(s.Body)
			}
		}
	}
	walk(body)
	kept := out[:0]
	for _, v := range out {
		if !declared[v] {
			kept = append(kept, v)
		}
	}
	return kept
}
