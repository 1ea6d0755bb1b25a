// Package vcgen turns typed IR into verification conditions.
//
// Each function is executed symbolically: variables map to terms over the
// quantified inputs, branches fork the state, loops are cut at their
// invariants and calls are replaced by fresh values constrained by the
// callee's postcondition. Every check (assert, callee precondition,
// postcondition, loop invariant, division, type constraint) becomes one
// vform.Assert located at the node that introduced it.
package vcgen

import (
	"fmt"
	"maps"
	"slices"

	"wyweb/internal/ir"
	"wyweb/internal/syntax"
	"wyweb/internal/types"
	"wyweb/internal/vform"
)

// MaxPaths bounds the number of live symbolic states per function.
const MaxPaths = 1024

// Imports resolves modules that declare callees and named types.
type Imports interface {
	Module(path string) (*ir.Module, bool)
}

type bailout struct{ err *syntax.Error }

type generator struct {
	mod     *ir.Module
	imports Imports
	file    *vform.File
	types   map[string]bool

	fn    *ir.Func
	entry map[*ir.Var]vform.Expr
	seq   int
	fresh map[string]int
}

// state is one symbolic path.
type state struct {
	env map[*ir.Var]vform.Expr
	pc  []vform.Expr
}

func (s *state) clone() *state {
	return &state{env: maps.Clone(s.env), pc: slices.Clone(s.pc)}
}

func (s *state) assume(e vform.Expr) {
	s.pc = append(s.pc, e)
}

// Generate produces the verification form of mod.
func Generate(mod *ir.Module, imports Imports) (file *vform.File, err error) {
	g := &generator{
		mod:     mod,
		imports: imports,
		file:    &vform.File{Module: mod.Path},
		types:   make(map[string]bool),
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			file, err = nil, b.err
		}
	}()

	for _, td := range mod.Types {
		g.needType(td.Type)
	}
	for _, fn := range mod.Funcs {
		g.function(fn)
	}
	if mod.Main != nil {
		g.function(mod.Main)
	}
	return g.file, nil
}

func (g *generator) function(fn *ir.Func) {
	g.fn, g.seq, g.fresh = fn, 0, make(map[string]int)
	st := &state{env: make(map[*ir.Var]vform.Expr)}
	for _, p := range fn.Params {
		st.env[p] = &vform.Ref{Name: p.Name, Type: p.Type}
	}
	g.entry = maps.Clone(st.env)
	for _, req := range fn.Requires {
		st.assume(g.pure(req, st.env, nil))
	}

	for _, final := range g.block(fn.Body, st) {
		// процедура дошла до конца тела
		g.returns(final, nil, fn)
	}
}

func (g *generator) block(stmts []ir.Stmt, st *state) []*state {
	cur := []*state{st}
	for _, s := range stmts {
		var next []*state
		for _, st := range cur {
			next = append(next, g.stmt(s, st)...)
		}
		if len(next) > MaxPaths {
			panic(bailout{err: syntax.Errorf(s, g.mod.Heap, "too many paths to verify in %s", g.fn.Name)})
		}
		cur = next
	}
	return cur
}

func (g *generator) stmt(s ir.Stmt, st *state) []*state {
	switch s := s.(type) {
	case *ir.Decl:
		g.assign(st, s.Var, s.Init)
	case *ir.Assign:
		g.assign(st, s.Var, s.Value)
	case *ir.Assert:
		cond := g.expr(s.Cond, g.ctx(st))
		g.oblige(st, nil, vform.KindAssert, cond, s.Cond)
		st.assume(cond)
	case *ir.Assume:
		st.assume(g.expr(s.Cond, g.ctx(st)))
	case *ir.Print:
		g.expr(s.Value, g.ctx(st))
	case *ir.CallStmt:
		g.expr(s.Call, g.ctx(st))
	case *ir.Return:
		var val vform.Expr
		if s.Value != nil {
			val = g.expr(s.Value, g.ctx(st))
			g.constrain(st, val, s.Value.Type(), g.fn.Result, s.Value)
		}
		g.returns(st, val, s)
		return nil
	case *ir.If:
		cond := g.expr(s.Cond, g.ctx(st))
		then, els := st.clone(), st.clone()
		then.assume(cond)
		els.assume(vform.Not(cond))
		return append(g.block(s.Then, then), g.block(s.Else, els)...)
	case *ir.While:
		return g.loop(s, st)
	}
	return []*state{st}
}

func (g *generator) assign(st *state, v *ir.Var, value ir.Expr) {
	val := g.expr(value, g.ctx(st))
	g.constrain(st, val, value.Type(), v.Type, value)
	st.env[v] = val
}

// constrain требует ограничение именованного типа, если значение пришло из
// другого типа.
func (g *generator) constrain(st *state, val vform.Expr, from, to types.Type, at syntax.Item) {
	named, ok := to.(*types.Named)
	if !ok || types.Identical(from, to) {
		return
	}
	g.oblige(st, nil, vform.KindTypeInvariant, &vform.Is{X: val, Type: named}, at)
}

func (g *generator) returns(st *state, val vform.Expr, at syntax.Item) {
	for _, ens := range g.fn.Ensures {
		g.oblige(st, nil, vform.KindPostcondition, g.pure(ens, g.entry, val), at)
	}
}

func (g *generator) loop(w *ir.While, st *state) []*state {
	for _, inv := range w.Invariants {
		g.oblige(st, nil, vform.KindInvariantEntry, g.pure(inv, st.env, nil), inv)
	}

	// произвольная итерация: изменяемые переменные забываются
	h := st.clone()
	for _, v := range w.Modified {
		h.env[v] = g.freshVar(v.Name, v.Type)
	}
	for _, inv := range w.Invariants {
		h.assume(g.pure(inv, h.env, nil))
	}

	body := h.clone()
	body.assume(g.expr(w.Cond, g.ctx(body)))
	for _, out := range g.block(w.Body, body) {
		for _, inv := range w.Invariants {
			g.oblige(out, nil, vform.KindInvariantPreserved, g.pure(inv, out.env, nil), inv)
		}
	}

	exit := h
	exit.assume(vform.Not(g.expr(w.Cond, g.ctx(exit))))
	return []*state{exit}
}

func (g *generator) freshVar(name string, t types.Type) *vform.Ref {
	g.fresh[name]++
	return &vform.Ref{Name: fmt.Sprintf("%s#%d", name, g.fresh[name]), Type: t}
}

// oblige records that goal must hold on the path st under guards.
func (g *generator) oblige(st *state, guards []vform.Expr, kind vform.Kind, goal vform.Expr, at syntax.Item) {
	hyps := append(slices.Clone(st.pc), guards...)
	body := goal
	if len(hyps) > 0 {
		body = vform.Implies(vform.And(hyps...), goal)
	}
	var vars []vform.Var
	for _, r := range vform.FreeRefs(body) {
		vars = append(vars, vform.Var{Name: r.Name, Type: r.Type})
		if n, ok := r.Type.(*types.Named); ok {
			g.needType(n)
		}
	}
	g.needTypesIn(body)

	var src syntax.Source
	if sp, ok := g.mod.Heap.Enclosing(at); ok {
		src = syntax.Source{Start: sp.Start, End: sp.End}
	}
	name := fmt.Sprintf("%s::%d", g.fnName(), g.seq)
	g.seq++
	g.file.Asserts = append(g.file.Asserts, vform.NewAssert(g.mod.Path, name, kind, vars, body, src))
}

func (g *generator) fnName() string {
	if g.fn.Main {
		return "main"
	}
	return g.fn.Name
}

func (g *generator) needTypesIn(e vform.Expr) {
	switch x := e.(type) {
	case *vform.Is:
		g.needType(x.Type)
		g.needTypesIn(x.X)
	case *vform.Unary:
		g.needTypesIn(x.X)
	case *vform.Binary:
		g.needTypesIn(x.X)
		g.needTypesIn(x.Y)
	}
}

// needType adds the declaration of t and of its named bases to the file.
func (g *generator) needType(t *types.Named) {
	key := t.Module + "::" + t.Name
	if g.types[key] {
		return
	}
	g.types[key] = true
	if base, ok := t.Base.(*types.Named); ok {
		g.needType(base)
	}
	decl := g.lookupType(t)
	if decl == nil {
		return
	}
	out := &vform.TypeDecl{Type: t, Var: decl.Var.Name}
	if decl.Where != nil {
		env := map[*ir.Var]vform.Expr{decl.Var: &vform.Ref{Name: decl.Var.Name, Type: decl.Var.Type}}
		out.Where = g.pure(decl.Where, env, nil)
	}
	g.file.Types = append(g.file.Types, out)
}

func (g *generator) lookupType(t *types.Named) *ir.TypeDecl {
	if t.Module == g.mod.Path {
		return g.mod.Type(t.Name)
	}
	if g.imports == nil {
		return nil
	}
	mod, ok := g.imports.Module(t.Module)
	if !ok {
		return nil
	}
	return mod.Type(t.Name)
}
