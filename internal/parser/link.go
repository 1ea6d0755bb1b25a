package parser

import (
	"wyweb/internal/ast"
	"wyweb/internal/syntax"
)

// link registers every node of f in a fresh heap with its parent and span.
// The file itself and an empty implicit main carry no span.
func link(f *ast.File) {
	h := syntax.NewHeap(nil)
	f.Heap = h
	h.Add(f, nil)
	for _, imp := range f.Imports {
		h.AddSpan(imp, f, imp.Span)
	}
	for _, td := range f.Types {
		h.AddSpan(td, f, td.Span)
		linkType(h, td.Base, td)
		linkExpr(h, td.Where, td)
	}
	for _, fn := range f.Funcs {
		linkFunc(h, fn, f)
	}
	linkFunc(h, f.Main, f)
}

func linkFunc(h *syntax.Heap, fn *ast.FuncDecl, parent syntax.Item) {
	if fn.Implicit && len(fn.Body.Stmts) == 0 {
		h.Add(fn, parent)
		h.Add(fn.Body, fn)
		return
	}
	h.AddSpan(fn, parent, fn.Span)
	for _, prm := range fn.Params {
		h.AddSpan(prm, fn, prm.Span)
		linkType(h, prm.Type, prm)
	}
	linkType(h, fn.Result, fn)
	for _, e := range fn.Requires {
		linkExpr(h, e, fn)
	}
	for _, e := range fn.Ensures {
		linkExpr(h, e, fn)
	}
	linkStmt(h, fn.Body, fn)
}

func linkType(h *syntax.Heap, t *ast.TypeExpr, parent syntax.Item) {
	if t != nil {
		h.AddSpan(t, parent, t.Span)
	}
}

func linkStmt(h *syntax.Heap, s ast.Stmt, parent syntax.Item) {
	if s == nil {
		return
	}
	h.AddSpan(s, parent, s.Pos())
	switch s := s.(type) {
	case *ast.Block:
		for _, st := range s.Stmts {
			linkStmt(h, st, s)
		}
	case *ast.DeclStmt:
		linkType(h, s.Type, s)
		linkExpr(h, s.Init, s)
	case *ast.AssignStmt:
		linkExpr(h, s.Value, s)
	case *ast.AssertStmt:
		linkExpr(h, s.Cond, s)
	case *ast.AssumeStmt:
		linkExpr(h, s.Cond, s)
	case *ast.PrintStmt:
		linkExpr(h, s.Value, s)
	case *ast.ReturnStmt:
		linkExpr(h, s.Value, s)
	case *ast.CallStmt:
		linkExpr(h, s.Call, s)
	case *ast.IfStmt:
		linkExpr(h, s.Cond, s)
		linkStmt(h, s.Then, s)
		linkStmt(h, s.Else, s)
	case *ast.WhileStmt:
		linkExpr(h, s.Cond, s)
		for _, inv := range s.Invariants {
			linkExpr(h, inv, s)
		}
		linkStmt(h, s.Body, s)
	}
}

func linkExpr(h *syntax.Heap, e ast.Expr, parent syntax.Item) {
	if e == nil {
		return
	}
	h.AddSpan(e, parent, e.Pos())
	switch e := e.(type) {
	case *ast.UnaryExpr:
		linkExpr(h, e.X, e)
	case *ast.BinaryExpr:
		linkExpr(h, e.X, e)
		linkExpr(h, e.Y, e)
	case *ast.CallExpr:
		for _, a := range e.Args {
			linkExpr(h, a, e)
		}
	}
}
