// Package ir is the typed intermediate form produced by sema.
//
// Names are resolved: variables point to their *Var, calls to their *Func
// (possibly in another module). Every node is registered in the module heap,
// which chains to the heap of the syntax tree it was lowered from.
package ir

import (
	"wyweb/internal/syntax"
	"wyweb/internal/types"
)

type Module struct {
	syntax.Node
	Path    string
	Imports []string
	Types   []*TypeDecl
	Funcs   []*Func
	// Main holds the top-level statements; nil when there are none.
	Main *Func
	Heap *syntax.Heap
}

// Func looks up a function declared in m.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Type looks up a type declared in m.
func (m *Module) Type(name string) *TypeDecl {
	for _, t := range m.Types {
		if t.Type.Name == name {
			return t
		}
	}
	return nil
}

// TypeDecl binds a named type to its constraint. Where refers to Var.
type TypeDecl struct {
	syntax.Node
	Type  *types.Named
	Var   *Var
	Where Expr // nil when unconstrained
}

// Var is a parameter or local variable.
type Var struct {
	syntax.Node
	Name string
	Type types.Type
	ID   int // unique within the enclosing function
}

type Func struct {
	syntax.Node
	Module   string
	Name     string
	Params   []*Var
	Result   types.Type // types.Void for procedures
	Requires []Expr
	Ensures  []Expr
	Body     []Stmt
	Locals   []*Var
	Main     bool
}

// QualifiedName is "module::name".
func (f *Func) QualifiedName() string {
	return f.Module + "::" + f.Name
}
