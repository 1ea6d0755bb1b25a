package ir

import (
	"wyweb/internal/syntax"
	"wyweb/internal/token"
	"wyweb/internal/types"
)

type Expr interface {
	syntax.Item
	Type() types.Type
}

// Const is an int or bool literal.
type Const struct {
	syntax.Node
	T    types.Type
	Int  int64
	Bool bool
}

type Ref struct {
	syntax.Node
	Var *Var
}

// Result is `result` in an ensures clause.
type Result struct {
	syntax.Node
	T types.Type
}

type Unary struct {
	syntax.Node
	Op token.Kind
	X  Expr
	T  types.Type
}

type Binary struct {
	syntax.Node
	Op   token.Kind
	X, Y Expr
	T    types.Type
}

type Call struct {
	syntax.Node
	Func *Func
	Args []Expr
}

func (e *Const) Type() types.Type  { return e.T }
func (e *Ref) Type() types.Type    { return e.Var.Type }
func (e *Result) Type() types.Type { return e.T }
func (e *Unary) Type() types.Type  { return e.T }
func (e *Binary) Type() types.Type { return e.T }
func (e *Call) Type() types.Type   { return e.Func.Result }

// Walk visits e and its operands depth-first until fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch x := e.(type) {
	case *Unary:
		Walk(x.X, fn)
	case *Binary:
		Walk(x.X, fn)
		Walk(x.Y, fn)
	case *Call:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	}
}
