package vform

import (
	"wyweb/internal/token"
	"wyweb/internal/types"
)

// Expr is a logical term. Operators reuse the token kinds of the source
// language.
type Expr interface {
	expr()
}

type Int struct{ Value int64 }

type Bool struct{ Value bool }

// Ref names a quantified variable.
type Ref struct {
	Name string
	Type types.Type
}

type Unary struct {
	Op token.Kind // Minus or Bang
	X  Expr
}

type Binary struct {
	Op   token.Kind
	X, Y Expr
}

// Is holds when X satisfies the constraint of Type and of its bases.
type Is struct {
	X    Expr
	Type *types.Named
}

func (*Int) expr()    {}
func (*Bool) expr()   {}
func (*Ref) expr()    {}
func (*Unary) expr()  {}
func (*Binary) expr() {}
func (*Is) expr()     {}

var (
	True  = &Bool{Value: true}
	False = &Bool{Value: false}
)

// And joins terms with &&; an empty list is true.
func And(xs ...Expr) Expr {
	var out Expr
	for _, x := range xs {
		if x == nil {
			continue
		}
		if out == nil {
			out = x
			continue
		}
		out = &Binary{Op: token.AndAnd, X: out, Y: x}
	}
	if out == nil {
		return True
	}
	return out
}

func Not(x Expr) Expr { return &Unary{Op: token.Bang, X: x} }

func Implies(x, y Expr) Expr { return &Binary{Op: token.Implies, X: x, Y: y} }

// FreeRefs lists the variables referenced by e in first-occurrence order.
func FreeRefs(e Expr) []*Ref {
	seen := map[string]bool{}
	var out []*Ref
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case *Ref:
			if !seen[x.Name] {
				seen[x.Name] = true
				out = append(out, x)
			}
		case *Unary:
			walk(x.X)
		case *Binary:
			walk(x.X)
			walk(x.Y)
		case *Is:
			walk(x.X)
		}
	}
	walk(e)
	return out
}

// Substitute replaces references by name.
func Substitute(e Expr, sub map[string]Expr) Expr {
	switch x := e.(type) {
	case *Ref:
		if r, ok := sub[x.Name]; ok {
			return r
		}
		return x
	case *Unary:
		return &Unary{Op: x.Op, X: Substitute(x.X, sub)}
	case *Binary:
		return &Binary{Op: x.Op, X: Substitute(x.X, sub), Y: Substitute(x.Y, sub)}
	case *Is:
		return &Is{X: Substitute(x.X, sub), Type: x.Type}
	}
	return e
}
