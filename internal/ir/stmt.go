package ir

import (
	"wyweb/internal/syntax"
)

type Stmt interface {
	syntax.Item
	stmt()
}

type Decl struct {
	syntax.Node
	Var  *Var
	Init Expr
}

type Assign struct {
	syntax.Node
	Var   *Var
	Value Expr
}

type Assert struct {
	syntax.Node
	Cond Expr
}

type Assume struct {
	syntax.Node
	Cond Expr
}

type Print struct {
	syntax.Node
	Value Expr
}

type Return struct {
	syntax.Node
	Value Expr // nil in procedures
}

type If struct {
	syntax.Node
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type While struct {
	syntax.Node
	Cond       Expr
	Invariants []Expr
	Body       []Stmt
	// Modified lists the outer variables assigned in the body.
	Modified []*Var
}

type CallStmt struct {
	syntax.Node
	Call *Call
}

func (*Decl) stmt()     {}
func (*Assign) stmt()   {}
func (*Assert) stmt()   {}
func (*Assume) stmt()   {}
func (*Print) stmt()    {}
func (*Return) stmt()   {}
func (*If) stmt()       {}
func (*While) stmt()    {}
func (*CallStmt) stmt() {}
