package ast

import (
	"wyweb/internal/source"
	"wyweb/internal/syntax"
)

// Stmt is implemented by all statement nodes.
type Stmt interface {
	syntax.Item
	stmt()
	Pos() source.Span
}

type Block struct {
	syntax.Node
	Span  source.Span
	Stmts []Stmt
}

// DeclStmt: `int x = e;`
type DeclStmt struct {
	syntax.Node
	Span source.Span
	Type *TypeExpr
	Name string
	Init Expr
}

// AssignStmt: `x = e;`
type AssignStmt struct {
	syntax.Node
	Span  source.Span
	Name  string
	Value Expr
}

type AssertStmt struct {
	syntax.Node
	Span source.Span
	Cond Expr
}

type AssumeStmt struct {
	syntax.Node
	Span source.Span
	Cond Expr
}

type PrintStmt struct {
	syntax.Node
	Span  source.Span
	Value Expr
}

type ReturnStmt struct {
	syntax.Node
	Span  source.Span
	Value Expr // may be nil
}

type IfStmt struct {
	syntax.Node
	Span source.Span
	Cond Expr
	Then *Block
	Else Stmt // *Block, *IfStmt or nil
}

type WhileStmt struct {
	syntax.Node
	Span       source.Span
	Cond       Expr
	Invariants []Expr
	Body       *Block
}

func (*Block) stmt()      {}
func (*DeclStmt) stmt()   {}
func (*AssignStmt) stmt() {}
func (*AssertStmt) stmt() {}
func (*AssumeStmt) stmt() {}
func (*PrintStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*IfStmt) stmt()     {}
func (*WhileStmt) stmt()  {}

func (s *Block) Pos() source.Span      { return s.Span }
func (s *DeclStmt) Pos() source.Span   { return s.Span }
func (s *AssignStmt) Pos() source.Span { return s.Span }
func (s *AssertStmt) Pos() source.Span { return s.Span }
func (s *AssumeStmt) Pos() source.Span { return s.Span }
func (s *PrintStmt) Pos() source.Span  { return s.Span }
func (s *ReturnStmt) Pos() source.Span { return s.Span }
func (s *IfStmt) Pos() source.Span     { return s.Span }
func (s *WhileStmt) Pos() source.Span  { return s.Span }

// CallStmt is a call whose result, if any, is discarded.
type CallStmt struct {
	syntax.Node
	Span source.Span
	Call *CallExpr
}

func (*CallStmt) stmt()              {}
func (s *CallStmt) Pos() source.Span { return s.Span }
