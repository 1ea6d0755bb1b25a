package ast

import (
	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/token"
)

// Expr is implemented by all expression nodes.
type Expr interface {
	syntax.Item
	expr()
	Pos() source.Span
}

type IntLit struct {
	syntax.Node
	Span  source.Span
	Value int64
}

type BoolLit struct {
	syntax.Node
	Span  source.Span
	Value bool
}

type Ident struct {
	syntax.Node
	Span source.Span
	Name string
}

// ResultExpr is `result` inside an ensures clause.
type ResultExpr struct {
	syntax.Node
	Span source.Span
}

type UnaryExpr struct {
	syntax.Node
	Span source.Span
	Op   token.Kind // Minus or Bang
	X    Expr
}

type BinaryExpr struct {
	syntax.Node
	Span source.Span
	Op   token.Kind
	X, Y Expr
}

// CallExpr: `f(a)` or `math::abs(a)`.
type CallExpr struct {
	syntax.Node
	Span      source.Span
	Qualifier string
	Name      string
	Args      []Expr
}

func (*IntLit) expr()     {}
func (*BoolLit) expr()    {}
func (*Ident) expr()      {}
func (*ResultExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}

func (e *IntLit) Pos() source.Span     { return e.Span }
func (e *BoolLit) Pos() source.Span    { return e.Span }
func (e *Ident) Pos() source.Span      { return e.Span }
func (e *ResultExpr) Pos() source.Span { return e.Span }
func (e *UnaryExpr) Pos() source.Span  { return e.Span }
func (e *BinaryExpr) Pos() source.Span { return e.Span }
func (e *CallExpr) Pos() source.Span   { return e.Span }
