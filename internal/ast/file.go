// Package ast holds the syntax tree of a Wy compilation unit.
//
// Every node embeds syntax.Node and is registered by the parser in the file's
// Heap together with its parent and span, so later stages can blame a node and
// still recover its location.
package ast

import (
	"strings"

	"wyweb/internal/source"
	"wyweb/internal/syntax"
)

type File struct {
	syntax.Node
	Path    string
	Span    source.Span
	Imports []*Import
	Types   []*TypeDecl
	Funcs   []*FuncDecl
	// Main collects top-level statements; its body may be empty.
	Main *FuncDecl
	Heap *syntax.Heap
}

// Import names another module: `import std::math;` → "std/math".
type Import struct {
	syntax.Node
	Span     source.Span
	Segments []string
}

// ModulePath returns the artifact path of the imported module.
func (i *Import) ModulePath() string {
	return strings.Join(i.Segments, "/")
}

// Alias is the last path segment, used as the qualifier in `math::abs`.
func (i *Import) Alias() string {
	return i.Segments[len(i.Segments)-1]
}

// TypeDecl: `type nat is (int n) where n >= 0;`
type TypeDecl struct {
	syntax.Node
	Span  source.Span
	Name  string
	Base  *TypeExpr
	Var   string
	Where Expr // nil when unconstrained
}

// TypeExpr is a type reference: int, bool, nat, math::nat.
type TypeExpr struct {
	syntax.Node
	Span      source.Span
	Qualifier string
	Name      string
}

func (t *TypeExpr) String() string {
	if t.Qualifier != "" {
		return t.Qualifier + "::" + t.Name
	}
	return t.Name
}

type Param struct {
	syntax.Node
	Span source.Span
	Type *TypeExpr
	Name string
}

type FuncDecl struct {
	syntax.Node
	Span     source.Span
	Name     string
	Params   []*Param
	Result   *TypeExpr // nil for procedures
	Requires []Expr
	Ensures  []Expr
	Body     *Block
	Implicit bool // the top-level statement body
}
