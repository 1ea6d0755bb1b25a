// Package vform is the verification form: closed logical assertions, one per
// proof obligation, together with the type declarations they mention.
//
// Asserts do not belong to any heap; their location travels as a
// syntax.Source attribute.
package vform

import (
	"wyweb/internal/syntax"
	"wyweb/internal/types"
)

type File struct {
	Module  string
	Types   []*TypeDecl
	Asserts []*Assert
}

// TypeDecl gives the constraint of a named type over Var.
type TypeDecl struct {
	Type  *types.Named
	Var   string
	Where Expr // nil when unconstrained
}

// TypeDecl implements type resolution over the declarations of f.
func (f *File) TypeDecl(t *types.Named) (*TypeDecl, bool) {
	for _, d := range f.Types {
		if types.Identical(d.Type, t) {
			return d, true
		}
	}
	return nil, false
}

// Kind tells which rule produced an assertion.
type Kind uint8

const (
	KindAssert Kind = iota
	KindPrecondition
	KindPostcondition
	KindInvariantEntry
	KindInvariantPreserved
	KindDivision
	KindTypeInvariant
)

var kindMessages = [...]string{
	KindAssert:             "assertion failed",
	KindPrecondition:       "precondition not satisfied",
	KindPostcondition:      "postcondition not satisfied",
	KindInvariantEntry:     "loop invariant not satisfied on entry",
	KindInvariantPreserved: "loop invariant not restored",
	KindDivision:           "division by zero",
	KindTypeInvariant:      "type invariant not satisfied",
}

// Message is the diagnostic text reported when an assertion of this kind
// fails.
func (k Kind) Message() string {
	if int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	return "assertion failed"
}

// Var is a universally quantified variable.
type Var struct {
	Name string
	Type types.Type
}

// Assert states that Body holds for every assignment of Vars.
type Assert struct {
	syntax.Node
	Module string
	Name   string // function::index, stable within a module
	Kind   Kind
	Vars   []Var
	Body   Expr
	attrs  []syntax.Attribute
}

// NewAssert creates an assertion located at src.
func NewAssert(module, name string, kind Kind, vars []Var, body Expr, src syntax.Source) *Assert {
	return &Assert{
		Module: module,
		Name:   name,
		Kind:   kind,
		Vars:   vars,
		Body:   body,
		attrs:  []syntax.Attribute{src},
	}
}

func (a *Assert) Attributes() []syntax.Attribute { return a.attrs }

// Message is the text reported when the assertion cannot be proved.
func (a *Assert) Message() string { return a.Kind.Message() }
