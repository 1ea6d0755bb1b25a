// Package syntax defines the items that compiler stages attach to their
// errors and the ways a source location can be recovered from them.
package syntax

import (
	"wyweb/internal/source"
)

// Item is anything a stage can blame for a failure.
//
// The set is sealed: outside this package a type becomes an Item only by
// embedding Node.
type Item interface {
	item()
}

// Node is embedded by AST, IR and verification nodes.
type Node struct{}

func (Node) item() {}

// Span is an item that is itself a location. Lexer and parser errors use it.
type Span struct {
	source.Span
}

func (*Span) item() {}

// At wraps a span as an item.
func At(sp source.Span) *Span {
	return &Span{Span: sp}
}

// Attribute is extra metadata carried by an Attributed item.
type Attribute interface {
	attribute()
}

// Source is the start/end attribute pair used by items that live outside any
// heap, such as verification asserts.
type Source struct {
	Start uint32
	End   uint32
}

func (Source) attribute() {}

// Span converts the attribute to a span.
func (s Source) Span() source.Span {
	return source.Span{Start: s.Start, End: s.End}
}

// Attributed items expose their attributes.
type Attributed interface {
	Item
	Attributes() []Attribute
}

// SourceOf returns the first Source attribute of it.
func SourceOf(it Attributed) (Source, bool) {
	for _, a := range it.Attributes() {
		if s, ok := a.(Source); ok {
			return s, true
		}
	}
	return Source{}, false
}
