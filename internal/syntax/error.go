package syntax

import (
	"errors"
	"fmt"

	"wyweb/internal/source"
)

// Error is the failure signal returned by compiler stages.
type Error struct {
	Item Item
	Heap *Heap
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf builds an Error blaming it.
func Errorf(it Item, heap *Heap, format string, args ...any) *Error {
	return &Error{Item: it, Heap: heap, Msg: fmt.Sprintf(format, args...)}
}

// SpanError builds an Error located directly at sp.
func SpanError(sp source.Span, format string, args ...any) *Error {
	return &Error{Item: At(sp), Msg: fmt.Sprintf(format, args...)}
}

// Shape names how a location was recovered from an Error.
type Shape uint8

const (
	ShapeNone Shape = iota
	// ShapeSpan: the item is the span.
	ShapeSpan
	// ShapeHeap: the span was found by walking the heap.
	ShapeHeap
	// ShapeAttribute: the span came from a Source attribute.
	ShapeAttribute
)

func (s Shape) String() string {
	switch s {
	case ShapeSpan:
		return "span"
	case ShapeHeap:
		return "heap"
	case ShapeAttribute:
		return "attribute"
	}
	return "none"
}

// Locate finds the *Error in err's chain and recovers its span.
func Locate(err error) (source.Span, Shape) {
	var se *Error
	if !errors.As(err, &se) || se == nil {
		return source.Span{}, ShapeNone
	}
	return se.Locate()
}

// Locate recovers the span of the blamed item. A direct span wins, then the
// nearest enclosing span in the heap, then a legacy Source attribute.
func (e *Error) Locate() (source.Span, Shape) {
	if e.Item == nil {
		return source.Span{}, ShapeNone
	}
	if sp, ok := e.Item.(*Span); ok && sp != nil {
		return sp.Span, ShapeSpan
	}
	if e.Heap != nil {
		if sp, ok := e.Heap.Enclosing(e.Item); ok {
			return sp, ShapeHeap
		}
	}
	if at, ok := e.Item.(Attributed); ok {
		if src, ok := SourceOf(at); ok {
			return src.Span(), ShapeAttribute
		}
	}
	return source.Span{}, ShapeNone
}
