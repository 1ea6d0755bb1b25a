package diag

import (
	"errors"
	"fmt"

	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/vform"
)

// Diagnostic is a located failure.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Primary  source.Span
	Shape    syntax.Shape
	Line     source.EnclosingLine
	// Item is the blamed item, for follow-up analysis such as counterexamples.
	Item syntax.Item

	Counterexample    string
	HasCounterexample bool
}

// Location is where a failure points in the submitted text.
type Location struct {
	Span  source.Span
	Shape syntax.Shape
	Line  source.EnclosingLine
}

// Resolve locates err and returns the line enclosing its span in text.
func Resolve(err error, text []byte) (Location, bool) {
	sp, shape := syntax.Locate(err)
	if shape == syntax.ShapeNone {
		return Location{}, false
	}
	return Location{Span: sp, Shape: shape, Line: source.Enclose(text, sp)}, true
}

// FromError builds the diagnostic for a failure of the given stage. It
// reports false when the failure has no location.
func FromError(err error, stage, path string, text []byte) (Diagnostic, bool) {
	var se *syntax.Error
	if !errors.As(err, &se) {
		return Diagnostic{}, false
	}
	loc, ok := Resolve(se, text)
	if !ok {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Severity: SevError,
		Code:     classify(stage, se, loc.Shape),
		Message:  se.Msg,
		Path:     path,
		Primary:  loc.Span,
		Shape:    loc.Shape,
		Line:     loc.Line,
		Item:     se.Item,
	}, true
}

func classify(stage string, se *syntax.Error, shape syntax.Shape) Code {
	if a, ok := se.Item.(*vform.Assert); ok {
		return KindCode(a.Kind)
	}
	switch stage {
	case "compile":
		if shape == syntax.ShapeSpan {
			return SynError
		}
		return SemError
	case "emit-js":
		return GenError
	case "vcgen", "prove":
		return VerGenerate
	}
	return UnknownCode
}

// Column is the 1-based column of the span start.
func (d Diagnostic) Column() int { return d.Line.ColumnStart() + 1 }

// Short renders "path:line:col: error[CODE]: message".
func (d Diagnostic) Short() string {
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s", d.Path, d.Line.Number, d.Column(), d.Severity, d.Code.ID(), d.Message)
}
