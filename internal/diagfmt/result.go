package diagfmt

import (
	"wyweb/internal/diag"
)

// Result discriminators.
const (
	ResultSuccess   = "success"
	ResultErrors    = "errors"
	ResultException = "exception"
)

// Success is {"result":"success","js":...}.
func Success(js string) *Map {
	return NewMap().Set("result", String(ResultSuccess)).Set("js", String(js))
}

// Exception is {"result":"exception","text":...}.
func Exception(text string) *Map {
	return NewMap().Set("result", String(ResultException)).Set("text", String(text))
}

// Errors is {"result":"errors","errors":[...]}.
func Errors(diags ...diag.Diagnostic) *Map {
	entries := make(List, len(diags))
	for i, d := range diags {
		entries[i] = ErrorEntry(d)
	}
	return NewMap().Set("result", String(ResultErrors)).Set("errors", entries)
}

// ErrorEntry describes one located failure. start and end are columns within
// the reported line; context is reserved and always empty.
func ErrorEntry(d diag.Diagnostic) *Map {
	m := NewMap().
		Set("filename", String(d.Path)).
		Set("line", Int(d.Line.Number)).
		Set("start", Int(d.Line.ColumnStart())).
		Set("end", Int(d.Line.ColumnEnd())).
		Set("text", String(d.Message)).
		Set("context", List{})
	if d.HasCounterexample {
		m.Set("counterexample", String(d.Counterexample))
	}
	return m
}
