package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	ScopeRequest Scope = iota + 1 // one compile request
	ScopeRule                     // one rule on one artifact
	ScopeModule                   // library modules while loading the bundle
	ScopeAssert                   // single proof obligations
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRequest:
		return "request"
	case ScopeRule:
		return "rule"
	case ScopeModule:
		return "module"
	case ScopeAssert:
		return "assert"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global sequence number (monotonic)
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "build", "compile:main", "prove:std/math"
	Detail   string
	Elapsed  time.Duration // set on span ends
	Extra    map[string]string
}
