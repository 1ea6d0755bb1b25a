package interp

import (
	"wyweb/internal/types"
)

// Domain supplies candidate values for a base type (int or bool).
type Domain interface {
	Values(t types.Type) []Value
}

// SmallWorld enumerates ints from -Max to Max in the order 0, 1, -1, 2, -2,
// ... so the smallest counterexample is found first.
type SmallWorld struct {
	Max int64
}

// DefaultSmallWorld is -3..3.
var DefaultSmallWorld = SmallWorld{Max: 3}

func (d SmallWorld) Values(t types.Type) []Value {
	if types.IsBool(t) {
		return []Value{Bool(false), Bool(true)}
	}
	out := make([]Value, 0, 2*d.Max+1)
	out = append(out, Int(0))
	for i := int64(1); i <= d.Max; i++ {
		out = append(out, Int(i), Int(-i))
	}
	return out
}
