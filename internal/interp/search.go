package interp

import (
	"errors"

	"wyweb/internal/types"
	"wyweb/internal/vform"
)

// DefaultLimit caps the assignments tried by Counterexample.
const DefaultLimit = 1 << 20

// ErrNoCounterexample means every assignment tried satisfied the assertion.
var ErrNoCounterexample = errors.New("no counterexample found")

// Domains returns the candidate values of each variable. Named types keep
// only the values that meet their constraint.
func (in *Interpreter) Domains(vars []vform.Var) ([][]Value, error) {
	out := make([][]Value, len(vars))
	for i, v := range vars {
		vals := in.Domain.Values(types.Underlying(v.Type))
		named, ok := v.Type.(*types.Named)
		if !ok {
			out[i] = vals
			continue
		}
		kept := make([]Value, 0, len(vals))
		for _, val := range vals {
			held, err := in.Satisfies(val, named)
			if err != nil {
				return nil, err
			}
			if held {
				kept = append(kept, val)
			}
		}
		out[i] = kept
	}
	return out, nil
}

// Holds evaluates the body of a under the given assignment.
func (in *Interpreter) Holds(a *vform.Assert, bs Bindings) (bool, error) {
	v, err := in.Eval(a.Body, bs.Env())
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// Counterexample enumerates the domain in order and returns the first
// assignment that falsifies a. It stops with ErrUndefined as soon as the
// body is undefined for an assignment, and with ErrNoCounterexample when the
// domain (or limit) is exhausted.
func (in *Interpreter) Counterexample(a *vform.Assert, limit int) (Bindings, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	domains, err := in.Domains(a.Vars)
	if err != nil {
		return nil, err
	}
	found := ErrNoCounterexample
	var result Bindings
	Enumerate(a.Vars, domains, limit, func(bs Bindings) bool {
		held, evalErr := in.Holds(a, bs)
		switch {
		case evalErr != nil:
			found = evalErr
			return false
		case !held:
			result, found = bs, nil
			return false
		}
		return true
	})
	if found != nil {
		return nil, found
	}
	return result, nil
}

// Enumerate calls fn for every assignment of vars over domains, the last
// variable varying fastest, until fn returns false or limit assignments were
// produced. Each call receives a fresh slice.
func Enumerate(vars []vform.Var, domains [][]Value, limit int, fn func(Bindings) bool) {
	for _, d := range domains {
		if len(d) == 0 {
			return
		}
	}
	idx := make([]int, len(vars))
	for n := 0; n < limit; n++ {
		bs := make(Bindings, len(vars))
		for i, v := range vars {
			bs[i] = Binding{Name: v.Name, Value: domains[i][idx[i]]}
		}
		if !fn(bs) {
			return
		}
		// одометр
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(domains[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return
		}
	}
}
