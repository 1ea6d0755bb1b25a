// Package prover checks verification conditions by bounded model checking.
//
// Each assertion is simplified first; what remains is evaluated for every
// assignment of its variables drawn from the integers -Bound..Bound and both
// booleans, keeping only values that meet the constraints of named types.
// When the space is larger than MaxAssignments a fixed-seed sample of that
// size is checked instead. Assignments for which the body is undefined are
// skipped. A failing assertion is returned as a *syntax.Error blaming the
// vform.Assert itself.
package prover

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"wyweb/internal/interp"
	"wyweb/internal/syntax"
	"wyweb/internal/vform"
)

const (
	DefaultBound          = 8
	DefaultMaxAssignments = 200_000
	DefaultSeed           = 0x5eed
)

type Options struct {
	Bound          int64
	MaxAssignments int
	Seed           uint64
}

func (o Options) withDefaults() Options {
	if o.Bound <= 0 {
		o.Bound = DefaultBound
	}
	if o.MaxAssignments <= 0 {
		o.MaxAssignments = DefaultMaxAssignments
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// Status says how an assertion was discharged.
type Status string

const (
	StatusTrivial    Status = "trivial"
	StatusExhaustive Status = "exhaustive"
	StatusSampled    Status = "sampled"
)

// Outcome records one discharged assertion.
type Outcome struct {
	Name        string     `msgpack:"name"`
	Kind        vform.Kind `msgpack:"kind"`
	Status      Status     `msgpack:"status"`
	Assignments int        `msgpack:"assignments"`
}

// Report is the payload of a proof artifact.
type Report struct {
	Module   string    `msgpack:"module"`
	Outcomes []Outcome `msgpack:"outcomes"`
}

// Prove checks the assertions of f in order and stops at the first failure.
func Prove(ctx context.Context, f *vform.File, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	in := interp.New(f, interp.SmallWorld{Max: opts.Bound})
	rng := rand.New(rand.NewPCG(opts.Seed, uint64(len(f.Asserts))))
	report := &Report{Module: f.Module}

	for _, a := range f.Asserts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := check(ctx, in, a, opts, rng)
		if err != nil {
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	return report, nil
}

func check(ctx context.Context, in *interp.Interpreter, a *vform.Assert, opts Options, rng *rand.Rand) (Outcome, error) {
	out := Outcome{Name: a.Name, Kind: a.Kind, Status: StatusTrivial}
	body := Simplify(a.Body)
	if b, ok := body.(*vform.Bool); ok {
		if b.Value {
			return out, nil
		}
		return out, syntax.Errorf(a, nil, "%s", a.Message())
	}

	simplified := *a
	simplified.Body = body
	domains, err := in.Domains(a.Vars)
	if err != nil {
		return out, fmt.Errorf("%s: %w", a.Name, err)
	}

	total := 1
	for _, d := range domains {
		if len(d) == 0 {
			// пустая область: утверждение выполняется тривиально
			return out, nil
		}
		if total > opts.MaxAssignments/len(d) {
			total = opts.MaxAssignments + 1
			break
		}
		total *= len(d)
	}

	var failure error
	visit := func(bs interp.Bindings) bool {
		out.Assignments++
		if out.Assignments%4096 == 0 && ctx.Err() != nil {
			failure = ctx.Err()
			return false
		}
		held, err := in.Holds(&simplified, bs)
		switch {
		case errors.Is(err, interp.ErrUndefined):
			return true
		case err != nil:
			failure = fmt.Errorf("%s: %w", a.Name, err)
			return false
		case !held:
			failure = syntax.Errorf(a, nil, "%s", a.Message())
			return false
		}
		return true
	}

	if total <= opts.MaxAssignments {
		out.Status = StatusExhaustive
		interp.Enumerate(a.Vars, domains, total, visit)
	} else {
		out.Status = StatusSampled
		for i := 0; i < opts.MaxAssignments; i++ {
			bs := make(interp.Bindings, len(a.Vars))
			for j, v := range a.Vars {
				bs[j] = interp.Binding{Name: v.Name, Value: domains[j][rng.IntN(len(domains[j]))]}
			}
			if !visit(bs) {
				break
			}
		}
	}
	return out, failure
}
