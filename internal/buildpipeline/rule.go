package buildpipeline

import (
	"context"
	"errors"
	"fmt"

	"wyweb/internal/artifact"
)

// RunFunc executes a rule on one input artifact and returns the payload of
// the output artifact, which gets the same id.
type RunFunc func(ctx context.Context, p *artifact.Project, in *artifact.Entry) (any, error)

// Rule turns artifacts matching Input into artifacts of type Output.
type Rule struct {
	Name   string
	Stage  Stage
	Input  artifact.Filter
	Output artifact.ContentType
	Run    RunFunc
}

// Goal names an artifact the caller wants built.
type Goal struct {
	ID   artifact.ID
	Type artifact.ContentType
}

func (g Goal) String() string { return string(g.ID) + "." + g.Type.Suffix }

// StageFunc is a typed stage: it receives the decoded input payload.
type StageFunc[In, Out any] func(ctx context.Context, p *artifact.Project, id artifact.ID, in In) (Out, error)

// Adapt wraps a typed stage as a RunFunc.
func Adapt[In, Out any](fn StageFunc[In, Out]) RunFunc {
	return func(ctx context.Context, p *artifact.Project, in *artifact.Entry) (any, error) {
		v, err := artifact.As[In](in)
		if err != nil {
			return nil, err
		}
		return fn(ctx, p, in.ID, v)
	}
}

var (
	// ErrSelfDependency rejects rules that consume what they produce.
	ErrSelfDependency = errors.New("rule consumes its own output type")
	// ErrDuplicateProducer rejects a second rule for the same output and input.
	ErrDuplicateProducer = errors.New("duplicate producer")
)

// RuleSet holds the rules of one build in insertion order.
type RuleSet struct {
	rules []*Rule
}

func NewRuleSet() *RuleSet { return &RuleSet{} }

// Add registers r.
func (rs *RuleSet) Add(r *Rule) error {
	if r == nil || r.Run == nil {
		return fmt.Errorf("rule %q has no body", ruleName(r))
	}
	if err := r.Input.Validate(); err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	if r.Input.Type == r.Output {
		return fmt.Errorf("rule %q: %w", r.Name, ErrSelfDependency)
	}
	for _, other := range rs.rules {
		if other.Output == r.Output && other.Input == r.Input {
			return fmt.Errorf("rule %q: %w of %s (already %q)", r.Name, ErrDuplicateProducer, r.Output, other.Name)
		}
	}
	rs.rules = append(rs.rules, r)
	return nil
}

// MustAdd is Add that panics, for statically known rule sets.
func (rs *RuleSet) MustAdd(r *Rule) {
	if err := rs.Add(r); err != nil {
		panic(err)
	}
}

// Rules lists the rules in insertion order.
func (rs *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Producer returns the first rule whose output is g.Type and whose input
// pattern accepts g.ID.
func (rs *RuleSet) Producer(g Goal) *Rule {
	for _, r := range rs.rules {
		if r.Output == g.Type && r.Input.Matches(g.ID, r.Input.Type) {
			return r
		}
	}
	return nil
}

func ruleName(r *Rule) string {
	if r == nil {
		return "<nil>"
	}
	return r.Name
}
