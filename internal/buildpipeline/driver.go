// Package buildpipeline drives rules over an artifact store.
//
// A build starts from goals. For each goal the driver finds the rule that
// produces it and, when that rule's input is missing, builds the input first
// (a linear chase keyed by content type). Once every goal exists the driver
// saturates: each rule runs on every matching request artifact whose output
// is still missing. The first failure stops the build.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wyweb/internal/artifact"
	"wyweb/internal/trace"
)

// Driver executes one build. It is not safe for concurrent use; each request
// creates its own.
type Driver struct {
	Project  *artifact.Project
	Rules    *RuleSet
	Progress ProgressSink
	Logger   *zap.Logger
	Timings  Timings
	// Failed is the rule whose execution stopped the build.
	Failed *Rule
}

func NewDriver(p *artifact.Project, rules *RuleSet) *Driver {
	return &Driver{Project: p, Rules: rules, Logger: zap.NewNop()}
}

// PanicError reports a stage that panicked.
type PanicError struct {
	Rule  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("internal error in %s: %v", e.Rule, e.Value)
}

// Build materializes goals and then saturates the store.
func (d *Driver) Build(ctx context.Context, goals ...Goal) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	ctx, span := trace.Start(ctx, trace.ScopeRequest, "build")
	err := d.build(ctx, goals)
	if err != nil {
		span.WithExtra("error", err.Error())
	}
	span.End("")
	return err
}

func (d *Driver) build(ctx context.Context, goals []Goal) error {
	for _, g := range goals {
		if err := d.materialize(ctx, g, len(d.Rules.rules)+1); err != nil {
			return err
		}
	}
	return d.saturate(ctx)
}

func (d *Driver) materialize(ctx context.Context, g Goal, budget int) error {
	if d.Project.Store.Has(g.ID, g.Type) {
		return nil
	}
	if budget <= 0 {
		return fmt.Errorf("cannot build %s: rule chain too long", g)
	}
	r := d.Rules.Producer(g)
	if r == nil {
		if _, err := d.Project.Get(g.ID, g.Type); err == nil {
			return nil
		}
		return fmt.Errorf("no rule produces %s", g)
	}
	in, err := d.Project.Get(g.ID, r.Input.Type)
	if errors.Is(err, artifact.ErrNotFound) {
		sub := Goal{ID: g.ID, Type: r.Input.Type}
		if err := d.materialize(ctx, sub, budget-1); err != nil {
			return err
		}
		in, err = d.Project.Get(g.ID, r.Input.Type)
	}
	if err != nil {
		return err
	}
	return d.run(ctx, r, in)
}

// saturate runs every rule on every request artifact it accepts until no
// rule has work left.
func (d *Driver) saturate(ctx context.Context) error {
	for {
		progressed := false
		for _, r := range d.Rules.rules {
			for _, in := range d.Project.Store.Match(r.Input) {
				if d.Project.Store.Has(in.ID, r.Output) {
					continue
				}
				if err := d.run(ctx, r, in); err != nil {
					return err
				}
				progressed = true
			}
		}
		if !progressed {
			return nil
		}
	}
}

func (d *Driver) run(ctx context.Context, r *Rule, in *artifact.Entry) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.Project.Store.Has(in.ID, r.Output) {
		return fmt.Errorf("rule %s: %s.%s: %w", r.Name, in.ID, r.Output.Suffix, artifact.ErrExists)
	}
	name := string(in.ID)
	_, span := trace.Start(ctx, trace.ScopeRule, r.Name+":"+name)
	d.emit(Event{Artifact: name, Rule: r.Name, Stage: r.Stage, Status: StatusWorking})
	start := time.Now()

	defer func() {
		elapsed := time.Since(start)
		d.Timings.Add(r.Stage, elapsed)
		status := StatusDone
		if err != nil {
			status = StatusError
			d.Failed = r
			span.WithExtra("error", err.Error())
		}
		span.End(string(status))
		d.emit(Event{Artifact: name, Rule: r.Name, Stage: r.Stage, Status: status, Err: err, Elapsed: elapsed})
		d.Logger.Debug("rule finished",
			zap.String("rule", r.Name),
			zap.String("artifact", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	}()

	out, err := d.call(ctx, r, in)
	if err != nil {
		return err
	}
	_, err = d.Project.Store.Put(in.ID, r.Output, out)
	return err
}

// call runs the rule body, turning a panic into a *PanicError.
func (d *Driver) call(ctx context.Context, r *Rule, in *artifact.Entry) (out any, err error) {
	defer func() {
		if v := recover(); v != nil {
			d.Logger.Error("rule panicked", zap.String("rule", r.Name), zap.Any("panic", v), zap.Stack("stack"))
			out, err = nil, &PanicError{Rule: r.Name, Value: v}
		}
	}()
	return r.Run(ctx, d.Project, in)
}

func (d *Driver) emit(evt Event) {
	if d.Progress != nil {
		d.Progress.OnEvent(evt)
	}
}
