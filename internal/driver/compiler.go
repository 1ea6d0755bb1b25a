// Package driver compiles one program per call.
//
// Compile is the single boundary of the service: whatever happens below it
// (stage errors, stage panics, failures of the counterexample search) comes
// back as a result tree with a "result" discriminator, never as a Go error.
package driver

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"wyweb/internal/artifact"
	"wyweb/internal/buildpipeline"
	"wyweb/internal/diag"
	"wyweb/internal/diagfmt"
	"wyweb/internal/interp"
	"wyweb/internal/prover"
)

const (
	DefaultFilename   = "main.wy"
	DefaultModule     = artifact.ID("main")
	DefaultSmallWorld = 3
)

// Options are the per-request switches.
type Options struct {
	Verify          bool
	Counterexamples bool
	// Progress receives rule events; nil disables reporting.
	Progress buildpipeline.ProgressSink
}

// Config is fixed for the lifetime of a Compiler.
type Config struct {
	// Filename is the logical name reported for the submitted source.
	Filename string
	Module   artifact.ID
	Prover   prover.Options
	// SmallWorld bounds the integers tried by the counterexample search.
	SmallWorld int64
	// CounterexampleLimit caps the assignments it tries (0 means default).
	CounterexampleLimit int
	Logger              *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Filename == "" {
		c.Filename = DefaultFilename
	}
	if c.Module == "" {
		c.Module = DefaultModule
	}
	if c.SmallWorld <= 0 {
		c.SmallWorld = DefaultSmallWorld
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Compiler is safe for concurrent use: every call builds in its own store
// and only reads the shared libraries.
type Compiler struct {
	cfg  Config
	libs []*artifact.Library
	// types resolves named types for the counterexample search.
	types func(root artifact.Root, module string) interp.TypeResolver
}

func New(cfg Config, libs ...*artifact.Library) *Compiler {
	return &Compiler{cfg: cfg.withDefaults(), libs: libs, types: projectTypes}
}

// Config returns the effective configuration.
func (c *Compiler) Config() Config { return c.cfg }

// Outcome is the result of one compilation.
type Outcome struct {
	// Kind is one of diagfmt.ResultSuccess, ResultErrors, ResultException.
	Kind   string
	Result *diagfmt.Map
	JS     string
	// Diagnostic is set for located failures.
	Diagnostic *diag.Diagnostic
	// Err is the failure, if any, as returned by the build.
	Err     error
	Stage   buildpipeline.Stage
	Proof   *prover.Report
	Timings buildpipeline.Timings
}

// Compile builds code into JavaScript, verifying it first when asked.
func (c *Compiler) Compile(ctx context.Context, code []byte, opts Options) (out *Outcome) {
	if ctx == nil {
		ctx = context.Background()
	}
	out = &Outcome{}
	defer func() {
		if r := recover(); r != nil {
			c.cfg.Logger.Error("compile panicked", zap.Any("panic", r), zap.Stack("stack"))
			out.fail(fmt.Errorf("internal error: %v", r))
		}
	}()

	store := artifact.NewStore()
	w, err := store.Create(c.cfg.Module, artifact.Source)
	if err != nil {
		out.fail(err)
		return out
	}
	if err := commit(w, code); err != nil {
		out.fail(err)
		return out
	}

	project := artifact.NewProject(store, c.libs...)
	d := buildpipeline.NewDriver(project, c.Rules(opts))
	d.Logger = c.cfg.Logger
	d.Progress = opts.Progress

	err = d.Build(ctx, buildpipeline.Goal{ID: c.cfg.Module, Type: artifact.JavaScript})
	out.Timings = d.Timings
	if report, lookupErr := artifact.Lookup[*prover.Report](store, c.cfg.Module, artifact.Proof); lookupErr == nil {
		out.Proof = report
	}
	if err == nil {
		js, err := artifact.Lookup[string](store, c.cfg.Module, artifact.JavaScript)
		if err != nil {
			out.fail(err)
			return out
		}
		out.Kind, out.JS, out.Result = diagfmt.ResultSuccess, js, diagfmt.Success(js)
		return out
	}

	if d.Failed != nil {
		out.Stage = d.Failed.Stage
	}
	dg, ok := diag.FromError(err, string(out.Stage), c.cfg.Filename, code)
	if !ok {
		out.fail(err)
		return out
	}
	if opts.Verify && opts.Counterexamples && c.wantsCounterexample(dg) {
		dg.Counterexample = c.counterexample(project, dg.Item)
		dg.HasCounterexample = true
	}
	out.Kind, out.Err, out.Diagnostic = diagfmt.ResultErrors, err, &dg
	out.Result = diagfmt.Errors(dg)
	return out
}

// commit writes code through w and closes it. A failed write leaves w
// uncommitted.
func commit(w io.WriteCloser, code []byte) error {
	if _, err := w.Write(code); err != nil {
		return fmt.Errorf("store source: %w", err)
	}
	return w.Close()
}

func (o *Outcome) fail(err error) {
	o.Kind = diagfmt.ResultException
	o.Err = err
	o.Result = diagfmt.Exception(err.Error())
}
