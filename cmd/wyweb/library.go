package main

import (
	"context"

	"go.uber.org/zap"

	"wyweb/internal/artifact"
	"wyweb/internal/bundle"
	"wyweb/internal/driver"
	"wyweb/internal/prover"
	"wyweb/lib"
)

// loadLibrary opens the configured bundle (or the embedded sources) and
// compiles it once for the process.
func loadLibrary(ctx context.Context) (*artifact.Library, error) {
	b, from, err := bundle.Open(app.cfg.Compiler.Library, lib.FS)
	if err != nil {
		return nil, err
	}
	l, err := bundle.Compile(ctx, b, bundle.Options{Logger: app.log})
	if err != nil {
		return nil, err
	}
	app.log.Info("library loaded",
		zap.String("from", from),
		zap.Int("modules", len(b.Modules)),
		zap.Stringer("digest", b.Digest()))
	return l, nil
}

func newCompiler(l *artifact.Library) *driver.Compiler {
	return driver.New(driver.Config{
		Filename: app.cfg.Compiler.Filename,
		Prover: prover.Options{
			Bound:          app.cfg.Verify.Bound,
			MaxAssignments: app.cfg.Verify.MaxAssignments,
		},
		SmallWorld: app.cfg.Verify.SmallWorld,
		Logger:     app.log,
	}, l)
}
