package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wyweb/internal/config"
	"wyweb/internal/trace"
)

// setupTracing attaches a tracer to the command context.
func setupTracing(cmd *cobra.Command) error {
	cfg, err := traceConfig(app.cfg.Trace, app.log)
	if err != nil {
		return err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	app.tracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return nil
}

// traceConfig maps the [trace] section onto a tracer config. Without an
// explicit mode an output file means stream mode, otherwise events go to the
// logger.
func traceConfig(tc config.TraceConfig, log *zap.Logger) (trace.Config, error) {
	level, err := trace.ParseLevel(tc.Level)
	if err != nil {
		return trace.Config{}, err
	}
	cfg := trace.Config{Level: level, Mode: trace.ModeLog, Logger: log, Record: tc.Record}
	switch {
	case tc.Mode != "":
		if cfg.Mode, err = trace.ParseMode(tc.Mode); err != nil {
			return trace.Config{}, err
		}
	case tc.Output != "":
		cfg.Mode = trace.ModeStream
	}
	if cfg.Mode == trace.ModeStream {
		cfg.OutputPath = tc.Output
	}
	return cfg, nil
}

// dumpTrace writes the events the recorder held back, under a header naming
// why. Tracers without a recorder write nothing.
func dumpTrace(w io.Writer, reason string) {
	if app.tracer == nil {
		return
	}
	var buf bytes.Buffer
	held, err := trace.DumpTo(&buf, app.tracer, trace.FormatText)
	if !held {
		return
	}
	if err != nil {
		app.log.Warn("trace dump failed", zap.Error(err))
	}
	if buf.Len() == 0 {
		return
	}
	fmt.Fprintf(w, "--- trace: %s ---\n", reason)
	_, _ = w.Write(buf.Bytes())
}
