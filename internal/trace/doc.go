// Package trace records spans for requests and the rules they run.
//
// Tracing is off by default. When enabled, every compile request opens a
// request span, and the build driver opens one span per rule execution under
// it, so slow stages and stuck provers can be found after the fact.
//
// # Tracers
//
//   - Nop: zero-overhead when tracing is disabled
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - Recorder: keeps the last N events until a failure asks for a dump
//   - ZapTracer: forwards events to the structured logger
//   - Tee: fans out to several tracers, e.g. the log plus a Recorder
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelRequest: request spans only
//   - LevelRule: plus rule spans
//   - LevelDebug: everything, including per-module and per-assertion events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeRule, "compile:main")
//	defer span.End("")
package trace
