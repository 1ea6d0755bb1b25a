package trace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StorageMode determines where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // in-memory recorder, dumped on demand
	ModeLog                           // structured logger
)

// String returns the string representation of StorageMode.
func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeLog:
		return "log"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "log":
		return ModeLog, nil
	default:
		return 0, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|log)", s)
	}
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format      // FormatAuto picks NDJSON for *.ndjson outputs
	Output     io.Writer   // for stream mode (if nil, use OutputPath)
	OutputPath string      // "-" or "" for stderr
	Logger     *zap.Logger // for log mode
	// Record is the size of the in-memory recorder. Ring mode uses it alone
	// (DefaultRecordSize when zero); other modes keep a recorder alongside
	// their output when it is positive.
	Record int
}

// New creates a Tracer based on Config.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
			format = FormatNDJSON
		}
	}

	var primary Tracer
	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		primary = NewStreamTracer(w, cfg.Level, format)
	case ModeRing:
		return NewRecorder(cfg.Record, cfg.Level), nil
	case ModeLog:
		if cfg.Logger == nil {
			return nil, fmt.Errorf("log mode needs a logger")
		}
		primary = NewZapTracer(cfg.Logger, cfg.Level)
	default:
		return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
	}
	if cfg.Record > 0 {
		return NewTee(primary, NewRecorder(cfg.Record, cfg.Level)), nil
	}
	return primary, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return noClose{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// noClose keeps Close from closing stderr.
type noClose struct{ io.Writer }
