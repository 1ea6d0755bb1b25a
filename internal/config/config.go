// Package config loads wyweb settings: defaults, then wyweb.toml, then .env
// and the environment. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"wyweb/internal/trace"
)

// DefaultFile is read when no other path is given.
const DefaultFile = "wyweb.toml"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Compiler CompilerConfig `toml:"compiler"`
	Verify   VerifyConfig   `toml:"verify"`
	Log      LogConfig      `toml:"log"`
	Trace    TraceConfig    `toml:"trace"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	CORSOrigins     []string      `toml:"cors_origins"`
	// Playground serves the browser editor at GET /.
	Playground bool `toml:"playground"`
}

type CompilerConfig struct {
	// Library is the bundle file; the embedded sources are used when it is
	// missing.
	Library  string `toml:"library"`
	Filename string `toml:"filename"`
}

type VerifyConfig struct {
	Bound          int64 `toml:"bound"`
	MaxAssignments int   `toml:"max_assignments"`
	SmallWorld     int64 `toml:"small_world"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json | console
}

type TraceConfig struct {
	Level string `toml:"level"`
	// Mode is log, stream or ring. Empty picks stream when Output is set
	// and log otherwise.
	Mode   string `toml:"mode"`
	Output string `toml:"output"` // "-" = stderr
	// Record keeps that many recent events in memory for dumps on failure.
	Record int `toml:"record"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			Playground:      true,
		},
		Compiler: CompilerConfig{
			Library:  "lib/stdlib.bundle",
			Filename: "main.wy",
		},
		Verify: VerifyConfig{
			Bound:          8,
			MaxAssignments: 200_000,
			SmallWorld:     3,
		},
		Log:   LogConfig{Level: "info", Format: "json"},
		Trace: TraceConfig{Level: "off"},
	}
}

// Load builds the configuration from path (DefaultFile when empty) and the
// environment. A missing default file is not an error; a missing explicit
// one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path.
func (c *Config) LoadFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overlays WYWEB_* variables and PORT.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	env := func(k string) string { return strings.TrimSpace(getenv(k)) }

	if port := env("PORT"); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		c.Server.Addr = port
	}
	if v := env("WYWEB_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := env("WYWEB_LIBRARY"); v != "" {
		c.Compiler.Library = v
	}
	if v := env("WYWEB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("WYWEB_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := env("WYWEB_TRACE"); v != "" {
		c.Trace.Level = v
	}
	if v := env("WYWEB_TRACE_MODE"); v != "" {
		c.Trace.Mode = v
	}
	if v := env("WYWEB_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := env("WYWEB_VERIFY_BOUND"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("WYWEB_VERIFY_BOUND: %w", err)
		}
		c.Verify.Bound = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}
	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", t.name))
		}
	}
	if c.Compiler.Filename == "" || !strings.HasSuffix(c.Compiler.Filename, ".wy") {
		errs = append(errs, fmt.Errorf("compiler.filename must end in .wy, got %q", c.Compiler.Filename))
	}
	if c.Verify.Bound < 1 || c.Verify.Bound > 1<<20 {
		errs = append(errs, fmt.Errorf("verify.bound must be in 1..1048576, got %d", c.Verify.Bound))
	}
	if c.Verify.MaxAssignments < 1 {
		errs = append(errs, fmt.Errorf("verify.max_assignments must be positive, got %d", c.Verify.MaxAssignments))
	}
	if c.Verify.SmallWorld < 1 || c.Verify.SmallWorld > 64 {
		errs = append(errs, fmt.Errorf("verify.small_world must be in 1..64, got %d", c.Verify.SmallWorld))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("trace.level: %w", err))
	}
	if c.Trace.Mode != "" {
		if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
			errs = append(errs, fmt.Errorf("trace.mode: %w", err))
		}
	}
	if c.Trace.Record < 0 {
		errs = append(errs, fmt.Errorf("trace.record must not be negative, got %d", c.Trace.Record))
	}
	return errors.Join(errs...)
}
