package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wyweb/internal/bundle"
	"wyweb/internal/config"
	"wyweb/internal/trace"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "off", "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.wy")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestCompileJSON(t *testing.T) {
	path := writeSource(t, "import std::math;\nprint math::min(4, 2);\n")
	stdout, _, err := execute(t, "compile", "--format", "json", path)
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "success", res["result"])
	assert.Contains(t, res["js"], "std$math$min(4, 2)")
}

func TestCompileQuery(t *testing.T) {
	path := writeSource(t, "int x = ")
	stdout, _, err := execute(t, "compile", "--format", "json", "--query", "$.errors[*].text", path)
	require.Error(t, err)
	assert.True(t, isSilent(err))
	assert.Equal(t, "expected expression, found end of input\n", stdout)
}

func TestCompilePrettyWritesJS(t *testing.T) {
	path := writeSource(t, "print 6 * 7;\n")
	out := filepath.Join(t.TempDir(), "main.js")
	_, _, err := execute(t, "compile", "--format", "pretty", "--query", "", "-o", out, path)
	require.NoError(t, err)
	js, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(js), "console.log((6 * 7));")
}

func TestCompileRejectsFormat(t *testing.T) {
	path := writeSource(t, "print 1;")
	_, _, err := execute(t, "compile", "--format", "xml", path)
	assert.EqualError(t, err, "unknown format: xml")
}

func TestBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "std"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "std", "id.wy"), []byte("function id(int x) -> int { return x; }\n"), 0o600))
	out := filepath.Join(dir, "lib.bundle")

	stdout, _, err := execute(t, "bundle", "-o", out, dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "std/id")
	assert.True(t, strings.HasPrefix(strings.Split(stdout, "\n")[1], "wrote "+out))

	b, err := bundle.Load(out)
	require.NoError(t, err)
	require.Len(t, b.Modules, 1)
	assert.Equal(t, "std/id", b.Modules[0].Path)
}

func TestTokensJSON(t *testing.T) {
	path := writeSource(t, "print 1;")
	stdout, _, err := execute(t, "tokens", "--format", "json", path)
	require.NoError(t, err)
	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &toks))
	require.NotEmpty(t, toks)
	assert.Equal(t, "print", toks[0]["text"])
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var v versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &v))
	assert.Equal(t, "wyweb", v.Tool)
	assert.NotEmpty(t, v.Version)
}

func TestTraceConfig(t *testing.T) {
	tests := []struct {
		name string
		tc   config.TraceConfig
		mode trace.StorageMode
		path string
	}{
		{"log by default", config.TraceConfig{Level: "rule"}, trace.ModeLog, ""},
		{"output means stream", config.TraceConfig{Level: "rule", Output: "t.ndjson"}, trace.ModeStream, "t.ndjson"},
		{"explicit ring", config.TraceConfig{Level: "rule", Mode: "ring", Output: "t.ndjson", Record: 64}, trace.ModeRing, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := traceConfig(tt.tc, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.mode, cfg.Mode)
			assert.Equal(t, tt.path, cfg.OutputPath)
			assert.Equal(t, tt.tc.Record, cfg.Record)
		})
	}
	_, err := traceConfig(config.TraceConfig{Level: "rule", Mode: "file"}, zap.NewNop())
	assert.Error(t, err)
}

func TestDumpTrace(t *testing.T) {
	saved := app
	t.Cleanup(func() { app = saved })
	app.log = zap.NewNop()

	rec := trace.NewRecorder(8, trace.LevelRule)
	app.tracer = rec
	_, span := trace.Start(trace.WithTracer(context.Background(), rec), trace.ScopeRule, "prove:main")
	span.End("error")

	var buf bytes.Buffer
	dumpTrace(&buf, "exception")
	assert.True(t, strings.HasPrefix(buf.String(), "--- trace: exception ---\n"))
	assert.Contains(t, buf.String(), "prove:main")

	buf.Reset()
	dumpTrace(&buf, "again")
	assert.Empty(t, buf.String(), "events are dumped once")

	app.tracer = trace.Nop
	dumpTrace(&buf, "nop")
	assert.Empty(t, buf.String())
}
