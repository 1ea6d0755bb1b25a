package observ

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("read")
	tm.End(idx, "12 bytes")
	tm.End(42, "ignored")
	tm.Record("compile", 3*time.Millisecond)

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "read", r.Phases[0].Name)
	assert.Equal(t, "12 bytes", r.Phases[0].Note)
	assert.InDelta(t, 3.0, r.Phases[1].DurationMS, 1e-9)
	assert.GreaterOrEqual(t, r.TotalMS, 3.0)

	s := tm.Summary()
	assert.True(t, strings.HasPrefix(s, "timings:\n"))
	assert.Contains(t, s, "// 12 bytes")
	assert.Contains(t, s, "total")
}

func TestEmptyReport(t *testing.T) {
	assert.Equal(t, Report{}, NewTimer().Report())
}

func TestTimerAsZapObject(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tm := NewTimer()
	tm.Record("compile", time.Millisecond)
	tm.Record("emit-js", 2*time.Millisecond)
	zap.New(core).Info("done", zap.Object("timings", tm))

	entries := logs.All()
	require.Len(t, entries, 1)
	got := entries[0].ContextMap()["timings"].(map[string]any)
	assert.Equal(t, time.Millisecond, got["compile"])
	assert.Equal(t, 3*time.Millisecond, got["total"])
}
