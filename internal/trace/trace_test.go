package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSpansNestThroughContext(t *testing.T) {
	ring := NewRecorder(16, LevelRule)
	ctx := WithTracer(context.Background(), ring)

	ctx, req := Start(ctx, ScopeRequest, "build")
	_, rule := Start(ctx, ScopeRule, "compile:main")
	rule.WithExtra("artifact", "main").End("done")
	req.End("")

	events := ring.Events()
	require.Len(t, events, 4)
	assert.Equal(t, KindSpanBegin, events[0].Kind)
	assert.Equal(t, "compile:main", events[1].Name)
	assert.Equal(t, req.ID(), events[1].ParentID)
	assert.Equal(t, KindSpanEnd, events[2].Kind)
	assert.Equal(t, map[string]string{"artifact": "main"}, events[2].Extra)
	assert.Equal(t, uint64(0), events[3].ParentID)
}

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRecorder(16, LevelRequest)
	ctx := WithTracer(context.Background(), ring)
	ctx, req := Start(ctx, ScopeRequest, "build")
	_, rule := Start(ctx, ScopeRule, "compile:main")
	assert.Zero(t, rule.ID())
	rule.End("")
	Point(ctx, ScopeAssert, "assert", "main::0")
	req.End("")
	assert.Len(t, ring.Events(), 2)
}

func TestRingWraps(t *testing.T) {
	ring := NewRecorder(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeRequest, Name: name})
	}
	events := ring.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Name)
	assert.Equal(t, "c", events[1].Name)

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatNDJSON))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"name":"c"`)
	assert.Zero(t, ring.Len(), "dump empties the recorder")
}

func TestRecordAlongsideLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr, err := New(Config{Level: LevelRule, Mode: ModeLog, Logger: zap.New(core), Record: 8})
	require.NoError(t, err)
	require.IsType(t, &Tee{}, tr)

	ctx := WithTracer(context.Background(), tr)
	_, s := Start(ctx, ScopeRule, "vcgen:main")
	s.End("done")
	assert.Len(t, logs.All(), 1)

	var buf bytes.Buffer
	held, err := DumpTo(&buf, tr, FormatText)
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, 2, strings.Count(buf.String(), "vcgen:main"))

	held, err = DumpTo(&buf, Nop, FormatText)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRingMode(t *testing.T) {
	tr, err := New(Config{Level: LevelRequest, Mode: ModeRing})
	require.NoError(t, err)
	rec, ok := tr.(*Recorder)
	require.True(t, ok)
	ctx := WithTracer(context.Background(), tr)
	_, s := Start(ctx, ScopeRequest, "build")
	s.End("")
	assert.Equal(t, 2, rec.Len())
}

func TestTee(t *testing.T) {
	assert.Equal(t, Nop, NewTee(nil, Nop))
	only := NewRecorder(4, LevelRule)
	assert.Same(t, only, NewTee(Nop, only))

	coarse := NewRecorder(4, LevelRequest)
	tee := NewTee(only, coarse)
	assert.Equal(t, LevelRule, tee.Level())
	tee.Emit(&Event{Kind: KindPoint, Scope: ScopeRequest, Name: "a"})
	tee.Emit(&Event{Kind: KindPoint, Scope: ScopeRule, Name: "b"})
	assert.Equal(t, 2, only.Len())
	assert.Equal(t, 1, coarse.Len())
	assert.NoError(t, tee.Flush())
	assert.NoError(t, tee.Close())
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelRule, Mode: ModeStream, Output: &buf})
	require.NoError(t, err)
	ctx := WithTracer(context.Background(), tr)
	_, s := Start(ctx, ScopeRule, "prove:main")
	s.WithExtra("asserts", "3").End("done")
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "→ prove:main")
	assert.Contains(t, lines[1], "← prove:main (done)")
	assert.Contains(t, lines[1], "{asserts=3}")
}

func TestZapTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr, err := New(Config{Level: LevelRule, Mode: ModeLog, Logger: zap.New(core)})
	require.NoError(t, err)
	ctx := WithTracer(context.Background(), tr)
	_, s := Start(ctx, ScopeRule, "emit-js:main")
	s.End("done")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "emit-js:main", entries[0].Message)
	assert.Equal(t, "rule", entries[0].ContextMap()["scope"])
}

func TestDisabled(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())
	ctx, s := Start(WithTracer(context.Background(), tr), ScopeRequest, "build")
	assert.Zero(t, s.ID())
	assert.Zero(t, CurrentSpan(ctx).SpanID)
	assert.Zero(t, s.End(""))
}

func TestParse(t *testing.T) {
	l, err := ParseLevel("RULE")
	require.NoError(t, err)
	assert.Equal(t, LevelRule, l)
	_, err = ParseLevel("phase")
	assert.Error(t, err)

	m, err := ParseMode("Ring")
	require.NoError(t, err)
	assert.Equal(t, ModeRing, m)
	_, err = ParseMode("file")
	assert.Error(t, err)

	f, err := ParseFormat("ndjson")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)
}
