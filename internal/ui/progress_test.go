package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wyweb/internal/buildpipeline"
)

func TestProgressModelTracksRules(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("main.wy", []string{"compile", "emit-js"}, events).(*progressModel)

	m.Update(eventMsg{Rule: "compile", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking})
	assert.Equal(t, "compiling", m.items[0].status)
	assert.InDelta(t, 0.25, m.percent(), 1e-9)

	m.Update(eventMsg{Rule: "compile", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusDone, Elapsed: 1500 * time.Microsecond})
	m.Update(eventMsg{Rule: "prove", Stage: buildpipeline.StageProve, Status: buildpipeline.StatusError})
	require.Len(t, m.items, 3)
	assert.Equal(t, "error", m.items[2].status)
	assert.True(t, m.failed)
	assert.Equal(t, "1.5ms", m.items[0].elapsed)

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	view := m.View()
	assert.True(t, strings.Contains(view, "failed: main.wy"), view)
	assert.Contains(t, view, "emit-js")
}

func TestListenQuitsOnClose(t *testing.T) {
	events := make(chan buildpipeline.Event, 1)
	m := NewProgressModel("x", nil, events).(*progressModel)
	events <- buildpipeline.Event{Rule: "compile", Status: buildpipeline.StatusQueued}
	close(events)
	assert.IsType(t, eventMsg{}, m.listenForEvent()())
	assert.IsType(t, doneMsg{}, m.listenForEvent()())
	assert.Empty(t, NewProgressModel("x", nil, nil).View())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "日本...", truncate("日本語のテキスト", 7))
}
