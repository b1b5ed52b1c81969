package logger

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       int
		expected Level
		ok       bool
	}{
		{0, LevelSilent, true},
		{1, LevelStandard, true},
		{2, LevelDebug, true},
		{3, LevelStandard, false},
		{-1, LevelStandard, false},
	}

	for _, tt := range tests {
		level, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.expected, level)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestLog_Standard(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelStandard)

	l.Log("CommitQueue", "Caching failed", "permission denied", TypeWarning)

	assert.Equal(t, "[WARNING] [CommitQueue] Caching failed\n        permission denied\n", buf.String())
}

func TestLog_NoDescription(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelStandard)

	l.Info("ExtractionManager", "extracted %d commits", 3)

	assert.Equal(t, "[INFO] [ExtractionManager] extracted 3 commits\n", buf.String())
}

func TestLog_DebugOnlyAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelStandard)

	l.Debug("origin", "hidden")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelDebug)
	l.Debug("origin", "shown")
	assert.Equal(t, "[DEBUG] [origin] shown\n", buf.String())
}

func TestLog_Silent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelSilent)

	l.Error("origin", "boom")
	l.Section("Run")

	assert.Empty(t, buf.String())
}

func TestEnabled(t *testing.T) {
	l := New(&bytes.Buffer{}, LevelStandard)

	assert.True(t, l.Enabled(TypeInfo))
	assert.True(t, l.Enabled(TypeWarning))
	assert.True(t, l.Enabled(TypeError))
	assert.False(t, l.Enabled(TypeDebug))

	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled(TypeError))
}

func TestNilLogger(t *testing.T) {
	var l *Logger

	assert.NotPanics(t, func() {
		l.Log("origin", "message", "", TypeError)
		l.Info("origin", "message")
		l.Section("Run")
	})
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelStandard)

	l.Section("Extraction")

	assert.Equal(t, "\n=== Extraction ===\n", buf.String())
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := New(&first, LevelStandard)

	l.SetOutput(&second)
	l.Info("origin", "message")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "message")
}

func TestStyled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelStandard)
	l.SetStyled(true)

	l.Error("origin", "boom")

	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "[origin] boom")
}

func TestMessageType_String(t *testing.T) {
	assert.Equal(t, "INFO", TypeInfo.String())
	assert.Equal(t, "WARNING", TypeWarning.String())
	assert.Equal(t, "ERROR", TypeError.String())
	assert.Equal(t, "DEBUG", TypeDebug.String())
	assert.Equal(t, "UNKNOWN", MessageType(9).String())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.Equal(t, LevelSilent, l.Level())
	assert.NotPanics(t, func() { l.Error("origin", "dropped") })
}

func TestConcurrentAccess(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Debug("worker", "concurrent %d", i)
			l.Enabled(TypeInfo)
		}()
	}
	wg.Wait()
	// Test passes if no race conditions
}
