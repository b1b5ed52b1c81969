package services

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/queue"
	"github.com/custodia-labs/comani/internal/logger"
)

// mockManager is a driving.Manager with fixed outcomes.
type mockManager struct {
	ready  bool
	result bool
	runs   atomic.Int32
}

func (m *mockManager) Ready() bool { return m.ready }

func (m *mockManager) Run(_ context.Context) bool {
	m.runs.Add(1)
	return m.result
}

func TestPipeline_Results(t *testing.T) {
	tests := []struct {
		name       string
		extraction bool
		analysis   bool
		expected   bool
	}{
		{"both succeed", true, true, true},
		{"extraction fails", false, true, false},
		{"analysis fails", true, false, false},
		{"both fail", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &mockManager{ready: true, result: tt.extraction}
			a := &mockManager{ready: true, result: tt.analysis}

			ok := NewPipeline(e, a, logger.Discard()).Run(context.Background())

			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, int32(1), e.runs.Load())
			assert.Equal(t, int32(1), a.runs.Load())
		})
	}
}

func TestPipeline_NotReadyStartsNothing(t *testing.T) {
	tests := []struct {
		name            string
		extractionReady bool
		analysisReady   bool
	}{
		{"extraction not ready", false, true},
		{"analysis not ready", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &mockManager{ready: tt.extractionReady, result: true}
			a := &mockManager{ready: tt.analysisReady, result: true}

			ok := NewPipeline(e, a, logger.Discard()).Run(context.Background())

			assert.False(t, ok)
			assert.Equal(t, int32(0), e.runs.Load())
			assert.Equal(t, int32(0), a.runs.Load())
		})
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	q := queue.New(2, nil)
	ext := &mockExtractor{commits: commits(50)}
	an := &mockAnalyzer{}

	e := newExtraction(domain.Properties{
		domain.KeyExtractor: "mock",
		domain.KeyInput:     "/repo",
	}, q, ext, nil)
	a := newAnalysis(q, an)

	ok := NewPipeline(e, a, logger.Discard()).Run(context.Background())

	require.True(t, ok)
	seen := an.seen()
	require.Len(t, seen, 50)
	for i, c := range commits(50) {
		assert.Equal(t, c.ID, seen[i])
	}
	assert.Equal(t, domain.QueueClosed, q.State())
}

func TestPipeline_AnalyzerGivesUpEarly(t *testing.T) {
	q := queue.New(1, nil)
	ext := &mockExtractor{commits: commits(10)}
	an := &mockAnalyzer{limit: 2}

	e := newExtraction(domain.Properties{
		domain.KeyExtractor: "mock",
		domain.KeyInput:     "/repo",
	}, q, ext, nil)
	a := newAnalysis(q, an)

	ok := NewPipeline(e, a, logger.Discard()).Run(context.Background())

	assert.True(t, ok)
	assert.Len(t, an.seen(), 2)
	assert.Equal(t, domain.QueueClosed, q.State())
}

func TestPipeline_ReuseWithMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeCache(t, dir, "a", "c")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Commit_b.cdms"), []byte("[CDMS::Start::Commit(b)]\n"), 0o644))

	q := queue.New(10, nil)
	an := &mockAnalyzer{}
	e := newExtraction(domain.Properties{domain.KeyReuse: dir}, q, &mockExtractor{}, nil)
	a := newAnalysis(q, an)

	ok := NewPipeline(e, a, logger.Discard()).Run(context.Background())

	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, an.seen())
}
