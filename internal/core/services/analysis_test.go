package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/queue"
	"github.com/custodia-labs/comani/internal/logger"
)

func newAnalysis(q *queue.CommitQueue, a *mockAnalyzer) *AnalysisManager {
	return NewAnalysisManager(AnalysisConfig{
		OS:         "linux",
		VCS:        "git",
		Properties: domain.Properties{domain.KeyAnalyzer: "mock"},
		Queue:      q,
		RunID:      "run-1",
		Registry:   analyzerRegistry(a),
		Logger:     logger.Discard(),
	})
}

func TestAnalysisManager_WaitsForOpen(t *testing.T) {
	q := queue.New(5, nil)
	a := &mockAnalyzer{}
	m := newAnalysis(q, a)
	require.True(t, m.Ready())

	done := make(chan bool)
	go func() { done <- m.Run(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Run returned before the queue was opened")
	case <-time.After(50 * time.Millisecond):
	}

	q.SetState(domain.QueueOpen)
	require.True(t, q.Add(domain.NewCommit("a", "d")))
	require.True(t, q.Add(domain.NewCommit("b", "d")))
	q.SetState(domain.QueueClosed)

	assert.True(t, <-done)
	assert.Equal(t, []string{"a", "b"}, a.seen())
}

func TestAnalysisManager_AnalyzerFailure(t *testing.T) {
	q := queue.New(5, nil)
	q.SetState(domain.QueueOpen)
	q.SetState(domain.QueueClosed)

	m := newAnalysis(q, &mockAnalyzer{err: errors.New("output not writable")})

	assert.False(t, m.Run(context.Background()))
}

func TestAnalysisManager_DrainsLeftovers(t *testing.T) {
	q := queue.New(5, nil)
	q.SetState(domain.QueueOpen)
	for _, c := range commits(4) {
		require.True(t, q.Add(c))
	}
	q.SetState(domain.QueueClosed)

	a := &mockAnalyzer{limit: 1, err: errors.New("gave up")}
	m := newAnalysis(q, a)

	assert.False(t, m.Run(context.Background()))
	assert.Equal(t, []string{"c000"}, a.seen())
	assert.Equal(t, domain.QueueClosed, q.State())
	assert.Equal(t, 0, q.Len())
}

func TestAnalysisManager_UnknownAnalyzer(t *testing.T) {
	m := NewAnalysisManager(AnalysisConfig{
		OS:         "linux",
		VCS:        "git",
		Properties: domain.Properties{domain.KeyAnalyzer: "missing"},
		Queue:      queue.New(1, nil),
		Registry:   analyzerRegistry(&mockAnalyzer{}),
	})

	assert.False(t, m.Ready())
	assert.False(t, m.Run(context.Background()))
}

func TestAnalysisManager_NoRegistry(t *testing.T) {
	m := NewAnalysisManager(AnalysisConfig{Queue: queue.New(1, nil)})
	assert.False(t, m.Ready())
}
