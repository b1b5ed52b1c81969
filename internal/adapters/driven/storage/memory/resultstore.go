package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore is an in-memory implementation of driven.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]map[string]domain.AnalysisResult
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string]map[string]domain.AnalysisResult),
	}
}

// Save stores or replaces the result of a commit within a run.
func (s *ResultStore) Save(_ context.Context, result domain.AnalysisResult) error {
	if result.AnalysedAt.IsZero() {
		result.AnalysedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.results[result.RunID]
	if !ok {
		run = make(map[string]domain.AnalysisResult)
		s.results[result.RunID] = run
	}
	run[result.CommitID] = result
	return nil
}

// List returns all results of a run ordered by commit id.
func (s *ResultStore) List(_ context.Context, runID string) ([]domain.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.results[runID]
	results := make([]domain.AnalysisResult, 0, len(run))
	for _, result := range run {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CommitID < results[j].CommitID
	})
	return results, nil
}

// Close is a no-op.
func (s *ResultStore) Close() error {
	return nil
}
