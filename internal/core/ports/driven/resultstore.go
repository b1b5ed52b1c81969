package driven

import (
	"context"

	"github.com/custodia-labs/comani/internal/core/domain"
)

// ResultStore persists analysis results.
type ResultStore interface {
	// Save stores a result. A result for the same run and commit is replaced.
	Save(ctx context.Context, result domain.AnalysisResult) error

	// List returns all results of a run, ordered by commit id.
	List(ctx context.Context, runID string) ([]domain.AnalysisResult, error)

	// Close releases the underlying resources.
	Close() error
}
