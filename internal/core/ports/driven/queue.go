package driven

import "github.com/custodia-labs/comani/internal/core/domain"

// ExtractionQueue is the write side of the commit queue.
type ExtractionQueue interface {
	// Add appends c without blocking. It returns false if the queue is not
	// open, a close is pending or the queue is full.
	Add(c *domain.Commit) bool

	// Put appends c, waiting while the queue is full or not yet open.
	// It returns false if the queue is closed or a close is pending.
	Put(c *domain.Commit) bool
}

// AnalysisQueue is the read side of the commit queue.
type AnalysisQueue interface {
	// IsOpen reports whether the queue is open.
	IsOpen() bool

	// Take removes the head commit without blocking.
	// It returns false if the queue is not open or empty.
	Take() (*domain.Commit, bool)

	// Next removes the head commit, waiting while the queue is open and empty.
	// It returns false once the queue is closed.
	Next() (*domain.Commit, bool)

	// AwaitOpen blocks until the queue has left its initial state.
	AwaitOpen()
}
