package driven

import "context"

// Analyzer consumes commits from an AnalysisQueue until it is closed.
type Analyzer interface {
	// SupportsOS reports whether the analyzer runs on the named operating system.
	SupportsOS(os string) bool

	// SupportsVCS reports whether the analyzer handles the named version control system.
	SupportsVCS(vcs string) bool

	// Analyze consumes the queue until it reports closed.
	// It is called once the queue has left its initial state.
	Analyze(ctx context.Context) error
}
