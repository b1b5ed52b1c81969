package driving

import "context"

// Manager drives one side of the commit queue.
// It follows a two-phase contract: Ready performs one-time setup and
// Run does the work. Run must not be called unless Ready returned true.
type Manager interface {
	// Ready performs setup on the first call and reports whether the
	// manager can run. Later calls return the cached outcome.
	Ready() bool

	// Run executes the manager and reports success.
	// It returns false immediately if the manager is not ready.
	Run(ctx context.Context) bool
}

// Pipeline runs the extraction and analysis managers concurrently.
type Pipeline interface {
	// Run prepares both managers, runs them side by side, waits for both
	// and reports whether both succeeded.
	Run(ctx context.Context) bool
}
