package driven

import "context"

// Extractor produces commits and pushes them into an ExtractionQueue.
// Which method is called depends on the run configuration; exactly one of
// them is invoked per run.
type Extractor interface {
	// SupportsOS reports whether the extractor runs on the named operating system.
	SupportsOS(os string) bool

	// SupportsVCS reports whether the extractor handles the named version control system.
	SupportsVCS(vcs string) bool

	// Extract extracts every commit of the repository at repoPath.
	Extract(ctx context.Context, repoPath string) error

	// ExtractIDs extracts only the commits with the given ids, in order.
	ExtractIDs(ctx context.Context, repoPath string, ids []string) error

	// ExtractText parses a single commit given as text.
	ExtractText(ctx context.Context, text string) error
}
