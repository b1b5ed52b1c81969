// Package domain defines the core business entities for comani.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Commit: One extracted change record with its header lines
//   - ChangedArtifact: One file touched by a commit
//   - QueueState: The lifecycle of the commit hand-off queue
//   - Settings: A validated run configuration
//   - AnalysisResult: Per-commit figures produced by an analyzer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
