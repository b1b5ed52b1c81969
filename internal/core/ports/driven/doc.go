// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// and plug-ins implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Produces commits from a repository or commit text
//   - Analyzer: Consumes commits from the queue
//   - ExtractionQueue: Write side of the commit hand-off queue
//   - AnalysisQueue: Read side of the commit hand-off queue
//   - ConfigStore: Run configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CommitCache: CDMS cache of extracted commits. Without it, nothing is cached.
//   - ResultStore: Persistence for analysis results.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or analyzer package
package driven
