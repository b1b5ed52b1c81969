// Package plugins maps extractor and analyzer names to their builders.
// The run configuration names a plug-in; the registry builds it and checks
// that it supports the configured operating system and version control
// system before handing it out.
package plugins

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/logger"
)

// Plugin is the capability every extractor and analyzer shares.
type Plugin interface {
	SupportsOS(os string) bool
	SupportsVCS(vcs string) bool
}

// ExtractorEnv is passed to extractor builders.
type ExtractorEnv struct {
	// Properties holds all extraction.* settings.
	Properties domain.Properties

	// Queue receives the extracted commits.
	Queue driven.ExtractionQueue

	Logger *logger.Logger
}

// AnalyzerEnv is passed to analyzer builders.
type AnalyzerEnv struct {
	// Properties holds all analysis.* settings.
	Properties domain.Properties

	// Queue supplies the commits to analyze.
	Queue driven.AnalysisQueue

	Logger *logger.Logger

	// RunID identifies the current run.
	RunID string
}

// BuilderFunc creates a plug-in from its environment.
type BuilderFunc[E any, P Plugin] func(env E) (P, error)

// Registry maps plug-in names to their builders.
type Registry[E any, P Plugin] struct {
	builders map[string]BuilderFunc[E, P]
}

// ExtractorRegistry builds extractors by name.
type ExtractorRegistry = Registry[ExtractorEnv, driven.Extractor]

// AnalyzerRegistry builds analyzers by name.
type AnalyzerRegistry = Registry[AnalyzerEnv, driven.Analyzer]

// NewExtractorRegistry creates an empty extractor registry.
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{builders: make(map[string]BuilderFunc[ExtractorEnv, driven.Extractor])}
}

// NewAnalyzerRegistry creates an empty analyzer registry.
func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{builders: make(map[string]BuilderFunc[AnalyzerEnv, driven.Analyzer])}
}

// Register adds a builder. A later registration under the same name wins.
func (r *Registry[E, P]) Register(name string, builder BuilderFunc[E, P]) {
	r.builders[name] = builder
}

// Create builds the plug-in registered under name and verifies that it
// supports os and vcs. The plug-in is only returned if both checks pass.
func (r *Registry[E, P]) Create(name, os, vcs string, env E) (P, error) {
	var zero P

	builder, ok := r.builders[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s", domain.ErrUnknownPlugin, name)
	}

	plugin, err := builder(env)
	if err != nil {
		return zero, fmt.Errorf("build %s: %w", name, err)
	}

	if !plugin.SupportsOS(os) {
		return zero, fmt.Errorf("%s: %w: %s", name, domain.ErrUnsupportedOS, os)
	}
	if !plugin.SupportsVCS(vcs) {
		return zero, fmt.Errorf("%s: %w: %s", name, domain.ErrUnsupportedVCS, vcs)
	}
	return plugin, nil
}

// Has returns true if a plug-in with the given name is registered.
func (r *Registry[E, P]) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered names in sorted order.
func (r *Registry[E, P]) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
