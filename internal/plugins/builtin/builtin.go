// Package builtin registers the extractors and analyzers shipped with comani.
package builtin

import (
	"fmt"

	"github.com/custodia-labs/comani/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/comani/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/comani/internal/analyzers/stats"
	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/extractors/git"
	"github.com/custodia-labs/comani/internal/extractors/github"
	"github.com/custodia-labs/comani/internal/plugins"
)

// Register registers the built-in extractors and analyzers.
func Register(extractors *plugins.ExtractorRegistry, analyzers *plugins.AnalyzerRegistry) {
	extractors.Register(git.Name, func(env plugins.ExtractorEnv) (driven.Extractor, error) {
		return git.New(env.Queue, env.Logger), nil
	})
	extractors.Register(github.Name, func(env plugins.ExtractorEnv) (driven.Extractor, error) {
		return github.NewFromProperties(env.Properties, env.Queue, env.Logger)
	})

	analyzers.Register(stats.Name, func(env plugins.AnalyzerEnv) (driven.Analyzer, error) {
		store, err := OpenResultStore(env.Properties.Get(domain.KeyOutput))
		if err != nil {
			return nil, err
		}
		return stats.New(env.Queue, store, env.RunID, env.Logger), nil
	})
}

// OpenResultStore opens the SQLite result store in dir. An empty dir or
// domain.MemoryOutput selects the in-memory store.
func OpenResultStore(dir string) (driven.ResultStore, error) {
	if dir == "" || dir == domain.MemoryOutput {
		return memory.NewResultStore(), nil
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return store.ResultStore(), nil
}
