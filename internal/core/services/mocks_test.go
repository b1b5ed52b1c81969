package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/comani/internal/adapters/driven/storage/cdms"
	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/plugins"
)

// mockExtractor pushes a fixed set of commits into its queue.
type mockExtractor struct {
	queue   driven.ExtractionQueue
	commits []*domain.Commit
	err     error

	mu       sync.Mutex
	calls    []string
	repoPath string
	ids      []string
	text     string
}

func (m *mockExtractor) SupportsOS(_ string) bool    { return true }
func (m *mockExtractor) SupportsVCS(vcs string) bool { return vcs == "git" }

func (m *mockExtractor) Extract(_ context.Context, repoPath string) error {
	m.record("full")
	m.repoPath = repoPath
	return m.push()
}

func (m *mockExtractor) ExtractIDs(_ context.Context, repoPath string, ids []string) error {
	m.record("filtered")
	m.repoPath = repoPath
	m.ids = ids
	return m.push()
}

func (m *mockExtractor) ExtractText(_ context.Context, text string) error {
	m.record("text")
	m.text = text
	return m.push()
}

func (m *mockExtractor) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockExtractor) push() error {
	for _, c := range m.commits {
		m.queue.Put(c)
	}
	return m.err
}

// mockAnalyzer consumes the queue and records what it saw.
type mockAnalyzer struct {
	queue driven.AnalysisQueue
	limit int
	err   error

	mu  sync.Mutex
	ids []string
}

func (m *mockAnalyzer) SupportsOS(_ string) bool  { return true }
func (m *mockAnalyzer) SupportsVCS(_ string) bool { return true }

func (m *mockAnalyzer) Analyze(_ context.Context) error {
	for {
		if m.limit > 0 && len(m.seen()) >= m.limit {
			return m.err
		}
		c, ok := m.queue.Next()
		if !ok {
			return m.err
		}
		m.mu.Lock()
		m.ids = append(m.ids, c.ID)
		m.mu.Unlock()
	}
}

func (m *mockAnalyzer) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids...)
}

// extractorRegistry registers ext under "mock" and counts builds.
func extractorRegistry(ext *mockExtractor, builds *int) *plugins.ExtractorRegistry {
	r := plugins.NewExtractorRegistry()
	r.Register("mock", func(env plugins.ExtractorEnv) (driven.Extractor, error) {
		if builds != nil {
			*builds++
		}
		ext.queue = env.Queue
		return ext, nil
	})
	return r
}

// analyzerRegistry registers a under "mock".
func analyzerRegistry(a *mockAnalyzer) *plugins.AnalyzerRegistry {
	r := plugins.NewAnalyzerRegistry()
	r.Register("mock", func(env plugins.AnalyzerEnv) (driven.Analyzer, error) {
		a.queue = env.Queue
		return a, nil
	})
	return r
}

func openCDMS(dir string) driven.CommitCache {
	return cdms.NewStore(dir)
}

func commits(n int) []*domain.Commit {
	out := make([]*domain.Commit, n)
	for i := range out {
		out[i] = domain.NewCommit(fmt.Sprintf("c%03d", i), "2020-01-01")
	}
	return out
}

// mapConfig is an in-memory driven.ConfigStore.
type mapConfig map[string]any

func (m mapConfig) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapConfig) GetString(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func (m mapConfig) GetInt(key string, def int) (int, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	if i, ok := v.(int); ok {
		return i, nil
	}
	return strconv.Atoi(strings.TrimSpace(fmt.Sprint(v)))
}

func (m mapConfig) Sub(prefix string) map[string]string {
	out := make(map[string]string)
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			out[k] = m.GetString(k)
		}
	}
	return out
}

func (m mapConfig) Set(key string, value any) { m[key] = value }
func (m mapConfig) Save() error               { return nil }
func (m mapConfig) Load() error               { return nil }
func (m mapConfig) Path() string              { return "memory" }
