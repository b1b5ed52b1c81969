package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/core/ports/driving"
	"github.com/custodia-labs/comani/internal/logger"
	"github.com/custodia-labs/comani/internal/plugins"
)

const analysisOrigin = "AnalysisManager"

// Ensure AnalysisManager implements the interface.
var _ driving.Manager = (*AnalysisManager)(nil)

// AnalysisConfig holds the dependencies of an AnalysisManager.
type AnalysisConfig struct {
	// OS and VCS are checked against the analyzer's support.
	OS  string
	VCS string

	// Properties holds all analysis.* settings.
	Properties domain.Properties

	// Queue supplies the commits to analyze.
	Queue driven.AnalysisQueue

	// RunID identifies the current run and is handed to the analyzer.
	RunID string

	Registry *plugins.AnalyzerRegistry
	Logger   *logger.Logger
}

// AnalysisManager waits for the queue to open and hands it to the analyzer.
// All per-commit work belongs to the analyzer.
type AnalysisManager struct {
	cfg AnalysisConfig
	log *logger.Logger

	once     sync.Once
	ready    bool
	analyzer driven.Analyzer
}

// NewAnalysisManager creates an analysis manager.
// Setup is deferred to the first Ready call.
func NewAnalysisManager(cfg AnalysisConfig) *AnalysisManager {
	return &AnalysisManager{cfg: cfg, log: cfg.Logger}
}

// Ready creates the analyzer on the first call and reports whether the manager can run.
func (m *AnalysisManager) Ready() bool {
	m.once.Do(func() {
		if err := m.setup(); err != nil {
			m.log.Log(analysisOrigin, "Setup failed", err.Error(), logger.TypeError)
			return
		}
		m.ready = true
	})
	return m.ready
}

func (m *AnalysisManager) setup() error {
	if m.cfg.Queue == nil {
		return errors.New("no commit queue")
	}
	if m.cfg.Registry == nil {
		return errors.New("no analyzer registry")
	}

	name := m.cfg.Properties.Get(domain.KeyAnalyzer)
	analyzer, err := m.cfg.Registry.Create(name, m.cfg.OS, m.cfg.VCS, plugins.AnalyzerEnv{
		Properties: m.cfg.Properties,
		Queue:      m.cfg.Queue,
		Logger:     m.log,
		RunID:      m.cfg.RunID,
	})
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	m.analyzer = analyzer
	return nil
}

// Run waits until the queue has been opened, then calls the analyzer once
// and reports its outcome.
//
// Commits the analyzer left in the queue are discarded afterwards so the
// extraction side is never blocked on a queue nobody reads.
func (m *AnalysisManager) Run(ctx context.Context) bool {
	if !m.Ready() {
		return false
	}

	m.cfg.Queue.AwaitOpen()
	m.log.Debug(analysisOrigin, "queue opened, starting analysis")

	err := m.analyzer.Analyze(ctx)

	if n := m.drain(); n > 0 {
		m.log.Warn(analysisOrigin, "Discarded %d commits the analyzer did not consume", n)
	}

	if err != nil {
		m.log.Log(analysisOrigin, "Analysis failed", err.Error(), logger.TypeError)
		return false
	}
	m.log.Info(analysisOrigin, "Analysis finished")
	return true
}

// drain consumes the queue until it is closed and returns the number of discarded commits.
func (m *AnalysisManager) drain() int {
	n := 0
	for {
		if _, ok := m.cfg.Queue.Next(); !ok {
			return n
		}
		n++
	}
}
