package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/core/ports/driving"
	"github.com/custodia-labs/comani/internal/core/queue"
	"github.com/custodia-labs/comani/internal/logger"
	"github.com/custodia-labs/comani/internal/plugins"
)

const extractionOrigin = "ExtractionManager"

// Ensure ExtractionManager implements the interface.
var _ driving.Manager = (*ExtractionManager)(nil)

// CacheOpener returns the commit cache backed by a directory.
type CacheOpener func(dir string) driven.CommitCache

// extractionMode is the way commits are produced during a run.
type extractionMode int

const (
	modeFull extractionMode = iota
	modeFiltered
	modeText
	modeReuse
)

func (m extractionMode) String() string {
	switch m {
	case modeFiltered:
		return "filtered"
	case modeText:
		return "single commit"
	case modeReuse:
		return "reuse"
	default:
		return "full"
	}
}

// ExtractionConfig holds the dependencies of an ExtractionManager.
type ExtractionConfig struct {
	// OS and VCS are checked against the extractor's support.
	OS  string
	VCS string

	// Properties holds all extraction.* settings.
	Properties domain.Properties

	// Queue receives the extracted commits.
	Queue *queue.CommitQueue

	// CommitText is the commit to parse in single commit mode.
	CommitText string

	Registry *plugins.ExtractorRegistry
	Logger   *logger.Logger

	// OpenCache opens the directories named by extraction.cache and
	// extraction.reuse. Both settings are unusable without it.
	OpenCache CacheOpener
}

// ExtractionManager produces commits into the queue.
//
// It runs in exactly one mode. If extraction.reuse is set, commits are
// replayed from the CDMS cache and no extractor is created. Otherwise the
// configured extractor parses the single commit text, extracts the commits
// named in extraction.commit_list, or extracts the whole repository at
// extraction.input, in that order of preference.
type ExtractionManager struct {
	cfg ExtractionConfig
	log *logger.Logger

	once      sync.Once
	ready     bool
	mode      extractionMode
	extractor driven.Extractor
	reuse     driven.CommitCache
}

// NewExtractionManager creates an extraction manager.
// Setup is deferred to the first Ready call.
func NewExtractionManager(cfg ExtractionConfig) *ExtractionManager {
	return &ExtractionManager{cfg: cfg, log: cfg.Logger}
}

// Ready performs setup on the first call and reports whether the manager can run.
func (m *ExtractionManager) Ready() bool {
	m.once.Do(func() {
		if err := m.setup(); err != nil {
			m.log.Log(extractionOrigin, "Setup failed", err.Error(), logger.TypeError)
			return
		}
		m.ready = true
		m.log.Debug(extractionOrigin, "ready in %s mode", m.mode)
	})
	return m.ready
}

func (m *ExtractionManager) setup() error {
	if m.cfg.Queue == nil {
		return errors.New("no commit queue")
	}
	props := m.cfg.Properties

	if dir := props.Get(domain.KeyReuse); dir != "" {
		if m.cfg.OpenCache == nil {
			return fmt.Errorf("reuse %s: no commit cache available", dir)
		}
		m.reuse = m.cfg.OpenCache(dir)
		m.mode = modeReuse
		return nil
	}

	if m.cfg.Registry == nil {
		return errors.New("no extractor registry")
	}
	name := props.Get(domain.KeyExtractor)
	extractor, err := m.cfg.Registry.Create(name, m.cfg.OS, m.cfg.VCS, plugins.ExtractorEnv{
		Properties: props,
		Queue:      m.cfg.Queue,
		Logger:     m.log,
	})
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}
	m.extractor = extractor

	switch {
	case m.cfg.CommitText != "":
		m.mode = modeText
	case props.Has(domain.KeyCommitList):
		m.mode = modeFiltered
	default:
		m.mode = modeFull
	}

	if dir := props.Get(domain.KeyCache); dir != "" {
		if m.cfg.OpenCache == nil {
			return fmt.Errorf("cache %s: no commit cache available", dir)
		}
		m.cfg.Queue.EnableCaching(m.cfg.OpenCache(dir))
		m.log.Info(extractionOrigin, "Caching extracted commits in %s", dir)
	}
	return nil
}

// Run opens the queue, produces commits in the selected mode and closes the
// queue again, whatever the outcome. The close is deferred by the queue
// until the analysis side has drained it, so partial results are kept.
func (m *ExtractionManager) Run(ctx context.Context) bool {
	if !m.Ready() {
		return false
	}

	m.cfg.Queue.SetState(domain.QueueOpen)
	ok := m.extract(ctx)
	m.cfg.Queue.SetState(domain.QueueClosed)

	if ok {
		m.log.Info(extractionOrigin, "Extraction (%s) finished", m.mode)
	} else {
		m.log.Warn(extractionOrigin, "Extraction (%s) finished with errors", m.mode)
	}
	return ok
}

func (m *ExtractionManager) extract(ctx context.Context) bool {
	if m.mode == modeReuse {
		return m.replay(ctx)
	}

	input := m.cfg.Properties.Get(domain.KeyInput)
	var err error
	switch m.mode {
	case modeText:
		err = m.extractor.ExtractText(ctx, m.cfg.CommitText)
	case modeFiltered:
		listFile := m.cfg.Properties.Get(domain.KeyCommitList)
		ids, readErr := readCommitList(listFile)
		if readErr != nil {
			m.log.Log(extractionOrigin, "Reading commit list failed", readErr.Error(), logger.TypeError)
			return false
		}
		m.log.Info(extractionOrigin, "Extracting %d listed commits from %s", len(ids), input)
		err = m.extractor.ExtractIDs(ctx, input, ids)
	default:
		m.log.Info(extractionOrigin, "Extracting all commits from %s", input)
		err = m.extractor.Extract(ctx, input)
	}

	if err != nil {
		m.log.Log(extractionOrigin, "Extraction failed", err.Error(), logger.TypeError)
		return false
	}
	return true
}

// replay pushes every cached commit into the queue. A file that cannot be
// decoded is logged and skipped and makes the replay unsuccessful.
func (m *ExtractionManager) replay(ctx context.Context) bool {
	paths, err := m.reuse.List()
	if err != nil {
		m.log.Log(extractionOrigin, "Listing cached commits failed", err.Error(), logger.TypeError)
		return false
	}
	m.log.Info(extractionOrigin, "Reusing %d cached commits from %s", len(paths), m.reuse.Dir())

	ok := true
	reused := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			m.log.Log(extractionOrigin, "Reuse cancelled", err.Error(), logger.TypeError)
			return false
		}

		c, err := m.reuse.Load(path)
		if err != nil {
			m.log.Log(extractionOrigin, "Reusing cached commit failed", err.Error(), logger.TypeError)
			ok = false
			continue
		}
		if !m.cfg.Queue.Put(c) {
			m.log.Log(extractionOrigin, fmt.Sprintf("Commit %q rejected", c.ID), "the queue was closed", logger.TypeError)
			return false
		}
		reused++
	}

	m.log.Debug(extractionOrigin, "reused %d of %d cached commits", reused, len(paths))
	return ok
}

// readCommitList reads commit ids from path, one per line.
// Blank lines are ignored. An empty list is an error.
func readCommitList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("commit list %s is empty", path)
	}
	return ids, nil
}
