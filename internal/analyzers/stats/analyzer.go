// Package stats provides an analyzer that counts changed artifacts and
// changed lines per commit and stores the figures in a result store.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/logger"
)

// Name is the registry name of this analyzer.
const Name = "stats"

const origin = "StatsAnalyzer"

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer consumes commits until the queue closes.
// It owns its result store and closes it when the analysis ends.
type Analyzer struct {
	queue driven.AnalysisQueue
	store driven.ResultStore
	runID string
	log   *logger.Logger
	now   func() time.Time
}

// New creates a stats analyzer reading from queue and writing to store.
func New(queue driven.AnalysisQueue, store driven.ResultStore, runID string, log *logger.Logger) *Analyzer {
	return &Analyzer{
		queue: queue,
		store: store,
		runID: runID,
		log:   log,
		now:   time.Now,
	}
}

// SupportsOS returns true.
func (a *Analyzer) SupportsOS(string) bool {
	return true
}

// SupportsVCS returns true; the counts only rely on unified diff lines.
func (a *Analyzer) SupportsVCS(string) bool {
	return true
}

// Analyze counts every commit taken from the queue and saves the result.
func (a *Analyzer) Analyze(ctx context.Context) (err error) {
	defer func() {
		if cerr := a.store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close result store: %w", cerr)
		}
	}()

	var total domain.AnalysisResult
	commits := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c, ok := a.queue.Next()
		if !ok {
			break
		}

		result := Count(c)
		result.RunID = a.runID
		result.AnalysedAt = a.now()
		if err := a.store.Save(ctx, result); err != nil {
			return fmt.Errorf("save result of %s: %w", c.ID, err)
		}
		a.log.Debug(origin, "%s: %d artifacts, +%d -%d", c.ID, result.Artifacts, result.LinesAdded, result.LinesRemoved)

		commits++
		total.Artifacts += result.Artifacts
		total.LinesAdded += result.LinesAdded
		total.LinesRemoved += result.LinesRemoved
	}

	a.log.Info(origin, "analysed %d commits: %d changed artifacts, %d lines added, %d lines removed",
		commits, total.Artifacts, total.LinesAdded, total.LinesRemoved)
	return nil
}

// Count computes the figures of one commit.
//
// Content lines count once a hunk has started, either in the diff header or
// in the content itself. Content without any hunk header is counted whole,
// skipping "--- " and "+++ " file lines.
func Count(c *domain.Commit) domain.AnalysisResult {
	result := domain.AnalysisResult{
		CommitID:   c.ID,
		CommitDate: c.Date,
		Artifacts:  len(c.ChangedArtifacts),
	}

	for i := range c.ChangedArtifacts {
		a := &c.ChangedArtifacts[i]
		inHunk := hasHunkHeader(a.DiffHeader)
		bare := !inHunk && !hasHunkHeader(a.Content)
		for _, line := range a.Content {
			if isHunkHeader(line) {
				inHunk = true
				continue
			}
			if bare && (strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ")) {
				continue
			}
			if !inHunk && !bare {
				continue
			}
			switch {
			case strings.HasPrefix(line, "+"):
				result.LinesAdded++
			case strings.HasPrefix(line, "-"):
				result.LinesRemoved++
			}
		}
	}
	return result
}

func isHunkHeader(line string) bool {
	return strings.HasPrefix(line, "@@")
}

func hasHunkHeader(lines []string) bool {
	for _, line := range lines {
		if isHunkHeader(line) {
			return true
		}
	}
	return false
}
