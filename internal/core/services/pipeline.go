package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/comani/internal/core/ports/driving"
	"github.com/custodia-labs/comani/internal/logger"
)

const pipelineOrigin = "Pipeline"

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline runs an extraction and an analysis manager side by side.
type Pipeline struct {
	extraction driving.Manager
	analysis   driving.Manager
	log        *logger.Logger
}

// NewPipeline creates a pipeline over the two managers.
func NewPipeline(extraction, analysis driving.Manager, log *logger.Logger) *Pipeline {
	return &Pipeline{
		extraction: extraction,
		analysis:   analysis,
		log:        log,
	}
}

// Run prepares both managers and, if both are ready, runs them
// concurrently and waits for both to return. It reports success only if
// both managers succeeded. No manager is started if either is not ready.
func (p *Pipeline) Run(ctx context.Context) bool {
	if !p.extraction.Ready() {
		p.log.Error(pipelineOrigin, "Extraction is not ready, aborting")
		return false
	}
	if !p.analysis.Ready() {
		p.log.Error(pipelineOrigin, "Analysis is not ready, aborting")
		return false
	}

	var extracted, analysed bool
	var g errgroup.Group
	g.Go(func() error {
		extracted = p.extraction.Run(ctx)
		return nil
	})
	g.Go(func() error {
		analysed = p.analysis.Run(ctx)
		return nil
	})
	_ = g.Wait()

	p.log.Debug(pipelineOrigin, "extraction succeeded: %t, analysis succeeded: %t", extracted, analysed)
	return extracted && analysed
}
