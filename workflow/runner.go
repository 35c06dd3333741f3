package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/apollo/loader"
	"github.com/poiesic/apollo/storage"
)

// DataPaths locates the raw mission archive row files.
type DataPaths struct {
	Utterances  string
	TOC         string
	Photographs string
}

// Runner drives the full data pipeline: load the raw files, group
// utterances into TOC entries, derive summaries and questions, then load
// photographs. The whole pipeline is skipped when utterances are already
// present, so restarts are cheap.
type Runner struct {
	utterances         storage.UtteranceRepository
	utteranceLoader    *loader.UtteranceLoader
	tocLoader          *loader.TOCLoader
	photographLoader   *loader.PhotographLoader
	grouper            *Grouper
	summarization      *SummarizationWorkflow
	questionGeneration *QuestionGenerationWorkflow
	logger             *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(
	utterances storage.UtteranceRepository,
	utteranceLoader *loader.UtteranceLoader,
	tocLoader *loader.TOCLoader,
	photographLoader *loader.PhotographLoader,
	grouper *Grouper,
	summarization *SummarizationWorkflow,
	questionGeneration *QuestionGenerationWorkflow,
) *Runner {
	return &Runner{
		utterances:         utterances,
		utteranceLoader:    utteranceLoader,
		tocLoader:          tocLoader,
		photographLoader:   photographLoader,
		grouper:            grouper,
		summarization:      summarization,
		questionGeneration: questionGeneration,
		logger:             slog.Default().With("component", "pipeline-runner"),
	}
}

// Run executes the pipeline end to end. Returns nil without doing any
// work if the utterance store is already populated.
func (r *Runner) Run(ctx context.Context, paths DataPaths) error {
	count, err := r.utterances.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting utterances: %w", err)
	}
	if count > 0 {
		r.logger.Info("data already loaded, skipping pipeline", "utterances", count)
		return nil
	}

	start := time.Now()

	if _, err := r.utteranceLoader.Load(ctx, paths.Utterances); err != nil {
		return fmt.Errorf("loading utterances: %w", err)
	}
	if _, err := r.tocLoader.Load(ctx, paths.TOC); err != nil {
		return fmt.Errorf("loading table of contents: %w", err)
	}
	if _, err := r.grouper.Run(ctx); err != nil {
		return fmt.Errorf("grouping utterances: %w", err)
	}
	if err := r.summarization.Run(ctx); err != nil {
		return fmt.Errorf("summarization workflow: %w", err)
	}
	if err := r.questionGeneration.Run(ctx); err != nil {
		return fmt.Errorf("question generation workflow: %w", err)
	}
	if _, err := r.photographLoader.Load(ctx, paths.Photographs); err != nil {
		return fmt.Errorf("loading photographs: %w", err)
	}

	r.logger.Info("pipeline complete", "elapsedMs", time.Since(start).Milliseconds())
	return nil
}
