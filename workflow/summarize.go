// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// generateBatchSize bounds how many TOC entries are in flight against the
// chat model at once.
const generateBatchSize = 300

// embedBatchSize bounds how many derived records are saved (and therefore
// embedded) per storage call.
const embedBatchSize = 100

// SummarizationWorkflow generates a summary for every grouped TOC entry
// and embeds the summaries as standalone records. Generation failures for
// individual entries are logged and skipped; the workflow itself only
// fails on storage errors.
type SummarizationWorkflow struct {
	toc       storage.TOCRepository
	summaries storage.SummaryRepository
	generator ai.TextGenerator
	pool      *ants.Pool
	overwrite bool
	logger    *slog.Logger
}

// NewSummarizationWorkflow creates a SummarizationWorkflow.
func NewSummarizationWorkflow(
	toc storage.TOCRepository,
	summaries storage.SummaryRepository,
	generator ai.TextGenerator,
	overwrite bool,
	opts ...Option,
) (*SummarizationWorkflow, error) {
	if toc == nil {
		return nil, ErrTOCRepositoryRequired
	}
	if summaries == nil {
		return nil, ErrSummaryRepositoryRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	o := applyOptions(opts)
	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, err
	}

	return &SummarizationWorkflow{
		toc:       toc,
		summaries: summaries,
		generator: generator,
		pool:      pool,
		overwrite: overwrite,
		logger:    o.logger.With("component", "summarization-workflow"),
	}, nil
}

// Release releases the worker pool. The workflow should not be used after
// calling Release.
func (w *SummarizationWorkflow) Release() {
	w.pool.Release()
}

// Run generates missing summaries and embeds the ones that don't have a
// summary record yet. Safe to rerun: entries with a summary are skipped
// and existing summary records are left alone, unless overwrite is set,
// in which case both are regenerated in place.
func (w *SummarizationWorkflow) Run(ctx context.Context) error {
	w.logger.Info("summarizing TOC entries")

	entries, err := w.toc.GetAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("loading TOC entries: %w", err)
	}

	var toGenerate []*core.TOCEntry
	for _, entry := range entries {
		if entry.GroupedText == "" {
			continue
		}
		if entry.Summary != "" && !w.overwrite {
			continue
		}
		toGenerate = append(toGenerate, entry)
	}

	if len(toGenerate) == 0 {
		w.logger.Info("no TOC entries need summaries generated")
	} else if err := w.generate(ctx, toGenerate); err != nil {
		return err
	}

	var toEmbed []*core.Summary
	for _, entry := range entries {
		if entry.Summary == "" {
			continue
		}
		exists, err := w.summaries.Exists(ctx, entry.StartDate)
		if err != nil {
			return fmt.Errorf("checking summary record %s: %w", entry.StartDate, err)
		}
		if exists && !w.overwrite {
			continue
		}
		toEmbed = append(toEmbed, &core.Summary{
			Timestamp:   entry.StartDate,
			GroupedText: entry.GroupedText,
			Utterances:  entry.Utterances,
			Summary:     entry.Summary,
		})
	}

	if len(toEmbed) == 0 {
		w.logger.Info("no new summaries to embed")
		return nil
	}
	return w.embed(ctx, toEmbed)
}

// generate fills in entry.Summary batch by batch with bounded concurrency.
func (w *SummarizationWorkflow) generate(ctx context.Context, toGenerate []*core.TOCEntry) error {
	w.logger.Info("generating summaries", "entries", len(toGenerate))

	for start := 0; start < len(toGenerate); start += generateBatchSize {
		end := min(start+generateBatchSize, len(toGenerate))
		batch := toGenerate[start:end]

		results := make([]*core.TOCEntry, len(batch))
		forEachConcurrent(w.pool, len(batch), func(i int) {
			entry := batch[i]
			summary, err := w.generator.Generate(ctx, summarizationPrompt, entry.GroupedText)
			if err != nil {
				w.logger.Error("error generating summary for TOC entry", "startDate", entry.StartDate, "err", err)
				return
			}
			entry.Summary = summary
			results[i] = entry
		})

		processed := make([]*core.TOCEntry, 0, len(results))
		for _, entry := range results {
			if entry != nil {
				processed = append(processed, entry)
			}
		}

		if len(processed) > 0 {
			if err := w.toc.SaveEntries(ctx, processed...); err != nil {
				return fmt.Errorf("saving summarized TOC entries: %w", err)
			}
			w.logger.Info("saved summarized TOC entries", "count", len(processed))
		}
	}

	w.logger.Info("completed generating summaries")
	return nil
}

// embed saves the summary records in parallel batches; the store's
// embed-on-save hook computes their vectors.
func (w *SummarizationWorkflow) embed(ctx context.Context, toEmbed []*core.Summary) error {
	w.logger.Info("embedding summaries", "count", len(toEmbed))

	var (
		mu       sync.Mutex
		firstErr error
	)

	batches := (len(toEmbed) + embedBatchSize - 1) / embedBatchSize
	forEachConcurrent(w.pool, batches, func(i int) {
		start := i * embedBatchSize
		end := min(start+embedBatchSize, len(toEmbed))

		if err := w.summaries.SaveSummaries(ctx, toEmbed[start:end]...); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})

	if firstErr != nil {
		return fmt.Errorf("saving summary records: %w", firstErr)
	}
	w.logger.Info("summaries embedded", "total", len(toEmbed))
	return nil
}
