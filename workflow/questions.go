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
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// QuestionGenerationWorkflow generates anticipated user questions for
// every grouped TOC entry and embeds each question as a standalone record.
// Generation failures for individual entries are logged and skipped.
type QuestionGenerationWorkflow struct {
	toc       storage.TOCRepository
	questions storage.QuestionRepository
	generator ai.TextGenerator
	pool      *ants.Pool
	overwrite bool
	logger    *slog.Logger
}

// NewQuestionGenerationWorkflow creates a QuestionGenerationWorkflow.
func NewQuestionGenerationWorkflow(
	toc storage.TOCRepository,
	questions storage.QuestionRepository,
	generator ai.TextGenerator,
	overwrite bool,
	opts ...Option,
) (*QuestionGenerationWorkflow, error) {
	if toc == nil {
		return nil, ErrTOCRepositoryRequired
	}
	if questions == nil {
		return nil, ErrQuestionRepositoryRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	o := applyOptions(opts)
	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, err
	}

	return &QuestionGenerationWorkflow{
		toc:       toc,
		questions: questions,
		generator: generator,
		pool:      pool,
		overwrite: overwrite,
		logger:    o.logger.With("component", "question-workflow"),
	}, nil
}

// Release releases the worker pool. The workflow should not be used after
// calling Release.
func (w *QuestionGenerationWorkflow) Release() {
	w.pool.Release()
}

// Run generates missing question lists and embeds the questions that
// don't have a record yet. Safe to rerun: entries with questions are
// skipped and each question's record key is checked before insert, so
// repeat runs never duplicate records. With overwrite set, questions are
// regenerated and their records rewritten in place.
func (w *QuestionGenerationWorkflow) Run(ctx context.Context) error {
	w.logger.Info("creating questions for TOC entries")

	entries, err := w.toc.GetAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("loading TOC entries: %w", err)
	}

	var toGenerate []*core.TOCEntry
	for _, entry := range entries {
		if entry.GroupedText == "" {
			continue
		}
		if entry.Questions != nil && !w.overwrite {
			continue
		}
		toGenerate = append(toGenerate, entry)
	}

	if len(toGenerate) == 0 {
		w.logger.Info("no TOC entries need questions generated")
	} else if err := w.generate(ctx, toGenerate); err != nil {
		return err
	}

	var toEmbed []*core.Question
	for _, entry := range entries {
		for idx, questionText := range entry.Questions {
			id := core.QuestionID(entry.StartDate, idx)
			exists, err := w.questions.Exists(ctx, id)
			if err != nil {
				return fmt.Errorf("checking question record %s: %w", id, err)
			}
			if exists && !w.overwrite {
				continue
			}
			toEmbed = append(toEmbed, &core.Question{
				Timestamp:   id,
				GroupedText: entry.GroupedText,
				Utterances:  entry.Utterances,
				Question:    questionText,
			})
		}
	}

	if len(toEmbed) == 0 {
		w.logger.Info("no new questions to embed")
		return nil
	}
	return w.embed(ctx, toEmbed)
}

// generate fills in entry.Questions batch by batch with bounded concurrency.
func (w *QuestionGenerationWorkflow) generate(ctx context.Context, toGenerate []*core.TOCEntry) error {
	w.logger.Info("generating questions", "entries", len(toGenerate))

	for start := 0; start < len(toGenerate); start += generateBatchSize {
		end := min(start+generateBatchSize, len(toGenerate))
		batch := toGenerate[start:end]

		results := make([]*core.TOCEntry, len(batch))
		forEachConcurrent(w.pool, len(batch), func(i int) {
			entry := batch[i]
			response, err := w.generator.Generate(ctx, questionGenerationPrompt, entry.GroupedText)
			if err != nil {
				w.logger.Error("error generating questions for TOC entry", "startDate", entry.StartDate, "err", err)
				return
			}
			entry.Questions = parseQuestions(response)
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
				return fmt.Errorf("saving TOC entries with questions: %w", err)
			}
			w.logger.Info("saved TOC entries with questions", "count", len(processed))
		}
	}

	w.logger.Info("completed generating questions")
	return nil
}

// embed saves the question records in parallel batches; the store's
// embed-on-save hook computes their vectors.
func (w *QuestionGenerationWorkflow) embed(ctx context.Context, toEmbed []*core.Question) error {
	w.logger.Info("embedding questions", "count", len(toEmbed))

	var (
		mu       sync.Mutex
		firstErr error
	)

	batches := (len(toEmbed) + embedBatchSize - 1) / embedBatchSize
	forEachConcurrent(w.pool, batches, func(i int) {
		start := i * embedBatchSize
		end := min(start+embedBatchSize, len(toEmbed))

		if err := w.questions.SaveQuestions(ctx, toEmbed[start:end]...); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})

	if firstErr != nil {
		return fmt.Errorf("saving question records: %w", firstErr)
	}
	w.logger.Info("questions embedded", "total", len(toEmbed))
	return nil
}

// parseQuestions splits a generated response into one question per
// non-blank line.
func parseQuestions(response string) []string {
	var questions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}
