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

	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// noiseThreshold is the occurrence count at which an utterance text is
// considered boilerplate and excluded from grouped text.
const noiseThreshold = 2

// Grouper attaches each TOC entry's enclosed utterances. An entry's
// interval is half-open: [its start, the next entry's start); the last
// entry takes everything to the end of the mission.
type Grouper struct {
	toc        storage.TOCRepository
	utterances storage.UtteranceRepository
	noise      storage.NoiseRepository
	overwrite  bool
	logger     *slog.Logger
}

// NewGrouper creates a Grouper.
func NewGrouper(toc storage.TOCRepository, utterances storage.UtteranceRepository, noise storage.NoiseRepository, overwrite bool) (*Grouper, error) {
	if toc == nil {
		return nil, ErrTOCRepositoryRequired
	}
	if utterances == nil {
		return nil, ErrUtteranceRepositoryRequired
	}
	if noise == nil {
		return nil, ErrNoiseRepositoryRequired
	}
	return &Grouper{
		toc:        toc,
		utterances: utterances,
		noise:      noise,
		overwrite:  overwrite,
		logger:     slog.Default().With("component", "grouper"),
	}, nil
}

// Run groups utterances into every ungrouped TOC entry (or every entry
// when overwrite is set) and persists the results. Returns the number of
// entries grouped.
func (g *Grouper) Run(ctx context.Context) (int, error) {
	g.logger.Info("grouping utterances by TOC entries")

	entries, err := g.toc.GetAllEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading TOC entries: %w", err)
	}

	noisy, err := g.noise.NoisyTexts(ctx, noiseThreshold)
	if err != nil {
		return 0, fmt.Errorf("loading noisy texts: %w", err)
	}

	grouped := 0
	for i, entry := range entries {
		if entry.Grouped() && !g.overwrite {
			g.logger.Info("utterances already grouped for TOC entry", "startDate", entry.StartDate)
			continue
		}

		var utterances []*core.Utterance
		if i+1 < len(entries) {
			utterances, err = g.utterances.GetUtterancesInRange(ctx, entry.StartSeconds, entries[i+1].StartSeconds)
		} else {
			utterances, err = g.utterances.GetUtterancesFrom(ctx, entry.StartSeconds)
		}
		if err != nil {
			return grouped, fmt.Errorf("loading utterances for TOC entry %s: %w", entry.StartDate, err)
		}

		kept := make([]core.Utterance, 0, len(utterances))
		lines := make([]string, 0, len(utterances))
		for _, u := range utterances {
			if _, isNoise := noisy[u.Text]; isNoise {
				continue
			}
			kept = append(kept, *u)
			lines = append(lines, u.Speaker+": "+u.Text)
		}

		if len(kept) == 0 {
			g.logger.Info("no utterances found for TOC entry", "startDate", entry.StartDate)
			continue
		}

		entry.GroupedText = strings.Join(lines, "\n")
		entry.Utterances = kept

		if err := g.toc.SaveEntries(ctx, entry); err != nil {
			return grouped, fmt.Errorf("saving grouped TOC entry %s: %w", entry.StartDate, err)
		}
		grouped++
		g.logger.Info("grouped utterances for TOC entry", "startDate", entry.StartDate, "utterances", len(kept))
	}

	g.logger.Info("grouping complete", "grouped", grouped)
	return grouped, nil
}
