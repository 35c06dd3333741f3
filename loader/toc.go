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


package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

const tocBatchSize = 100

// videoPlaceholderPrefix marks table-of-contents rows that are placeholders
// for video segments rather than transcript chapters; those rows are skipped.
const videoPlaceholderPrefix = "Video: "

// TOCLoader loads table-of-contents rows. Each row is
// [start timecode, title, description].
type TOCLoader struct {
	toc    storage.TOCRepository
	logger *slog.Logger
}

// NewTOCLoader creates a TOCLoader.
func NewTOCLoader(toc storage.TOCRepository) *TOCLoader {
	return &TOCLoader{
		toc:    toc,
		logger: slog.Default().With("component", "toc-loader"),
	}
}

type tocRow struct {
	startDate   string
	title       string
	description string
}

func tocSchema() Schema[tocRow] {
	return Schema[tocRow]{
		{Name: "startDate", Set: func(r *tocRow, v string) error { r.startDate = v; return nil }},
		{Name: "title", Set: func(r *tocRow, v string) error { r.title = v; return nil }},
		{Name: "description", Set: func(r *tocRow, v string) error { r.description = v; return nil }},
	}
}

// Load reads the table-of-contents row file and stores the chapter entries
// in batches, skipping video placeholder rows. Start timecodes are
// normalized before use as record keys. Returns the number of entries
// stored.
func (l *TOCLoader) Load(ctx context.Context, path string) (int, error) {
	l.logger.Info("loading table of contents data", "path", path)

	rows, err := ReadRowFile(path)
	if err != nil {
		return 0, err
	}

	decoded, dropped := DecodeRows(rows, tocSchema(), l.logger)
	if dropped > 0 {
		l.logger.Warn("dropped malformed table of contents rows", "count", dropped)
	}

	var entries []*core.TOCEntry
	for _, row := range decoded {
		if strings.HasPrefix(row.description, videoPlaceholderPrefix) {
			continue
		}

		seconds, err := core.ParseTimecode(row.startDate)
		if err != nil {
			l.logger.Warn("skipping entry with bad start timecode", "startDate", row.startDate, "err", err)
			continue
		}

		entries = append(entries, &core.TOCEntry{
			StartDate:    core.NormalizeKey(row.startDate),
			StartSeconds: seconds,
			Title:        row.title,
			Description:  row.description,
		})
	}

	stored := 0
	for start := 0; start < len(entries); start += tocBatchSize {
		end := min(start+tocBatchSize, len(entries))
		batch := entries[start:end]

		if err := l.toc.SaveEntries(ctx, batch...); err != nil {
			return stored, fmt.Errorf("saving table of contents batch: %w", err)
		}
		stored += len(batch)
	}

	l.logger.Info("table of contents data loaded", "stored", stored)
	return stored, nil
}
