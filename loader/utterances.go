package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

const utteranceBatchSize = 1000

// UtteranceLoader loads raw transcript rows into the utterance store.
// Each row is [compact timecode, speaker, text, speaker id]; the compact
// "HHHMMSS" timecode is expanded to the canonical "HHH:MM:SS" record key.
type UtteranceLoader struct {
	utterances storage.UtteranceRepository
	noise      storage.NoiseRepository
	logger     *slog.Logger
}

// NewUtteranceLoader creates an UtteranceLoader.
func NewUtteranceLoader(utterances storage.UtteranceRepository, noise storage.NoiseRepository) *UtteranceLoader {
	return &UtteranceLoader{
		utterances: utterances,
		noise:      noise,
		logger:     slog.Default().With("component", "utterance-loader"),
	}
}

type utteranceRow struct {
	timestamp string
	speaker   string
	text      string
	speakerID string
}

func utteranceSchema() Schema[utteranceRow] {
	return Schema[utteranceRow]{
		{Name: "timestamp", Set: func(r *utteranceRow, v string) error { r.timestamp = v; return nil }},
		{Name: "speaker", Set: func(r *utteranceRow, v string) error { r.speaker = v; return nil }},
		{Name: "text", Set: func(r *utteranceRow, v string) error { r.text = v; return nil }},
		{Name: "speakerId", Set: func(r *utteranceRow, v string) error { r.speakerID = v; return nil }},
	}
}

// Load reads the utterance row file and stores all valid utterances,
// in batches. Invalid utterances (blank speaker, placeholder text, bad
// timecode) are skipped. Every stored utterance also bumps the noise
// counter for its text, so corpus-frequency filtering works downstream.
// Returns the number of utterances stored.
func (l *UtteranceLoader) Load(ctx context.Context, path string) (int, error) {
	l.logger.Info("loading utterance data", "path", path)

	rows, err := ReadRowFile(path)
	if err != nil {
		return 0, err
	}

	decoded, dropped := DecodeRows(rows, utteranceSchema(), l.logger)
	if dropped > 0 {
		l.logger.Warn("dropped malformed utterance rows", "count", dropped)
	}

	var utterances []*core.Utterance
	for _, row := range decoded {
		u, err := rowToUtterance(row)
		if err != nil {
			l.logger.Warn("skipping invalid utterance", "timestamp", row.timestamp, "err", err)
			continue
		}
		utterances = append(utterances, u)
	}

	stored := 0
	for start := 0; start < len(utterances); start += utteranceBatchSize {
		end := min(start+utteranceBatchSize, len(utterances))
		batch := utterances[start:end]

		if err := l.utterances.SaveUtterances(ctx, batch...); err != nil {
			return stored, fmt.Errorf("saving utterance batch: %w", err)
		}
		stored += len(batch)

		for _, u := range batch {
			if _, err := l.noise.Increment(ctx, u.Text); err != nil {
				l.logger.Error("failed to count utterance text", "timestamp", u.Timestamp, "err", err)
			}
		}
	}

	l.logger.Info("utterance data loaded", "stored", stored)
	return stored, nil
}

func rowToUtterance(row *utteranceRow) (*core.Utterance, error) {
	seconds, err := core.ParseCompactTimecode(row.timestamp)
	if err != nil {
		return nil, err
	}

	u := &core.Utterance{
		Timestamp:        expandCompactTimecode(row.timestamp),
		TimestampSeconds: seconds,
		Speaker:          row.speaker,
		SpeakerID:        row.speakerID,
		Text:             row.text,
	}
	if err := core.ValidateUtterance(u); err != nil {
		return nil, err
	}
	return u, nil
}

// expandCompactTimecode rewrites "HHHMMSS" into "HHH:MM:SS", keeping an
// optional leading "-". The input must already be a valid compact timecode.
func expandCompactTimecode(timecode string) string {
	sign := ""
	s := timecode
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	return sign + s[0:3] + ":" + s[3:5] + ":" + s[5:7]
}
