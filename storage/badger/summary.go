package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// SummaryRepository implements storage.SummaryRepository for BadgerDB.
type SummaryRepository struct {
	backend  *Backend
	embedder ai.Embedder
}

var _ storage.SummaryRepository = (*SummaryRepository)(nil)

// NewSummaryRepository creates a new SummaryRepository. The embedder is used
// by the embed-on-save hook for summaries stored without a vector.
func NewSummaryRepository(backend *Backend, embedder ai.Embedder) *SummaryRepository {
	return &SummaryRepository{
		backend:  backend,
		embedder: embedder,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *SummaryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SummaryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveSummaries stores one or more summaries keyed by Timestamp.
// Summaries with an empty Vector have their Summary text embedded in one
// batch first.
func (r *SummaryRepository) SaveSummaries(ctx context.Context, summaries ...*core.Summary) error {
	var texts []string
	var missing []*core.Summary
	for _, s := range summaries {
		if len(s.Vector) == 0 {
			texts = append(texts, s.Summary)
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		vectors, err := r.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: %w", storage.ErrEmbeddingFailed, err)
		}
		if len(vectors) != len(missing) {
			return fmt.Errorf("%w: got %d vectors for %d texts", storage.ErrEmbeddingFailed, len(vectors), len(missing))
		}
		for i, s := range missing {
			s.Vector = vectors[i]
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, s := range summaries {
			if err := tx.Set(makeSummaryKey(s.Timestamp), storage.MarshalSummary(s)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSummary retrieves a single summary by its timecode.
func (r *SummaryRepository) GetSummary(ctx context.Context, timestamp string) (*core.Summary, error) {
	var result *core.Summary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSummaryKey(timestamp))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalSummary(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// Exists reports whether a summary with the given timecode is stored.
func (r *SummaryRepository) Exists(ctx context.Context, timestamp string) (bool, error) {
	exists := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeSummaryKey(timestamp))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		exists = true
		return nil
	}, false)
	return exists, err
}

// Count returns the number of stored summaries.
func (r *SummaryRepository) Count(ctx context.Context) (int, error) {
	return r.backend.countPrefix(summaryRecordPrefix + ":")
}

// FindSimilar finds summaries similar to the given vector.
func (r *SummaryRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.SummaryMatch, error) {
	records, scores, err := findSimilar(r.backend, summaryRecordPrefix+":", vector, minSimilarity, limit,
		func(val []byte) (*core.Summary, []float32, error) {
			record, err := storage.UnmarshalSummary(val)
			if err != nil {
				return nil, nil, err
			}
			return record, record.Vector, nil
		})
	if err != nil {
		return nil, err
	}

	matches := make([]*storage.SummaryMatch, len(records))
	for i, record := range records {
		matches[i] = &storage.SummaryMatch{Summary: record, Score: scores[i]}
	}
	return matches, nil
}
