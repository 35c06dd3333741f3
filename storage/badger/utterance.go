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


package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// UtteranceRepository implements storage.UtteranceRepository for BadgerDB.
type UtteranceRepository struct {
	backend  *Backend
	embedder ai.Embedder
}

var _ storage.UtteranceRepository = (*UtteranceRepository)(nil)

// NewUtteranceRepository creates a new UtteranceRepository. The embedder is
// used by the embed-on-save hook for utterances stored without a vector.
func NewUtteranceRepository(backend *Backend, embedder ai.Embedder) *UtteranceRepository {
	return &UtteranceRepository{
		backend:  backend,
		embedder: embedder,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *UtteranceRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *UtteranceRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveUtterances stores one or more utterances keyed by Timestamp.
// Utterances with an empty Vector are embedded in one batch first.
func (r *UtteranceRepository) SaveUtterances(ctx context.Context, utterances ...*core.Utterance) error {
	if err := r.embedMissing(ctx, utterances); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, u := range utterances {
			key := makeUtteranceKey(u.Timestamp)
			if err := tx.Set(key, storage.MarshalUtterance(u)); err != nil {
				return err
			}

			secondsKey := makeUtteranceSecondsKey(u.TimestampSeconds, u.Timestamp)
			if err := tx.Set(secondsKey, []byte(u.Timestamp)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// embedMissing fills in vectors for utterances that don't have one yet.
func (r *UtteranceRepository) embedMissing(ctx context.Context, utterances []*core.Utterance) error {
	var texts []string
	var missing []*core.Utterance
	for _, u := range utterances {
		if len(u.Vector) == 0 {
			texts = append(texts, u.Text)
			missing = append(missing, u)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	vectors, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(missing) {
		return fmt.Errorf("%w: got %d vectors for %d texts", storage.ErrEmbeddingFailed, len(vectors), len(missing))
	}

	for i, u := range missing {
		u.Vector = vectors[i]
	}
	return nil
}

// GetUtterance retrieves a single utterance by its timecode.
func (r *UtteranceRepository) GetUtterance(ctx context.Context, timestamp string) (*core.Utterance, error) {
	var result *core.Utterance
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readUtterance(tx, makeUtteranceKey(timestamp))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// readUtterance reads an utterance by key within a transaction.
// Returns nil (no error) if the key doesn't exist.
func readUtterance(tx *badger.Txn, key []byte) (*core.Utterance, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var result *core.Utterance
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalUtterance(val)
		return err
	})
	return result, err
}

// GetUtterancesInRange retrieves utterances with
// startSeconds <= TimestampSeconds < endSeconds, ordered by time.
func (r *UtteranceRepository) GetUtterancesInRange(ctx context.Context, startSeconds, endSeconds int) ([]*core.Utterance, error) {
	return r.scanSeconds(makePartialUtteranceSecondsKey(startSeconds), makePartialUtteranceSecondsKey(endSeconds))
}

// GetUtterancesFrom retrieves utterances with
// TimestampSeconds >= startSeconds, ordered by time.
func (r *UtteranceRepository) GetUtterancesFrom(ctx context.Context, startSeconds int) ([]*core.Utterance, error) {
	return r.scanSeconds(makePartialUtteranceSecondsKey(startSeconds), nil)
}

// scanSeconds walks the seconds index from start (inclusive) to end
// (exclusive). A nil end scans to the end of the index.
func (r *UtteranceRepository) scanSeconds(start, end []byte) ([]*core.Utterance, error) {
	var results []*core.Utterance

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(utteranceSecondsPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(start); iter.Valid(); iter.Next() {
			item := iter.Item()
			if end != nil && bytes.Compare(item.Key(), end) >= 0 {
				break
			}

			var timestamp string
			if err := item.Value(func(val []byte) error {
				timestamp = string(val)
				return nil
			}); err != nil {
				return err
			}

			record, err := readUtterance(tx, makeUtteranceKey(timestamp))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetUtteranceBatch retrieves up to limit utterances with timecodes strictly
// after afterTimestamp, in key order.
func (r *UtteranceRepository) GetUtteranceBatch(ctx context.Context, afterTimestamp string, limit int) ([]*core.Utterance, error) {
	var results []*core.Utterance

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(utteranceRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		seekKey := makeUtteranceKey(afterTimestamp)
		for iter.Seek(seekKey); iter.Valid() && len(results) < limit; iter.Next() {
			item := iter.Item()
			if afterTimestamp != "" && bytes.Equal(item.Key(), seekKey) {
				continue
			}

			var record *core.Utterance
			if err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalUtterance(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of stored utterances.
func (r *UtteranceRepository) Count(ctx context.Context) (int, error) {
	return r.backend.countPrefix(utteranceRecordPrefix + ":")
}

// FindSimilar finds utterances similar to the given vector.
func (r *UtteranceRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.UtteranceMatch, error) {
	records, scores, err := findSimilar(r.backend, utteranceRecordPrefix+":", vector, minSimilarity, limit,
		func(val []byte) (*core.Utterance, []float32, error) {
			record, err := storage.UnmarshalUtterance(val)
			if err != nil {
				return nil, nil, err
			}
			return record, record.Vector, nil
		})
	if err != nil {
		return nil, err
	}

	matches := make([]*storage.UtteranceMatch, len(records))
	for i, record := range records {
		matches[i] = &storage.UtteranceMatch{Utterance: record, Score: scores[i]}
	}
	return matches, nil
}
