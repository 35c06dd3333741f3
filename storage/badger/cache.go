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
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// CacheRepository implements storage.CacheRepository for BadgerDB.
// Question-search and summary-search entries are kept under separate key
// prefixes so one partition's lookups never see the other's entries.
type CacheRepository struct {
	backend *Backend
}

var _ storage.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(backend *Backend) *CacheRepository {
	return &CacheRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *CacheRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CacheRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveEntry stores a cache entry in the partition selected by entry.Question.
// The entry's Vector must already be populated by the caller.
func (r *CacheRepository) SaveEntry(ctx context.Context, entry *core.CacheEntry) error {
	if len(entry.Vector) == 0 {
		return fmt.Errorf("%w: cache entry has no vector", storage.ErrEmbeddingFailed)
	}
	if entry.Id == 0 {
		entry.Id = core.IDFromContent(entry.Query)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCacheKey(entry.Id, entry.Question)
		if err := tx.Set(key, storage.MarshalCacheEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds cached entries in the given partition whose query
// vectors are similar to vector.
func (r *CacheRepository) FindSimilar(ctx context.Context, vector []float32, question bool, minSimilarity float32, limit int) ([]*storage.CacheMatch, error) {
	records, scores, err := findSimilar(r.backend, cachePartitionPrefix(question)+":", vector, minSimilarity, limit,
		func(val []byte) (*core.CacheEntry, []float32, error) {
			record, err := storage.UnmarshalCacheEntry(val)
			if err != nil {
				return nil, nil, err
			}
			return record, record.Vector, nil
		})
	if err != nil {
		return nil, err
	}

	matches := make([]*storage.CacheMatch, len(records))
	for i, record := range records {
		matches[i] = &storage.CacheMatch{Entry: record, Score: scores[i]}
	}
	return matches, nil
}

// Count returns the number of cached entries across both partitions.
func (r *CacheRepository) Count(ctx context.Context) (int, error) {
	questions, err := r.backend.countPrefix(cacheQuestionPrefix + ":")
	if err != nil {
		return 0, err
	}
	summaries, err := r.backend.countPrefix(cacheSummaryPrefix + ":")
	if err != nil {
		return 0, err
	}
	return questions + summaries, nil
}

// Clear removes all cached entries from both partitions.
func (r *CacheRepository) Clear(ctx context.Context) error {
	for _, prefix := range []string{cacheQuestionPrefix + ":", cacheSummaryPrefix + ":"} {
		var keys [][]byte
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			defer iter.Close()

			for iter.Rewind(); iter.Valid(); iter.Next() {
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
			return nil
		}, false)
		if err != nil {
			return err
		}

		err = r.backend.WithTx(func(tx *badger.Txn) error {
			for _, key := range keys {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}
