package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/apollo/storage"
)

// NoiseRepository implements storage.NoiseRepository for BadgerDB.
// Counters are keyed by exact utterance text and stored as fixed 8-byte
// BigEndian values.
type NoiseRepository struct {
	backend *Backend
}

var _ storage.NoiseRepository = (*NoiseRepository)(nil)

// NewNoiseRepository creates a new NoiseRepository.
func NewNoiseRepository(backend *Backend) *NoiseRepository {
	return &NoiseRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *NoiseRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *NoiseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Increment increases the occurrence counter for the given utterance text
// and returns the new count. Retries on transaction conflict.
func (r *NoiseRepository) Increment(ctx context.Context, text string) (uint64, error) {
	key := makeNoiseKey(text)
	for {
		var count uint64
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			current, err := readCount(tx, key)
			if err != nil {
				return err
			}
			count = current + 1

			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, count)
			if err := tx.Set(key, buf); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return 0, err
		}
	}
}

// GetCount returns the occurrence counter for the given utterance text.
func (r *NoiseRepository) GetCount(ctx context.Context, text string) (uint64, error) {
	var count uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		count, err = readCount(tx, makeNoiseKey(text))
		return err
	}, false)
	return count, err
}

// readCount reads a counter by key within a transaction.
// Returns 0 (no error) if the key doesn't exist.
func readCount(tx *badger.Txn, key []byte) (uint64, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var count uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return storage.ErrSerializationFailed
		}
		count = binary.BigEndian.Uint64(val)
		return nil
	})
	return count, err
}

// NoisyTexts returns the texts whose occurrence counter is at least minCount.
func (r *NoiseRepository) NoisyTexts(ctx context.Context, minCount uint64) (map[string]struct{}, error) {
	noisy := make(map[string]struct{})
	prefix := noiseCountPrefix + ":"

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var count uint64
			if err := item.Value(func(val []byte) error {
				if len(val) != 8 {
					return storage.ErrSerializationFailed
				}
				count = binary.BigEndian.Uint64(val)
				return nil
			}); err != nil {
				return err
			}

			if count >= minCount {
				text := strings.TrimPrefix(string(item.Key()), prefix)
				noisy[text] = struct{}{}
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return noisy, nil
}
