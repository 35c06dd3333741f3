package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// TOCRepository implements storage.TOCRepository for BadgerDB.
type TOCRepository struct {
	backend *Backend
}

var _ storage.TOCRepository = (*TOCRepository)(nil)

// NewTOCRepository creates a new TOCRepository.
func NewTOCRepository(backend *Backend) *TOCRepository {
	return &TOCRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *TOCRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TOCRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveEntries stores one or more TOC entries keyed by StartDate.
func (r *TOCRepository) SaveEntries(ctx context.Context, entries ...*core.TOCEntry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, e := range entries {
			key := makeTOCKey(e.StartDate)
			if err := tx.Set(key, storage.MarshalTOCEntry(e)); err != nil {
				return err
			}

			secondsKey := makeTOCSecondsKey(e.StartSeconds, e.StartDate)
			if err := tx.Set(secondsKey, []byte(e.StartDate)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntry retrieves a single entry by its normalized start timecode.
func (r *TOCRepository) GetEntry(ctx context.Context, startDate string) (*core.TOCEntry, error) {
	var result *core.TOCEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTOCEntry(tx, makeTOCKey(startDate))
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

// readTOCEntry reads a TOC entry by key within a transaction.
// Returns nil (no error) if the key doesn't exist.
func readTOCEntry(tx *badger.Txn, key []byte) (*core.TOCEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var result *core.TOCEntry
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalTOCEntry(val)
		return err
	})
	return result, err
}

// GetAllEntries retrieves all TOC entries ordered by StartSeconds. The
// seconds index drives the scan so pre-launch entries come first.
func (r *TOCRepository) GetAllEntries(ctx context.Context) ([]*core.TOCEntry, error) {
	var results []*core.TOCEntry

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tocSecondsPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var startDate string
			if err := iter.Item().Value(func(val []byte) error {
				startDate = string(val)
				return nil
			}); err != nil {
				return err
			}

			record, err := readTOCEntry(tx, makeTOCKey(startDate))
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

// Count returns the number of stored TOC entries.
func (r *TOCRepository) Count(ctx context.Context) (int, error) {
	return r.backend.countPrefix(tocRecordPrefix + ":")
}
