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

// PhotographRepository implements storage.PhotographRepository for BadgerDB.
type PhotographRepository struct {
	backend  *Backend
	embedder ai.Embedder
}

var _ storage.PhotographRepository = (*PhotographRepository)(nil)

// NewPhotographRepository creates a new PhotographRepository. The embedder
// is used by the embed-on-save hook for description vectors; image vectors
// are stored as provided, since producing them needs the image bytes.
func NewPhotographRepository(backend *Backend, embedder ai.Embedder) *PhotographRepository {
	return &PhotographRepository{
		backend:  backend,
		embedder: embedder,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *PhotographRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PhotographRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SavePhotographs stores one or more photographs keyed by Timestamp.
// Photographs with an empty DescriptionVector have their Description
// embedded in one batch first.
func (r *PhotographRepository) SavePhotographs(ctx context.Context, photographs ...*core.Photograph) error {
	var texts []string
	var missing []*core.Photograph
	for _, p := range photographs {
		if len(p.DescriptionVector) == 0 && p.Description != "" {
			texts = append(texts, p.Description)
			missing = append(missing, p)
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
		for i, p := range missing {
			p.DescriptionVector = vectors[i]
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, p := range photographs {
			if err := tx.Set(makePhotographKey(p.Timestamp), storage.MarshalPhotograph(p)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPhotograph retrieves a single photograph by its timecode.
func (r *PhotographRepository) GetPhotograph(ctx context.Context, timestamp string) (*core.Photograph, error) {
	var result *core.Photograph
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePhotographKey(timestamp))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalPhotograph(val)
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

// Exists reports whether a photograph with the given timecode is stored.
func (r *PhotographRepository) Exists(ctx context.Context, timestamp string) (bool, error) {
	exists := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makePhotographKey(timestamp))
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

// Count returns the number of stored photographs.
func (r *PhotographRepository) Count(ctx context.Context) (int, error) {
	return r.backend.countPrefix(photographRecordPrefix + ":")
}

// FindSimilarByDescription finds photographs whose description vectors are
// similar to the given text-space vector.
func (r *PhotographRepository) FindSimilarByDescription(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.PhotographMatch, error) {
	return r.findSimilarBy(vector, minSimilarity, limit, func(p *core.Photograph) []float32 {
		return p.DescriptionVector
	})
}

// FindSimilarByImage finds photographs whose image vectors are similar to
// the given image-space vector.
func (r *PhotographRepository) FindSimilarByImage(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.PhotographMatch, error) {
	return r.findSimilarBy(vector, minSimilarity, limit, func(p *core.Photograph) []float32 {
		return p.ImageVector
	})
}

func (r *PhotographRepository) findSimilarBy(vector []float32, minSimilarity float32, limit int, pick func(*core.Photograph) []float32) ([]*storage.PhotographMatch, error) {
	records, scores, err := findSimilar(r.backend, photographRecordPrefix+":", vector, minSimilarity, limit,
		func(val []byte) (*core.Photograph, []float32, error) {
			record, err := storage.UnmarshalPhotograph(val)
			if err != nil {
				return nil, nil, err
			}
			return record, pick(record), nil
		})
	if err != nil {
		return nil, err
	}

	matches := make([]*storage.PhotographMatch, len(records))
	for i, record := range records {
		matches[i] = &storage.PhotographMatch{Photograph: record, Score: scores[i]}
	}
	return matches, nil
}
