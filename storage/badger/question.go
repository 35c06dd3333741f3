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

// QuestionRepository implements storage.QuestionRepository for BadgerDB.
type QuestionRepository struct {
	backend  *Backend
	embedder ai.Embedder
}

var _ storage.QuestionRepository = (*QuestionRepository)(nil)

// NewQuestionRepository creates a new QuestionRepository. The embedder is
// used by the embed-on-save hook for questions stored without a vector.
func NewQuestionRepository(backend *Backend, embedder ai.Embedder) *QuestionRepository {
	return &QuestionRepository{
		backend:  backend,
		embedder: embedder,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *QuestionRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *QuestionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveQuestions stores one or more questions keyed by Timestamp.
// Questions with an empty Vector have their Question text embedded in one
// batch first.
func (r *QuestionRepository) SaveQuestions(ctx context.Context, questions ...*core.Question) error {
	var texts []string
	var missing []*core.Question
	for _, q := range questions {
		if len(q.Vector) == 0 {
			texts = append(texts, q.Question)
			missing = append(missing, q)
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
		for i, q := range missing {
			q.Vector = vectors[i]
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, q := range questions {
			if err := tx.Set(makeQuestionKey(q.Timestamp), storage.MarshalQuestion(q)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetQuestion retrieves a single question by its record key.
func (r *QuestionRepository) GetQuestion(ctx context.Context, timestamp string) (*core.Question, error) {
	var result *core.Question
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeQuestionKey(timestamp))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalQuestion(val)
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

// Exists reports whether a question with the given record key is stored.
func (r *QuestionRepository) Exists(ctx context.Context, timestamp string) (bool, error) {
	exists := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeQuestionKey(timestamp))
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

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	return r.backend.countPrefix(questionRecordPrefix + ":")
}

// FindSimilar finds questions similar to the given vector.
func (r *QuestionRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.QuestionMatch, error) {
	records, scores, err := findSimilar(r.backend, questionRecordPrefix+":", vector, minSimilarity, limit,
		func(val []byte) (*core.Question, []float32, error) {
			record, err := storage.UnmarshalQuestion(val)
			if err != nil {
				return nil, nil, err
			}
			return record, record.Vector, nil
		})
	if err != nil {
		return nil, err
	}

	matches := make([]*storage.QuestionMatch, len(records))
	for i, record := range records {
		matches[i] = &storage.QuestionMatch{Question: record, Score: scores[i]}
	}
	return matches, nil
}
