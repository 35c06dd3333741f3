package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

// BatchProcessor regenerates embeddings for batches of utterances.
type BatchProcessor struct {
	repo           storage.UtteranceRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.UtteranceRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of utterances and stores the
// updated records. Vectors are normalized after embedding so dot-product
// scoring behaves as cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, utterances []*core.Utterance) error {
	if len(utterances) == 0 {
		return nil
	}

	texts := make([]string, len(utterances))
	for i, u := range utterances {
		texts[i] = u.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(utterances) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(utterances), len(embeddings))
	}

	for i := range utterances {
		utterances[i].Vector = NormalizeVector(embeddings[i])
	}

	if err := bp.repo.SaveUtterances(ctx, utterances...); err != nil {
		return fmt.Errorf("failed to update utterances: %w", err)
	}
	return nil
}
