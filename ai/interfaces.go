package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ImageEmbedder generates vector embeddings from raw image bytes. The
// vectors live in a different space than Embedder's text vectors, so the
// two must never be compared against each other.
// Implementations must be thread-safe for concurrent use.
type ImageEmbedder interface {
	// EmbedImage generates a vector embedding for a single image.
	// Returns an error if the embedding generation fails.
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}

// TextGenerator produces free-form text from a system prompt and a user
// prompt using a chat completion model.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// Generate sends the system and user prompts to the model and returns
	// the text of the first completion choice.
	Generate(ctx context.Context, system, user string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, ImageEmbedder and TextGenerator
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ImageEmbedder returns the image embedding service.
	// The returned ImageEmbedder is safe for concurrent use.
	ImageEmbedder() ImageEmbedder

	// Generator returns the text generation service.
	// The returned TextGenerator is safe for concurrent use.
	Generator() TextGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
