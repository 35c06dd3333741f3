package storage

import (
	"context"

	"github.com/poiesic/apollo/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// UtteranceMatch is a similarity search hit against the utterance store.
type UtteranceMatch struct {
	Utterance *core.Utterance
	Score     float32
}

// SummaryMatch is a similarity search hit against the summary store.
type SummaryMatch struct {
	Summary *core.Summary
	Score   float32
}

// QuestionMatch is a similarity search hit against the question store.
type QuestionMatch struct {
	Question *core.Question
	Score    float32
}

// PhotographMatch is a similarity search hit against the photograph store.
type PhotographMatch struct {
	Photograph *core.Photograph
	Score      float32
}

// CacheMatch is a similarity search hit against the semantic cache.
type CacheMatch struct {
	Entry *core.CacheEntry
	Score float32
}

// UtteranceRepository provides operations for managing transcript utterances.
type UtteranceRepository interface {
	Repository

	// SaveUtterances stores one or more utterances keyed by Timestamp,
	// overwriting existing records. Utterances with an empty Vector are
	// embedded before storing.
	SaveUtterances(ctx context.Context, utterances ...*core.Utterance) error

	// GetUtterance retrieves a single utterance by its timecode.
	// Returns ErrNotFound if the record doesn't exist.
	GetUtterance(ctx context.Context, timestamp string) (*core.Utterance, error)

	// GetUtterancesInRange retrieves utterances with
	// startSeconds <= TimestampSeconds < endSeconds, ordered by time.
	GetUtterancesInRange(ctx context.Context, startSeconds, endSeconds int) ([]*core.Utterance, error)

	// GetUtterancesFrom retrieves utterances with
	// TimestampSeconds >= startSeconds, ordered by time.
	GetUtterancesFrom(ctx context.Context, startSeconds int) ([]*core.Utterance, error)

	// GetUtteranceBatch retrieves up to limit utterances with timecodes
	// strictly after afterTimestamp, in key order. Pass "" to start from
	// the beginning. Used for paging through the full corpus.
	GetUtteranceBatch(ctx context.Context, afterTimestamp string, limit int) ([]*core.Utterance, error)

	// Count returns the number of stored utterances.
	Count(ctx context.Context) (int, error)

	// FindSimilar finds utterances similar to the given vector.
	// Returns records with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*UtteranceMatch, error)
}

// TOCRepository provides operations for managing table-of-contents entries.
type TOCRepository interface {
	Repository

	// SaveEntries stores one or more TOC entries keyed by StartDate,
	// overwriting existing records.
	SaveEntries(ctx context.Context, entries ...*core.TOCEntry) error

	// GetEntry retrieves a single entry by its normalized start timecode.
	// Returns ErrNotFound if the record doesn't exist.
	GetEntry(ctx context.Context, startDate string) (*core.TOCEntry, error)

	// GetAllEntries retrieves all TOC entries ordered by StartSeconds.
	GetAllEntries(ctx context.Context) ([]*core.TOCEntry, error)

	// Count returns the number of stored TOC entries.
	Count(ctx context.Context) (int, error)
}

// SummaryRepository provides operations for managing embedded summaries.
type SummaryRepository interface {
	Repository

	// SaveSummaries stores one or more summaries keyed by Timestamp.
	// Summaries with an empty Vector are embedded before storing.
	SaveSummaries(ctx context.Context, summaries ...*core.Summary) error

	// GetSummary retrieves a single summary by its timecode.
	// Returns ErrNotFound if the record doesn't exist.
	GetSummary(ctx context.Context, timestamp string) (*core.Summary, error)

	// Exists reports whether a summary with the given timecode is stored.
	Exists(ctx context.Context, timestamp string) (bool, error)

	// Count returns the number of stored summaries.
	Count(ctx context.Context) (int, error)

	// FindSimilar finds summaries similar to the given vector.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*SummaryMatch, error)
}

// QuestionRepository provides operations for managing embedded questions.
type QuestionRepository interface {
	Repository

	// SaveQuestions stores one or more questions keyed by Timestamp.
	// Questions with an empty Vector are embedded before storing.
	SaveQuestions(ctx context.Context, questions ...*core.Question) error

	// GetQuestion retrieves a single question by its record key.
	// Returns ErrNotFound if the record doesn't exist.
	GetQuestion(ctx context.Context, timestamp string) (*core.Question, error)

	// Exists reports whether a question with the given record key is stored.
	Exists(ctx context.Context, timestamp string) (bool, error)

	// Count returns the number of stored questions.
	Count(ctx context.Context) (int, error)

	// FindSimilar finds questions similar to the given vector.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*QuestionMatch, error)
}

// PhotographRepository provides operations for managing mission photographs.
type PhotographRepository interface {
	Repository

	// SavePhotographs stores one or more photographs keyed by Timestamp.
	// Photographs with an empty DescriptionVector have their Description
	// embedded before storing. ImageVector is stored as provided.
	SavePhotographs(ctx context.Context, photographs ...*core.Photograph) error

	// GetPhotograph retrieves a single photograph by its timecode.
	// Returns ErrNotFound if the record doesn't exist.
	GetPhotograph(ctx context.Context, timestamp string) (*core.Photograph, error)

	// Exists reports whether a photograph with the given timecode is stored.
	Exists(ctx context.Context, timestamp string) (bool, error)

	// Count returns the number of stored photographs.
	Count(ctx context.Context) (int, error)

	// FindSimilarByDescription finds photographs whose description vectors
	// are similar to the given text-space vector.
	FindSimilarByDescription(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*PhotographMatch, error)

	// FindSimilarByImage finds photographs whose image vectors are similar
	// to the given image-space vector.
	FindSimilarByImage(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*PhotographMatch, error)
}

// CacheRepository provides operations for the semantic answer cache.
// Question-search and summary-search entries live in separate partitions.
type CacheRepository interface {
	Repository

	// SaveEntry stores a cache entry in the partition selected by
	// entry.Question. The entry's Vector must already be populated.
	SaveEntry(ctx context.Context, entry *core.CacheEntry) error

	// FindSimilar finds cached entries in the given partition whose query
	// vectors are similar to vector.
	FindSimilar(ctx context.Context, vector []float32, question bool, minSimilarity float32, limit int) ([]*CacheMatch, error)

	// Count returns the number of cached entries across both partitions.
	Count(ctx context.Context) (int, error)

	// Clear removes all cached entries from both partitions.
	Clear(ctx context.Context) error
}

// NoiseRepository tracks how often utterance texts occur, so frequently
// repeated boilerplate lines ("Roger.", "Okay.") can be excluded from
// grouped text. Counters are keyed by the exact text value.
type NoiseRepository interface {
	Repository

	// Increment increases the occurrence counter for the given utterance
	// text and returns the new count.
	Increment(ctx context.Context, text string) (uint64, error)

	// GetCount returns the occurrence counter for the given utterance text.
	// Returns 0 for unknown texts.
	GetCount(ctx context.Context, text string) (uint64, error)

	// NoisyTexts returns the texts whose occurrence counter is at least
	// minCount.
	NoisyTexts(ctx context.Context, minCount uint64) (map[string]struct{}, error)
}
