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


package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

const (
	// knn is the number of nearest neighbors returned by text searches.
	knn = 3

	// imageKNN is the number of nearest neighbors returned by
	// image-vector searches.
	imageKNN = 20

	// cacheSimilarityThreshold is the minimum similarity between a query
	// and a cached query for the cached answer to be reused.
	cacheSimilarityThreshold = 0.9
)

// Repositories bundles the stores the search service reads from.
type Repositories struct {
	Utterances  storage.UtteranceRepository
	Summaries   storage.SummaryRepository
	Questions   storage.QuestionRepository
	Photographs storage.PhotographRepository
	Cache       storage.CacheRepository
	Noise       storage.NoiseRepository
}

func (r Repositories) validate() error {
	if r.Utterances == nil || r.Summaries == nil || r.Questions == nil ||
		r.Photographs == nil || r.Cache == nil || r.Noise == nil {
		return ErrRepositoryRequired
	}
	return nil
}

// Service orchestrates semantic search over the mission archive, with an
// optional semantic answer cache and optional retrieval-augmented
// generation on top of the raw matches.
type Service struct {
	repos         Repositories
	embedder      ai.Embedder
	imageEmbedder ai.ImageEmbedder
	generator     ai.TextGenerator
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a search service. The provider's image embedder may
// be absent, in which case search-by-image returns ErrImageSearchDisabled.
func NewService(repos Repositories, provider ai.AIProvider, opts ...Option) (*Service, error) {
	if err := repos.validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Service{
		repos:         repos,
		embedder:      provider.Embedder(),
		imageEmbedder: provider.ImageEmbedder(),
		generator:     provider.Generator(),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Options toggles the optional stages of summary and question search.
type Options struct {
	SemanticCache bool
	Rag           bool
}

// SummaryResult is the outcome of a summary search with per-stage timings.
// Exactly one of CacheHit / Matches carries the answer material: on a
// cache hit no vector search is performed.
type SummaryResult struct {
	Query   string
	Matches []*storage.SummaryMatch

	RagAnswer string

	CacheHit    bool
	CachedQuery string
	CachedScore float32

	EmbeddingTime   time.Duration
	CacheSearchTime time.Duration
	SearchTime      time.Duration
	RagTime         time.Duration
}

// QuestionResult is the outcome of a question search with per-stage
// timings.
type QuestionResult struct {
	Query   string
	Matches []*storage.QuestionMatch

	RagAnswer string

	CacheHit    bool
	CachedQuery string
	CachedScore float32

	EmbeddingTime   time.Duration
	CacheSearchTime time.Duration
	SearchTime      time.Duration
	RagTime         time.Duration
}

// UtteranceResult is the outcome of an utterance search.
type UtteranceResult struct {
	Query   string
	Matches []*storage.UtteranceMatch

	EmbeddingTime time.Duration
	SearchTime    time.Duration
}

// PhotographResult is the outcome of a photograph search.
type PhotographResult struct {
	Matches []*storage.PhotographMatch

	EmbeddingTime time.Duration
	SearchTime    time.Duration
}

// SearchSummaries finds the summaries closest to the query. With
// opts.SemanticCache a sufficiently similar previously answered query
// short-circuits the search; with opts.Rag the matches' grouped text is
// fed to the generator and, if caching is on, the answer is stored.
func (s *Service) SearchSummaries(ctx context.Context, query string, opts Options) (*SummaryResult, error) {
	s.logger.Info("received summary search", "query", query)
	result := &SummaryResult{Query: query}

	vector, err := s.embedQuery(ctx, query, &result.EmbeddingTime)
	if err != nil {
		return nil, err
	}

	if opts.SemanticCache {
		hit, err := s.checkCache(ctx, vector, false, &result.CacheSearchTime)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			result.CacheHit = true
			result.RagAnswer = hit.Entry.Answer
			result.CachedQuery = hit.Entry.Query
			result.CachedScore = hit.Score
			return result, nil
		}
	}

	start := time.Now()
	matches, err := s.repos.Summaries.FindSimilar(ctx, vector, 0, knn)
	result.SearchTime = time.Since(start)
	if err != nil {
		s.logger.Error("error searching summaries", "err", err)
		return nil, err
	}
	result.Matches = matches

	if opts.Rag {
		texts := make([]string, len(matches))
		for i, m := range matches {
			texts[i] = m.Summary.GroupedText
		}

		start = time.Now()
		answer, err := s.enhanceWithRag(ctx, query, strings.Join(texts, "\n"))
		result.RagTime = time.Since(start)
		if err != nil {
			s.logger.Error("error generating rag answer", "err", err)
			return nil, err
		}
		result.RagAnswer = answer

		if opts.SemanticCache {
			s.storeInCache(ctx, query, answer, false, vector)
		}
	}

	return result, nil
}

// SearchQuestions finds the generated questions closest to the query.
// Behaves like SearchSummaries but over the question records and the
// question partition of the cache.
func (s *Service) SearchQuestions(ctx context.Context, query string, opts Options) (*QuestionResult, error) {
	s.logger.Info("received question search", "query", query)
	result := &QuestionResult{Query: query}

	vector, err := s.embedQuery(ctx, query, &result.EmbeddingTime)
	if err != nil {
		return nil, err
	}

	if opts.SemanticCache {
		hit, err := s.checkCache(ctx, vector, true, &result.CacheSearchTime)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			result.CacheHit = true
			result.RagAnswer = hit.Entry.Answer
			result.CachedQuery = hit.Entry.Query
			result.CachedScore = hit.Score
			return result, nil
		}
	}

	start := time.Now()
	matches, err := s.repos.Questions.FindSimilar(ctx, vector, 0, knn)
	result.SearchTime = time.Since(start)
	if err != nil {
		s.logger.Error("error searching questions", "err", err)
		return nil, err
	}
	result.Matches = matches

	if opts.Rag {
		texts := make([]string, len(matches))
		for i, m := range matches {
			texts[i] = m.Question.GroupedText
		}

		start = time.Now()
		answer, err := s.enhanceWithRag(ctx, query, strings.Join(texts, "\n"))
		result.RagTime = time.Since(start)
		if err != nil {
			s.logger.Error("error generating rag answer", "err", err)
			return nil, err
		}
		result.RagAnswer = answer

		if opts.SemanticCache {
			s.storeInCache(ctx, query, answer, true, vector)
		}
	}

	return result, nil
}

// SearchUtterances finds the raw utterances closest to the query. Each
// matched text bumps the noise counter, feeding the boilerplate filter of
// the grouping workflow.
func (s *Service) SearchUtterances(ctx context.Context, query string) (*UtteranceResult, error) {
	s.logger.Info("received utterance search", "query", query)
	result := &UtteranceResult{Query: query}

	vector, err := s.embedQuery(ctx, query, &result.EmbeddingTime)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	matches, err := s.repos.Utterances.FindSimilar(ctx, vector, 0, knn)
	result.SearchTime = time.Since(start)
	if err != nil {
		s.logger.Error("error searching utterances", "err", err)
		return nil, err
	}
	result.Matches = matches

	for _, m := range matches {
		if _, err := s.repos.Noise.Increment(ctx, m.Utterance.Text); err != nil {
			s.logger.Error("failed to count matched utterance text", "timestamp", m.Utterance.Timestamp, "err", err)
		}
	}

	return result, nil
}

// SearchImagesByDescription finds photographs whose descriptions are
// closest to the query text.
func (s *Service) SearchImagesByDescription(ctx context.Context, query string) (*PhotographResult, error) {
	s.logger.Info("received image search by description", "query", query)
	result := &PhotographResult{}

	vector, err := s.embedQuery(ctx, query, &result.EmbeddingTime)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	matches, err := s.repos.Photographs.FindSimilarByDescription(ctx, vector, 0, knn)
	result.SearchTime = time.Since(start)
	if err != nil {
		s.logger.Error("error searching photographs by description", "err", err)
		return nil, err
	}
	result.Matches = matches
	return result, nil
}

// SearchImagesByImage finds photographs visually closest to the given
// image. Returns ErrImageSearchDisabled when no image embedder is
// configured.
func (s *Service) SearchImagesByImage(ctx context.Context, image []byte) (*PhotographResult, error) {
	if s.imageEmbedder == nil {
		return nil, ErrImageSearchDisabled
	}
	s.logger.Info("received image search by image", "bytes", len(image))
	result := &PhotographResult{}

	start := time.Now()
	vector, err := s.imageEmbedder.EmbedImage(ctx, image)
	result.EmbeddingTime = time.Since(start)
	if err != nil {
		s.logger.Error("error embedding query image", "err", err)
		return nil, err
	}

	start = time.Now()
	matches, err := s.repos.Photographs.FindSimilarByImage(ctx, vector, 0, imageKNN)
	result.SearchTime = time.Since(start)
	if err != nil {
		s.logger.Error("error searching photographs by image", "err", err)
		return nil, err
	}
	result.Matches = matches
	return result, nil
}

// embedQuery embeds the query text and records the elapsed time.
func (s *Service) embedQuery(ctx context.Context, query string, elapsed *time.Duration) ([]float32, error) {
	start := time.Now()
	vector, err := s.embedder.EmbedText(ctx, query)
	*elapsed = time.Since(start)
	if err != nil {
		s.logger.Error("error embedding query", "query", query, "err", err)
		return nil, err
	}
	return vector, nil
}

// checkCache looks for a cached answer whose query is close enough to the
// current one. Returns nil without error on a miss.
func (s *Service) checkCache(ctx context.Context, vector []float32, question bool, elapsed *time.Duration) (*storage.CacheMatch, error) {
	start := time.Now()
	hits, err := s.repos.Cache.FindSimilar(ctx, vector, question, cacheSimilarityThreshold, 1)
	*elapsed = time.Since(start)
	if err != nil {
		s.logger.Error("error checking semantic cache", "err", err)
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return hits[0], nil
}

// storeInCache saves an answered query. Failures are logged, not
// propagated: the answer was already produced.
func (s *Service) storeInCache(ctx context.Context, query, answer string, question bool, vector []float32) {
	entry := &core.CacheEntry{
		Query:    query,
		Answer:   answer,
		Question: question,
		Vector:   vector,
	}
	if err := s.repos.Cache.SaveEntry(ctx, entry); err != nil {
		s.logger.Error("failed to cache answer", "query", query, "err", err)
	}
}
