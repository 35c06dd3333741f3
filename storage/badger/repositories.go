package badger

import (
	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/storage"
)

// Repositories bundles every repository backed by a single BadgerDB
// instance. All repositories share the backend's transactions and key
// space.
type Repositories struct {
	Utterances  storage.UtteranceRepository
	TOC         storage.TOCRepository
	Summaries   storage.SummaryRepository
	Questions   storage.QuestionRepository
	Photographs storage.PhotographRepository
	Cache       storage.CacheRepository
	Noise       storage.NoiseRepository

	backend *Backend
}

// NewRepositories creates the full repository set over the given backend.
// The embedder powers the embed-on-save hooks of the vector-bearing
// repositories.
func NewRepositories(backend *Backend, embedder ai.Embedder) *Repositories {
	return &Repositories{
		Utterances:  NewUtteranceRepository(backend, embedder),
		TOC:         NewTOCRepository(backend),
		Summaries:   NewSummaryRepository(backend, embedder),
		Questions:   NewQuestionRepository(backend, embedder),
		Photographs: NewPhotographRepository(backend, embedder),
		Cache:       NewCacheRepository(backend),
		Noise:       NewNoiseRepository(backend),
		backend:     backend,
	}
}

// Backend returns the shared backend.
func (r *Repositories) Backend() *Backend {
	return r.backend
}

// Close closes every repository and then the backend.
func (r *Repositories) Close() error {
	for _, c := range []interface{ Close() error }{
		r.Utterances, r.TOC, r.Summaries, r.Questions, r.Photographs, r.Cache, r.Noise,
	} {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return r.backend.Close()
}
