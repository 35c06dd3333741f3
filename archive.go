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


package apollo

import (
	"io"
	"log/slog"

	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/ai/openai"
	"github.com/poiesic/apollo/loader"
	"github.com/poiesic/apollo/reembed"
	"github.com/poiesic/apollo/search"
	"github.com/poiesic/apollo/storage/badger"
	"github.com/poiesic/apollo/workflow"
)

// Archive bundles the storage backend, the repository set and the AI
// provider behind one handle. It is the entry point for embedding the
// mission archive into another program; the cmd binaries are thin
// wrappers around it.
type Archive struct {
	repos     *badger.Repositories
	provider  ai.AIProvider
	imagesDir string
	logger    *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig  *ai.Config
	imagesDir string
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		o.aiConfig = config
	}
}

// WithImagesDir sets the directory holding the mission photograph files.
func WithImagesDir(dir string) ArchiveOption {
	return func(o *archiveOptions) {
		o.imagesDir = dir
	}
}

// NewArchive opens the archive database at filePath and connects the AI
// services. Caller must Close the returned archive when done.
func NewArchive(filePath string, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig:  ai.DefaultConfig(),
		imagesDir: "images",
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Archive{
		repos:     badger.NewRepositories(backend, provider.Embedder()),
		provider:  provider,
		imagesDir: options.imagesDir,
		logger:    slog.Default(),
	}, nil
}

// Close closes the AI provider, every repository and the backend.
func (a *Archive) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.repos.Close(); err != nil {
		a.logger.Error("error closing repositories", "err", err)
		return err
	}
	return nil
}

// Repositories returns the repository set.
func (a *Archive) Repositories() *badger.Repositories {
	return a.repos
}

// Provider returns the AI provider.
func (a *Archive) Provider() ai.AIProvider {
	return a.provider
}

// NewPipelineRunner builds the full data pipeline: loaders, the grouping
// stage and the summary and question workflows. With overwrite set,
// already derived groupings, summaries and questions are regenerated.
func (a *Archive) NewPipelineRunner(overwrite bool, opts ...workflow.Option) (*workflow.Runner, error) {
	grouper, err := workflow.NewGrouper(a.repos.TOC, a.repos.Utterances, a.repos.Noise, overwrite)
	if err != nil {
		return nil, err
	}
	summarization, err := workflow.NewSummarizationWorkflow(a.repos.TOC, a.repos.Summaries, a.provider.Generator(), overwrite, opts...)
	if err != nil {
		return nil, err
	}
	questionGeneration, err := workflow.NewQuestionGenerationWorkflow(a.repos.TOC, a.repos.Questions, a.provider.Generator(), overwrite, opts...)
	if err != nil {
		return nil, err
	}

	photographOpts := []loader.PhotographLoaderOption{loader.WithOverwrite(overwrite)}
	if images := a.provider.ImageEmbedder(); images != nil {
		photographOpts = append(photographOpts, loader.WithImageEmbedder(images))
	}

	return workflow.NewRunner(
		a.repos.Utterances,
		loader.NewUtteranceLoader(a.repos.Utterances, a.repos.Noise),
		loader.NewTOCLoader(a.repos.TOC),
		loader.NewPhotographLoader(a.repos.Photographs, a.imagesDir, photographOpts...),
		grouper,
		summarization,
		questionGeneration,
	), nil
}

// NewSearchService builds the search service over the archive.
func (a *Archive) NewSearchService(opts ...search.Option) (*search.Service, error) {
	return search.NewService(search.Repositories{
		Utterances:  a.repos.Utterances,
		Summaries:   a.repos.Summaries,
		Questions:   a.repos.Questions,
		Photographs: a.repos.Photographs,
		Cache:       a.repos.Cache,
		Noise:       a.repos.Noise,
	}, a.provider, opts...)
}

// NewReembedder builds a reembedder over the utterance store.
func (a *Archive) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(a.repos.Utterances, a.provider.Embedder(), config, progress)
}
