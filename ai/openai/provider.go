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


package openai

import (
	"log/slog"

	"github.com/poiesic/apollo/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder, image embedder and generator instances.
type Provider struct {
	config        *ai.Config
	embedder      *Embedder
	imageEmbedder *ImageEmbedder
	generator     *Generator
	logger        *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use. The image embedder is
// only created when the config names an image host; ImageEmbedder returns
// nil otherwise.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	var imageEmbedder *ImageEmbedder
	if config.ImageHost != "" {
		imageEmbedder = newImageEmbedder(config)
	}

	return &Provider{
		config:        config,
		embedder:      embedder,
		imageEmbedder: imageEmbedder,
		generator:     generator,
		logger:        slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ImageEmbedder returns the image embedding service, or nil when no image
// host is configured.
func (p *Provider) ImageEmbedder() ai.ImageEmbedder {
	if p.imageEmbedder == nil {
		return nil
	}
	return p.imageEmbedder
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.TextGenerator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
