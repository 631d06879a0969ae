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

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/rerank"
)

// Provider implements ai.AIProvider over OpenAI-compatible services.
// Services whose host is empty in the Config are left nil.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	generator *Generator
	reranker  *rerank.Client
	logger    *slog.Logger
}

// NewProvider creates the services enabled in config. Each service gets
// its own request limiter.
//
// Returns ai.AIProvider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		config: config,
		logger: slog.Default().With("component", "openai-provider"),
	}

	var err error
	if config.EmbeddingHost != "" {
		p.embedder, err = newEmbedder(config, ai.NewLimiter(config.RequestsPerSecond))
		if err != nil {
			return nil, err
		}
	}
	if config.GeneratorHost != "" {
		p.generator, err = newGenerator(config, ai.NewLimiter(config.RequestsPerSecond))
		if err != nil {
			return nil, err
		}
	}
	if config.RerankHost != "" {
		p.reranker, err = rerank.NewFromConfig(config)
		if err != nil {
			return nil, err
		}
	}

	p.logger.Debug("provider ready",
		"embedder", p.embedder != nil,
		"generator", p.generator != nil,
		"reranker", p.reranker != nil)
	return p, nil
}

// Embedder returns the embedding service, or nil when disabled.
func (p *Provider) Embedder() ai.Embedder {
	if p.embedder == nil {
		return nil
	}
	return p.embedder
}

// TextGenerator returns the chat service, or nil when disabled.
func (p *Provider) TextGenerator() ai.TextGenerator {
	if p.generator == nil {
		return nil
	}
	return p.generator
}

// Reranker returns the rerank service, or nil when disabled.
func (p *Provider) Reranker() ai.Reranker {
	if p.reranker == nil {
		return nil
	}
	return p.reranker
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
