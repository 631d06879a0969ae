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

// Package ai provides abstractions for the model-backed services used by the
// search engine.
//
// Three services are modeled, each optional:
//
//   - Embedder: turns text into vectors for semantic search and indexing
//   - TextGenerator: chat completions used for query expansion and
//     relevance scoring in ai_enhanced search
//   - Reranker: cross-encoder scoring of retrieved candidates
//
// AIProvider aggregates them for convenient initialization. Provider
// responses are converted to typed values (RerankOutcome, validated
// embedding batches) at the package boundary so no untyped data reaches
// the search pipeline.
//
// # Implementation Packages
//
//   - ai/openai: Embedder and TextGenerator over OpenAI-compatible APIs
//   - ai/rerank: Reranker over a /v1/rerank HTTP endpoint
//   - ai/mock: test doubles with call counters and injectable behavior
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithRerankHost("http://localhost:8081"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "quarterly invoice")
package ai
