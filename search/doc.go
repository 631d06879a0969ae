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

// Package search implements the query pipeline of the knowledge base.
//
// A Searcher dispatches each query to one of four strategies:
//   - keyword: regex word matching over every corpus document
//   - semantic: nearest neighbors of the query embedding in the vector index
//   - hybrid: both of the above, merged with a fixed 70/30 weighting
//   - ai_enhanced: hybrid over the query and generated paraphrases, with an
//     AI relevance score blended into each result
//
// Strategy output can be reranked by a cross-encoder, then is filtered,
// sorted and truncated. Result lists are cached for a short TTL. The
// Searcher also keeps saved searches and a bounded search history,
// persisted through a storage.StateStore when one is configured.
package search
