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

import "errors"

var (
	// ErrCorpusRequired is returned when a corpus is not provided.
	ErrCorpusRequired = errors.New("corpus required")

	// ErrEmbedderNotConfigured is returned by semantic search when no
	// embedder is configured.
	ErrEmbedderNotConfigured = errors.New("embedder not configured")

	// ErrVectorIndexNotConfigured is returned by semantic search when no
	// vector index is configured.
	ErrVectorIndexNotConfigured = errors.New("vector index not configured")

	// ErrSavedSearchNotFound is returned for unknown saved search IDs.
	ErrSavedSearchNotFound = errors.New("saved search not found")

	// ErrInvalidOption is returned when an Option receives an unusable value.
	ErrInvalidOption = errors.New("invalid searcher option")
)
