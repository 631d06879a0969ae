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

// Package storage provides the storage abstraction layer for the search engine.
//
// Two interfaces decouple persistence from the search pipeline:
//
//   - VectorIndex: embeddings plus typed payloads, queried by cosine similarity
//   - StateStore: saved searches and search history, loaded once and saved
//     after each mutation
//
// The badger sub-package implements both on a single BadgerDB instance.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	index := badger.NewVectorIndex(backend)
//	state := badger.NewStateStore(backend)
//
// Use in tests with in-memory storage:
//
//	index, state, backend, err := badger.NewMemoryStores()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage
