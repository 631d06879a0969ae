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

package sift

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/openai"
	"github.com/poiesic/sift/corpus"
	"github.com/poiesic/sift/corpus/files"
	"github.com/poiesic/sift/indexing"
	"github.com/poiesic/sift/search"
	"github.com/poiesic/sift/storage"
	"github.com/poiesic/sift/storage/badger"
)

// Engine wires a corpus, a badger-backed vector index and state store,
// the AI services, a Searcher and an Indexer.
type Engine struct {
	backend      *badger.Backend
	index        *badger.VectorIndex
	state        *badger.StateStore
	corpus       corpus.Corpus
	provider     ai.AIProvider
	ownsProvider bool
	searcher     *search.Searcher
	indexer      *indexing.Indexer
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	searchOptions []search.Option
	indexConfig   *indexing.Config
	progress      io.Writer
	logger        *slog.Logger
	inMemory      bool
}

// WithAIConfig sets the configuration used to build the AI provider.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses p instead of building a provider from the AI config.
// The engine does not close a provider it did not create.
func WithProvider(p ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = p
	}
}

// WithSearchOptions passes extra options to the Searcher.
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) {
		o.searchOptions = append(o.searchOptions, opts...)
	}
}

// WithIndexConfig sets the Indexer configuration.
func WithIndexConfig(config *indexing.Config) EngineOption {
	return func(o *engineOptions) {
		o.indexConfig = config
	}
}

// WithProgress sets where indexing progress is written.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithInMemory keeps all data in memory; dbPath is ignored.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens (or creates) the database at dbPath and builds the
// search and indexing components over c. Without an embedding service the
// engine still serves keyword search, but Indexer returns nil.
func NewEngine(dbPath string, c corpus.Corpus, opts ...EngineOption) (*Engine, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}

	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		backend:  backend,
		index:    badger.NewVectorIndex(backend),
		state:    badger.NewStateStore(backend),
		corpus:   c,
		provider: options.provider,
		logger:   options.logger.With("component", "engine"),
	}

	if e.provider == nil {
		e.provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
		e.ownsProvider = true
	}

	searchOpts := []search.Option{
		search.WithLogger(options.logger),
		search.WithProvider(e.provider),
		search.WithVectorIndex(e.index),
		search.WithStateStore(e.state),
	}
	e.searcher, err = search.NewSearcher(c, append(searchOpts, options.searchOptions...)...)
	if err != nil {
		e.closeProvider()
		backend.Close()
		return nil, err
	}

	if embedder := e.provider.Embedder(); embedder != nil {
		e.indexer, err = indexing.NewIndexer(c, embedder, e.index,
			indexing.WithConfig(options.indexConfig),
			indexing.WithProgress(options.progress),
			indexing.WithLogger(options.logger))
		if err != nil {
			e.searcher.Close()
			e.closeProvider()
			backend.Close()
			return nil, err
		}
	}

	return e, nil
}

// Close releases the searcher, the provider the engine created and the
// database.
func (e *Engine) Close() error {
	e.searcher.Close()
	e.closeProvider()

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) closeProvider() {
	if !e.ownsProvider {
		return
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
}

// Searcher returns the engine's searcher.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Indexer returns the engine's indexer, or nil when no embedding service
// is configured.
func (e *Engine) Indexer() *indexing.Indexer {
	return e.indexer
}

// VectorIndex returns the engine's vector index.
func (e *Engine) VectorIndex() storage.VectorIndex {
	return e.index
}

// Corpus returns the corpus the engine searches.
func (e *Engine) Corpus() corpus.Corpus {
	return e.corpus
}

// Sync brings the vector index up to date with the corpus and drops cached
// search results.
func (e *Engine) Sync(ctx context.Context) (indexing.Stats, error) {
	if e.indexer == nil {
		return indexing.Stats{}, ErrIndexingUnavailable
	}
	stats, err := e.indexer.Sync(ctx)
	if err != nil {
		return stats, err
	}
	e.searcher.InvalidateCache()
	return stats, nil
}

// Watch re-syncs the index whenever files under dir change and drops
// cached results after every change, until ctx is done. An empty dir
// watches the root of a directory corpus.
func (e *Engine) Watch(ctx context.Context, dir string, opts ...indexing.WatcherOption) error {
	if dir == "" {
		fc, ok := e.corpus.(*files.Corpus)
		if !ok {
			return ErrWatchRootRequired
		}
		dir = fc.Root()
	}

	watchOpts := []indexing.WatcherOption{
		indexing.WithWatcherLogger(e.logger),
		indexing.WithOnSync(func(indexing.Stats) { e.searcher.InvalidateCache() }),
	}
	if e.indexer != nil {
		watchOpts = append(watchOpts, indexing.WithIndexer(e.indexer))
	}

	w, err := indexing.NewWatcher(dir, append(watchOpts, opts...)...)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
