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


// Package rankit is a two-stage document retrieval library: a BM25
// lexical first pass over an in-memory inverted index narrows the corpus
// to a candidate set, then a cross-encoder relevance model re-ranks the
// candidates against the query.
//
// The Engine type ties the pieces together over a persistent corpus
// store. Libraries that manage their own corpus can use the index,
// rank, and search packages directly.
package rankit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/rankit/ai"
	"github.com/poiesic/rankit/ai/openai"
	"github.com/poiesic/rankit/core"
	"github.com/poiesic/rankit/index"
	"github.com/poiesic/rankit/search"
	"github.com/poiesic/rankit/storage"
	"github.com/poiesic/rankit/storage/badger"
)

// Engine combines a persistent corpus store with the two-stage retrieval
// pipeline. The index is always rebuilt in memory from the stored corpus;
// no index state is ever persisted.
type Engine struct {
	backend *badger.Backend
	corpus  storage.CorpusRepository
	scorer  ai.RelevanceScorer
	logger  *slog.Logger

	searcherOpts []search.Option

	mu       sync.Mutex
	searcher *search.Searcher
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	scorer       ai.RelevanceScorer
	searcherOpts []search.Option
}

// WithAIConfig sets the configuration for the default OpenAI-compatible
// relevance scorer.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithRelevanceScorer injects a custom scoring capability, replacing the
// default OpenAI-compatible scorer.
func WithRelevanceScorer(scorer ai.RelevanceScorer) EngineOption {
	return func(o *engineOptions) {
		o.scorer = scorer
	}
}

// WithSearcherOptions forwards options to the engine's searcher.
func WithSearcherOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) {
		o.searcherOpts = append(o.searcherOpts, opts...)
	}
}

// Open opens (or creates) the corpus store at filePath and builds the
// in-memory index over whatever it contains. An empty store is valid:
// searches fail with core.ErrEmptyCorpus until documents are added and
// Rebuild is called.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	corpus, err := badger.NewCorpusRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	scorer := options.scorer
	if scorer == nil {
		scorer, err = openai.NewScorer(options.aiConfig)
		if err != nil {
			corpus.Close()
			backend.Close()
			return nil, err
		}
	}

	e := &Engine{
		backend:      backend,
		corpus:       corpus,
		scorer:       scorer,
		logger:       slog.Default(),
		searcherOpts: options.searcherOpts,
	}

	if err := e.Rebuild(context.Background()); err != nil && !errors.Is(err, core.ErrEmptyCorpus) {
		e.Close()
		return nil, err
	}

	return e, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.searcher != nil {
		e.searcher.Close()
		e.searcher = nil
	}
	e.mu.Unlock()

	if err := e.corpus.Close(); err != nil {
		e.logger.Error("error closing corpus repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// AddDocuments stores documents in the corpus. The active index is not
// touched; call Rebuild to make new documents searchable.
func (e *Engine) AddDocuments(ctx context.Context, texts ...string) ([]*core.StoredDocument, error) {
	return e.corpus.AddDocuments(ctx, texts...)
}

// Rebuild reads the stored corpus in insertion order and swaps in a fresh
// index snapshot. Searches already in flight keep their old snapshot.
func (e *Engine) Rebuild(ctx context.Context) error {
	docs, err := e.corpus.AllDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents stored", core.ErrEmptyCorpus)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Contents
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.searcher == nil {
		idx, err := index.Build(texts)
		if err != nil {
			return err
		}
		searcher, err := search.NewSearcher(idx, e.scorer, e.searcherOpts...)
		if err != nil {
			return err
		}
		e.searcher = searcher
		e.logger.Info("index built", "documents", idx.CorpusSize())
		return nil
	}
	return e.searcher.Rebuild(texts)
}

// Search runs the two-stage pipeline against the current index snapshot.
func (e *Engine) Search(ctx context.Context, query string, topKLexical, topNFinal int) ([]core.ScoredResult, error) {
	searcher, err := e.activeSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, query, topKLexical, topNFinal)
}

// SearchWithMonitor runs Search with stage-by-stage monitoring callbacks.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, topKLexical, topNFinal int, monitor search.SearchMonitor) ([]core.ScoredResult, error) {
	searcher, err := e.activeSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.SearchWithMonitor(ctx, query, topKLexical, topNFinal, monitor)
}

// Document returns the indexed document for a result's DocID.
func (e *Engine) Document(id int) (core.Document, bool) {
	searcher, err := e.activeSearcher()
	if err != nil {
		return core.Document{}, false
	}
	return searcher.Index().Document(id)
}

// Corpus returns the underlying corpus repository.
func (e *Engine) Corpus() storage.CorpusRepository {
	return e.corpus
}

func (e *Engine) activeSearcher() (*search.Searcher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.searcher == nil {
		return nil, fmt.Errorf("%w: no index has been built", core.ErrEmptyCorpus)
	}
	return e.searcher, nil
}
