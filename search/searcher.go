package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/rankit/ai"
	"github.com/poiesic/rankit/core"
	"github.com/poiesic/rankit/index"
	"github.com/poiesic/rankit/rank"
)

// Searcher runs the two-stage retrieval pipeline over an index snapshot.
type Searcher struct {
	index    atomic.Pointer[index.Index]
	params   rank.Params
	reranker *Reranker
	logger   *slog.Logger

	// collected during option application, consumed when the reranker
	// is constructed
	rerankerOpts []RerankerOption
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithBM25Params overrides the lexical stage's BM25 tunables.
// Default is rank.DefaultParams().
func WithBM25Params(params rank.Params) Option {
	return func(s *Searcher) error {
		s.params = params
		return nil
	}
}

// WithRerankerOptions forwards options to the searcher's reranker.
func WithRerankerOptions(opts ...RerankerOption) Option {
	return func(s *Searcher) error {
		s.rerankerOpts = append(s.rerankerOpts, opts...)
		return nil
	}
}

// NewSearcher creates a searcher over an initial index snapshot and a
// semantic scoring capability.
func NewSearcher(idx *index.Index, scorer ai.RelevanceScorer, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if scorer == nil {
		return nil, ErrScorerRequired
	}

	s := &Searcher{
		params: rank.DefaultParams(),
		logger: slog.Default(),
	}
	s.index.Store(idx)

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	// Create the reranker after options are applied (so it gets the final
	// configuration)
	reranker, err := NewReranker(scorer, append(s.rerankerOpts, WithRerankerLogger(s.logger))...)
	if err != nil {
		return nil, err
	}
	s.reranker = reranker

	return s, nil
}

// Close releases resources held by the searcher.
func (s *Searcher) Close() error {
	s.reranker.Release()
	return nil
}

// Index returns the currently active index snapshot.
func (s *Searcher) Index() *index.Index {
	return s.index.Load()
}

// Rebuild constructs a fresh index over the given documents and atomically
// makes it the active snapshot. Searches already in flight keep reading
// the snapshot they started with.
func (s *Searcher) Rebuild(texts []string) error {
	idx, err := index.Build(texts)
	if err != nil {
		return err
	}
	s.index.Store(idx)
	s.logger.Info("index rebuilt", "documents", idx.CorpusSize())
	return nil
}

// Search runs the full pipeline: tokenize, retrieve the topKLexical best
// BM25 candidates, re-rank them semantically, and return the topNFinal
// results with contiguous ranks from 1.
func (s *Searcher) Search(ctx context.Context, query string, topKLexical, topNFinal int) ([]core.ScoredResult, error) {
	return s.SearchWithMonitor(ctx, query, topKLexical, topNFinal, nil)
}

// SearchWithMonitor runs Search with stage-by-stage monitoring callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, topKLexical, topNFinal int, monitor SearchMonitor) ([]core.ScoredResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if topKLexical <= 0 {
		return nil, fmt.Errorf("%w: topKLexical must be positive, got %d", core.ErrInvalidArgument, topKLexical)
	}
	if topNFinal <= 0 {
		return nil, fmt.Errorf("%w: topNFinal must be positive, got %d", core.ErrInvalidArgument, topNFinal)
	}
	// Re-ranking cannot promote a document the lexical pass never
	// retrieved, so a larger final cutoff is a caller mistake rather than
	// something to clamp silently.
	if topNFinal > topKLexical {
		return nil, fmt.Errorf("%w: topNFinal (%d) exceeds topKLexical (%d)", core.ErrInvalidArgument, topNFinal, topKLexical)
	}

	monitor.Start(query)

	tokens := index.Tokenize(query)
	monitor.AfterTokenize(tokens)

	// The whole call reads one snapshot, regardless of concurrent rebuilds.
	snapshot := s.index.Load()
	scorer := rank.NewScorer(snapshot, s.params)

	candidates, err := scorer.SelectTopK(tokens, topKLexical)
	if err != nil {
		return nil, err
	}
	monitor.AfterLexicalRetrieval(candidates)

	if len(candidates) == 0 {
		results := []core.ScoredResult{}
		monitor.Finish(results)
		return results, nil
	}

	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		doc, ok := snapshot.Document(candidate.DocID)
		if !ok {
			return nil, fmt.Errorf("candidate %d not in index snapshot", candidate.DocID)
		}
		texts[i] = doc.Text
	}

	reranked, err := s.reranker.Rerank(ctx, query, candidates, texts)
	if err != nil {
		s.logger.Error("re-ranking failed", "query", query, "candidates", len(candidates), "err", err)
		return nil, err
	}
	monitor.AfterRerank(reranked)

	if len(reranked) > topNFinal {
		reranked = reranked[:topNFinal]
	}

	results := make([]core.ScoredResult, len(reranked))
	for i, candidate := range reranked {
		results[i] = core.ScoredResult{
			DocID: candidate.DocID,
			Score: candidate.Score,
			Rank:  i + 1,
		}
	}
	monitor.Finish(results)

	return results, nil
}
