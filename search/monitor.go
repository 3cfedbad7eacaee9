package search

import "github.com/poiesic/rankit/core"

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate stages during a search.
type SearchMonitor interface {
	Start(query string)
	AfterTokenize(tokens []string)
	AfterLexicalRetrieval(candidates []core.Candidate)
	AfterRerank(candidates []core.Candidate)
	Finish(results []core.ScoredResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterTokenize(_ []string)                 {}
func (n *noopMonitor) AfterLexicalRetrieval(_ []core.Candidate) {}
func (n *noopMonitor) AfterRerank(_ []core.Candidate)           {}
func (n *noopMonitor) Finish(_ []core.ScoredResult)             {}
