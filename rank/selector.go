package rank

import (
	"fmt"
	"slices"

	"github.com/poiesic/rankit/core"
)

// SelectTopK scores the query against every document sharing at least one
// term with it and returns up to k candidates by descending BM25 score,
// ties broken by ascending document ID. Documents sharing no term score
// zero and are excluded, which is what keeps this stage cheap relative to
// the cross-encoder pass. Returns core.ErrInvalidArgument when k <= 0.
func (s *Scorer) SelectTopK(queryTokens []string, k int) ([]core.Candidate, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", core.ErrInvalidArgument, k)
	}

	// Term-at-a-time accumulation: only documents that appear in some
	// query term's postings list ever get a score.
	scores := make(map[int]float64)
	for _, term := range uniqueTerms(queryTokens) {
		for _, posting := range s.idx.Postings(term) {
			scores[posting.DocID] += s.termScore(term, posting.Frequency, s.idx.DocumentLength(posting.DocID))
		}
	}

	candidates := make([]core.Candidate, 0, len(scores))
	for docID, score := range scores {
		if score <= 0 {
			continue
		}
		candidates = append(candidates, core.Candidate{DocID: docID, Score: score})
	}

	slices.SortFunc(candidates, func(a, b core.Candidate) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.DocID - b.DocID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}
