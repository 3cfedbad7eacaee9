package rank

import (
	"math"

	"github.com/poiesic/rankit/index"
)

// Params holds the BM25 tunables. K1 controls term frequency saturation,
// B controls document length normalization.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns the standard BM25 parameters.
func DefaultParams() Params {
	return Params{K1: 1.5, B: 0.75}
}

// Scorer computes BM25 relevance scores against one index snapshot.
// A Scorer holds no mutable state and is safe for concurrent use.
type Scorer struct {
	idx    *index.Index
	params Params
}

// NewScorer creates a scorer bound to an index snapshot.
func NewScorer(idx *index.Index, params Params) *Scorer {
	return &Scorer{idx: idx, params: params}
}

// Score computes the BM25 score of a document for the given query tokens.
// Repeated query terms contribute once. Terms absent from the index have
// empty postings and contribute zero; a document sharing no terms with the
// query scores exactly 0.
func (s *Scorer) Score(queryTokens []string, docID int) float64 {
	var score float64
	for _, term := range uniqueTerms(queryTokens) {
		for _, posting := range s.idx.Postings(term) {
			if posting.DocID == docID {
				score += s.termScore(term, posting.Frequency, s.idx.DocumentLength(docID))
				break
			}
		}
	}
	return score
}

// termScore computes one term's BM25 contribution for a document with the
// given term frequency and length.
func (s *Scorer) termScore(term string, frequency, docLength int) float64 {
	f := float64(frequency)
	norm := 1 - s.params.B
	if avgdl := s.idx.AverageDocumentLength(); avgdl > 0 {
		norm += s.params.B * float64(docLength) / avgdl
	}
	return s.idf(term) * (f * (s.params.K1 + 1)) / (f + s.params.K1*norm)
}

// idf computes inverse document frequency with the +1-inside-the-log
// smoothing, which keeps IDF non-negative even for terms present in every
// document.
func (s *Scorer) idf(term string) float64 {
	n := float64(s.idx.DocumentFrequency(term))
	total := float64(s.idx.CorpusSize())
	return math.Log((total-n+0.5)/(n+0.5) + 1)
}

// uniqueTerms returns the distinct tokens in first-occurrence order.
func uniqueTerms(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !seen[token] {
			seen[token] = true
			unique = append(unique, token)
		}
	}
	return unique
}
