package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored corpus documents.
// It is generated by content-based hashing so that identical text
// is stored only once.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is an indexed document. IDs are positional: the index assigns
// them sequentially from 0 in corpus order at build time. A Document is
// never mutated after the index that owns it is built.
type Document struct {
	ID     int
	Text   string
	Tokens []string
	Length int // token count, cached for BM25 length normalization
}

// Posting records one document's term frequency in an inverted index
// postings list.
type Posting struct {
	DocID     int
	Frequency int
}

// Candidate is a document selected by the lexical first pass, carrying
// its BM25 score. Candidates are only meaningful within one search call.
type Candidate struct {
	DocID int
	Score float64
}

// ScoredResult is a final pipeline result. Results are ordered by
// non-increasing Score, with Rank contiguous from 1.
type ScoredResult struct {
	DocID int
	Score float64
	Rank  int
}

// StoredDocument is a raw corpus document held by a corpus repository,
// before any indexing has happened.
type StoredDocument struct {
	Id       ID
	Seq      uint64 // insertion order, drives index build order
	Contents string
}
