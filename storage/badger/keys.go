package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/rankit/core"
)

// Key prefixes for different data types
const (
	corpusDocPrefix = "cordoc"
	corpusSeqPrefix = "corseq"
	corpusSeqName   = "cordocseq"
)

// makeDocumentKey generates a key for a stored document by content ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", corpusDocPrefix, id))
}

// makeSeqKey generates a composite key for the insertion-order index.
// Format: prefix:seq
func makeSeqKey(seq uint64) []byte {
	prefix := corpusSeqPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
