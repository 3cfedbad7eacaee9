package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	t.Run("valid JSON passes through unchanged", func(t *testing.T) {
		input := `{"scores": [1.5, 2, 0]}`
		assert.Equal(t, input, repairJSON(input))
	})

	t.Run("adds missing opening quote on key", func(t *testing.T) {
		assert.Equal(t, `{"scores": [1]}`, repairJSON(`{scores": [1]}`))
	})

	t.Run("repairs key after comma", func(t *testing.T) {
		assert.Equal(t, `{"a": 1, "scores": [2]}`, repairJSON(`{"a": 1, scores": [2]}`))
	})

	t.Run("leaves bare words without quote-colon alone", func(t *testing.T) {
		input := `{notakey: 1}`
		assert.Equal(t, input, repairJSON(input))
	})
}

func TestScrubString(t *testing.T) {
	assert.Equal(t, "what is BM25", scrubString(`  "what is BM25"  `))
	assert.Equal(t, "cats dogs", scrubString("cats dogs"))
}
