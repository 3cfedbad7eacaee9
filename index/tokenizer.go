package index

import (
	"strings"
	"unicode"
)

// Tokenize splits raw text into lowercase word tokens. Runs of letters,
// digits, and underscores form a token; everything else is a separator.
// It is a pure function: identical input always yields identical tokens,
// and tokenizing its own output changes nothing. Empty or whitespace-only
// input yields no tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, strings.ToLower(field))
	}
	return tokens
}
