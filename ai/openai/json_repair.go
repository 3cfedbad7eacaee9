package openai

import "strings"

// repairJSON attempts to fix common JSON formatting issues from LLM
// responses. It handles keys missing their opening quote, e.g.
// `{scores": [...]}` or `, scores":` becoming properly quoted keys.
func repairJSON(s string) string {
	var fixed strings.Builder
	fixed.Grow(len(s) + 16)

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		fixed.WriteRune(ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		// Copy whitespace after the delimiter
		for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t') {
			fixed.WriteRune(runes[i])
			i++
		}

		// A bare identifier followed by ": is a key missing its opening quote
		if i < len(runes) && isIdentRune(runes[i]) {
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			if i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
				fixed.WriteRune('"')
			}
			fixed.WriteString(string(runes[start:i]))
		}
	}

	return fixed.String()
}

// scrubString removes punctuation and trims whitespace from text before it
// is embedded in a prompt.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune("\"'`", r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// isIdentRune reports whether the rune can appear in a bare JSON key.
func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
