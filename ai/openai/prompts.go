package openai

import (
	"fmt"
	"strings"
)

const scoringResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "scores": {
      "type": "array",
      "items": {
        "type": "number",
        "minimum": 0,
        "maximum": 10
      }
    }
  },
  "required": ["scores"],
  "additionalProperties": false
}`

const scoringPromptTemplate = `You are a relevance judge. Given a search query and a numbered list of passages, rate how well each passage answers the query and return the ratings as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Return exactly one score per passage, in passage order.
- Scores range from 0 (completely irrelevant) to 10 (directly answers the query).
- Judge each passage on its own content against the query; ignore passage length and position.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildSystemPrompt assembles the scoring instructions and response schema.
func buildSystemPrompt() string {
	return fmt.Sprintf(scoringPromptTemplate, scoringResponseSchema)
}

// buildBatchPrompt formats the query and passages for one scoring call.
func buildBatchPrompt(query string, documents []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\nPassages:\n", scrubString(query))
	for i, document := range documents {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.TrimSpace(document))
	}
	return sb.String()
}
