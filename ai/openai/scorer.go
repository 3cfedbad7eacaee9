// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/rankit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Scorer implements ai.RelevanceScorer using OpenAI-compatible chat APIs.
// One chat completion scores a whole batch of passages against the query.
type Scorer struct {
	client llms.Model
	logger *slog.Logger
}

// scoredBatch is the wrapper structure for the LLM's JSON response.
type scoredBatch struct {
	Scores []float64 `json:"scores"`
}

// newScorer is an internal constructor that returns the concrete type.
func newScorer(config *ai.Config) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Scorer{
		client: client,
		logger: slog.Default().With("component", "openai-scorer"),
	}, nil
}

// NewScorer creates a new relevance scorer using the provided configuration.
//
// Returns ai.RelevanceScorer interface to enforce abstraction.
func NewScorer(config *ai.Config) (ai.RelevanceScorer, error) {
	return newScorer(config)
}

// Score computes a relevance score for one query-document pair.
func (s *Scorer) Score(ctx context.Context, query, document string) (float64, error) {
	scores, err := s.ScoreBatch(ctx, query, []string{document})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// ScoreBatch scores all documents against the query in one model call.
// The model is prompted to return one score per passage as JSON; malformed
// responses are retried up to 3 times.
func (s *Scorer) ScoreBatch(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return []float64{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildBatchPrompt(query, documents)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result scoredBatch
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			lastErr = fmt.Errorf("no choices returned from model")
			s.logger.Warn("no choices returned from model", "attempt", attempt+1)
			continue
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing scorer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		if len(result.Scores) != len(documents) {
			lastErr = fmt.Errorf("score count mismatch: expected %d, got %d", len(documents), len(result.Scores))
			s.logger.Warn("score count mismatch",
				"attempt", attempt+1,
				"expected", len(documents),
				"got", len(result.Scores))
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to obtain scores after retries", "err", lastErr)
		return nil, lastErr
	}

	s.logger.Debug("scored batch", "documents", len(documents))
	return result.Scores, nil
}
