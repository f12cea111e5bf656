package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"weeksum/internal/models"
)

// The model and temperature are fixed so summaries stay near-deterministic
// and comparable between runs.
const (
	summaryModel       = "gpt-4o-mini"
	summaryTemperature = 0.1
)

// GenerationError reports a failed language-model call. A completion that
// merely fails to parse as JSON is not a GenerationError.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("summary generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator builds the prompt pair from a summary request, invokes the chat
// model, and parses its output on a best-effort basis.
type Generator struct {
	chat   ChatClient
	model  string
	logger *slog.Logger
}

// NewGenerator creates a generator on top of the given chat client.
func NewGenerator(logger *slog.Logger, chat ChatClient) *Generator {
	return &Generator{
		chat:   chat,
		model:  summaryModel,
		logger: logger,
	}
}

// Generate produces the summary. The trimmed model text is always returned
// in Raw; Parsed stays nil when that text is not a valid JSON object, which
// is an accepted outcome, not an error.
func (g *Generator) Generate(ctx context.Context, req models.SummaryRequest) (models.SummaryResult, error) {
	raw, err := g.chat.Complete(ctx, ChatRequest{
		Model:       g.model,
		Temperature: summaryTemperature,
		System:      systemPrompt,
		User:        userPrompt(req),
	})
	if err != nil {
		return models.SummaryResult{}, &GenerationError{Err: err}
	}

	raw = strings.TrimSpace(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		g.logger.Warn("Model output is not valid JSON, keeping the raw text", "error", err)
		parsed = nil
	}

	return models.SummaryResult{Parsed: parsed, Raw: raw}, nil
}
