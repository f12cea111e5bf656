// Package llm generates the weekly summary text with a chat-completion
// model.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatRequest is one chat-completion invocation: a model, a sampling
// temperature, and exactly two ordered messages.
type ChatRequest struct {
	Model       string
	Temperature float64
	System      string
	User        string
}

// ChatClient abstracts the chat-completion service so tests can substitute
// a fake for the real API.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// OpenAIClient is the production ChatClient backed by the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a chat client authenticated with the given key.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// Complete sends the system and user messages and returns the completion
// text.
func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Temperature: openai.Float(req.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
