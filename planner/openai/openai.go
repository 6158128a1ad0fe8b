// Package openai adapts the OpenAI Chat Completions API to the planner.Model
// interface.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// Options configure the OpenAI planner model.
type Options struct {
	Model       string
	Temperature float64
}

// Model wraps the OpenAI Chat Completions API behind planner.Model.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client (API key from
// the environment).
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Complete runs one system+user exchange and returns the trimmed reply text.
func (m *Model) Complete(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: m.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(m.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
