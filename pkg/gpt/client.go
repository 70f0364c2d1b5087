package gpt

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type client struct {
	api         *openai.Client
	temperature float32
	topP        float32
}

// NewClient wraps the hosted completion API. baseURL overrides the provider
// endpoint for OpenAI-compatible gateways; empty keeps the default.
func NewClient(token, baseURL string) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &client{
		api:         openai.NewClientWithConfig(cfg),
		temperature: 0.7,
		topP:        0.95,
	}, nil
}

// GenerateWithSystemPrompt requests a single completion with a system turn
// and a user turn. No retries; a failed call surfaces immediately.
func (c *client) GenerateWithSystemPrompt(ctx context.Context, systemPrompt, userPrompt, model string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		TopP:        c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
