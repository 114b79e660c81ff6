// Package gemini wraps the Google Gemini generative API for text
// completion. It mirrors the llm package surface so the two providers
// are interchangeable.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client generates text completions through the Gemini API.
type Client struct {
	apiKey string
	model  string
}

// Option customizes the Gemini client.
type Option func(*Client)

// WithModel overrides the default generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		model = strings.TrimSpace(model)
		if model != "" {
			c.model = model
		}
	}
}

// NewClient constructs a Gemini completion client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  defaultModel,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Complete sends a single-turn prompt and returns the model's reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("gemini complete: prompt required")
	}
	if c.apiKey == "" {
		return "", errors.New("gemini complete: api key required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini complete: create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini complete: generate content: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini complete: empty response")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return "", errors.New("gemini complete: empty content")
	}
	return reply, nil
}

// Model reports the configured generation model.
func (c *Client) Model() string {
	return c.model
}
