// Package openai implements the reply provider on the OpenAI chat completions
// API. Setting BaseURL points the same client at any OpenAI-compatible
// endpoint (xAI's Grok API among them).
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mochi-ai/mochi-go/pkg/reply"
)

// defaultTemperature keeps companion replies warm without rambling.
const defaultTemperature = 0.7

// Config is the configuration for the OpenAI-compatible reply provider.
type Config struct {
	// APIKey authenticates with the API (required).
	APIKey string

	// Model is the chat model name (required, e.g. "gpt-4o-mini" or
	// "grok-2-latest").
	Model string

	// BaseURL overrides the API endpoint. Leave empty for api.openai.com;
	// set to "https://api.x.ai/v1" for xAI.
	BaseURL string
}

// Client generates replies via an OpenAI-compatible chat completions API.
// It implements the reply.Provider interface.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a reply provider from the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("NewClient: API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("NewClient: model is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}, nil
}

// GenerateReply sends the persona system prompt and the conversation context
// to the chat completions endpoint.
func (c *Client) GenerateReply(ctx context.Context, req *reply.Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reply.SystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("GenerateReply: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("GenerateReply: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Close closes the client. The underlying SDK holds no resources that need
// explicit release; the method exists for interface compatibility.
func (c *Client) Close() error {
	return nil
}
