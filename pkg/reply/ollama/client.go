// Package ollama implements the reply provider on a local or remote Ollama
// chat endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mochi-ai/mochi-go/pkg/reply"
)

// defaultTemperature keeps companion replies warm without rambling.
const defaultTemperature = 0.7

// Config is the configuration for the Ollama reply provider.
type Config struct {
	// Model is the model name, defaults to "llama3.1".
	Model string

	// BaseURL is the Ollama service address, defaults to
	// "http://localhost:11434".
	BaseURL string

	// APIKey is optional; set it for authenticated remote deployments.
	APIKey string

	// HTTPClient overrides the default client (120 second timeout).
	HTTPClient *http.Client
}

// Client generates replies via the Ollama chat API.
// It implements the reply.Provider interface.
type Client struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewClient creates an Ollama reply provider from the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := cfg.Model
	if model == "" {
		model = "llama3.1"
	}

	client := cfg.HTTPClient
	if client == nil {
		// Local models can be slow to first token.
		client = &http.Client{Timeout: 120 * time.Second}
	}

	return &Client{
		client:  client,
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// GenerateReply sends the persona system prompt and the conversation context
// to the Ollama chat endpoint.
func (c *Client) GenerateReply(ctx context.Context, req *reply.Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: reply.SystemPrompt(req)},
			{Role: "user", Content: req.Prompt},
		},
		Stream:  false,
		Options: map[string]interface{}{"temperature": defaultTemperature},
	})
	if err != nil {
		return "", fmt.Errorf("GenerateReply: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("GenerateReply: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("GenerateReply: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("GenerateReply: unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("GenerateReply: decode response: %w", err)
	}
	return chat.Message.Content, nil
}

// Close closes the client. Plain HTTP, nothing to release.
func (c *Client) Close() error {
	return nil
}
