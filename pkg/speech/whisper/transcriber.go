// Package whisper implements audio transcription via the OpenAI
// speech-to-text API.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mochi-ai/mochi-go/pkg/speech"
)

// Config holds the settings for the whisper transcriber.
type Config struct {
	// APIKey authenticates with the API.
	APIKey string

	// BaseURL overrides the API endpoint (empty = api.openai.com).
	BaseURL string

	// Model is the transcription model (empty = whisper-1).
	Model string
}

// Transcriber converts audio to text with the OpenAI transcription endpoint.
type Transcriber struct {
	client *openai.Client
	model  string
}

// NewTranscriber creates a whisper transcriber from the given config.
func NewTranscriber(config *Config) (*Transcriber, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("NewTranscriber: API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &Transcriber{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Transcribe sends the audio clip to the transcription endpoint.
//
// The filename matters: the API infers the container format from its
// extension, so callers should pass the upload's original name.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (*speech.Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("Transcribe: empty audio")
	}
	if filename == "" {
		filename = "audio.wav"
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return nil, fmt.Errorf("Transcribe: %w", err)
	}

	return &speech.Transcription{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
	}, nil
}
