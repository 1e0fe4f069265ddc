// Package speech defines the audio front-end interfaces for voice turns:
// transcription and prosody feature extraction.
package speech

import (
	"context"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// Transcription is the result of converting one audio clip to text.
type Transcription struct {
	// Text is the transcribed utterance, trimmed.
	Text string `json:"text"`

	// Language is the detected language code, when the engine reports one.
	Language string `json:"language,omitempty"`
}

// Transcriber converts audio bytes into text.
type Transcriber interface {
	// Transcribe converts one audio clip to text.
	//
	// Parameters:
	//   - ctx: context for the operation
	//   - audio: raw audio bytes
	//   - filename: original filename, used by engines that sniff the format
	//     from the extension
	//
	// Returns the transcription. An empty Text with a nil error means the
	// clip contained no recognizable speech.
	Transcribe(ctx context.Context, audio []byte, filename string) (*Transcription, error)
}

// ProsodyExtractor computes numeric voice features from audio bytes.
//
// Implementations live outside this module (the feature math requires DSP
// tooling); a nil extractor on the companion client simply skips prosody
// annotations.
type ProsodyExtractor interface {
	// Extract computes prosody features for one audio clip.
	Extract(ctx context.Context, audio []byte) (*storage.Prosody, error)
}
