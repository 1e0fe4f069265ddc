// Package reply generates companion replies.
//
// It defines the Provider interface that remote reply backends implement,
// the deterministic rule-based fallback, the crisis safety reply, and the
// Engine that arbitrates between them. The contract is that reply generation
// never fails: any provider error degrades to the rule-based reply.
package reply

import (
	"context"
	"time"

	"github.com/mochi-ai/mochi-go/pkg/memory"
)

// Provider origin tags recorded on assistant messages.
const (
	ProviderLLM    = "llm"
	ProviderRule   = "rule"
	ProviderSafety = "safety"
)

// Request carries everything a provider needs to generate one reply.
type Request struct {
	// Prompt is the rendered conversation context ending with the user's
	// current message.
	Prompt string

	// Profile is the user's learned profile snapshot.
	Profile memory.Profile

	// SentimentLabel is the sentiment of the user's current message.
	SentimentLabel string

	// LastSeen is the user's previous visit time (nil on first contact).
	LastSeen *time.Time

	// TrendSummary is an optional emotional-trend reflection sentence.
	TrendSummary string
}

// Provider defines the interface for remote reply backends.
//
// All backends (OpenAI, xAI, Ollama) must implement this interface.
type Provider interface {
	// GenerateReply produces one companion reply for the request.
	//
	// Parameters:
	//   - ctx: context for cancellation and timeout
	//   - req: the reply request
	//
	// Returns the reply text and any error. Errors are not surfaced to end
	// users; the engine falls back to the rule-based reply.
	GenerateReply(ctx context.Context, req *Request) (string, error)

	// Close closes the provider and releases resources.
	Close() error
}

// Outcome is the result of reply arbitration.
type Outcome struct {
	// Text is the reply shown to the user. Never empty.
	Text string

	// Provider is the origin tag (ProviderLLM or ProviderRule).
	Provider string
}
