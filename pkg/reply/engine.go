package reply

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// Engine arbitrates between the configured remote provider and the rule-based
// fallback.
type Engine struct {
	provider Provider
	logger   *log.Logger
}

// NewEngine creates a reply engine. A nil provider means rule-based replies
// only.
func NewEngine(provider Provider, logger *log.Logger) *Engine {
	return &Engine{provider: provider, logger: logger}
}

// Generate produces the reply for one turn.
//
// The remote provider is attempted first when configured. Any provider error
// or blank completion falls back to the rule-based reply; the outcome's
// Provider tag records which path produced the text. Generate never fails.
func (e *Engine) Generate(ctx context.Context, req *Request) Outcome {
	if e.provider != nil {
		text, err := e.provider.GenerateReply(ctx, req)
		if err == nil {
			text = strings.TrimSpace(text)
			if text != "" {
				return Outcome{Text: text, Provider: ProviderLLM}
			}
			e.logger.Warn("reply provider returned empty completion, using rule fallback")
		} else {
			e.logger.Warn("reply provider failed, using rule fallback", "error", err)
		}
	}

	return Outcome{Text: RuleReply(req), Provider: ProviderRule}
}

// Close releases the underlying provider, if any.
func (e *Engine) Close() error {
	if e.provider == nil {
		return nil
	}
	return e.provider.Close()
}
