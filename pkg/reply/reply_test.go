package reply_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/mochi-ai/mochi-go/pkg/memory"
	"github.com/mochi-ai/mochi-go/pkg/reply"
	"github.com/mochi-ai/mochi-go/pkg/sentiment"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// stubProvider returns a fixed completion or error.
type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) GenerateReply(_ context.Context, _ *reply.Request) (string, error) {
	return s.text, s.err
}

func (s *stubProvider) Close() error { return nil }

func TestRuleReply_NegativeSentiment(t *testing.T) {
	text := reply.RuleReply(&reply.Request{
		Profile:        memory.Profile{Nickname: "Alex"},
		SentimentLabel: sentiment.LabelNegative,
	})

	assert.Contains(t, text, "Hey Alex!")
	assert.Contains(t, text, "That sounds really tough")
}

func TestRuleReply_PositiveSentiment(t *testing.T) {
	text := reply.RuleReply(&reply.Request{
		SentimentLabel: sentiment.LabelPositive,
	})

	assert.Contains(t, text, "Hey.")
	assert.Contains(t, text, "glad you shared")
}

func TestRuleReply_NeutralDefault(t *testing.T) {
	text := reply.RuleReply(&reply.Request{SentimentLabel: sentiment.LabelNeutral})
	assert.Equal(t, "Hey. I'm here with you.", text)
}

func TestRuleReply_IncludesLastSeen(t *testing.T) {
	lastSeen := time.Now().UTC().Add(-3 * time.Hour)
	text := reply.RuleReply(&reply.Request{
		SentimentLabel: sentiment.LabelNeutral,
		LastSeen:       &lastSeen,
	})

	assert.Contains(t, text, "It's been 3 hour(s) ago")
}

func TestRuleReply_HedgesTrend(t *testing.T) {
	text := reply.RuleReply(&reply.Request{
		SentimentLabel: sentiment.LabelNeutral,
		TrendSummary:   "Over the last few chats, it seems like things have felt a bit heavier for you.",
	})

	assert.Contains(t, text, "I might be wrong, but over the last few chats")
}

func TestEngine_PrefersProvider(t *testing.T) {
	engine := reply.NewEngine(&stubProvider{text: "hello from the model"}, testLogger())

	outcome := engine.Generate(context.Background(), &reply.Request{SentimentLabel: sentiment.LabelNeutral})

	assert.Equal(t, reply.ProviderLLM, outcome.Provider)
	assert.Equal(t, "hello from the model", outcome.Text)
}

func TestEngine_FallsBackOnError(t *testing.T) {
	engine := reply.NewEngine(&stubProvider{err: errors.New("boom")}, testLogger())

	outcome := engine.Generate(context.Background(), &reply.Request{SentimentLabel: sentiment.LabelNegative})

	assert.Equal(t, reply.ProviderRule, outcome.Provider)
	assert.Contains(t, outcome.Text, "That sounds really tough")
}

func TestEngine_FallsBackOnEmptyCompletion(t *testing.T) {
	engine := reply.NewEngine(&stubProvider{text: "   "}, testLogger())

	outcome := engine.Generate(context.Background(), &reply.Request{SentimentLabel: sentiment.LabelNeutral})

	assert.Equal(t, reply.ProviderRule, outcome.Provider)
	assert.NotEmpty(t, outcome.Text)
}

func TestEngine_NilProviderUsesRules(t *testing.T) {
	engine := reply.NewEngine(nil, testLogger())

	outcome := engine.Generate(context.Background(), &reply.Request{SentimentLabel: sentiment.LabelNeutral})

	assert.Equal(t, reply.ProviderRule, outcome.Provider)
	assert.NotEmpty(t, outcome.Text)
}

func TestCrisisReply(t *testing.T) {
	text := reply.CrisisReply(memory.Profile{Name: "Jordan", Nickname: "Jo"})

	assert.Contains(t, text, "Hey Jo.")
	assert.Contains(t, text, "999")
	assert.Contains(t, text, "Befrienders KL (24 hours): 03-76272929")
	assert.Contains(t, text, "Talian HEAL (MOH): 15555")

	anonymous := reply.CrisisReply(memory.Profile{})
	assert.Contains(t, anonymous, "Hey. ")
}

func TestSystemPrompt(t *testing.T) {
	lastSeen := time.Now().UTC().Add(-2 * 24 * time.Hour)
	prompt := reply.SystemPrompt(&reply.Request{
		Profile:        memory.Profile{Nickname: "Alex", Hobbies: "painting"},
		SentimentLabel: sentiment.LabelNegative,
		LastSeen:       &lastSeen,
		TrendSummary:   "things have felt a bit heavier",
	})

	assert.Contains(t, prompt, "You are Mochi")
	assert.Contains(t, prompt, "nickname=Alex")
	assert.Contains(t, prompt, "hobbies=painting")
	assert.Contains(t, prompt, "2 day(s) ago")
	assert.Contains(t, prompt, "things have felt a bit heavier")
	assert.Contains(t, prompt, "grounding")
}

func TestSystemPrompt_EmptyProfile(t *testing.T) {
	prompt := reply.SystemPrompt(&reply.Request{SentimentLabel: sentiment.LabelNeutral})

	assert.Contains(t, prompt, "Known user profile (from database): (none).")
	assert.NotContains(t, prompt, "trend reflection")
	assert.NotContains(t, prompt, "last visited")
}
