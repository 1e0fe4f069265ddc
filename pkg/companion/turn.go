package companion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mochi-ai/mochi-go/pkg/conversation"
	"github.com/mochi-ai/mochi-go/pkg/memory"
	"github.com/mochi-ai/mochi-go/pkg/reply"
	"github.com/mochi-ai/mochi-go/pkg/sentiment"
	"github.com/mochi-ai/mochi-go/pkg/storage"
	"github.com/mochi-ai/mochi-go/pkg/timeline"
	"github.com/mochi-ai/mochi-go/pkg/trend"
)

// TurnRequest is one user submission to the companion.
type TurnRequest struct {
	// UserID is the external user identifier. Unknown IDs create a blank
	// user on first reference.
	UserID string

	// ConversationID attaches the turn to an existing conversation.
	// Zero, negative, or unknown IDs open a fresh conversation.
	ConversationID int64

	// Message is the user's text. Required for text turns, ignored for
	// voice turns.
	Message string

	// Audio is the raw audio clip for voice turns.
	Audio []byte

	// AudioFilename is the upload's original filename (format sniffing).
	AudioFilename string
}

// TurnResult is the companion's response to one turn.
type TurnResult struct {
	// ConversationID identifies the conversation the turn landed in.
	ConversationID int64 `json:"conversation_id"`

	// Reply is the companion's reply text.
	Reply string `json:"reply"`

	// LastSeenDelta is the human phrase for the user's previous visit,
	// captured before this turn updated it. Empty on first contact.
	LastSeenDelta string `json:"last_seen_delta_human,omitempty"`

	// Transcript is the transcribed text of a voice turn.
	Transcript string `json:"transcript,omitempty"`

	// Provider tags the reply origin ("llm", "rule", "safety").
	Provider string `json:"provider"`

	// Annotations is the sentiment analysis of the user's message.
	Annotations sentiment.Analysis `json:"annotations"`
}

// SubmitTextTurn runs the full companion pipeline for one text message:
// sentiment analysis, fact learning, crisis screening, trend reflection, and
// reply generation.
//
// Reply generation itself never fails; errors returned here come from
// validation or storage.
func (c *Client) SubmitTextTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	const op = "SubmitTextTurn"

	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, NewError(op, ErrEmptyMessage)
	}

	result, err := c.runTurn(ctx, req, text, nil)
	if err != nil {
		return nil, NewError(op, err)
	}
	return result, nil
}

// SubmitVoiceTurn transcribes the audio clip and runs the same pipeline as a
// text turn, attaching prosody features to the user message when an
// extractor is configured.
//
// Returns ErrInvalidConfig when no transcriber is configured and
// ErrTranscription when the clip yields no text.
func (c *Client) SubmitVoiceTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	const op = "SubmitVoiceTurn"

	if c.transcriber == nil {
		return nil, NewError(op, ErrInvalidConfig)
	}
	if len(req.Audio) == 0 {
		return nil, NewError(op, ErrTranscription)
	}

	stt, err := c.transcriber.Transcribe(ctx, req.Audio, req.AudioFilename)
	if err != nil {
		c.logger.Warn("transcription failed", "error", err)
		return nil, NewError(op, fmt.Errorf("%w: %v", ErrTranscription, err))
	}
	text := strings.TrimSpace(stt.Text)
	if text == "" {
		return nil, NewError(op, ErrTranscription)
	}

	var prosody *storage.Prosody
	if c.prosody != nil {
		prosody, err = c.prosody.Extract(ctx, req.Audio)
		if err != nil {
			// Prosody is decorative; a failed extraction never fails the turn.
			c.logger.Warn("prosody extraction failed", "error", err)
			prosody = nil
		}
	}

	result, err := c.runTurn(ctx, req, text, prosody)
	if err != nil {
		return nil, NewError(op, err)
	}
	result.Transcript = text
	return result, nil
}

// runTurn is the shared turn pipeline.
func (c *Client) runTurn(ctx context.Context, req *TurnRequest, text string, prosody *storage.Prosody) (*TurnResult, error) {
	user, err := c.memories.EnsureUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	conv, err := c.ledger.OpenOrResume(ctx, user.ID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	unlock := c.locks.lock(conv.ID)
	defer unlock()

	// The reads above only resolved the lock key. Re-read the user and the
	// conversation inside the critical section: the turn counter update and
	// the first-write-wins profile merge are read-modify-writes on these
	// rows, and a concurrent turn may have committed between the first read
	// and the lock.
	user, err = c.memories.EnsureUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	fresh, err := c.store.GetConversation(ctx, conv.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if fresh != nil {
		conv = fresh
	}

	// Captured before this turn touches the timestamp.
	lastDelta := timeline.Since(user.LastSeen)

	analysis := sentiment.Analyze(text)

	ann := storage.Annotations{
		Sentiment: analysis.Label,
		Scores: &storage.SentimentScores{
			Positive: analysis.Scores.Positive,
			Neutral:  analysis.Scores.Neutral,
			Negative: analysis.Scores.Negative,
			Compound: analysis.Scores.Compound,
		},
		Prosody: prosody,
	}
	if _, err := c.ledger.Append(ctx, conv.ID, storage.RoleUser, text, ann); err != nil {
		return nil, err
	}

	if _, err := c.memories.Learn(ctx, user, text); err != nil {
		return nil, err
	}
	profile := memory.Snapshot(user)

	// Safety override: crisis turns bypass reply generation entirely.
	if sentiment.IsCrisis(text) {
		replyText := reply.CrisisReply(profile)
		safetyAnn := storage.Annotations{
			Provider: reply.ProviderSafety,
			Reason:   "crisis_like",
		}
		if _, err := c.ledger.Append(ctx, conv.ID, storage.RoleAssistant, replyText, safetyAnn); err != nil {
			return nil, err
		}
		if err := c.store.TouchLastSeen(ctx, user.ID, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageOperation, err)
		}
		return &TurnResult{
			ConversationID: conv.ID,
			Reply:          replyText,
			LastSeenDelta:  lastDelta,
			Provider:       reply.ProviderSafety,
			Annotations:    analysis,
		}, nil
	}

	history, err := c.ledger.Recent(ctx, conv.ID, 0)
	if err != nil {
		return nil, err
	}
	prompt := "Conversation so far:\n" + conversation.HistoryText(history) + "\n\nUser: " + text

	conv.Meta.TurnCount++
	trendSummary := ""
	if trend.Eligible(conv.Meta, conv.Meta.TurnCount) {
		trendSummary, err = c.trends.Summary(ctx, user.ID)
		if err != nil {
			// Trend reflection is optional; its failures are absorbed.
			c.logger.Warn("trend analysis failed", "error", err)
			trendSummary = ""
		}
		if trendSummary != "" {
			conv.Meta.LastTrendTurn = conv.Meta.TurnCount
		}
	}
	if err := c.ledger.SaveMeta(ctx, conv.ID, conv.Meta); err != nil {
		return nil, err
	}

	outcome := c.replies.Generate(ctx, &reply.Request{
		Prompt:         prompt,
		Profile:        profile,
		SentimentLabel: analysis.Label,
		LastSeen:       user.LastSeen,
		TrendSummary:   trendSummary,
	})

	replyAnn := storage.Annotations{
		Provider:      outcome.Provider,
		SentimentSeen: analysis.Label,
	}
	if _, err := c.ledger.Append(ctx, conv.ID, storage.RoleAssistant, outcome.Text, replyAnn); err != nil {
		return nil, err
	}

	if err := c.store.TouchLastSeen(ctx, user.ID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageOperation, err)
	}

	return &TurnResult{
		ConversationID: conv.ID,
		Reply:          outcome.Text,
		LastSeenDelta:  lastDelta,
		Provider:       outcome.Provider,
		Annotations:    analysis,
	}, nil
}
