// Package conversation manages conversation sessions and their message
// history.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// defaultHistoryWindow is the number of messages included in reply context.
const defaultHistoryWindow = 12

// Ledger is the append-only record of conversations and messages.
type Ledger struct {
	store storage.Store
}

// NewLedger creates a ledger backed by the given store.
func NewLedger(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// OpenOrResume returns the conversation to attach the next turn to.
//
// A non-positive or unknown conversation ID silently falls through to opening
// a fresh conversation; a conversation owned by a different user is treated
// as unknown. Stale handles therefore never fail a turn.
func (l *Ledger) OpenOrResume(ctx context.Context, userID int64, conversationID int64) (*storage.Conversation, error) {
	if conversationID > 0 {
		conv, err := l.store.GetConversation(ctx, conversationID, userID)
		if err != nil {
			return nil, fmt.Errorf("OpenOrResume: %w", err)
		}
		if conv != nil {
			return conv, nil
		}
	}

	conv, err := l.store.CreateConversation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("OpenOrResume: %w", err)
	}
	return conv, nil
}

// Append records one immutable message on the conversation.
func (l *Ledger) Append(ctx context.Context, conversationID int64, role, content string, ann storage.Annotations) (*storage.Message, error) {
	msg := &storage.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Annotations:    ann,
	}
	if err := l.store.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("Append: %w", err)
	}
	return msg, nil
}

// Recent returns up to n of the conversation's latest messages in
// chronological order (oldest first). n <= 0 uses the default window.
func (l *Ledger) Recent(ctx context.Context, conversationID int64, n int) ([]*storage.Message, error) {
	if n <= 0 {
		n = defaultHistoryWindow
	}
	msgs, err := l.store.RecentMessages(ctx, conversationID, n)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	// Storage returns newest-first; reverse for prompt order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// SaveMeta persists the conversation's bookkeeping bag.
func (l *Ledger) SaveMeta(ctx context.Context, conversationID int64, meta storage.Meta) error {
	if err := l.store.SaveConversationMeta(ctx, conversationID, meta); err != nil {
		return fmt.Errorf("SaveMeta: %w", err)
	}
	return nil
}

// HistoryText renders messages as a plain transcript for prompt context,
// labeling user lines "User:" and assistant lines "Mochi:". Blank messages
// are skipped.
func HistoryText(msgs []*storage.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		label := m.Role
		switch m.Role {
		case storage.RoleUser:
			label = "User"
		case storage.RoleAssistant:
			label = "Mochi"
		}
		lines = append(lines, label+": "+content)
	}
	return strings.Join(lines, "\n")
}
