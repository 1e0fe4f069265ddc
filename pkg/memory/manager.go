// Package memory learns durable user facts from conversation text.
//
// Facts are extracted only from explicit first-person statements ("call me
// Lex", "i'm 30"), appended to a per-user audit trail, and folded into the
// user's profile with first-write-wins semantics.
package memory

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// Manager coordinates fact extraction, the audit trail, and profile updates.
type Manager struct {
	store  storage.Store
	logger *log.Logger
}

// NewManager creates a memory manager backed by the given store.
func NewManager(store storage.Store, logger *log.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// EnsureUser fetches the user with the given external identifier, creating a
// blank record on first reference.
//
// Parameters:
//   - ctx: context for the operation
//   - userID: stable external identifier
//
// Returns the user, never nil on success.
func (m *Manager) EnsureUser(ctx context.Context, userID string) (*storage.User, error) {
	user, err := m.store.GetUserByExternalID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("EnsureUser: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &storage.User{UserID: userID}
	if err := m.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("EnsureUser: %w", err)
	}
	m.logger.Debug("created user on first reference", "user_id", userID)
	return user, nil
}

// Learn extracts profile facts from one utterance, records them in the audit
// trail, and folds them into the user's profile. Fields already set on the
// user are not overwritten.
//
// The user struct is updated in place when the profile changes.
func (m *Manager) Learn(ctx context.Context, user *storage.User, text string) (Patch, error) {
	patch := Extract(text)
	if patch.IsEmpty() {
		return patch, nil
	}

	if err := m.store.SaveFacts(ctx, user.ID, patch.Facts()); err != nil {
		return patch, fmt.Errorf("Learn: %w", err)
	}

	if patch.Apply(user) {
		if err := m.store.UpdateUser(ctx, user); err != nil {
			return patch, fmt.Errorf("Learn: %w", err)
		}
		m.logger.Debug("profile updated from utterance", "user_id", user.UserID)
	}
	return patch, nil
}

// Facts returns the user's fact audit trail, newest-first.
func (m *Manager) Facts(ctx context.Context, user *storage.User) ([]*storage.Fact, error) {
	facts, err := m.store.FactsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("Facts: %w", err)
	}
	return facts, nil
}
