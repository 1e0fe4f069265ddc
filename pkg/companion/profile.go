package companion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mochi-ai/mochi-go/pkg/memory"
	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// ProfileUpdate carries explicit profile fields for an upsert. Zero values
// mean "leave unchanged"; provided values overwrite, unlike the
// first-write-wins merge used for facts learned from conversation.
type ProfileUpdate struct {
	Name      string `json:"name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Age       int    `json:"age,omitempty"`
	Hobbies   string `json:"hobbies,omitempty"`
	Diagnosis string `json:"diagnosis,omitempty"`
}

// RegisterOrUpdateProfile upserts a user by external ID with explicit
// profile fields.
//
// This is the manual override path: provided fields replace current values.
// The user's last-seen timestamp is refreshed and the fact audit trail is
// resynced from the resulting profile.
func (c *Client) RegisterOrUpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*storage.User, error) {
	const op = "RegisterOrUpdateProfile"

	user, err := c.memories.EnsureUser(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}

	if update.Name != "" {
		user.Name = strings.TrimSpace(update.Name)
	}
	if update.Nickname != "" {
		user.Nickname = strings.TrimSpace(update.Nickname)
	}
	if update.Age != 0 {
		user.Age = update.Age
	}
	if update.Hobbies != "" {
		user.Hobbies = strings.TrimSpace(update.Hobbies)
	}
	if update.Diagnosis != "" {
		user.Diagnosis = strings.TrimSpace(update.Diagnosis)
	}
	now := time.Now().UTC()
	user.LastSeen = &now

	if err := c.store.UpdateUser(ctx, user); err != nil {
		return nil, NewError(op, err)
	}

	if err := c.resyncFacts(ctx, user); err != nil {
		return nil, NewError(op, err)
	}
	return user, nil
}

// GetUser fetches a user by external ID. Unknown users return
// ErrUserNotFound.
func (c *Client) GetUser(ctx context.Context, userID string) (*storage.User, error) {
	const op = "GetUser"

	user, err := c.store.GetUserByExternalID(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}
	if user == nil {
		return nil, NewError(op, ErrUserNotFound)
	}
	return user, nil
}

// UserMemories returns the user's fact audit trail, newest-first. Unknown
// users return ErrUserNotFound.
func (c *Client) UserMemories(ctx context.Context, userID string) ([]*storage.Fact, error) {
	const op = "UserMemories"

	user, err := c.store.GetUserByExternalID(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}
	if user == nil {
		return nil, NewError(op, ErrUserNotFound)
	}

	facts, err := c.memories.Facts(ctx, user)
	if err != nil {
		return nil, NewError(op, err)
	}
	return facts, nil
}

// SyncMemories re-derives fact rows from the user's current profile fields
// and appends them to the audit trail. Unknown users return ErrUserNotFound.
func (c *Client) SyncMemories(ctx context.Context, userID string) ([]*storage.Fact, error) {
	const op = "SyncMemories"

	user, err := c.store.GetUserByExternalID(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}
	if user == nil {
		return nil, NewError(op, ErrUserNotFound)
	}

	if err := c.resyncFacts(ctx, user); err != nil {
		return nil, NewError(op, err)
	}
	return c.memories.Facts(ctx, user)
}

// Profile returns the user's learned profile snapshot.
func (c *Client) Profile(ctx context.Context, userID string) (memory.Profile, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		return memory.Profile{}, err
	}
	return memory.Snapshot(user), nil
}

// resyncFacts appends the user's current profile fields to the fact trail.
func (c *Client) resyncFacts(ctx context.Context, user *storage.User) error {
	facts := make(map[string]string)
	if user.Name != "" {
		facts["name"] = user.Name
	}
	if user.Nickname != "" {
		facts["nickname"] = user.Nickname
	}
	if user.Age != 0 {
		facts["age"] = fmt.Sprintf("%d", user.Age)
	}
	if user.Hobbies != "" {
		facts["hobbies"] = user.Hobbies
	}
	if user.Diagnosis != "" {
		facts["diagnosis"] = user.Diagnosis
	}
	if len(facts) == 0 {
		return nil
	}
	return c.store.SaveFacts(ctx, user.ID, facts)
}
