// Package storage defines the persistence interface and entity types for the
// companion backend.
//
// It declares the Store interface that all storage implementations must
// satisfy, along with the User, Conversation, Message, Fact, and Mood entities
// and their typed annotation/metadata bags.
package storage

import (
	"context"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// User is the identity anchor that owns conversations, facts, and moods.
//
// Profile fields (Name, Nickname, Age, Hobbies, Diagnosis) are filled at most
// once each by automatic inference; the zero value means "unset". Explicit
// profile updates are the only override path.
type User struct {
	// ID is the internal primary key.
	ID int64 `json:"id"`

	// UserID is the stable external identifier (e.g. "U_test").
	UserID string `json:"user_id"`

	// Email is the account email (empty for users created by first reference).
	Email string `json:"email,omitempty"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never serialized, never exposed to callers.
	PasswordHash string `json:"-"`

	// Name is the user's stated name.
	Name string `json:"name,omitempty"`

	// Nickname is what the user likes being called.
	Nickname string `json:"nickname,omitempty"`

	// Age is the user's stated age (0 = unset; valid values are 5-120).
	Age int `json:"age,omitempty"`

	// Hobbies is a free-text hobby description.
	Hobbies string `json:"hobbies,omitempty"`

	// Diagnosis is a free-text diagnosis note.
	Diagnosis string `json:"diagnosis,omitempty"`

	// LastSeen is the timestamp of the user's previous interaction
	// (nil if the user has never completed a turn).
	LastSeen *time.Time `json:"last_seen,omitempty"`

	// CreatedAt is when the user record was created.
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a session scoped to exactly one user.
type Conversation struct {
	// ID is the conversation identifier.
	ID int64 `json:"id"`

	// UserID is the internal ID of the owning user.
	UserID int64 `json:"user_id"`

	// StartedAt is when the conversation was opened.
	StartedAt time.Time `json:"started_at"`

	// EndedAt is when the conversation was closed (nil while open).
	EndedAt *time.Time `json:"ended_at,omitempty"`

	// Meta is the pipeline bookkeeping bag. It is only read and written by
	// the turn orchestrator and trend throttle, never exposed to callers.
	Meta Meta `json:"meta"`
}

// Meta is the conversation bookkeeping bag.
type Meta struct {
	// TurnCount is incremented once per completed turn.
	TurnCount int `json:"turn_count,omitempty"`

	// LastTrendTurn is the turn number at which a trend reflection was last
	// emitted (0 = never).
	LastTrendTurn int `json:"last_trend_turn,omitempty"`

	// Extra holds forward-compatible keys not modeled above.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Message is an immutable turn record within a conversation.
type Message struct {
	// ID is the message identifier.
	ID int64 `json:"id"`

	// ConversationID is the owning conversation.
	ConversationID int64 `json:"conversation_id"`

	// Role is one of RoleUser, RoleAssistant, RoleSystem.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// CreatedAt orders messages within a conversation.
	CreatedAt time.Time `json:"created_at"`

	// Annotations carries sentiment, prosody, and provenance for the message.
	Annotations Annotations `json:"annotations"`
}

// SentimentScores is the raw sentiment breakdown attached to a user message.
type SentimentScores struct {
	// Positive is the positive proportion of the text (0.0-1.0).
	Positive float64 `json:"pos"`

	// Neutral is the neutral proportion of the text (0.0-1.0).
	Neutral float64 `json:"neu"`

	// Negative is the negative proportion of the text (0.0-1.0).
	Negative float64 `json:"neg"`

	// Compound is the signed summary score in [-1, 1].
	Compound float64 `json:"compound"`
}

// Prosody holds the numeric voice features produced by the speech front-end.
type Prosody struct {
	// EnergyRMS is the mean root-mean-square energy of the audio.
	EnergyRMS float64 `json:"energy_rms"`

	// PitchHz is the median fundamental frequency estimate.
	PitchHz float64 `json:"pitch_hz"`

	// ZeroCrossRate is a speech-rate proxy.
	ZeroCrossRate float64 `json:"zcr"`
}

// Annotations is the typed per-message annotation bag.
//
// Known keys are modeled as fields so shape errors are caught at compile
// time; Extra preserves extensibility for keys added later.
type Annotations struct {
	// Sentiment is the sentiment label of a user message
	// ("positive", "neutral", "negative").
	Sentiment string `json:"sentiment,omitempty"`

	// Scores is the raw sentiment breakdown of a user message.
	Scores *SentimentScores `json:"scores,omitempty"`

	// Prosody holds voice features when the turn came in as audio.
	Prosody *Prosody `json:"prosody,omitempty"`

	// Provider tags assistant messages with their origin
	// ("llm", "rule", "safety").
	Provider string `json:"provider,omitempty"`

	// Reason qualifies the provider tag (e.g. "crisis_like").
	Reason string `json:"reason,omitempty"`

	// SentimentSeen records the user sentiment the assistant replied to.
	SentimentSeen string `json:"sentiment_seen,omitempty"`

	// Extra holds forward-compatible keys not modeled above.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Fact is one durable (key, value) memory row scoped to a user.
//
// Rows are append-only: multiple rows per key form an audit trail of inferred
// facts. The current profile value lives on the User entity, not here.
type Fact struct {
	// ID is the fact identifier.
	ID int64 `json:"id"`

	// UserID is the internal ID of the owning user.
	UserID int64 `json:"user_id"`

	// Key is one of: name, nickname, age, hobbies, diagnosis.
	Key string `json:"key"`

	// Value is the extracted value, stored as text.
	Value string `json:"value"`

	// CreatedAt is when the fact was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// Mood is an explicitly-logged daily mood entry.
type Mood struct {
	// ID is the mood entry identifier.
	ID int64 `json:"id"`

	// UserID is the internal ID of the owning user.
	UserID int64 `json:"user_id"`

	// Mood is the mood label (validated against a fixed set by the caller).
	Mood string `json:"mood"`

	// SentimentScore is an optional numeric score supplied by the client.
	SentimentScore *float64 `json:"sentiment_score,omitempty"`

	// Note is an optional free-text note.
	Note string `json:"note,omitempty"`

	// Day is the calendar day of the entry.
	Day time.Time `json:"day"`

	// CreatedAt is when the entry was logged.
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence interface consumed by the companion pipeline.
//
// All implementations (SQLite, PostgreSQL, MySQL) must satisfy it. Reads are
// expected to observe the caller's own prior writes.
type Store interface {
	// CreateUser inserts a user and assigns its internal ID.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByExternalID fetches a user by external identifier.
	// Returns (nil, nil) when no such user exists.
	GetUserByExternalID(ctx context.Context, userID string) (*User, error)

	// GetUserByEmail fetches a user by account email.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateUser persists the user's profile fields and last-seen timestamp.
	UpdateUser(ctx context.Context, user *User) error

	// TouchLastSeen sets the user's last-seen timestamp.
	TouchLastSeen(ctx context.Context, userID int64, t time.Time) error

	// CreateConversation opens a new conversation for the user.
	CreateConversation(ctx context.Context, userID int64) (*Conversation, error)

	// GetConversation fetches a conversation owned by the given user.
	// Returns (nil, nil) when no such conversation exists for that user.
	GetConversation(ctx context.Context, id, userID int64) (*Conversation, error)

	// SaveConversationMeta persists the conversation bookkeeping bag.
	SaveConversationMeta(ctx context.Context, id int64, meta Meta) error

	// AppendMessage inserts an immutable message, assigning ID and CreatedAt.
	AppendMessage(ctx context.Context, msg *Message) error

	// RecentMessages returns up to n messages of a conversation,
	// newest-first by creation time.
	RecentMessages(ctx context.Context, conversationID int64, n int) ([]*Message, error)

	// RecentUserMessages returns up to n user-authored messages across all of
	// the user's conversations, newest-first by creation time.
	RecentUserMessages(ctx context.Context, userID int64, n int) ([]*Message, error)

	// SaveFacts appends one fact row per entry (audit trail, never updated).
	SaveFacts(ctx context.Context, userID int64, facts map[string]string) error

	// FactsByUser returns the user's fact rows, newest-first.
	FactsByUser(ctx context.Context, userID int64) ([]*Fact, error)

	// LogMood inserts a mood entry, assigning ID, Day, and CreatedAt.
	LogMood(ctx context.Context, mood *Mood) error

	// RecentMoods returns up to limit mood entries, newest-first.
	RecentMoods(ctx context.Context, userID int64, limit int) ([]*Mood, error)

	// MoodCounts returns the per-label entry counts created at or after since.
	MoodCounts(ctx context.Context, userID int64, since time.Time) (map[string]int, error)

	// Close releases the underlying connections.
	Close() error
}
