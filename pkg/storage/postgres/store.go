// Package postgres provides the PostgreSQL implementation of the companion
// store.
//
// Annotation and metadata bags are stored as JSONB. The schema mirrors the
// SQLite implementation.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	_ "github.com/lib/pq"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// Store implements storage.Store using PostgreSQL as the backend.
type Store struct {
	db   *sql.DB
	node *snowflake.Node
}

// Config contains PostgreSQL connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewStore creates a new PostgreSQL store.
//
// Parameters:
//   - cfg: Connection configuration
//
// Returns:
//   - *Store: The store instance
//   - error: Error if connection or schema creation fails
func NewStore(cfg *Config) (*Store, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewStore: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewStore: %w", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("NewStore: %w", err)
	}

	store := &Store{db: db, node: node}

	if err := store.initTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// initTables initializes the database schema.
func (s *Store) initTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) UNIQUE,
			password_hash VARCHAR(255),
			name VARCHAR(120),
			nickname VARCHAR(120),
			age INTEGER,
			hobbies TEXT,
			diagnosis TEXT,
			last_seen TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGINT PRIMARY KEY,
			user_id_fk BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ,
			meta JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGINT PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			role VARCHAR(16) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			annotations JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS memories (
			id BIGINT PRIMARY KEY,
			user_id_fk BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			key VARCHAR(64) NOT NULL,
			value TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS moods (
			id BIGINT PRIMARY KEY,
			user_id_fk BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			mood VARCHAR(32) NOT NULL,
			sentiment_score DOUBLE PRECISION,
			note TEXT,
			day DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id_fk)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id_fk, key)`,
		`CREATE INDEX IF NOT EXISTS idx_moods_user ON moods(user_id_fk, created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("initTables: %w", err)
		}
	}

	return nil
}

// CreateUser inserts a user and assigns its internal ID.
func (s *Store) CreateUser(ctx context.Context, user *storage.User) error {
	user.ID = s.node.Generate().Int64()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, user_id, email, password_hash, name, nickname, age, hobbies, diagnosis, last_seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		user.ID,
		user.UserID,
		nullString(user.Email),
		nullString(user.PasswordHash),
		nullString(user.Name),
		nullString(user.Nickname),
		nullInt(user.Age),
		nullString(user.Hobbies),
		nullString(user.Diagnosis),
		user.LastSeen,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateUser: %w", err)
	}

	return nil
}

// GetUserByExternalID fetches a user by external identifier.
func (s *Store) GetUserByExternalID(ctx context.Context, userID string) (*storage.User, error) {
	return s.getUser(ctx, "user_id = $1", userID)
}

// GetUserByEmail fetches a user by account email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	return s.getUser(ctx, "email = $1", email)
}

func (s *Store) getUser(ctx context.Context, where string, arg interface{}) (*storage.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, email, password_hash, name, nickname, age, hobbies, diagnosis, last_seen, created_at
		FROM users WHERE `+where, arg)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getUser: %w", err)
	}

	return user, nil
}

// UpdateUser persists the user's profile fields and last-seen timestamp.
func (s *Store) UpdateUser(ctx context.Context, user *storage.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, nickname = $4, age = $5, hobbies = $6, diagnosis = $7, last_seen = $8
		WHERE id = $9
	`,
		nullString(user.Email),
		nullString(user.PasswordHash),
		nullString(user.Name),
		nullString(user.Nickname),
		nullInt(user.Age),
		nullString(user.Hobbies),
		nullString(user.Diagnosis),
		user.LastSeen,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", err)
	}

	return nil
}

// TouchLastSeen sets the user's last-seen timestamp.
func (s *Store) TouchLastSeen(ctx context.Context, userID int64, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen = $1 WHERE id = $2`, t, userID)
	if err != nil {
		return fmt.Errorf("TouchLastSeen: %w", err)
	}
	return nil
}

// CreateConversation opens a new conversation for the user.
func (s *Store) CreateConversation(ctx context.Context, userID int64) (*storage.Conversation, error) {
	conv := &storage.Conversation{
		ID:        s.node.Generate().Int64(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
	}

	metaJSON, err := json.Marshal(conv.Meta)
	if err != nil {
		return nil, fmt.Errorf("CreateConversation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id_fk, started_at, ended_at, meta)
		VALUES ($1, $2, $3, NULL, $4)
	`, conv.ID, conv.UserID, conv.StartedAt, string(metaJSON))
	if err != nil {
		return nil, fmt.Errorf("CreateConversation: %w", err)
	}

	return conv, nil
}

// GetConversation fetches a conversation owned by the given user.
func (s *Store) GetConversation(ctx context.Context, id, userID int64) (*storage.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id_fk, started_at, ended_at, meta
		FROM conversations WHERE id = $1 AND user_id_fk = $2
	`, id, userID)

	var conv storage.Conversation
	var endedAt sql.NullTime
	var metaJSON sql.NullString

	err := row.Scan(&conv.ID, &conv.UserID, &conv.StartedAt, &endedAt, &metaJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetConversation: %w", err)
	}

	if endedAt.Valid {
		conv.EndedAt = &endedAt.Time
	}
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &conv.Meta); err != nil {
			return nil, fmt.Errorf("GetConversation: parse meta: %w", err)
		}
	}

	return &conv, nil
}

// SaveConversationMeta persists the conversation bookkeeping bag.
func (s *Store) SaveConversationMeta(ctx context.Context, id int64, meta storage.Meta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("SaveConversationMeta: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `UPDATE conversations SET meta = $1 WHERE id = $2`, string(metaJSON), id)
	if err != nil {
		return fmt.Errorf("SaveConversationMeta: %w", err)
	}

	return nil
}

// AppendMessage inserts an immutable message, assigning ID and CreatedAt.
func (s *Store) AppendMessage(ctx context.Context, msg *storage.Message) error {
	msg.ID = s.node.Generate().Int64()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	annJSON, err := json.Marshal(msg.Annotations)
	if err != nil {
		return fmt.Errorf("AppendMessage: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, created_at, annotations)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt, string(annJSON))
	if err != nil {
		return fmt.Errorf("AppendMessage: %w", err)
	}

	return nil
}

// RecentMessages returns up to n messages of a conversation, newest-first.
func (s *Store) RecentMessages(ctx context.Context, conversationID int64, n int) ([]*storage.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at, annotations
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, conversationID, n)
	if err != nil {
		return nil, fmt.Errorf("RecentMessages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// RecentUserMessages returns up to n user-authored messages across all of the
// user's conversations, newest-first.
func (s *Store) RecentUserMessages(ctx context.Context, userID int64, n int) ([]*storage.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.conversation_id, m.role, m.content, m.created_at, m.annotations
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.user_id_fk = $1 AND m.role = $2
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $3
	`, userID, storage.RoleUser, n)
	if err != nil {
		return nil, fmt.Errorf("RecentUserMessages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// SaveFacts appends one fact row per entry.
func (s *Store) SaveFacts(ctx context.Context, userID int64, facts map[string]string) error {
	now := time.Now().UTC()
	for key, value := range facts {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO memories (id, user_id_fk, key, value, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, s.node.Generate().Int64(), userID, key, value, now)
		if err != nil {
			return fmt.Errorf("SaveFacts: %w", err)
		}
	}
	return nil
}

// FactsByUser returns the user's fact rows, newest-first.
func (s *Store) FactsByUser(ctx context.Context, userID int64) ([]*storage.Fact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id_fk, key, value, created_at
		FROM memories
		WHERE user_id_fk = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("FactsByUser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var facts []*storage.Fact
	for rows.Next() {
		var fact storage.Fact
		if err := rows.Scan(&fact.ID, &fact.UserID, &fact.Key, &fact.Value, &fact.CreatedAt); err != nil {
			return nil, fmt.Errorf("FactsByUser: %w", err)
		}
		facts = append(facts, &fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FactsByUser: %w", err)
	}

	return facts, nil
}

// LogMood inserts a mood entry, assigning ID, Day, and CreatedAt.
func (s *Store) LogMood(ctx context.Context, mood *storage.Mood) error {
	mood.ID = s.node.Generate().Int64()
	if mood.CreatedAt.IsZero() {
		mood.CreatedAt = time.Now().UTC()
	}
	if mood.Day.IsZero() {
		mood.Day = mood.CreatedAt.Truncate(24 * time.Hour)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO moods (id, user_id_fk, mood, sentiment_score, note, day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, mood.ID, mood.UserID, mood.Mood, mood.SentimentScore, nullString(mood.Note), mood.Day, mood.CreatedAt)
	if err != nil {
		return fmt.Errorf("LogMood: %w", err)
	}

	return nil
}

// RecentMoods returns up to limit mood entries, newest-first.
func (s *Store) RecentMoods(ctx context.Context, userID int64, limit int) ([]*storage.Mood, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id_fk, mood, sentiment_score, note, day, created_at
		FROM moods
		WHERE user_id_fk = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentMoods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var moods []*storage.Mood
	for rows.Next() {
		var mood storage.Mood
		var score sql.NullFloat64
		var note sql.NullString
		if err := rows.Scan(&mood.ID, &mood.UserID, &mood.Mood, &score, &note, &mood.Day, &mood.CreatedAt); err != nil {
			return nil, fmt.Errorf("RecentMoods: %w", err)
		}
		if score.Valid {
			mood.SentimentScore = &score.Float64
		}
		mood.Note = note.String
		moods = append(moods, &mood)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RecentMoods: %w", err)
	}

	return moods, nil
}

// MoodCounts returns the per-label entry counts created at or after since.
func (s *Store) MoodCounts(ctx context.Context, userID int64, since time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mood, COUNT(*)
		FROM moods
		WHERE user_id_fk = $1 AND created_at >= $2
		GROUP BY mood
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("MoodCounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var mood string
		var count int
		if err := rows.Scan(&mood, &count); err != nil {
			return nil, fmt.Errorf("MoodCounts: %w", err)
		}
		counts[mood] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MoodCounts: %w", err)
	}

	return counts, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// scanMessages scans a message result set.
func scanMessages(rows *sql.Rows) ([]*storage.Message, error) {
	var messages []*storage.Message
	for rows.Next() {
		var msg storage.Message
		var annJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt, &annJSON); err != nil {
			return nil, fmt.Errorf("scanMessages: %w", err)
		}
		if annJSON.Valid && annJSON.String != "" {
			if err := json.Unmarshal([]byte(annJSON.String), &msg.Annotations); err != nil {
				return nil, fmt.Errorf("scanMessages: parse annotations: %w", err)
			}
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanMessages: %w", err)
	}

	return messages, nil
}

// scanUser scans a user row.
func scanUser(row *sql.Row) (*storage.User, error) {
	var user storage.User
	var email, passwordHash, name, nickname, hobbies, diagnosis sql.NullString
	var age sql.NullInt64
	var lastSeen sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.UserID,
		&email,
		&passwordHash,
		&name,
		&nickname,
		&age,
		&hobbies,
		&diagnosis,
		&lastSeen,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	user.PasswordHash = passwordHash.String
	user.Name = name.String
	user.Nickname = nickname.String
	user.Age = int(age.Int64)
	user.Hobbies = hobbies.String
	user.Diagnosis = diagnosis.String
	if lastSeen.Valid {
		user.LastSeen = &lastSeen.Time
	}

	return &user, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullInt converts a zero int to a SQL NULL.
func nullInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
