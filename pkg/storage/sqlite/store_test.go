package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochi-ai/mochi-go/pkg/storage"
	"github.com/mochi-ai/mochi-go/pkg/storage/sqlite"
)

func setupStore(t *testing.T) storage.Store {
	store, err := sqlite.NewStore(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "mochi_test.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store storage.Store, externalID string) *storage.User {
	user := &storage.User{UserID: externalID}
	require.NoError(t, store.CreateUser(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func TestStore_CreateAndGetUser(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user := &storage.User{UserID: "U_test", Email: "alex@example.com", Name: "Alex"}
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByExternalID(ctx, "U_test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alex@example.com", got.Email)
	assert.Equal(t, "Alex", got.Name)
	assert.Nil(t, got.LastSeen)

	byEmail, err := store.GetUserByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestStore_GetUser_Absent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	got, err := store.GetUserByExternalID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	byEmail, err := store.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, byEmail)
}

func TestStore_UpdateUserAndTouchLastSeen(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "U_test")

	user.Nickname = "Alex"
	user.Age = 30
	user.Hobbies = "painting"
	require.NoError(t, store.UpdateUser(ctx, user))

	seen := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.TouchLastSeen(ctx, user.ID, seen))

	got, err := store.GetUserByExternalID(ctx, "U_test")
	require.NoError(t, err)
	assert.Equal(t, "Alex", got.Nickname)
	assert.Equal(t, 30, got.Age)
	assert.Equal(t, "painting", got.Hobbies)
	require.NotNil(t, got.LastSeen)
	assert.WithinDuration(t, seen, *got.LastSeen, time.Second)
}

func TestStore_ConversationLifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "U_test")

	conv, err := store.CreateConversation(ctx, user.ID)
	require.NoError(t, err)
	require.NotZero(t, conv.ID)

	got, err := store.GetConversation(ctx, conv.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Meta.TurnCount)

	// Ownership is enforced: the wrong user sees nothing.
	other := createUser(t, store, "U_other")
	stranger, err := store.GetConversation(ctx, conv.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, stranger)

	meta := storage.Meta{TurnCount: 5, LastTrendTurn: 4}
	require.NoError(t, store.SaveConversationMeta(ctx, conv.ID, meta))

	got, err = store.GetConversation(ctx, conv.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Meta.TurnCount)
	assert.Equal(t, 4, got.Meta.LastTrendTurn)
}

func TestStore_MessagesNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "U_test")

	conv, err := store.CreateConversation(ctx, user.ID)
	require.NoError(t, err)

	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		msg := &storage.Message{
			ConversationID: conv.ID,
			Role:           storage.RoleUser,
			Content:        content,
			Annotations: storage.Annotations{
				Sentiment: "neutral",
				Scores:    &storage.SentimentScores{Compound: 0.1},
			},
		}
		require.NoError(t, store.AppendMessage(ctx, msg))
		require.NotZero(t, msg.ID)
	}

	msgs, err := store.RecentMessages(ctx, conv.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "third", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	require.NotNil(t, msgs[0].Annotations.Scores)
	assert.Equal(t, 0.1, msgs[0].Annotations.Scores.Compound)
}

func TestStore_RecentUserMessagesAcrossConversations(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "U_test")

	for i := 0; i < 2; i++ {
		conv, err := store.CreateConversation(ctx, user.ID)
		require.NoError(t, err)

		require.NoError(t, store.AppendMessage(ctx, &storage.Message{
			ConversationID: conv.ID,
			Role:           storage.RoleUser,
			Content:        "user line",
		}))
		require.NoError(t, store.AppendMessage(ctx, &storage.Message{
			ConversationID: conv.ID,
			Role:           storage.RoleAssistant,
			Content:        "assistant line",
		}))
	}

	msgs, err := store.RecentUserMessages(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, storage.RoleUser, m.Role)
	}
}

func TestStore_Facts(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "U_test")

	require.NoError(t, store.SaveFacts(ctx, user.ID, map[string]string{
		"nickname": "Alex",
		"hobbies":  "painting",
	}))
	// Same key again: rows accumulate, nothing is overwritten.
	require.NoError(t, store.SaveFacts(ctx, user.ID, map[string]string{
		"nickname": "Lex",
	}))

	facts, err := store.FactsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "nickname", facts[0].Key)
	assert.Equal(t, "Lex", facts[0].Value)
}

func TestStore_Moods(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "U_test")

	score := 0.4
	require.NoError(t, store.LogMood(ctx, &storage.Mood{
		UserID:         user.ID,
		Mood:           "happy",
		SentimentScore: &score,
		Note:           "good day",
	}))
	require.NoError(t, store.LogMood(ctx, &storage.Mood{UserID: user.ID, Mood: "happy"}))
	require.NoError(t, store.LogMood(ctx, &storage.Mood{UserID: user.ID, Mood: "tired"}))

	moods, err := store.RecentMoods(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, moods, 2)
	assert.Equal(t, "tired", moods[0].Mood)

	counts, err := store.MoodCounts(ctx, user.ID, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"happy": 2, "tired": 1}, counts)

	// A cutoff in the future excludes everything.
	counts, err = store.MoodCounts(ctx, user.ID, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, counts)
}
