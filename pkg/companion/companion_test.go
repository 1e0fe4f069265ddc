package companion_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochi-ai/mochi-go/pkg/companion"
	"github.com/mochi-ai/mochi-go/pkg/reply"
	"github.com/mochi-ai/mochi-go/pkg/speech"
	"github.com/mochi-ai/mochi-go/pkg/storage"
	"github.com/mochi-ai/mochi-go/pkg/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	store, err := sqlite.NewStore(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "companion_test.db"),
	})
	require.NoError(t, err)
	return store
}

func setupClientWithStore(t *testing.T, store storage.Store, opts ...companion.ClientOption) *companion.Client {
	opts = append([]companion.ClientOption{
		companion.WithStore(store),
		companion.WithLogger(log.New(io.Discard)),
	}, opts...)

	client, err := companion.NewClient(&companion.Config{}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func setupClient(t *testing.T, opts ...companion.ClientOption) *companion.Client {
	return setupClientWithStore(t, newTestStore(t), opts...)
}

func TestSubmitTextTurn_EmptyMessage(t *testing.T) {
	client := setupClient(t)

	_, err := client.SubmitTextTurn(context.Background(), &companion.TurnRequest{
		UserID:  "U_test",
		Message: "   ",
	})
	assert.ErrorIs(t, err, companion.ErrEmptyMessage)
}

func TestSubmitTextTurn_LearnsAndPersonalizes(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	result, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:  "U_alex",
		Message: "Hi! You can call me Alex. I love painting",
	})
	require.NoError(t, err)

	// Facts learned this turn already personalize this turn's reply.
	assert.Contains(t, result.Reply, "Hey Alex!")
	assert.Equal(t, reply.ProviderRule, result.Provider)
	assert.Equal(t, "positive", result.Annotations.Label)
	assert.Empty(t, result.LastSeenDelta)
	assert.NotZero(t, result.ConversationID)

	profile, err := client.Profile(ctx, "U_alex")
	require.NoError(t, err)
	assert.Equal(t, "Alex", profile.Nickname)
	assert.Equal(t, "painting", profile.Hobbies)

	facts, err := client.UserMemories(ctx, "U_alex")
	require.NoError(t, err)
	assert.Len(t, facts, 2)
}

func TestSubmitTextTurn_SecondVisitAcknowledged(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	first, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:  "U_test",
		Message: "hello there",
	})
	require.NoError(t, err)

	second, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:         "U_test",
		ConversationID: first.ConversationID,
		Message:        "back again",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Equal(t, "just now", second.LastSeenDelta)

	// Two user turns, two assistant replies.
	msgs, err := client.Store().RecentMessages(ctx, first.ConversationID, 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestSubmitTextTurn_CrisisShortCircuit(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	result, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:  "U_test",
		Message: "I want to end my life",
	})
	require.NoError(t, err)

	assert.Equal(t, reply.ProviderSafety, result.Provider)
	assert.Contains(t, result.Reply, "999")
	assert.Contains(t, result.Reply, "Befrienders KL")

	msgs, err := client.Store().RecentMessages(ctx, result.ConversationID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, reply.ProviderSafety, msgs[0].Annotations.Provider)
	assert.Equal(t, "crisis_like", msgs[0].Annotations.Reason)
}

func TestSubmitTextTurn_TrendEmissionAndThrottle(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	messages := []string{
		"I feel really happy and wonderful today",
		"I feel really happy and wonderful today",
		"I feel really happy and wonderful today",
		"I feel sad and hopeless and worthless",
		"I feel sad and hopeless and worthless",
	}

	var convID int64
	for _, msg := range messages {
		result, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
			UserID:         "U_trend",
			ConversationID: convID,
			Message:        msg,
		})
		require.NoError(t, err)
		convID = result.ConversationID
		// Under six scored messages there is never a trend sentence.
		assert.NotContains(t, result.Reply, "I might be wrong")
	}

	// Sixth turn crosses the minimum and the sustained drop is reported.
	result, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:         "U_trend",
		ConversationID: convID,
		Message:        "I feel sad and hopeless and worthless",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "I might be wrong, but over the last few chats")

	conv, err := client.Store().GetConversation(ctx, convID, mustUserID(t, client, "U_trend"))
	require.NoError(t, err)
	assert.Equal(t, 6, conv.Meta.TurnCount)
	assert.Equal(t, 6, conv.Meta.LastTrendTurn)

	// The next three turns are throttled even though the trend persists.
	for i := 0; i < 3; i++ {
		result, err = client.SubmitTextTurn(ctx, &companion.TurnRequest{
			UserID:         "U_trend",
			ConversationID: convID,
			Message:        "I feel sad and hopeless and worthless",
		})
		require.NoError(t, err)
		assert.NotContains(t, result.Reply, "I might be wrong")
	}

	// Turn 10 is four turns after the last emission and reflects again.
	result, err = client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:         "U_trend",
		ConversationID: convID,
		Message:        "I feel sad and hopeless and worthless",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "I might be wrong")
}

// metaGateStore stalls one metadata save until a competing reader shows up,
// forcing the interleaving where two turns race on the same conversation.
type metaGateStore struct {
	storage.Store

	mu      sync.Mutex
	armed   bool
	watch   bool
	stalled chan struct{}
	release chan struct{}
}

func newMetaGateStore(base storage.Store) *metaGateStore {
	return &metaGateStore{
		Store:   base,
		stalled: make(chan struct{}),
		release: make(chan struct{}),
	}
}

// arm makes the next SaveConversationMeta call block until release.
func (s *metaGateStore) arm() {
	s.mu.Lock()
	s.armed = true
	s.mu.Unlock()
}

// watchResume makes the next GetConversation call close release.
func (s *metaGateStore) watchResume() {
	s.mu.Lock()
	s.watch = true
	s.mu.Unlock()
}

func (s *metaGateStore) SaveConversationMeta(ctx context.Context, id int64, meta storage.Meta) error {
	s.mu.Lock()
	stall := s.armed
	s.armed = false
	s.mu.Unlock()
	if stall {
		close(s.stalled)
		<-s.release
	}
	return s.Store.SaveConversationMeta(ctx, id, meta)
}

func (s *metaGateStore) GetConversation(ctx context.Context, id, userID int64) (*storage.Conversation, error) {
	s.mu.Lock()
	if s.watch {
		s.watch = false
		close(s.release)
	}
	s.mu.Unlock()
	return s.Store.GetConversation(ctx, id, userID)
}

func TestSubmitTextTurn_ConcurrentTurnsKeepTurnCount(t *testing.T) {
	gate := newMetaGateStore(newTestStore(t))
	client := setupClientWithStore(t, gate)
	ctx := context.Background()

	first, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:  "U_race",
		Message: "hello there",
	})
	require.NoError(t, err)
	convID := first.ConversationID

	// Freeze the second turn mid-save, then start a third turn against the
	// same conversation while the second is still in flight.
	gate.arm()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
			UserID:         "U_race",
			ConversationID: convID,
			Message:        "second turn",
		})
		assert.NoError(t, err)
	}()

	<-gate.stalled
	gate.watchResume()

	go func() {
		defer wg.Done()
		_, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
			UserID:         "U_race",
			ConversationID: convID,
			Message:        "third turn",
		})
		assert.NoError(t, err)
	}()

	wg.Wait()

	conv, err := client.Store().GetConversation(ctx, convID, mustUserID(t, client, "U_race"))
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, 3, conv.Meta.TurnCount)
}

// failingTouchStore fails every last-seen update.
type failingTouchStore struct {
	storage.Store
	err error
}

func (s *failingTouchStore) TouchLastSeen(_ context.Context, _ int64, _ time.Time) error {
	return s.err
}

func TestSubmitTextTurn_StorageFailureSurfaced(t *testing.T) {
	store := &failingTouchStore{Store: newTestStore(t), err: errors.New("disk full")}
	client := setupClientWithStore(t, store)

	_, err := client.SubmitTextTurn(context.Background(), &companion.TurnRequest{
		UserID:  "U_test",
		Message: "hello there",
	})
	assert.ErrorIs(t, err, companion.ErrStorageOperation)
	assert.Contains(t, err.Error(), "disk full")
}

func mustUserID(t *testing.T, client *companion.Client, externalID string) int64 {
	user, err := client.GetUser(context.Background(), externalID)
	require.NoError(t, err)
	return user.ID
}

// stubTranscriber returns fixed transcription text.
type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (*speech.Transcription, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &speech.Transcription{Text: s.text}, nil
}

// stubProsody returns fixed voice features.
type stubProsody struct{}

func (stubProsody) Extract(_ context.Context, _ []byte) (*storage.Prosody, error) {
	return &storage.Prosody{EnergyRMS: 0.02, PitchHz: 180, ZeroCrossRate: 0.07}, nil
}

func TestSubmitVoiceTurn(t *testing.T) {
	client := setupClient(t,
		companion.WithTranscriber(&stubTranscriber{text: "you can call me Alex"}),
		companion.WithProsodyExtractor(stubProsody{}),
	)
	ctx := context.Background()

	result, err := client.SubmitVoiceTurn(ctx, &companion.TurnRequest{
		UserID:        "U_voice",
		Audio:         []byte{0x52, 0x49, 0x46, 0x46},
		AudioFilename: "clip.wav",
	})
	require.NoError(t, err)

	assert.Equal(t, "you can call me Alex", result.Transcript)
	assert.NotEmpty(t, result.Reply)

	msgs, err := client.Store().RecentMessages(ctx, result.ConversationID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	userMsg := msgs[1]
	assert.Equal(t, storage.RoleUser, userMsg.Role)
	assert.Equal(t, "you can call me Alex", userMsg.Content)
	require.NotNil(t, userMsg.Annotations.Prosody)
	assert.Equal(t, 180.0, userMsg.Annotations.Prosody.PitchHz)

	profile, err := client.Profile(ctx, "U_voice")
	require.NoError(t, err)
	assert.Equal(t, "Alex", profile.Nickname)
}

func TestSubmitVoiceTurn_NoTranscriber(t *testing.T) {
	client := setupClient(t)

	_, err := client.SubmitVoiceTurn(context.Background(), &companion.TurnRequest{
		UserID: "U_voice",
		Audio:  []byte{1, 2, 3},
	})
	assert.ErrorIs(t, err, companion.ErrInvalidConfig)
}

func TestSubmitVoiceTurn_TranscriberError(t *testing.T) {
	client := setupClient(t, companion.WithTranscriber(&stubTranscriber{
		err: errors.New("speech engine unavailable"),
	}))

	_, err := client.SubmitVoiceTurn(context.Background(), &companion.TurnRequest{
		UserID: "U_voice",
		Audio:  []byte{1, 2, 3},
	})
	assert.ErrorIs(t, err, companion.ErrTranscription)
	assert.Contains(t, err.Error(), "speech engine unavailable")
}

func TestSubmitVoiceTurn_EmptyTranscript(t *testing.T) {
	client := setupClient(t, companion.WithTranscriber(&stubTranscriber{text: "  "}))

	_, err := client.SubmitVoiceTurn(context.Background(), &companion.TurnRequest{
		UserID: "U_voice",
		Audio:  []byte{1, 2, 3},
	})
	assert.ErrorIs(t, err, companion.ErrTranscription)
}

func TestLogMood(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	entry, err := client.LogMood(ctx, "U_mood", "  HAPPY ", nil, "good day")
	require.NoError(t, err)
	assert.Equal(t, "happy", entry.Mood)
	assert.Equal(t, "U_mood", entry.UserID)
	assert.NotZero(t, entry.ID)

	_, err = client.LogMood(ctx, "U_mood", "ecstatic", nil, "")
	assert.ErrorIs(t, err, companion.ErrInvalidMood)
}

func TestRecentMoods_UnknownUser(t *testing.T) {
	client := setupClient(t)

	_, err := client.RecentMoods(context.Background(), "U_nobody", 5)
	assert.ErrorIs(t, err, companion.ErrUserNotFound)
}

func TestMoodSummary(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	for _, mood := range []string{"happy", "happy", "tired"} {
		_, err := client.LogMood(ctx, "U_mood", mood, nil, "")
		require.NoError(t, err)
	}

	summary, err := client.MoodSummaryForUser(ctx, "U_mood", 30)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	require.Len(t, summary.Distribution, 2)
	assert.Equal(t, companion.MoodBucket{Mood: "happy", Count: 2, Pct: 66.67}, summary.Distribution[0])
	assert.Equal(t, companion.MoodBucket{Mood: "tired", Count: 1, Pct: 33.33}, summary.Distribution[1])
}

func TestRegisterOrUpdateProfile_Overrides(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	// Conversation learning fills the nickname first.
	_, err := client.SubmitTextTurn(ctx, &companion.TurnRequest{
		UserID:  "U_test",
		Message: "you can call me Alex",
	})
	require.NoError(t, err)

	// The explicit upsert replaces it; unset fields stay untouched.
	user, err := client.RegisterOrUpdateProfile(ctx, "U_test", companion.ProfileUpdate{
		Nickname: "Lex",
		Age:      30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lex", user.Nickname)
	assert.Equal(t, 30, user.Age)
	require.NotNil(t, user.LastSeen)

	facts, err := client.UserMemories(ctx, "U_test")
	require.NoError(t, err)

	values := map[string]bool{}
	for _, f := range facts {
		values[f.Key+"="+f.Value] = true
	}
	assert.True(t, values["nickname=Lex"])
	assert.True(t, values["nickname=Alex"])
	assert.True(t, values["age=30"])
}

func TestGetUser_Unknown(t *testing.T) {
	client := setupClient(t)

	_, err := client.GetUser(context.Background(), "U_nobody")
	assert.ErrorIs(t, err, companion.ErrUserNotFound)
}
