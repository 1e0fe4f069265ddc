package companion

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// ValidMoods is the accepted set of mood labels.
var ValidMoods = map[string]struct{}{
	"happy":    {},
	"sad":      {},
	"anxious":  {},
	"stressed": {},
	"tired":    {},
	"neutral":  {},
	"angry":    {},
}

// defaultMoodLimit caps RecentMoods when the caller passes no limit.
const defaultMoodLimit = 14

// MoodEntry is one logged mood, as returned to callers.
type MoodEntry struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	Mood           string    `json:"mood"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	Note           string    `json:"note,omitempty"`
	Day            time.Time `json:"day"`
	CreatedAt      time.Time `json:"created_at"`
}

// MoodBucket is one label's share of a mood summary.
type MoodBucket struct {
	Mood  string  `json:"mood"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// MoodSummary is the mood distribution over a trailing window.
type MoodSummary struct {
	UserID       string       `json:"user_id"`
	Days         int          `json:"days"`
	Total        int          `json:"total"`
	Distribution []MoodBucket `json:"distribution"`
}

// LogMood records an explicit mood entry for the user, creating the user on
// first reference.
//
// The label is trimmed and lowercased before validation; labels outside
// ValidMoods return ErrInvalidMood.
func (c *Client) LogMood(ctx context.Context, userID, mood string, sentimentScore *float64, note string) (*MoodEntry, error) {
	const op = "LogMood"

	clean := strings.ToLower(strings.TrimSpace(mood))
	if _, ok := ValidMoods[clean]; !ok {
		return nil, NewError(op, ErrInvalidMood)
	}

	user, err := c.memories.EnsureUser(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}

	row := &storage.Mood{
		UserID:         user.ID,
		Mood:           clean,
		SentimentScore: sentimentScore,
		Note:           strings.TrimSpace(note),
	}
	if err := c.store.LogMood(ctx, row); err != nil {
		return nil, NewError(op, err)
	}

	return moodEntry(row, user.UserID), nil
}

// RecentMoods returns the user's latest mood entries, newest-first.
// Limit defaults to 14 when non-positive. Unknown users return
// ErrUserNotFound.
func (c *Client) RecentMoods(ctx context.Context, userID string, limit int) ([]*MoodEntry, error) {
	const op = "RecentMoods"

	user, err := c.store.GetUserByExternalID(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}
	if user == nil {
		return nil, NewError(op, ErrUserNotFound)
	}

	if limit <= 0 {
		limit = defaultMoodLimit
	}
	rows, err := c.store.RecentMoods(ctx, user.ID, limit)
	if err != nil {
		return nil, NewError(op, err)
	}

	entries := make([]*MoodEntry, len(rows))
	for i, row := range rows {
		entries[i] = moodEntry(row, user.UserID)
	}
	return entries, nil
}

// MoodSummaryForUser computes the user's mood distribution over the trailing
// window of the given number of days (default 30). Percentages are rounded
// to two decimals; labels are sorted by count descending, then name.
// Unknown users return ErrUserNotFound.
func (c *Client) MoodSummaryForUser(ctx context.Context, userID string, days int) (*MoodSummary, error) {
	const op = "MoodSummary"

	user, err := c.store.GetUserByExternalID(ctx, userID)
	if err != nil {
		return nil, NewError(op, err)
	}
	if user == nil {
		return nil, NewError(op, ErrUserNotFound)
	}

	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().Add(-MoodSummaryWindow(days))

	counts, err := c.store.MoodCounts(ctx, user.ID, since)
	if err != nil {
		return nil, NewError(op, err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	dist := make([]MoodBucket, 0, len(counts))
	for mood, n := range counts {
		pct := 0.0
		if total > 0 {
			pct = math.Round(100.0*float64(n)/float64(total)*100) / 100
		}
		dist = append(dist, MoodBucket{Mood: mood, Count: n, Pct: pct})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Mood < dist[j].Mood
	})

	return &MoodSummary{
		UserID:       user.UserID,
		Days:         days,
		Total:        total,
		Distribution: dist,
	}, nil
}

func moodEntry(row *storage.Mood, externalID string) *MoodEntry {
	return &MoodEntry{
		ID:             row.ID,
		UserID:         externalID,
		Mood:           row.Mood,
		SentimentScore: row.SentimentScore,
		Note:           row.Note,
		Day:            row.Day,
		CreatedAt:      row.CreatedAt,
	}
}
