// Package trend derives gentle emotional-trend reflections from the sentiment
// history of a user's recent messages.
package trend

import (
	"context"
	"fmt"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// Analysis tuning. Thresholds are deliberately conservative so the companion
// under-claims rather than over-claims emotional shifts.
const (
	// DefaultLookback is how many recent user messages are examined.
	DefaultLookback = 18

	// DefaultMinMessages is the minimum number of scored messages required
	// before any trend is reported.
	DefaultMinMessages = 6

	// deltaThreshold is the minimum half-over-half compound shift that counts
	// as a trend.
	deltaThreshold = 0.12

	// throttleInterval is the minimum number of turns between trend
	// reflections within one conversation.
	throttleInterval = 4
)

// Trend phrasing. Hedged on purpose.
const (
	heavierPhrase = "Over the last few chats, it seems like things have felt a bit heavier for you."
	lighterPhrase = "Lately, you've sounded a little lighter, like something might be easing up, even if it's subtle."
)

// Analyzer computes trend reflections over a user's message history.
type Analyzer struct {
	store       storage.Store
	lookback    int
	minMessages int
}

// NewAnalyzer creates a trend analyzer with the default lookback window.
func NewAnalyzer(store storage.Store) *Analyzer {
	return &Analyzer{
		store:       store,
		lookback:    DefaultLookback,
		minMessages: DefaultMinMessages,
	}
}

// Summary compares the average compound sentiment of the early half of the
// user's recent messages against the late half and returns a reflection
// sentence when the shift clears the threshold.
//
// Returns ("", nil) when there is no clear trend or not enough scored
// history. Messages without a compound score are skipped.
func (a *Analyzer) Summary(ctx context.Context, userID int64) (string, error) {
	msgs, err := a.store.RecentUserMessages(ctx, userID, a.lookback)
	if err != nil {
		return "", fmt.Errorf("Summary: %w", err)
	}

	// Newest-first from storage; collect in chronological order.
	compounds := make([]float64, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		if s := msgs[i].Annotations.Scores; s != nil {
			compounds = append(compounds, s.Compound)
		}
	}
	if len(compounds) < a.minMessages {
		return "", nil
	}

	mid := len(compounds) / 2
	delta := mean(compounds[mid:]) - mean(compounds[:mid])

	switch {
	case delta <= -deltaThreshold:
		return heavierPhrase, nil
	case delta >= deltaThreshold:
		return lighterPhrase, nil
	}
	return "", nil
}

// Eligible reports whether a trend reflection may be emitted on the given
// turn, based on the conversation's throttle state. The first reflection of a
// conversation is always eligible.
func Eligible(meta storage.Meta, turn int) bool {
	return meta.LastTrendTurn == 0 || turn-meta.LastTrendTurn >= throttleInterval
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
