package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mochi-ai/mochi-go/pkg/ratelimit"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiterWithClock(3, time.Minute, func() time.Time { return now })

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiterWithClock(1, time.Minute, func() time.Time { return now })

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))
}

func TestLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiterWithClock(2, time.Minute, func() time.Time { return now })

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	// Denied attempts are not recorded; once the first two requests age out
	// of the window the client recovers.
	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
}

func TestLimiter_Reset(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiterWithClock(1, time.Minute, func() time.Time { return now })

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	limiter.Reset("a")
	assert.True(t, limiter.Allow("a"))
}

func TestLimiter_Defaults(t *testing.T) {
	limiter := ratelimit.NewLimiter(0, 0)
	for i := 0; i < ratelimit.DefaultLimit; i++ {
		assert.True(t, limiter.Allow("a"))
	}
	assert.False(t, limiter.Allow("a"))
}
