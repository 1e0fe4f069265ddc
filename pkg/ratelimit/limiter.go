// Package ratelimit provides a per-key sliding-window rate limiter for the
// transport layer in front of the companion pipeline.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults matching the original deployment: 10 requests per rolling minute.
const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

// Limiter is a per-key sliding-window rate limiter.
//
// Each key (typically a client address) gets its own timestamp window; a
// request is allowed when fewer than limit requests landed inside the rolling
// window. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string][]time.Time
}

// NewLimiter creates a limiter allowing limit requests per window for each
// key. Non-positive arguments fall back to the defaults.
func NewLimiter(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string][]time.Time),
	}
}

// NewLimiterWithClock creates a limiter with an injected clock.
func NewLimiterWithClock(limit int, window time.Duration, now func() time.Time) *Limiter {
	l := NewLimiter(limit, window)
	if now != nil {
		l.now = now
	}
	return l
}

// Allow records one request attempt for the key and reports whether it is
// within the rate limit. Denied attempts are not recorded, so a saturated
// client recovers as soon as its window drains.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	bucket := l.buckets[key]
	// Drop timestamps that fell out of the window.
	keep := bucket[:0]
	for _, t := range bucket {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}

	if len(keep) >= l.limit {
		l.buckets[key] = keep
		return false
	}

	l.buckets[key] = append(keep, now)
	return true
}

// Reset clears the key's window.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
