// Package timeline converts timestamp deltas into human phrases for
// last-seen acknowledgments ("3 hour(s) ago").
package timeline

import (
	"fmt"
	"time"
)

// HumanDelta buckets the elapsed time between from and to into the coarsest
// unit that is at least one, with integer truncation throughout.
//
// Returns an empty string when from is nil (the user has no prior visit).
//
// Buckets:
//   - under 60 seconds: "just now"
//   - under 60 minutes: "N minute(s) ago"
//   - under 24 hours:   "N hour(s) ago"
//   - under 7 days:     "N day(s) ago"
//   - under 5 weeks:    "N week(s) ago"
//   - under 12 months (30-day months): "N month(s) ago"
//   - otherwise:        "N year(s) ago"
func HumanDelta(from *time.Time, to time.Time) string {
	if from == nil {
		return ""
	}

	secs := int64(to.Sub(*from).Seconds())
	if secs < 60 {
		return "just now"
	}

	mins := secs / 60
	if mins < 60 {
		return fmt.Sprintf("%d minute(s) ago", mins)
	}

	hrs := mins / 60
	if hrs < 24 {
		return fmt.Sprintf("%d hour(s) ago", hrs)
	}

	days := hrs / 24
	if days < 7 {
		return fmt.Sprintf("%d day(s) ago", days)
	}

	weeks := days / 7
	if weeks < 5 {
		return fmt.Sprintf("%d week(s) ago", weeks)
	}

	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%d month(s) ago", months)
	}

	return fmt.Sprintf("%d year(s) ago", days/365)
}

// Since is HumanDelta against the current time.
func Since(from *time.Time) string {
	return HumanDelta(from, time.Now().UTC())
}
