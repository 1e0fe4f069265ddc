package reply

import (
	"strings"

	"github.com/mochi-ai/mochi-go/pkg/sentiment"
	"github.com/mochi-ai/mochi-go/pkg/timeline"
)

// RuleReply builds the deterministic fallback reply. It is a pure function of
// the request and never fails, which is what makes the no-surfaced-failure
// guarantee possible.
func RuleReply(req *Request) string {
	var b strings.Builder

	if name := req.Profile.DisplayName(); name != "" {
		b.WriteString("Hey " + name + "! ")
	} else {
		b.WriteString("Hey. ")
	}

	if req.LastSeen != nil {
		b.WriteString("It's been " + timeline.Since(req.LastSeen) + ". ")
	}

	if req.TrendSummary != "" {
		b.WriteString("I might be wrong, but " + lowerFirst(req.TrendSummary) + " ")
	}

	switch req.SentimentLabel {
	case sentiment.LabelNegative:
		b.WriteString("That sounds really tough. I'm here with you.")
	case sentiment.LabelPositive:
		b.WriteString("That's really nice to hear, I'm glad you shared that.")
	default:
		b.WriteString("I'm here with you.")
	}

	return strings.TrimSpace(b.String())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
