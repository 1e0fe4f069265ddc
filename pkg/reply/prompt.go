package reply

import (
	"fmt"
	"strings"

	"github.com/mochi-ai/mochi-go/pkg/memory"
	"github.com/mochi-ai/mochi-go/pkg/sentiment"
	"github.com/mochi-ai/mochi-go/pkg/timeline"
)

const personaPrompt = "You are Mochi, a warm, friendly, funny, non-clinical companion. " +
	"You're modeled on a real cat and have a cute cat avatar, so some people may refer to you as one, but this doesn't change how you behave. " +
	"You are supportive like a close friend. " +
	"You may give some therapeutic-style reflections, but do not sound clinical or robotic. " +
	"Avoid medical or diagnostic claims. " +
	"Keep replies natural and human. " +
	"Do not overuse the user's name; use it at most once occasionally."

const stylePrompt = "Conversation style rules: " +
	"- You may include a brief, understated human aside when the user's tone is neutral or mildly positive. " +
	"- You don't need to start every reply with a greeting. " +
	"- The aside should sound like something a calm friend might say in passing. " +
	"- Jokes, light sarcasm, and emojis are fine when appropriate. " +
	"- Do NOT add more than one such aside. " +
	"- Do NOT do this during distress, sadness, or crisis-like situations. " +
	"- It is completely okay to say nothing extra."

const recallPrompt = "If the user asks what you remember about them, " +
	"answer using the known user profile. " +
	"If something is missing, say you don't have it yet without pressure."

const closingPrompt = "Do not force questions. " +
	"Silence and presence are acceptable. " +
	"End responses in a natural, open way."

// SystemPrompt renders the persona system prompt for one request: persona and
// style, tone guidance for the observed sentiment, soft last-seen timing, the
// profile block, recall rules, and the optional trend reflection.
func SystemPrompt(req *Request) string {
	parts := []string{
		personaPrompt,
		stylePrompt,
		sentiment.ToneGuidance(req.SentimentLabel),
	}

	if req.LastSeen != nil {
		parts = append(parts, fmt.Sprintf(
			"The user last visited %s. You may acknowledge this softly if it fits.",
			timeline.Since(req.LastSeen)))
	}

	parts = append(parts, profileBlock(req.Profile), recallPrompt)

	if req.TrendSummary != "" {
		parts = append(parts,
			"You have an optional emotional trend reflection: '"+req.TrendSummary+"'. "+
				"If it fits naturally, include it as ONE gentle sentence. "+
				"Do not present it as a fact. "+
				"Do not add extra questions because of it.")
	}

	parts = append(parts, closingPrompt)
	return strings.Join(parts, " ")
}

// profileBlock renders the learned profile as a compact key=value line.
func profileBlock(p memory.Profile) string {
	var parts []string
	if p.Name != "" {
		parts = append(parts, "name="+p.Name)
	}
	if p.Nickname != "" {
		parts = append(parts, "nickname="+p.Nickname)
	}
	if p.Age != 0 {
		parts = append(parts, fmt.Sprintf("age=%d", p.Age))
	}
	if p.Hobbies != "" {
		parts = append(parts, "hobbies="+p.Hobbies)
	}
	if p.Diagnosis != "" {
		parts = append(parts, "diagnosis="+p.Diagnosis)
	}

	if len(parts) == 0 {
		return "Known user profile (from database): (none)."
	}
	return "Known user profile (from database): " + strings.Join(parts, ", ") + "."
}
