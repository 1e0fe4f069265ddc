package reply

import "github.com/mochi-ai/mochi-go/pkg/memory"

// CrisisReply builds the Malaysia-focused safety response shown when a crisis
// screen fires. Short, direct, supportive; addresses the user by nickname
// when one is known.
func CrisisReply(profile memory.Profile) string {
	opener := "Hey. "
	if name := profile.DisplayName(); name != "" {
		opener = "Hey " + name + ". "
	}

	return opener +
		"I'm really sorry you're feeling this way, and I'm glad you told me. " +
		"If you're in immediate danger or might act on these thoughts, please call 999 right now or go to the nearest Emergency Department. " +
		"If you can, reach out to someone you trust to stay with you. " +
		"\n\nMalaysia support options:\n" +
		"• Befrienders KL (24 hours): 03-76272929\n" +
		"• Talian HEAL (MOH): 15555\n" +
		"\n\nIf you tell me where you are right now (just the city/state), I can help you think through the safest next step."
}
