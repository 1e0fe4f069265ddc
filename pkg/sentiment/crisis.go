package sentiment

import "strings"

// crisisTerms are phrase fragments that trigger the safety override.
//
// This is a non-clinical keyword screen, a safety trigger rather than a
// diagnosis. False positives are acceptable: the cost of showing crisis
// resources unnecessarily is far lower than the cost of missing a signal.
var crisisTerms = []string{
	"suicide", "kill myself", "end my life", "want to die", "i want to die",
	"self harm", "self-harm", "hurt myself", "cut myself", "cutting",
	"overdose", "hang myself", "jump off", "take my life",
	"can't go on", "no reason to live",
}

// IsCrisis reports whether the text contains any crisis phrase fragment
// (case-insensitive substring match).
func IsCrisis(text string) bool {
	t := strings.ToLower(text)
	for _, term := range crisisTerms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}
