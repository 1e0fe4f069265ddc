package sentiment

// ToneGuidance returns the reply-tone instruction fragment for a sentiment
// label. It is a pure function of the label, independent of which reply
// provider is in use.
func ToneGuidance(label string) string {
	switch label {
	case LabelNegative:
		return "Acknowledge feelings with warmth. Offer grounding suggestions (deep breath, small walk)." +
			" Avoid clinical advice. Keep it short and caring."
	case LabelPositive:
		return "Celebrate the good news warmly. Encourage the user to savor the moment and keep going."
	default:
		return "Be supportive and curious, ask gentle follow-ups."
	}
}
