// Package sentiment scores free text into a signed sentiment label and raw
// metrics, and provides the crisis keyword screen and tone guidance used by
// reply generation.
//
// The analyzer is a compact VADER-style lexicon scorer: token valences are
// summed with negation and booster adjustments, then normalized into a
// compound score in [-1, 1].
package sentiment

import (
	"math"
	"strings"
)

// Sentiment labels.
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// Compound-score thresholds for labeling.
const (
	positiveThreshold = 0.3
	negativeThreshold = -0.3
)

// normalizationAlpha dampens the compound score toward [-1, 1].
const normalizationAlpha = 15.0

// negationDamp flips and dampens the valence of a negated token.
const negationDamp = -0.74

// boosterStep is the valence adjustment contributed by an intensifier.
const boosterStep = 0.293

// Scores is the raw numeric breakdown of an analyzed text.
type Scores struct {
	// Positive is the positive proportion of the text (0.0-1.0).
	Positive float64 `json:"pos"`

	// Neutral is the neutral proportion of the text (0.0-1.0).
	Neutral float64 `json:"neu"`

	// Negative is the negative proportion of the text (0.0-1.0).
	Negative float64 `json:"neg"`

	// Compound is the signed summary score in [-1, 1].
	Compound float64 `json:"compound"`
}

// Analysis is the result of analyzing one text.
type Analysis struct {
	// Label is one of LabelPositive, LabelNeutral, LabelNegative.
	Label string `json:"sentiment"`

	// Scores is the raw numeric breakdown.
	Scores Scores `json:"scores"`
}

// Analyze scores the given text.
//
// Empty or unscorable text yields a neutral label with zero-valued scores.
// Analyze never fails.
func Analyze(text string) Analysis {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Analysis{Label: LabelNeutral}
	}

	var sum, posSum, negSum float64
	var neuCount int

	for i, token := range tokens {
		valence, ok := lexicon[token]
		if !ok {
			if _, boosting := boosters[token]; !boosting {
				if _, negating := negations[token]; !negating {
					neuCount++
				}
			}
			continue
		}

		// Apply intensifiers from up to two preceding tokens.
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if boost, ok := boosters[tokens[j]]; ok {
				if valence > 0 {
					valence += boost
				} else {
					valence -= boost
				}
			}
		}

		// A negation within the three preceding tokens flips the valence.
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			if _, ok := negations[tokens[j]]; ok {
				valence *= negationDamp
				break
			}
		}

		sum += valence
		switch {
		case valence > 0:
			posSum += valence
		case valence < 0:
			negSum += -valence
		default:
			neuCount++
		}
	}

	compound := sum / math.Sqrt(sum*sum+normalizationAlpha)

	total := posSum + negSum + float64(neuCount)
	scores := Scores{Compound: round4(compound)}
	if total > 0 {
		scores.Positive = round4(posSum / total)
		scores.Negative = round4(negSum / total)
		scores.Neutral = round4(float64(neuCount) / total)
	} else {
		scores.Neutral = 1
	}

	label := LabelNeutral
	if compound >= positiveThreshold {
		label = LabelPositive
	} else if compound <= negativeThreshold {
		label = LabelNegative
	}

	return Analysis{Label: label, Scores: scores}
}

// tokenize lowercases the text and strips surrounding punctuation from each
// whitespace-separated token. Inner apostrophes are removed so contractions
// match lexicon entries ("can't" -> "cant").
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.ReplaceAll(field, "'", "")
		field = strings.ReplaceAll(field, "’", "")
		field = strings.TrimFunc(field, func(r rune) bool {
			return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
		})
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
