package memory

import (
	"regexp"
	"strconv"
	"strings"
)

// Age bounds accepted by the extractor.
const (
	minAge = 5
	maxAge = 120
)

// Extraction patterns. Matching is case-insensitive; capture groups take the
// original casing of the input so names keep their capitalization.
var (
	nicknameRe  = regexp.MustCompile(`(?i)\b(?:call me|you can call me)\s+([A-Za-z][A-Za-z0-9_\-]{1,20})\b`)
	nameRe      = regexp.MustCompile(`(?i)\bmy name is\s+([A-Za-z][A-Za-z0-9_\-]{1,20})\b`)
	ageRe       = regexp.MustCompile(`\b(?:i am|i'm)\s+(\d{1,2})\s*(?:years?\s*old)?\b`)
	hobbiesRe   = regexp.MustCompile(`(?i)\b(?:my hobbies are|my hobbies include)\s+(.+)$`)
	likesRe     = regexp.MustCompile(`(?i)\b(?:i like|i enjoy|i love)\s+(.+)$`)
	diagnosedRe = regexp.MustCompile(`(?i)\b(?:i was diagnosed with|i've been diagnosed with)\s+(.+)$`)
	diagnosisRe = regexp.MustCompile(`(?i)\bmy diagnosis is\s+(.+)$`)
)

// Extract scans one user utterance for explicitly stated profile facts and
// returns them as a patch. Only first-person statements match; nothing is
// inferred from indirect phrasing.
//
// Precedence within a single utterance:
//   - "my hobbies are/include" wins over "i like/enjoy/love"
//   - "my diagnosis is" wins over "i was/i've been diagnosed with"
func Extract(text string) Patch {
	t := strings.TrimSpace(text)
	if t == "" {
		return Patch{}
	}
	low := strings.ToLower(t)

	var patch Patch

	if m := nicknameRe.FindStringSubmatch(t); m != nil {
		patch.Nickname = m[1]
	}

	if m := nameRe.FindStringSubmatch(t); m != nil {
		patch.Name = m[1]
	}

	if m := ageRe.FindStringSubmatch(low); m != nil {
		age, err := strconv.Atoi(m[1])
		if err == nil && age >= minAge && age <= maxAge {
			patch.Age = age
		}
	}

	if m := hobbiesRe.FindStringSubmatch(t); m != nil {
		hobbies := strings.Trim(m[1], " .!")
		if len(hobbies) <= 120 {
			patch.Hobbies = hobbies
		}
	}
	if patch.Hobbies == "" {
		if m := likesRe.FindStringSubmatch(t); m != nil {
			hobbies := strings.Trim(m[1], " .!")
			if len(hobbies) >= 2 && len(hobbies) <= 120 {
				patch.Hobbies = hobbies
			}
		}
	}

	if m := diagnosedRe.FindStringSubmatch(t); m != nil {
		diag := strings.Trim(m[1], " .!")
		if len(diag) >= 2 && len(diag) <= 80 {
			patch.Diagnosis = diag
		}
	}
	if m := diagnosisRe.FindStringSubmatch(t); m != nil {
		diag := strings.Trim(m[1], " .!")
		if len(diag) >= 2 && len(diag) <= 80 {
			patch.Diagnosis = diag
		}
	}

	return patch
}
