package memory

import (
	"fmt"
	"strings"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// Patch is a set of profile facts learned from a single utterance.
//
// Zero values mean "not stated". A patch never overwrites a profile field that
// is already set; the first stated value wins until an explicit profile update
// replaces it.
type Patch struct {
	Name      string `json:"name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Age       int    `json:"age,omitempty"`
	Hobbies   string `json:"hobbies,omitempty"`
	Diagnosis string `json:"diagnosis,omitempty"`
}

// IsEmpty reports whether the patch carries no facts.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Facts returns the patch as key/value rows for the audit trail.
func (p Patch) Facts() map[string]string {
	out := make(map[string]string)
	if p.Name != "" {
		out["name"] = p.Name
	}
	if p.Nickname != "" {
		out["nickname"] = p.Nickname
	}
	if p.Age != 0 {
		out["age"] = fmt.Sprintf("%d", p.Age)
	}
	if p.Hobbies != "" {
		out["hobbies"] = p.Hobbies
	}
	if p.Diagnosis != "" {
		out["diagnosis"] = p.Diagnosis
	}
	return out
}

// Apply copies the patch's facts onto unset fields of the user and reports
// whether anything changed. Set fields are left untouched.
func (p Patch) Apply(user *storage.User) bool {
	changed := false
	if p.Name != "" && user.Name == "" {
		user.Name = strings.TrimSpace(p.Name)
		changed = true
	}
	if p.Nickname != "" && user.Nickname == "" {
		user.Nickname = strings.TrimSpace(p.Nickname)
		changed = true
	}
	if p.Age != 0 && user.Age == 0 {
		user.Age = p.Age
		changed = true
	}
	if p.Hobbies != "" && user.Hobbies == "" {
		user.Hobbies = strings.TrimSpace(p.Hobbies)
		changed = true
	}
	if p.Diagnosis != "" && user.Diagnosis == "" {
		user.Diagnosis = strings.TrimSpace(p.Diagnosis)
		changed = true
	}
	return changed
}

// Profile is a read-only snapshot of a user's learned profile, used for
// prompt construction and personalization.
type Profile struct {
	Name      string `json:"name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Age       int    `json:"age,omitempty"`
	Hobbies   string `json:"hobbies,omitempty"`
	Diagnosis string `json:"diagnosis,omitempty"`
}

// Snapshot captures the user's current profile fields.
func Snapshot(user *storage.User) Profile {
	return Profile{
		Name:      user.Name,
		Nickname:  user.Nickname,
		Age:       user.Age,
		Hobbies:   user.Hobbies,
		Diagnosis: user.Diagnosis,
	}
}

// DisplayName returns the name to address the user by, preferring the
// nickname over the formal name. Empty when neither is known.
func (p Profile) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}
