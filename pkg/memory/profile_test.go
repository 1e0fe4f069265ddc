package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mochi-ai/mochi-go/pkg/memory"
	"github.com/mochi-ai/mochi-go/pkg/storage"
)

func TestPatchApply_FillsUnsetFields(t *testing.T) {
	user := &storage.User{UserID: "U_test"}
	patch := memory.Patch{Name: "Jordan", Age: 30, Hobbies: "painting"}

	changed := patch.Apply(user)

	assert.True(t, changed)
	assert.Equal(t, "Jordan", user.Name)
	assert.Equal(t, 30, user.Age)
	assert.Equal(t, "painting", user.Hobbies)
	assert.Empty(t, user.Nickname)
}

func TestPatchApply_FirstWriteWins(t *testing.T) {
	user := &storage.User{UserID: "U_test", Name: "Jordan", Age: 30}
	patch := memory.Patch{Name: "Someone", Age: 99, Nickname: "Jo"}

	changed := patch.Apply(user)

	// Only the unset nickname lands; set fields keep their first value.
	assert.True(t, changed)
	assert.Equal(t, "Jordan", user.Name)
	assert.Equal(t, 30, user.Age)
	assert.Equal(t, "Jo", user.Nickname)
}

func TestPatchApply_Idempotent(t *testing.T) {
	user := &storage.User{UserID: "U_test"}
	patch := memory.Patch{Nickname: "Alex"}

	assert.True(t, patch.Apply(user))
	assert.False(t, patch.Apply(user))
	assert.Equal(t, "Alex", user.Nickname)
}

func TestPatchApply_EmptyPatchNoChange(t *testing.T) {
	user := &storage.User{UserID: "U_test", Name: "Jordan"}
	assert.False(t, memory.Patch{}.Apply(user))
	assert.Equal(t, "Jordan", user.Name)
}

func TestPatchFacts(t *testing.T) {
	patch := memory.Patch{Nickname: "Alex", Age: 30}
	facts := patch.Facts()

	assert.Equal(t, map[string]string{"nickname": "Alex", "age": "30"}, facts)
	assert.Empty(t, memory.Patch{}.Facts())
}

func TestProfileDisplayName(t *testing.T) {
	assert.Equal(t, "Jo", memory.Profile{Name: "Jordan", Nickname: "Jo"}.DisplayName())
	assert.Equal(t, "Jordan", memory.Profile{Name: "Jordan"}.DisplayName())
	assert.Equal(t, "", memory.Profile{}.DisplayName())
}

func TestSnapshot(t *testing.T) {
	user := &storage.User{
		UserID:    "U_test",
		Name:      "Jordan",
		Nickname:  "Jo",
		Age:       30,
		Hobbies:   "painting",
		Diagnosis: "anxiety",
	}
	profile := memory.Snapshot(user)

	assert.Equal(t, memory.Profile{
		Name:      "Jordan",
		Nickname:  "Jo",
		Age:       30,
		Hobbies:   "painting",
		Diagnosis: "anxiety",
	}, profile)
}
