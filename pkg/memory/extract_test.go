package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mochi-ai/mochi-go/pkg/memory"
)

func TestExtract_Nickname(t *testing.T) {
	patch := memory.Extract("You can call me Alex")
	assert.Equal(t, "Alex", patch.Nickname)

	patch = memory.Extract("call me Sam!")
	assert.Equal(t, "Sam", patch.Nickname)
}

func TestExtract_Name(t *testing.T) {
	patch := memory.Extract("my name is Jordan")
	assert.Equal(t, "Jordan", patch.Name)

	// Casing of the statement doesn't matter, capture keeps the original.
	patch = memory.Extract("My Name Is Riya")
	assert.Equal(t, "Riya", patch.Name)
}

func TestExtract_Age(t *testing.T) {
	patch := memory.Extract("i am 30 years old")
	assert.Equal(t, 30, patch.Age)

	patch = memory.Extract("I'm 17")
	assert.Equal(t, 17, patch.Age)
}

func TestExtract_AgeBounds(t *testing.T) {
	// Below the accepted range.
	patch := memory.Extract("i am 4 years old")
	assert.Equal(t, 0, patch.Age)

	// Two-digit pattern keeps 99 but never reaches 130.
	patch = memory.Extract("i am 99 years old")
	assert.Equal(t, 99, patch.Age)
}

func TestExtract_Hobbies(t *testing.T) {
	patch := memory.Extract("my hobbies are painting and hiking.")
	assert.Equal(t, "painting and hiking", patch.Hobbies)

	patch = memory.Extract("I love painting")
	assert.Equal(t, "painting", patch.Hobbies)
}

func TestExtract_HobbiesPrecedence(t *testing.T) {
	// The explicit hobbies statement wins over the "i love" capture.
	patch := memory.Extract("my hobbies are chess, and i love snacks")
	assert.Equal(t, "chess, and i love snacks", patch.Hobbies)
}

func TestExtract_Diagnosis(t *testing.T) {
	patch := memory.Extract("I was diagnosed with anxiety")
	assert.Equal(t, "anxiety", patch.Diagnosis)

	patch = memory.Extract("I've been diagnosed with ADHD.")
	assert.Equal(t, "ADHD", patch.Diagnosis)
}

func TestExtract_DiagnosisPrecedence(t *testing.T) {
	patch := memory.Extract("I was diagnosed with anxiety but my diagnosis is ADHD")
	assert.Equal(t, "ADHD", patch.Diagnosis)
}

func TestExtract_NothingStated(t *testing.T) {
	patch := memory.Extract("what a nice day outside")
	assert.True(t, patch.IsEmpty())

	patch = memory.Extract("")
	assert.True(t, patch.IsEmpty())
}

func TestExtract_MultipleFacts(t *testing.T) {
	patch := memory.Extract("Hi! You can call me Alex. I love painting")
	assert.Equal(t, "Alex", patch.Nickname)
	assert.Equal(t, "painting", patch.Hobbies)
	assert.Empty(t, patch.Name)
}
