package companion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochi-ai/mochi-go/pkg/companion"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&companion.Config{}).Validate())

	ok := &companion.Config{
		Storage: companion.StorageConfig{Provider: "sqlite"},
		Reply:   companion.ReplyConfig{Provider: "rule"},
	}
	assert.NoError(t, ok.Validate())

	badStorage := &companion.Config{Storage: companion.StorageConfig{Provider: "oracle"}}
	assert.ErrorIs(t, badStorage.Validate(), companion.ErrInvalidConfig)

	badReply := &companion.Config{Reply: companion.ReplyConfig{Provider: "psychic"}}
	assert.ErrorIs(t, badReply.Validate(), companion.ErrInvalidConfig)

	// Remote providers need credentials; ollama does not.
	keyless := &companion.Config{Reply: companion.ReplyConfig{Provider: "openai"}}
	assert.ErrorIs(t, keyless.Validate(), companion.ErrInvalidConfig)
	assert.NoError(t, (&companion.Config{Reply: companion.ReplyConfig{Provider: "ollama"}}).Validate())
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_PROVIDER", "")
	t.Setenv("REPLY_PROVIDER", "")
	t.Setenv("SQLITE_PATH", "")

	config, err := companion.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", config.Storage.Provider)
	assert.Equal(t, "./mochi.db", config.Storage.SQLite.DBPath)
	assert.Equal(t, "rule", config.Reply.Provider)
}

func TestLoadConfigFromEnv_XAI(t *testing.T) {
	t.Setenv("DATABASE_PROVIDER", "postgres")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REPLY_PROVIDER", "xai")
	t.Setenv("REPLY_API_KEY", "xai-test")
	t.Setenv("REPLY_MODEL", "")
	t.Setenv("REPLY_BASE_URL", "")

	config, err := companion.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres", config.Storage.Provider)
	assert.Equal(t, "db.internal", config.Storage.Postgres.Host)
	assert.Equal(t, 5432, config.Storage.Postgres.Port)
	assert.Equal(t, "xai", config.Reply.Provider)
	assert.Equal(t, "grok-2-latest", config.Reply.Model)
	assert.Equal(t, "https://api.x.ai/v1", config.Reply.BaseURL)
	assert.NoError(t, config.Validate())
}

func TestMoodSummaryWindow(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, companion.MoodSummaryWindow(7))
	assert.Equal(t, 30*24*time.Hour, companion.MoodSummaryWindow(0))
}
