package companion

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config contains the complete configuration for a Mochi client.
//
// Example:
//
//	config := &companion.Config{
//	    Storage: companion.StorageConfig{
//	        Provider: "sqlite",
//	        SQLite:   companion.SQLiteConfig{DBPath: "./mochi.db"},
//	    },
//	    Reply: companion.ReplyConfig{
//	        Provider: "openai",
//	        APIKey:   "sk-...",
//	        Model:    "gpt-4o-mini",
//	    },
//	}
type Config struct {
	// Storage contains storage backend configuration.
	Storage StorageConfig `json:"storage"`

	// Reply contains reply provider configuration.
	Reply ReplyConfig `json:"reply"`

	// Speech contains transcription configuration (optional; voice turns
	// fail without it).
	Speech SpeechConfig `json:"speech"`
}

// StorageConfig selects and configures the storage backend.
//
// Supported providers: sqlite, postgres, mysql.
type StorageConfig struct {
	// Provider is the storage backend name (sqlite, postgres, mysql).
	Provider string `json:"provider"`

	// SQLite holds sqlite settings (used when Provider is "sqlite").
	SQLite SQLiteConfig `json:"sqlite,omitempty"`

	// Postgres holds postgres settings (used when Provider is "postgres").
	Postgres SQLServerConfig `json:"postgres,omitempty"`

	// MySQL holds mysql settings (used when Provider is "mysql").
	MySQL SQLServerConfig `json:"mysql,omitempty"`
}

// SQLiteConfig holds the sqlite backend settings.
type SQLiteConfig struct {
	// DBPath is the path to the database file.
	DBPath string `json:"db_path"`
}

// SQLServerConfig holds connection settings shared by the server-based SQL
// backends.
type SQLServerConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`

	// SSLMode applies to postgres only (default "disable").
	SSLMode string `json:"ssl_mode,omitempty"`
}

// ReplyConfig selects and configures the reply provider.
//
// Supported providers: openai, xai, ollama, rule. "rule" (the default) uses
// only the deterministic fallback and needs no credentials.
type ReplyConfig struct {
	// Provider is the reply provider name (openai, xai, ollama, rule).
	Provider string `json:"provider"`

	// APIKey is the API key for remote providers.
	APIKey string `json:"api_key,omitempty"`

	// Model is the chat model name.
	Model string `json:"model,omitempty"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `json:"base_url,omitempty"`
}

// SpeechConfig configures audio transcription for voice turns.
type SpeechConfig struct {
	// APIKey is the transcription API key. Empty disables voice turns.
	APIKey string `json:"api_key,omitempty"`

	// Model is the transcription model (default whisper-1).
	Model string `json:"model,omitempty"`

	// BaseURL overrides the transcription API endpoint.
	BaseURL string `json:"base_url,omitempty"`
}

// MoodSummaryWindow converts a day count into the cutoff duration used by
// mood summaries.
func MoodSummaryWindow(days int) time.Duration {
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - DATABASE_PROVIDER (sqlite, postgres, mysql)
//   - SQLITE_PATH
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//     POSTGRES_DATABASE, POSTGRES_SSLMODE
//   - MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE
//   - REPLY_PROVIDER (openai, xai, ollama, rule), REPLY_API_KEY,
//     REPLY_MODEL, REPLY_BASE_URL
//   - SPEECH_API_KEY, SPEECH_MODEL, SPEECH_BASE_URL
func LoadConfigFromEnv() (*Config, error) {
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	storage := StorageConfig{Provider: getEnvOrDefault("DATABASE_PROVIDER", "sqlite")}
	switch storage.Provider {
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		storage.Postgres = SQLServerConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     port,
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   getEnvOrDefault("POSTGRES_DATABASE", "mochi"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		}
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("MYSQL_PORT", "3306"))
		storage.MySQL = SQLServerConfig{
			Host:     getEnvOrDefault("MYSQL_HOST", "127.0.0.1"),
			Port:     port,
			User:     getEnvOrDefault("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			DBName:   getEnvOrDefault("MYSQL_DATABASE", "mochi"),
		}
	default:
		storage.SQLite = SQLiteConfig{DBPath: getEnvOrDefault("SQLITE_PATH", "./mochi.db")}
	}

	replyProvider := getEnvOrDefault("REPLY_PROVIDER", "rule")
	var replyBaseURL, defaultModel string
	switch replyProvider {
	case "xai":
		replyBaseURL = getEnvOrDefault("REPLY_BASE_URL", "https://api.x.ai/v1")
		defaultModel = "grok-2-latest"
	case "ollama":
		replyBaseURL = getEnvOrDefault("REPLY_BASE_URL", "http://localhost:11434")
		defaultModel = "llama3.1"
	case "openai":
		replyBaseURL = os.Getenv("REPLY_BASE_URL")
		defaultModel = "gpt-4o-mini"
	}

	config := &Config{
		Storage: storage,
		Reply: ReplyConfig{
			Provider: replyProvider,
			APIKey:   os.Getenv("REPLY_API_KEY"),
			Model:    getEnvOrDefault("REPLY_MODEL", defaultModel),
			BaseURL:  replyBaseURL,
		},
		Speech: SpeechConfig{
			APIKey:  os.Getenv("SPEECH_API_KEY"),
			Model:   os.Getenv("SPEECH_MODEL"),
			BaseURL: os.Getenv("SPEECH_BASE_URL"),
		},
	}

	return config, nil
}

// Validate validates the configuration.
//
// The storage provider must be one of sqlite, postgres, mysql (empty defaults
// to sqlite); the reply provider one of openai, xai, ollama, rule (empty
// defaults to rule). Remote reply providers require an API key except ollama.
func (c *Config) Validate() error {
	switch c.Storage.Provider {
	case "", "sqlite", "postgres", "mysql":
	default:
		return NewError("Validate", ErrInvalidConfig)
	}

	switch c.Reply.Provider {
	case "", "rule", "ollama":
	case "openai", "xai":
		if c.Reply.APIKey == "" {
			return NewError("Validate", ErrInvalidConfig)
		}
	default:
		return NewError("Validate", ErrInvalidConfig)
	}

	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
