package companion

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/mochi-ai/mochi-go/pkg/account"
	"github.com/mochi-ai/mochi-go/pkg/conversation"
	"github.com/mochi-ai/mochi-go/pkg/memory"
	"github.com/mochi-ai/mochi-go/pkg/reply"
	"github.com/mochi-ai/mochi-go/pkg/reply/ollama"
	"github.com/mochi-ai/mochi-go/pkg/reply/openai"
	"github.com/mochi-ai/mochi-go/pkg/speech"
	"github.com/mochi-ai/mochi-go/pkg/speech/whisper"
	"github.com/mochi-ai/mochi-go/pkg/storage"
	"github.com/mochi-ai/mochi-go/pkg/storage/mysql"
	"github.com/mochi-ai/mochi-go/pkg/storage/postgres"
	"github.com/mochi-ai/mochi-go/pkg/storage/sqlite"
	"github.com/mochi-ai/mochi-go/pkg/trend"
)

// Client is the main Mochi companion client.
//
// It owns the turn pipeline (sentiment, memory learning, crisis screening,
// trend reflection, reply generation) along with mood logging and profile
// management. Safe for concurrent use; turns on one conversation are
// serialized.
type Client struct {
	config *Config
	logger *log.Logger

	store       storage.Store
	memories    *memory.Manager
	ledger      *conversation.Ledger
	trends      *trend.Analyzer
	replies     *reply.Engine
	accounts    *account.Service
	transcriber speech.Transcriber
	prosody     speech.ProsodyExtractor

	// replyOverride holds a provider injected via WithReplyProvider until
	// the engine is constructed.
	replyOverride reply.Provider

	locks *convLocks
}

// ClientOption configures a Client beyond its Config.
type ClientOption func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithStore injects a storage backend, overriding the configured one.
func WithStore(store storage.Store) ClientOption {
	return func(c *Client) { c.store = store }
}

// WithReplyProvider injects a reply provider, overriding the configured one.
func WithReplyProvider(p reply.Provider) ClientOption {
	return func(c *Client) { c.replyOverride = p }
}

// WithTranscriber injects an audio transcriber, overriding the configured one.
func WithTranscriber(t speech.Transcriber) ClientOption {
	return func(c *Client) { c.transcriber = t }
}

// WithProsodyExtractor injects a prosody extractor for voice turns.
func WithProsodyExtractor(p speech.ProsodyExtractor) ClientOption {
	return func(c *Client) { c.prosody = p }
}

// NewClient creates a new Mochi client from the given configuration.
//
// The storage backend and reply provider are built from the config unless
// overridden with options. Call Close when done.
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		config: config,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "mochi"}),
		locks:  newConvLocks(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.store == nil {
		store, err := initStorage(config.Storage)
		if err != nil {
			return nil, err
		}
		client.store = store
	}

	provider := client.replyOverride
	if provider == nil {
		p, err := initReplyProvider(config.Reply)
		if err != nil {
			return nil, err
		}
		provider = p
	}
	client.replies = reply.NewEngine(provider, client.logger)

	if client.transcriber == nil && config.Speech.APIKey != "" {
		t, err := whisper.NewTranscriber(&whisper.Config{
			APIKey:  config.Speech.APIKey,
			BaseURL: config.Speech.BaseURL,
			Model:   config.Speech.Model,
		})
		if err != nil {
			return nil, NewError("NewClient", err)
		}
		client.transcriber = t
	}

	client.memories = memory.NewManager(client.store, client.logger)
	client.ledger = conversation.NewLedger(client.store)
	client.trends = trend.NewAnalyzer(client.store)
	client.accounts = account.NewService(client.store, client.logger)

	return client, nil
}

// Accounts returns the account service bound to the client's store.
func (c *Client) Accounts() *account.Service {
	return c.accounts
}

// Store returns the underlying storage backend.
func (c *Client) Store() storage.Store {
	return c.store
}

// Close releases the reply provider and the storage backend.
func (c *Client) Close() error {
	if err := c.replies.Close(); err != nil {
		c.logger.Warn("closing reply provider", "error", err)
	}
	return c.store.Close()
}

// initStorage builds the storage backend named by the config.
func initStorage(cfg StorageConfig) (storage.Store, error) {
	switch cfg.Provider {
	case "postgres":
		return postgres.NewStore(&postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
	case "mysql":
		return mysql.NewStore(&mysql.Config{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			DBName:   cfg.MySQL.DBName,
		})
	default:
		path := cfg.SQLite.DBPath
		if path == "" {
			path = "./mochi.db"
		}
		return sqlite.NewStore(&sqlite.Config{DBPath: path})
	}
}

// initReplyProvider builds the remote reply provider named by the config.
// Returns (nil, nil) for "rule": the engine treats a nil provider as
// rule-based only.
func initReplyProvider(cfg ReplyConfig) (reply.Provider, error) {
	switch cfg.Provider {
	case "openai", "xai":
		baseURL := cfg.BaseURL
		if cfg.Provider == "xai" && baseURL == "" {
			baseURL = "https://api.x.ai/v1"
		}
		p, err := openai.NewClient(&openai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: baseURL,
		})
		if err != nil {
			return nil, NewError("NewClient", err)
		}
		return p, nil
	case "ollama":
		p, err := ollama.NewClient(&ollama.Config{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
		})
		if err != nil {
			return nil, NewError("NewClient", err)
		}
		return p, nil
	default:
		return nil, nil
	}
}
