// Package config loads the small set of environment-derived settings the
// travel planning chatroom needs at startup. There is no YAML registry here —
// unlike a multi-agent chain configuration, this system has exactly one
// routing graph (router → supervisor → planner stages) and nothing to
// register per deployment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the process-wide settings resolved once at startup.
type Config struct {
	// OpenAIAPIKey authenticates the LLM gateway. Empty means the gateway
	// is unconfigured; handlers still serve but emit an error frame.
	OpenAIAPIKey string

	// DatabaseURL selects the persistence backend. Defaults to a local
	// SQLite file when unset.
	DatabaseURL string

	// Port is the HTTP listen port.
	Port string

	// SecretKey is carried for parity with the original deployment's
	// session-cookie signing key; this service issues no cookies but
	// keeps the knob for compatibility with existing deploy tooling.
	SecretKey string

	// Debug enables verbose (debug-level) logging.
	Debug bool

	// ChatroomSessionID is the single shared session id every participant's
	// travel utterance is pinned to. See DESIGN.md "session scoping".
	ChatroomSessionID string

	// ReplaySize is the bounded replay ring capacity.
	ReplaySize int

	// CatchupSize is how many ring frames a new subscription replays
	// before switching to live delivery.
	CatchupSize int

	// PreviousPlanTextLimit truncates prior route/restaurant text handed
	// back into a planner prompt.
	PreviousPlanTextLimit int
}

// Load reads configuration from the environment, loading a local .env file
// first if present (godotenv.Load is a no-op when no file exists).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		Port:                  os.Getenv("PORT"),
		SecretKey:             os.Getenv("SECRET_KEY"),
		Debug:                 parseBool(os.Getenv("FLASK_DEBUG")),
		ChatroomSessionID:     os.Getenv("CHATROOM_SESSION_ID"),
		ReplaySize:            1000,
		CatchupSize:           50,
		PreviousPlanTextLimit: 3000,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "sqlite:///travelroom.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = "your-secret-key-here"
	}
	if cfg.ChatroomSessionID == "" {
		cfg.ChatroomSessionID = "shared_chatroom_session"
	}

	return cfg
}

// HasLLM reports whether the LLM gateway can be configured.
func (c *Config) HasLLM() bool {
	return c.OpenAIAPIKey != ""
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}
