package config

import "time"

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	// Orchestration loop bounds.
	DefaultMaxToolRounds   = 10
	DefaultToolTimeout     = 30 * time.Second
	DefaultChatTimeout     = 300 * time.Second
	DefaultMaxPromptLength = 2000

	// Session lifecycle.
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 500

	DefaultNotesBackend = "memory"
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

// DefaultSystemPrompt frames the assistant for the demo tool set.
var DefaultSystemPrompt = "You are a helpful assistant with access to tools for arithmetic, " +
	"note keeping, timezone lookups and system information. Use them when they help, " +
	"and answer in plain language."
