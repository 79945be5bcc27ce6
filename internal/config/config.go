package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"` // override for compatible proxies
	Model            string `json:"model"`
	SystemPrompt     string `json:"system_prompt"`

	// Orchestration loop
	MaxToolRounds int           `json:"max_tool_rounds"`
	ToolTimeout   time.Duration `json:"-"`
	ChatTimeout   time.Duration `json:"-"`
	ToolTimeoutS  int           `json:"tool_timeout_seconds"`
	ChatTimeoutS  int           `json:"chat_timeout_seconds"`

	// Sessions
	SessionTTLMinutes int `json:"session_ttl_minutes"`
	MaxSessions       int `json:"max_sessions"`

	// Notes store: "memory" or "postgres"
	NotesBackend string `json:"notes_backend"`
	NotesDSN     string `json:"notes_dsn"`

	// Security
	MaxPromptLength    int  `json:"max_prompt_length"`
	EnableAuditLogging bool `json:"enable_audit_logging"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		APIPrefix:          DefaultAPIPrefix,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		APIKeyHeader:       "X-API-Key",
		EnableAuth:         false,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		SystemPrompt:       DefaultSystemPrompt,
		MaxToolRounds:      DefaultMaxToolRounds,
		SessionTTLMinutes:  int(DefaultSessionTTL / time.Minute),
		MaxSessions:        DefaultMaxSessions,
		NotesBackend:       DefaultNotesBackend,
		MaxPromptLength:    DefaultMaxPromptLength,
		EnableAuditLogging: true,
	}

	// Load from JSON config file if specified
	if path := getEnv("TOOLCHAT_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	cfg.ToolTimeout = DefaultToolTimeout
	if cfg.ToolTimeoutS > 0 {
		cfg.ToolTimeout = time.Duration(cfg.ToolTimeoutS) * time.Second
	}
	cfg.ChatTimeout = DefaultChatTimeout
	if cfg.ChatTimeoutS > 0 {
		cfg.ChatTimeout = time.Duration(cfg.ChatTimeoutS) * time.Second
	}

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("TOOLCHAT_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("TOOLCHAT_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("TOOLCHAT_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("TOOLCHAT_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("TOOLCHAT_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
		cfg.EnableAuth = true
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("TOOLCHAT_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("TOOLCHAT_MAX_TOOL_ROUNDS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxToolRounds = n
		}
	}
	if v := getEnv("TOOLCHAT_NOTES_BACKEND", ""); v != "" {
		cfg.NotesBackend = v
	}
	if v := getEnv("TOOLCHAT_NOTES_DSN", ""); v != "" {
		cfg.NotesDSN = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
