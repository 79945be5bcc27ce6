package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger records chat round-trips with hashed identifiers so logs
// never carry raw prompts or session keys.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogChatTurn records one completed (or failed) user turn.
func (a *AuditLogger) LogChatTurn(
	sessionID, prompt string,
	toolsUsed []string,
	rounds int,
	durationMs int64,
	success bool,
	errMsg string,
) {
	if !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "chat_audit").
		Str("session_hash", hashStr(sessionID)[:16]).
		Str("prompt_hash", hashStr(prompt)[:16]).
		Strs("tools_used", toolsUsed).
		Int("rounds", rounds).
		Int64("duration_ms", durationMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
