package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/toolchat/toolchat/internal/agent"
	"github.com/toolchat/toolchat/internal/chat"
	"github.com/toolchat/toolchat/internal/models"
	"github.com/toolchat/toolchat/internal/security"
	"github.com/toolchat/toolchat/internal/session"
)

// ChatHandler handles POST /api/v1/chat: one user turn through the
// orchestration loop.
type ChatHandler struct {
	loop        *agent.Loop
	sessions    *session.Manager
	promptVal   *security.PromptValidator
	piiDetector *security.PIIDetector
	audit       *security.AuditLogger
}

func NewChatHandler(
	loop *agent.Loop,
	sessions *session.Manager,
	promptVal *security.PromptValidator,
	piiDetector *security.PIIDetector,
	audit *security.AuditLogger,
) *ChatHandler {
	return &ChatHandler{
		loop:        loop,
		sessions:    sessions,
		promptVal:   promptVal,
		piiDetector: piiDetector,
		audit:       audit,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.loop == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "model endpoint is not configured")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()

	if vr := h.promptVal.Validate(req.Message); !vr.Valid {
		models.WriteError(w, http.StatusBadRequest, vr.Message)
		return
	}
	if found, kw := h.piiDetector.Detect(req.Message); found {
		models.WriteError(w, http.StatusBadRequest, "message appears to contain sensitive data: "+kw)
		return
	}

	sess, err := h.sessions.GetOrCreate(req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			models.WriteError(w, http.StatusNotFound, "unknown session_id")
		case errors.Is(err, session.ErrTooManySessions):
			models.WriteError(w, http.StatusServiceUnavailable, "session limit reached, try again later")
		default:
			models.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.Timeout)*time.Second)
	defer cancel()

	start := time.Now()
	var result *agent.Result
	runErr := sess.Run(func(t *chat.Transcript) error {
		var err error
		result, err = h.loop.Respond(ctx, t, req.Message)
		return err
	})

	durationMs := time.Since(start).Milliseconds()
	if result != nil {
		h.audit.LogChatTurn(sess.ID, req.Message, result.ToolsUsed, result.Rounds,
			durationMs, runErr == nil, errString(runErr))
	} else {
		h.audit.LogChatTurn(sess.ID, req.Message, nil, 0, durationMs, false, errString(runErr))
	}

	if runErr != nil {
		var limitErr *agent.RoundLimitError
		if errors.As(runErr, &limitErr) && result != nil {
			// The loop already closed the turn with a synthesized answer;
			// report it as the terminal message.
			models.WriteJSON(w, http.StatusOK, models.ChatResponse{
				Status:    "round_limit",
				SessionID: sess.ID,
				Reply:     result.Reply,
				Rounds:    result.Rounds,
				ToolsUsed: result.ToolsUsed,
			})
			return
		}

		log.Warn().Err(runErr).Str("session_id", sess.ID).Msg("chat turn failed")

		// Context errors first: a deadline firing mid round-trip comes back
		// wrapped in ModelEndpointError and must still map to 504, not 502.
		var endpointErr *agent.ModelEndpointError
		var malformedErr *agent.MalformedResponseError
		switch {
		case errors.Is(runErr, context.DeadlineExceeded), errors.Is(runErr, context.Canceled):
			models.WriteError(w, http.StatusGatewayTimeout, "chat turn cancelled: "+runErr.Error())
		case errors.As(runErr, &endpointErr), errors.As(runErr, &malformedErr):
			models.WriteError(w, http.StatusBadGateway, runErr.Error())
		default:
			models.WriteError(w, http.StatusInternalServerError, runErr.Error())
		}
		return
	}

	models.WriteJSON(w, http.StatusOK, models.ChatResponse{
		Status:    "success",
		SessionID: sess.ID,
		Reply:     result.Reply,
		Rounds:    result.Rounds,
		ToolsUsed: result.ToolsUsed,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
