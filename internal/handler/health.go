package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/toolchat/toolchat/internal/models"
	"github.com/toolchat/toolchat/internal/service"
)

const version = "1.0.0"

// HealthHandler handles GET /health with dependency checks.
type HealthHandler struct {
	notes        service.NotesStore
	modelEnabled bool
	toolCount    int
}

func NewHealthHandler(notes service.NotesStore, modelEnabled bool, toolCount int) *HealthHandler {
	return &HealthHandler{notes: notes, modelEnabled: modelEnabled, toolCount: toolCount}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	status := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.notes != nil {
		if err := h.notes.Ping(ctx); err != nil {
			checks["notes_store"] = "unavailable: " + err.Error()
			status = "degraded"
		} else {
			checks["notes_store"] = "ok"
		}
	} else {
		checks["notes_store"] = "disabled"
	}

	if h.modelEnabled {
		checks["model"] = "configured"
	} else {
		checks["model"] = "disabled"
		status = "degraded"
	}
	checks["tools"] = strconv.Itoa(h.toolCount) + " registered"

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, code, models.HealthResponse{
		Status:  status,
		Version: version,
		Checks:  checks,
	})
}
