package handler

import (
	"net/http"

	"github.com/toolchat/toolchat/internal/models"
	"github.com/toolchat/toolchat/internal/tools"
)

// ToolsHandler handles GET /api/v1/tools.
type ToolsHandler struct {
	registry *tools.Registry
}

func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// ListTools returns the registered tool descriptors in registration order.
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()
	infos := make([]models.ToolInfo, len(list))
	for i, t := range list {
		infos[i] = models.ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}
	models.WriteJSON(w, http.StatusOK, models.ToolListResponse{
		Tools: infos,
		Count: len(infos),
	})
}
