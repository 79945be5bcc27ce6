package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toolchat/toolchat/internal/models"
	"github.com/toolchat/toolchat/internal/service"
)

// NotesHandler exposes the notes store for inspection outside the chat
// loop: GET /api/v1/notes, DELETE /api/v1/notes/{note_id}.
type NotesHandler struct {
	store service.NotesStore
}

func NewNotesHandler(store service.NotesStore) *NotesHandler {
	return &NotesHandler{store: store}
}

func (h *NotesHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.List(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if notes == nil {
		notes = []service.Note{}
	}
	models.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	})
}

func (h *NotesHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "note_id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			models.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "deleted",
		"id":     id,
	})
}
