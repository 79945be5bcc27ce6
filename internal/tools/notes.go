package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/toolchat/toolchat/internal/service"
)

// CreateNoteTool stores a new note and returns it, including the assigned id.
func CreateNoteTool(store service.NotesStore) Tool {
	return Tool{
		Name:        "create_note",
		Description: "Create a new note with title and content",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Note title",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Note content",
				},
			},
			"required": []string{"title", "content"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			title, _ := input["title"].(string)
			content, _ := input["content"].(string)

			note, err := store.Create(ctx, title, content)
			if err != nil {
				return "", fmt.Errorf("create note: %w", err)
			}
			return marshalJSON(note)
		},
	}
}

// GetNoteTool retrieves a note by id.
func GetNoteTool(store service.NotesStore) Tool {
	return Tool{
		Name:        "get_note",
		Description: "Retrieve a note by its ID",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Note ID (e.g., 'note-1')",
				},
			},
			"required": []string{"id"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			id, _ := input["id"].(string)

			note, err := store.Get(ctx, id)
			if err != nil {
				return "", err
			}
			return marshalJSON(note)
		},
	}
}

// ListNotesTool lists all stored notes in creation order.
func ListNotesTool(store service.NotesStore) Tool {
	return Tool{
		Name:        "list_notes",
		Description: "List all stored notes",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, _ map[string]interface{}) (string, error) {
			notes, err := store.List(ctx)
			if err != nil {
				return "", fmt.Errorf("list notes: %w", err)
			}
			if notes == nil {
				notes = []service.Note{}
			}
			return marshalJSON(notes)
		},
	}
}

// DeleteNoteTool removes a note by id.
func DeleteNoteTool(store service.NotesStore) Tool {
	return Tool{
		Name:        "delete_note",
		Description: "Delete a note by its ID",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Note ID to delete",
				},
			},
			"required": []string{"id"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			id, _ := input["id"].(string)

			if err := store.Delete(ctx, id); err != nil {
				return "", err
			}
			return marshalJSON(map[string]interface{}{
				"success": true,
				"message": fmt.Sprintf("Note '%s' deleted successfully", id),
			})
		},
	}
}

func marshalJSON(v interface{}) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(out), nil
}
