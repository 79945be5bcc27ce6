// Package service holds the notes store backends (in-memory and Postgres)
// that the note tools operate on.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoteNotFound is returned for lookups and deletes of unknown note ids.
var ErrNoteNotFound = errors.New("note not found")

// Note is a stored note. CreatedAt is RFC3339 UTC.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NotesStore is the contract the note tools are written against. The
// orchestration loop never sees it; whether notes are volatile or durable
// is the store's concern alone.
type NotesStore interface {
	Create(ctx context.Context, title, content string) (Note, error)
	Get(ctx context.Context, id string) (Note, error)
	List(ctx context.Context) ([]Note, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close()
}

// MemoryNotes keeps notes in-process; contents do not survive a restart.
// Ids are sequential ("note-1", "note-2", ...) and never reused.
type MemoryNotes struct {
	mu      sync.RWMutex
	notes   map[string]Note
	order   []string
	counter int
	now     func() time.Time
}

func NewMemoryNotes() *MemoryNotes {
	return &MemoryNotes{
		notes: make(map[string]Note),
		now:   time.Now,
	}
}

func (s *MemoryNotes) Create(_ context.Context, title, content string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	note := Note{
		ID:        fmt.Sprintf("note-%d", s.counter),
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	s.notes[note.ID] = note
	s.order = append(s.order, note.ID)
	return note, nil
}

func (s *MemoryNotes) Get(_ context.Context, id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return note, nil
}

// List returns notes in creation order.
func (s *MemoryNotes) List(_ context.Context) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, 0, len(s.order))
	for _, id := range s.order {
		if note, ok := s.notes[id]; ok {
			out = append(out, note)
		}
	}
	return out, nil
}

func (s *MemoryNotes) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	delete(s.notes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryNotes) Ping(_ context.Context) error { return nil }

func (s *MemoryNotes) Close() {}
