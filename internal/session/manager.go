// Package session owns per-conversation state. Each session holds one
// transcript and a mutex enforcing the single-writer rule: one outstanding
// model round-trip or tool dispatch per session at a time.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/toolchat/toolchat/internal/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("session limit reached")
)

// Session pairs a transcript with its writer lock.
type Session struct {
	ID string

	mu         sync.Mutex
	transcript *chat.Transcript
	lastActive time.Time
}

// Run executes fn while holding the session's writer lock. All transcript
// mutation goes through here.
func (s *Session) Run(fn func(t *chat.Transcript) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return fn(s.transcript)
}

// Manager tracks live sessions and evicts idle ones.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

func NewManager(ttl time.Duration, maxSessions int) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
	if ttl > 0 {
		go func() {
			ticker := time.NewTicker(ttl / 2)
			defer ticker.Stop()
			for range ticker.C {
				m.evictIdle()
			}
		}()
	}
	return m
}

// Create starts a fresh session with a generated id.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	s := &Session{
		ID:         uuid.NewString(),
		transcript: chat.NewTranscript(),
		lastActive: m.now(),
	}
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate resolves id when non-empty, otherwise starts a new session.
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	if id == "" {
		return m.Create()
	}
	return m.Get(id)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictIdle() {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		// A session mid-round holds its lock; skip it, it is not idle.
		if !s.mu.TryLock() {
			continue
		}
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			log.Debug().Str("session_id", id).Msg("idle session evicted")
		}
	}
}
