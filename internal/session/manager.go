// Package session tracks per-user working state: the dataset as uploaded
// and the dataset after transformations, keyed by an opaque session id.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/JonMunkholm/dataprep/internal/dataset"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is one user's working state.
type Session struct {
	ID string

	// Original is the dataset as uploaded, untouched by transformations.
	Original *dataset.Dataset
	// Transformed is the result of the last applied transformation config,
	// nil until a config has been applied.
	Transformed *dataset.Dataset

	CreatedAt time.Time
	lastUsed  time.Time
}

// Current returns the dataset a downstream operation should act on:
// the transformed dataset if one exists, otherwise the original.
func (s *Session) Current() *dataset.Dataset {
	if s.Transformed != nil {
		return s.Transformed
	}
	return s.Original
}

// Manager holds active sessions. Sessions idle longer than the TTL are
// removed by Sweep.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a manager. A non-positive ttl disables expiry.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new empty session and returns it.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastUsed:  now,
	}
	m.sessions[s.ID] = s
	return s
}

// Get looks up a session by id and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastUsed = m.now()
	return s, nil
}

// Update runs fn against a session while holding the manager lock, so
// concurrent requests to the same session cannot interleave.
func (m *Manager) Update(id string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.lastUsed = m.now()
	return fn(s)
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and reports how many
// were removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps expired sessions at the given interval until done is
// closed.
func (m *Manager) Janitor(interval time.Duration, done <-chan struct{}) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-done:
			return
		}
	}
}
