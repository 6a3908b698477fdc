package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careerpilot/resume-studio/internal/document"
	"github.com/careerpilot/resume-studio/internal/enhance"
)

// session is one user's editing session: its own document store and, when
// an enhancement panel is open, its own suggestion panel. Stores are
// per-session by construction so sessions never share mutable state.
type session struct {
	id        uuid.UUID
	userID    uuid.UUID
	resumeID  string
	store     *document.Store
	panel     *enhance.Panel
	createdAt time.Time
}

// sessionManager tracks live editing sessions by id.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionManager() *sessionManager {
	return &sessionManager{sessions: make(map[uuid.UUID]*session)}
}

func (m *sessionManager) add(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

// get returns the session only if it exists and belongs to userID; foreign
// sessions are indistinguishable from missing ones.
func (m *sessionManager) get(id, userID uuid.UUID) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.userID != userID {
		return nil, false
	}
	return s, true
}

func (m *sessionManager) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
