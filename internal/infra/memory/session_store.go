package memory

import (
	"sync"

	"quizbot/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are held by value and copied on the way in and out.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

func (s *SessionStore) Get(userID string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	if !ok {
		return domain.Session{}, false
	}
	return session.Clone(), true
}

func (s *SessionStore) Set(userID string, session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session.Clone()
}

func (s *SessionStore) Remove(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; !ok {
		return false
	}
	delete(s.sessions, userID)
	return true
}

// Update runs mutate under the write lock, so it must not call back into the store.
func (s *SessionStore) Update(userID string, mutate func(*domain.Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return false
	}
	mutate(&session)
	s.sessions[userID] = session
	return true
}

// Len reports the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
