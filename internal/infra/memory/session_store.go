package memory

import (
	"context"
	"sync"

	"money-drop-service/internal/app"
	"money-drop-service/internal/game"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*app.Session
	snapshots map[string]game.State
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*app.Session),
		snapshots: make(map[string]game.State),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
}

func (s *SessionStore) Get(gameID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[gameID]
	return session, ok
}

// IDs lists every game held by this process.
func (s *SessionStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, gameID)
	delete(s.snapshots, gameID)
}

func (s *SessionStore) Checkpoint(_ context.Context, gameID string, state game.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[gameID]; !ok {
		return nil
	}
	s.snapshots[gameID] = state
	return nil
}

// Snapshot returns the last checkpointed state of a game.
func (s *SessionStore) Snapshot(gameID string) (game.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.snapshots[gameID]
	return state, ok
}

// Len returns the number of live games.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
