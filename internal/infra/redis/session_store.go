package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"money-drop-service/internal/app"
	"money-drop-service/internal/game"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions stay in a local map; the process that created a game owns its timers.
//   - Redis holds a liveness marker and the latest state checkpoint of each game so
//     other tooling can inspect running games.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), "1", s.ttl).Err()
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
	if _, ok := s.sessions[gameID]; !ok {
		return
	}
	delete(s.sessions, gameID)
	_ = s.client.Del(context.Background(), s.key(gameID), s.stateKey(gameID)).Err()
}

func (s *SessionStore) Checkpoint(ctx context.Context, gameID string, state game.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	// Held across the write so a concurrent Delete cannot be undone by a late checkpoint.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, live := s.sessions[gameID]; !live {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.stateKey(gameID), raw, s.ttl)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(gameID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("checkpoint game %s: %w", gameID, err)
	}
	return nil
}

// LoadCheckpoint reads the last state recorded for a game.
func (s *SessionStore) LoadCheckpoint(ctx context.Context, gameID string) (game.State, error) {
	raw, err := s.client.Get(ctx, s.stateKey(gameID)).Bytes()
	if err != nil {
		return game.State{}, fmt.Errorf("load checkpoint %s: %w", gameID, err)
	}
	var state game.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return game.State{}, fmt.Errorf("decode checkpoint %s: %w", gameID, err)
	}
	return state, nil
}

func (s *SessionStore) key(gameID string) string {
	return "game:session:" + gameID
}

func (s *SessionStore) stateKey(gameID string) string {
	return "game:state:" + gameID
}
