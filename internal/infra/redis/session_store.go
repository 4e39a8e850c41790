package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"quizbot/internal/domain"
	"quizbot/internal/infra/memory"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions themselves stay in process memory; they do not outlive the process.
//   - Redis holds a per-user liveness marker (value: session ID) with a TTL that is
//     refreshed on every mutation, so operators can see active quizzes across instances.
//   - Marker writes are best-effort; a Redis outage never fails a quiz operation.
type SessionStore struct {
	*memory.SessionStore
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		SessionStore: memory.NewSessionStore(),
		client:       client,
		ttl:          ttl,
	}
}

func (s *SessionStore) Set(userID string, session domain.Session) {
	s.SessionStore.Set(userID, session)
	s.mark(userID, session.ID)
}

func (s *SessionStore) Remove(userID string) bool {
	removed := s.SessionStore.Remove(userID)
	if removed {
		if err := s.client.Del(context.Background(), s.key(userID)).Err(); err != nil {
			log.Printf("redis: clear session marker for %s: %v", userID, err)
		}
	}
	return removed
}

func (s *SessionStore) Update(userID string, mutate func(*domain.Session)) bool {
	var sessionID string
	found := s.SessionStore.Update(userID, func(session *domain.Session) {
		mutate(session)
		sessionID = session.ID
	})
	if found {
		s.mark(userID, sessionID)
	}
	return found
}

// Ping checks Redis connectivity.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) mark(userID, sessionID string) {
	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(userID), sessionID, s.ttl).Err(); err != nil {
		log.Printf("redis: set session marker for %s: %v", userID, err)
	}
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}
