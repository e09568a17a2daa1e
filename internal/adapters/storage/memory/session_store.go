package memory

import (
	"context"
	"sync"
	"time"

	"github.com/osapicare/atende-agent/internal/domain"
)

// SessionStore keeps every session of the process in a mutex-guarded
// map keyed by (app, user, session). Ensure is get-or-create under one
// lock, so concurrent turns on distinct keys never corrupt each other
// and a duplicate create on the same key is a no-op.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionKey]*domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionKey]*domain.Session),
		now:      time.Now,
	}
}

// Ensure returns the session for key, creating it when absent. The
// second return reports whether the session was created by this call.
func (s *SessionStore) Ensure(_ context.Context, key domain.SessionKey) (*domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key]; ok {
		return sess, false, nil
	}

	now := s.now()
	sess := &domain.Session{
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[key] = sess
	return sess, true, nil
}

func (s *SessionStore) Get(_ context.Context, key domain.SessionKey) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) AppendTurn(_ context.Context, key domain.SessionKey, turn *domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.Turns = append(sess.Turns, turn)
	sess.UpdatedAt = s.now()
	return nil
}

// History returns the last limit turns, oldest first. limit <= 0 means
// everything.
func (s *SessionStore) History(_ context.Context, key domain.SessionKey, limit int) ([]*domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	turns := sess.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]*domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}
