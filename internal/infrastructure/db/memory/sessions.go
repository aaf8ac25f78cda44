// Package memory provides an in-process session store for development
// runs without Redis and for tests. Semantics match the Redis store:
// Load validates shape and expiry and removes anything that fails.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/smartfdx/authgate/internal/core/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.PersistedAuthState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.PersistedAuthState)}
}

func (s *SessionStore) Save(_ context.Context, state domain.PersistedAuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.Session.ID] = state
	return nil
}

func (s *SessionStore) Load(_ context.Context, id string) (*domain.PersistedAuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !state.Valid(time.Now().UTC()) {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}

	clone := state
	return &clone, nil
}

func (s *SessionStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Touch(ctx context.Context, id string, window time.Duration) (*domain.PersistedAuthState, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	state.Session.Touch(time.Now().UTC(), window)

	s.mu.Lock()
	s.sessions[id] = *state
	s.mu.Unlock()
	return state, nil
}

// Corrupt overwrites a stored record with a structurally invalid one.
// Test hook for the load-validation path.
func (s *SessionStore) Corrupt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = domain.PersistedAuthState{}
}

// Len reports the number of records currently held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
