package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartfdx/authgate/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps one JSON document per live session under
// session:<id>, with the Redis TTL pinned to the session expiry so
// abandoned records age out on their own.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, state domain.PersistedAuthState) error {
	if state.Session.ID == "" {
		return fmt.Errorf("save session: missing session id")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(state.Session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session: already expired")
	}

	return s.client.Set(ctx, s.key(state.Session.ID), payload, ttl).Err()
}

// Load returns the stored state after validating shape and expiry. A
// corrupt or expired record is deleted and reported as absent.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.PersistedAuthState, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var state domain.PersistedAuthState
	if err := json.Unmarshal(raw, &state); err != nil || !state.Valid(time.Now().UTC()) {
		// Corrupt records must not linger.
		_ = s.client.Del(ctx, s.key(id)).Err()
		return nil, domain.ErrSessionNotFound
	}

	return &state, nil
}

func (s *SessionStore) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) Touch(ctx context.Context, id string, window time.Duration) (*domain.PersistedAuthState, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	state.Session.Touch(time.Now().UTC(), window)
	if err := s.Save(ctx, *state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *SessionStore) key(id string) string {
	return sessionKeyPrefix + id
}
