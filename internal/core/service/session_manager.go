package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartfdx/authgate/internal/api/metrics"
	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

// SessionManager creates, validates, touches, and destroys sessions.
// Validation fails closed: any parse or store error reads as "no
// session".
type SessionManager struct {
	store       ports.SessionStore
	tokens      *TokenService
	ttl         time.Duration
	rememberTTL time.Duration
	logger      zerolog.Logger
}

func NewSessionManager(store ports.SessionStore, tokens *TokenService, ttl, rememberTTL time.Duration, logger zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if rememberTTL <= 0 {
		rememberTTL = 720 * time.Hour
	}
	return &SessionManager{store: store, tokens: tokens, ttl: ttl, rememberTTL: rememberTTL, logger: logger}
}

func (m *SessionManager) Open(ctx context.Context, user domain.UserProfile, rememberMe bool) (*domain.PersistedAuthState, string, error) {
	now := time.Now().UTC()
	window := m.ttl
	if rememberMe {
		window = m.rememberTTL
	}

	state := domain.PersistedAuthState{
		User: user.Sanitized(),
		Session: domain.SessionInfo{
			ID:             uuid.NewString(),
			CreatedAt:      now,
			LastActivityAt: now,
			ExpiresAt:      now.Add(window),
		},
		RememberMe: rememberMe,
	}

	if err := m.store.Save(ctx, state); err != nil {
		return nil, "", err
	}

	token, err := m.tokens.Issue(state)
	if err != nil {
		// Keep the store consistent with what the client holds.
		_ = m.store.Clear(ctx, state.Session.ID)
		return nil, "", err
	}

	metrics.SessionsActive.Inc()
	return &state, token, nil
}

func (m *SessionManager) Validate(ctx context.Context, token string) (*domain.PersistedAuthState, error) {
	sid, err := m.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	state, err := m.store.Load(ctx, sid)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			m.logger.Warn().Err(err).Str("session_id", sid).Msg("session load failed, treating as absent")
		}
		return nil, domain.ErrSessionNotFound
	}
	return state, nil
}

func (m *SessionManager) Touch(ctx context.Context, id string) (*domain.PersistedAuthState, error) {
	return m.store.Touch(ctx, id, m.ttl)
}

func (m *SessionManager) Peek(ctx context.Context, id string) (*domain.PersistedAuthState, error) {
	return m.store.Load(ctx, id)
}

func (m *SessionManager) Close(ctx context.Context, id string) error {
	// The gauge only counts sessions that were live at close time, so a
	// repeated close or an already-lapsed record cannot drive it below
	// the true count.
	_, loadErr := m.store.Load(ctx, id)

	if err := m.store.Clear(ctx, id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if loadErr == nil {
		metrics.SessionsActive.Dec()
	}
	return nil
}

// Window reports the sliding activity window applied on Touch.
func (m *SessionManager) Window() time.Duration {
	return m.ttl
}
