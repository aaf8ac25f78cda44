package ports

import (
	"context"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// SessionManager owns the session lifecycle: open at login, validate on
// each guarded request, close at logout.
type SessionManager interface {
	// Open creates a session for user, persists it, and returns the
	// state together with the signed token handed to the client.
	Open(ctx context.Context, user domain.UserProfile, rememberMe bool) (*domain.PersistedAuthState, string, error)
	// Validate parses a client token, loads the referenced session, and
	// returns it if still live. Any parse or lookup failure is
	// domain.ErrSessionNotFound — callers must fail closed.
	Validate(ctx context.Context, token string) (*domain.PersistedAuthState, error)
	// Touch extends the session identified by id on observed activity.
	Touch(ctx context.Context, id string) (*domain.PersistedAuthState, error)
	// Peek loads the session without extending it, for background
	// expiry checks.
	Peek(ctx context.Context, id string) (*domain.PersistedAuthState, error)
	// Close destroys the session. Closing an absent session is not an
	// error.
	Close(ctx context.Context, id string) error
}
