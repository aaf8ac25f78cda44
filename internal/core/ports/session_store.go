package ports

import (
	"context"
	"time"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// SessionStore persists authenticated session state keyed by session ID.
//
// Load must validate both the structural shape and the expiry of the
// stored record before returning it; a record that fails validation is
// removed as a side effect and reported as domain.ErrSessionNotFound, as
// if it never existed.
type SessionStore interface {
	Save(ctx context.Context, state domain.PersistedAuthState) error
	Load(ctx context.Context, id string) (*domain.PersistedAuthState, error)
	Clear(ctx context.Context, id string) error
	// Touch bumps last-activity and extends the expiry by window,
	// returning the updated state.
	Touch(ctx context.Context, id string, window time.Duration) (*domain.PersistedAuthState, error)
}
