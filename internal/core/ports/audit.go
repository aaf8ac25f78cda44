package ports

import (
	"context"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// AttemptRecorder persists login-attempt audit records.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt domain.LoginAttempt) error
}

// AttemptLimiter tracks failed logins per account inside a rolling
// window. Implementations should degrade open on infrastructure errors:
// a broken counter must not lock every account out.
type AttemptLimiter interface {
	TooMany(ctx context.Context, account string) (bool, error)
	NoteFailure(ctx context.Context, account string) error
	Reset(ctx context.Context, account string) error
}
