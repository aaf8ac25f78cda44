package ports

import (
	"context"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// LoginInput carries the credentials plus request metadata recorded in
// the audit trail.
type LoginInput struct {
	Account   string
	Password  string
	IPAddress string
	UserAgent string
}

// AuthService verifies credentials against the credential store.
type AuthService interface {
	// Login returns the matching profile with the password field
	// stripped. Failure modes: domain.ErrUserNotFound,
	// domain.ErrInvalidCredentials, domain.ErrTooManyAttempts,
	// domain.ErrUpstream. Lookups are never retried.
	Login(ctx context.Context, input LoginInput) (*domain.UserProfile, error)
}
