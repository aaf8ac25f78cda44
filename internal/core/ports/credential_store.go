package ports

import (
	"context"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// CredentialStore reads account records from the external credential
// backend. Implementations must return domain.ErrUserNotFound when no
// non-deleted record matches and domain.ErrUpstream on backend failures.
type CredentialStore interface {
	FindAccount(ctx context.Context, account string) (*domain.UserProfile, error)
}
