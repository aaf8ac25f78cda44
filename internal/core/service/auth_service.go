package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

// AuditSink is the interface the service uses to hand off audit records
// without blocking the login path.
type AuditSink interface {
	Enqueue(attempt domain.LoginAttempt)
}

// AuthService verifies credentials against the external credential store.
type AuthService struct {
	store   ports.CredentialStore
	limiter ports.AttemptLimiter
	audit   AuditSink
	logger  zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, limiter ports.AttemptLimiter, audit AuditSink, logger zerolog.Logger) *AuthService {
	return &AuthService{store: store, limiter: limiter, audit: audit, logger: logger}
}

// Login looks up exactly one non-deleted account record and checks the
// password. A failed lookup is surfaced immediately; there are no
// retries. The returned profile has the password stripped.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*domain.UserProfile, error) {
	if input.Account == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooMany(ctx, input.Account)
		if err != nil {
			// A broken counter must not lock every account out.
			s.logger.Warn().Err(err).Str("account", input.Account).Msg("attempt limiter unavailable")
		} else if blocked {
			s.record(input, false, "throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.store.FindAccount(ctx, input.Account)
	if err != nil {
		s.record(input, false, reason(err))
		return nil, err
	}

	if !passwordMatches(user.Password, input.Password) {
		if s.limiter != nil {
			if err := s.limiter.NoteFailure(ctx, input.Account); err != nil {
				s.logger.Warn().Err(err).Str("account", input.Account).Msg("failed to note login failure")
			}
		}
		s.record(input, false, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, input.Account); err != nil {
			s.logger.Warn().Err(err).Str("account", input.Account).Msg("failed to reset attempt counter")
		}
	}
	s.record(input, true, "")

	clean := user.Sanitized()
	return &clean, nil
}

func (s *AuthService) record(input ports.LoginInput, success bool, why string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.LoginAttempt{
		Account:   input.Account,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		Success:   success,
		Reason:    why,
		Timestamp: time.Now().UTC(),
	})
}

// passwordMatches supports both bcrypt-hashed and legacy plaintext
// records in the credential store. Plaintext comparison is constant-time;
// it exists only because the store still carries unhashed rows.
func passwordMatches(stored, supplied string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func reason(err error) string {
	switch err {
	case domain.ErrUserNotFound:
		return "account_not_found"
	case domain.ErrUpstream:
		return "store_unavailable"
	default:
		return "error"
	}
}
