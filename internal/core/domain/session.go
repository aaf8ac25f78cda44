package domain

import "time"

// SessionInfo is the ephemeral per-login state. The ID is the only value
// that travels to the client (wrapped in a signed token); everything else
// lives server-side in the session store.
type SessionInfo struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the session's absolute expiry has passed.
func (s SessionInfo) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Touch bumps last-activity and extends the expiry by window. It never
// shortens an expiry: a remember-me session keeps its long horizon even
// when touched with the ordinary activity window.
func (s *SessionInfo) Touch(now time.Time, window time.Duration) {
	s.LastActivityAt = now
	if extended := now.Add(window); extended.After(s.ExpiresAt) {
		s.ExpiresAt = extended
	}
}

// PersistedAuthState is the tuple written to the session store at login.
// If a stored copy is present, structurally valid, and unexpired, the
// holder of its session ID is considered authenticated without a trip to
// the credential store.
type PersistedAuthState struct {
	User       UserProfile `json:"user"`
	Session    SessionInfo `json:"session"`
	RememberMe bool        `json:"remember_me"`
}

// Valid checks the structural shape and the expiry timestamp. A state
// that fails here must be treated as absent by callers.
func (p PersistedAuthState) Valid(now time.Time) bool {
	if p.Session.ID == "" || p.User.Account == "" {
		return false
	}
	if p.Session.CreatedAt.IsZero() || p.Session.ExpiresAt.IsZero() {
		return false
	}
	return !p.Session.Expired(now)
}
