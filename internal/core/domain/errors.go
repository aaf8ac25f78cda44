package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRouteNotFound      = errors.New("workspace route not found")
	ErrConfigMissing      = errors.New("credential store not configured")
	ErrUpstream           = errors.New("credential store unavailable")
)
