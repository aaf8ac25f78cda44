package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartfdx/authgate/internal/core/domain"
)

func tokenState(ttl time.Duration) domain.PersistedAuthState {
	now := time.Now().UTC()
	return domain.PersistedAuthState{
		User: domain.UserProfile{Account: "zhang.wei", Workspace: "化验室"},
		Session: domain.SessionInfo{
			ID:             "sess-token",
			CreatedAt:      now,
			LastActivityAt: now,
			ExpiresAt:      now.Add(ttl),
		},
	}
}

func TestTokenService_IssueParse(t *testing.T) {
	ts := NewTokenService("secret")

	token, err := ts.Issue(tokenState(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sid, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sid != "sess-token" {
		t.Fatalf("unexpected session id: %q", sid)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue(tokenState(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenService("secret-b").Parse(token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestTokenService_RejectsUnsignedAlg(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sid": "sess-token",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenService("secret").Parse(token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected none-alg token rejected, got %v", err)
	}
}

func TestTokenService_ParseIgnoresSessionWindow(t *testing.T) {
	// The token carries no deadline of its own: the session store is
	// the sole authority on expiry, otherwise a token minted before a
	// touch would cut off a still-active session.
	ts := NewTokenService("secret")
	token, err := ts.Issue(tokenState(-time.Minute))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sid, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("expected token to outlive the session window, got %v", err)
	}
	if sid != "sess-token" {
		t.Fatalf("unexpected session id: %q", sid)
	}
}

func TestTokenService_RejectsMissingSID(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenService("secret").Parse(token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected token without sid rejected, got %v", err)
	}
}
