package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// TokenService signs and parses the client-facing session token. The
// token is pure transport: it carries the session ID (plus a few display
// claims) to the client, while authority over the session stays with the
// session store. It deliberately carries no exp claim; the store's
// sliding expiry decides liveness, and a baked-in deadline would log
// active users out once their original window elapsed.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs an HS256 token for the given session state.
func (t *TokenService) Issue(state domain.PersistedAuthState) (string, error) {
	claims := jwt.MapClaims{
		"sid":       state.Session.ID,
		"account":   state.User.Account,
		"workspace": state.User.Workspace,
		"iat":       state.Session.CreatedAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Parse verifies the signature and returns the session ID. Whether that
// session is still live is the session store's call, not the token's.
func (t *TokenService) Parse(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrSessionNotFound
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrSessionNotFound
	}
	return sid, nil
}
