package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// AuthStateKey is the echo context key under which the guard middleware
// stores the validated session state.
const AuthStateKey = "auth_state"

// currentState extracts the session state injected by the guard
// middleware. Its absence means the route was wired without the guard;
// fail closed with 401 rather than serving an anonymous viewer.
func currentState(c echo.Context) (*domain.PersistedAuthState, error) {
	state, _ := c.Get(AuthStateKey).(*domain.PersistedAuthState)
	if state == nil || state.User.Account == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication state")
	}
	return state, nil
}
