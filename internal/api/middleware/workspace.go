package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/api/handler"
	"github.com/smartfdx/authgate/internal/core/domain"
)

// RequireWorkspace restricts a route to viewers assigned one of the
// given workspaces. It must run after Guard, which injects the auth
// state.
func RequireWorkspace(allowedWorkspaces ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedWorkspaces))
	for _, w := range allowedWorkspaces {
		allowed[w] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, _ := c.Get(handler.AuthStateKey).(*domain.PersistedAuthState)
			if state == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[state.User.Workspace]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
