package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/api/handler"
	"github.com/smartfdx/authgate/internal/api/metrics"
	"github.com/smartfdx/authgate/internal/core/service"
)

// Guard gates protected routes behind the session guard state machine.
// Unauthenticated browser navigation is answered with a 302 to the login
// route carrying the originally requested path in the redirect query
// parameter; API-style requests get 401 JSON. Routes that do not require
// auth are simply wired without this middleware.
func Guard(guards *service.GuardSet, tokens *service.TokenService, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)

			// Key the guard by session ID so repeated checks against
			// unchanged state share one redirect latch. An unparseable
			// token has no identity to track and gets a fresh guard.
			sid := ""
			if token != "" {
				sid, _ = tokens.Parse(token)
			}

			g := guards.For(sid)
			decision := g.Evaluate(c.Request().Context(), token, c.Request().URL.RequestURI(), loginPath, true)

			if decision.Allow {
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
				c.Set(handler.AuthStateKey, decision.Session)
				return next(c)
			}

			if decision.RedirectTo != "" && !wantsJSON(c) {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("deny").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
	}
}

// extractToken looks for the session token in the Authorization header
// first, then in the session cookie.
func extractToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(handler.SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// wantsJSON reports whether the request should receive a JSON error
// instead of a navigation redirect.
func wantsJSON(c echo.Context) bool {
	if c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := c.Request().Header.Get("Accept")
	return strings.Contains(accept, echo.MIMEApplicationJSON)
}
