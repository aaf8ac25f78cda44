package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/api/metrics"
	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "smartfdx_session"

// genericLoginFailure deliberately covers both unknown accounts and bad
// passwords so responses cannot be used to enumerate accounts.
const genericLoginFailure = "account or password incorrect"

// GuardRegistry lets the handler drop the guard tracking a session once
// the session is closed.
type GuardRegistry interface {
	Drop(sessionID string)
}

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionManager
	resolver ports.RedirectResolver
	guards   GuardRegistry
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionManager, resolver ports.RedirectResolver, guards GuardRegistry) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, resolver: resolver, guards: guards}
}

// Login authenticates an account and opens a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	started := time.Now()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	user, err := h.auth.Login(c.Request().Context(), ports.LoginInput{
		Account:   req.Account,
		Password:  req.Password,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return h.loginFailure(c, err)
	}

	state, token, err := h.sessions.Open(c.Request().Context(), *user, req.RememberMe)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("upstream_error").Inc()
		return err
	}

	// Verify first, then resolve, then navigate. The resolver never
	// fails; an unmapped workspace degrades to the default route.
	redirectURL := h.resolver.Resolve(c.Request().Context(), user.Workspace)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.LoginDuration.Observe(time.Since(started).Seconds())

	// The session store enforces the sliding expiry, so an ordinary
	// login gets a browser-session cookie; pinning Expires here would
	// cut off users the store still considers active. Remember-me
	// persists the cookie for the full horizon, which Touch never
	// shortens.
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if req.RememberMe {
		cookie.Expires = state.Session.ExpiresAt
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, loginResponse{
		Success:     true,
		RedirectURL: redirectURL,
		Token:       token,
		User:        toUserResponse(*user),
	})
}

func (h *AuthHandler) loginFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: genericLoginFailure})
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return c.JSON(http.StatusTooManyRequests, errorResponse{Message: "too many attempts, try again later"})
	default:
		metrics.LoginsTotal.WithLabelValues("upstream_error").Inc()
		// detail is logged by the central error handler, not echoed out
		return err
	}
}

// Logout destroys the current session.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  logoutResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	state, err := currentState(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Close(c.Request().Context(), state.Session.ID); err != nil {
		return err
	}
	if h.guards != nil {
		h.guards.Drop(state.Session.ID)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, logoutResponse{Success: true})
}

// Session returns the authenticated viewer's profile and session info.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	state, err := currentState(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Success: true,
		User:    toUserResponse(state.User),
		Session: state.Session,
	})
}
