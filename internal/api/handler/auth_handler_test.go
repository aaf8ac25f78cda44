package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

type stubAuth struct {
	user *domain.UserProfile
	err  error
}

func (s *stubAuth) Login(context.Context, ports.LoginInput) (*domain.UserProfile, error) {
	return s.user, s.err
}

type stubSessions struct {
	opened *domain.PersistedAuthState
	closed []string
}

func (s *stubSessions) Open(_ context.Context, user domain.UserProfile, rememberMe bool) (*domain.PersistedAuthState, string, error) {
	now := time.Now().UTC()
	state := &domain.PersistedAuthState{
		User: user.Sanitized(),
		Session: domain.SessionInfo{
			ID:             "sess-1",
			CreatedAt:      now,
			LastActivityAt: now,
			ExpiresAt:      now.Add(30 * time.Minute),
		},
		RememberMe: rememberMe,
	}
	s.opened = state
	return state, "tok-123", nil
}

func (s *stubSessions) Validate(context.Context, string) (*domain.PersistedAuthState, error) {
	if s.opened == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.opened, nil
}

func (s *stubSessions) Touch(context.Context, string) (*domain.PersistedAuthState, error) {
	return s.opened, nil
}

func (s *stubSessions) Peek(context.Context, string) (*domain.PersistedAuthState, error) {
	if s.opened == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.opened, nil
}

func (s *stubSessions) Close(_ context.Context, id string) error {
	s.closed = append(s.closed, id)
	s.opened = nil
	return nil
}

type stubResolver struct {
	routes   map[string]string
	fallback string
}

func (s *stubResolver) Resolve(_ context.Context, workspace string) string {
	if route, ok := s.routes[workspace]; ok {
		return route
	}
	return s.fallback
}

type stubGuards struct {
	dropped []string
}

func (s *stubGuards) Drop(id string) { s.dropped = append(s.dropped, id) }

func newLoginContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	auth := &stubAuth{user: &domain.UserProfile{ID: 7, Account: "zhang.wei", Name: "张伟", Workspace: "化验室"}}
	sessions := &stubSessions{}
	resolver := &stubResolver{routes: map[string]string{"化验室": "/lab"}, fallback: "/demo"}
	h := NewAuthHandler(auth, sessions, resolver, &stubGuards{})

	c, rec := newLoginContext(t, `{"account":"zhang.wei","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if resp.RedirectURL != "/lab" {
		t.Fatalf("expected navigation target /lab, got %q", resp.RedirectURL)
	}
	if resp.Token != "tok-123" {
		t.Fatalf("missing token")
	}
	if resp.User.Account != "zhang.wei" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, ck := range cookies {
		if ck.Name == SessionCookie && ck.Value == "tok-123" {
			found = true
		}
	}
	if !found {
		t.Fatalf("session cookie not set: %+v", cookies)
	}
}

func TestAuthHandler_Login_CookiePersistence(t *testing.T) {
	auth := &stubAuth{user: &domain.UserProfile{Account: "zhang.wei"}}

	sessionCookie := func(body string) *http.Cookie {
		h := NewAuthHandler(auth, &stubSessions{}, &stubResolver{fallback: "/demo"}, &stubGuards{})
		c, rec := newLoginContext(t, body)
		if err := h.Login(c); err != nil {
			t.Fatalf("login handler error: %v", err)
		}
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == SessionCookie {
				return ck
			}
		}
		t.Fatalf("session cookie not set")
		return nil
	}

	// An ordinary login rides on the store's sliding expiry, so the
	// cookie must not carry a fixed deadline of its own.
	if ck := sessionCookie(`{"account":"zhang.wei","password":"s3cret"}`); !ck.Expires.IsZero() {
		t.Fatalf("expected browser-session cookie, got Expires=%v", ck.Expires)
	}

	// Remember-me persists the cookie for the full horizon.
	if ck := sessionCookie(`{"account":"zhang.wei","password":"s3cret","remember_me":true}`); ck.Expires.IsZero() {
		t.Fatalf("expected persistent cookie for remember-me login")
	}
}

func TestAuthHandler_Login_UnmappedWorkspaceFallsBack(t *testing.T) {
	auth := &stubAuth{user: &domain.UserProfile{Account: "zhang.wei", Workspace: "不存在的页面"}}
	resolver := &stubResolver{routes: map[string]string{}, fallback: "/demo"}
	h := NewAuthHandler(auth, &stubSessions{}, resolver, &stubGuards{})

	c, rec := newLoginContext(t, `{"account":"zhang.wei","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.RedirectURL != "/demo" {
		t.Fatalf("expected fallback /demo, got %q", resp.RedirectURL)
	}
}

func TestAuthHandler_Login_CollapsedFailureMessage(t *testing.T) {
	// Unknown account and wrong password must be indistinguishable.
	for _, failure := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		h := NewAuthHandler(&stubAuth{err: failure}, &stubSessions{}, &stubResolver{fallback: "/demo"}, &stubGuards{})

		c, rec := newLoginContext(t, `{"account":"demo","password":"demo123456"}`)
		if err := h.Login(c); err != nil {
			t.Fatalf("login handler error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", failure, rec.Code)
		}

		var resp errorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Message != genericLoginFailure {
			t.Fatalf("%v: expected collapsed message, got %q", failure, resp.Message)
		}
	}
}

func TestAuthHandler_Login_NoSessionOnFailure(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(&stubAuth{err: domain.ErrUserNotFound}, sessions, &stubResolver{fallback: "/demo"}, &stubGuards{})

	c, _ := newLoginContext(t, `{"account":"demo","password":"demo123456"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login handler error: %v", err)
	}
	if sessions.opened != nil {
		t.Fatalf("session must not be created on failed login")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, &stubSessions{}, &stubResolver{fallback: "/demo"}, &stubGuards{})

	c, rec := newLoginContext(t, `{"account":"demo"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	h := NewAuthHandler(&stubAuth{err: domain.ErrTooManyAttempts}, &stubSessions{}, &stubResolver{fallback: "/demo"}, &stubGuards{})

	c, rec := newLoginContext(t, `{"account":"demo","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login handler error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_UpstreamErrorPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuth{err: domain.ErrUpstream}, &stubSessions{}, &stubResolver{fallback: "/demo"}, &stubGuards{})

	c, _ := newLoginContext(t, `{"account":"demo","password":"x"}`)
	// Upstream detail is mapped centrally so internals never leak here.
	if err := h.Login(c); err != domain.ErrUpstream {
		t.Fatalf("expected ErrUpstream propagated to error handler, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	sessions := &stubSessions{}
	guards := &stubGuards{}
	auth := &stubAuth{user: &domain.UserProfile{Account: "zhang.wei"}}
	h := NewAuthHandler(auth, sessions, &stubResolver{fallback: "/demo"}, guards)

	state, _, _ := sessions.Open(context.Background(), *auth.user, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(AuthStateKey, state)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sessions.closed) != 1 || sessions.closed[0] != "sess-1" {
		t.Fatalf("session not closed: %+v", sessions.closed)
	}
	if len(guards.dropped) != 1 || guards.dropped[0] != "sess-1" {
		t.Fatalf("guard not dropped: %+v", guards.dropped)
	}
}

func TestAuthHandler_SessionRequiresGuard(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, &stubSessions{}, &stubResolver{fallback: "/demo"}, &stubGuards{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Session(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without guard state, got %v", err)
	}
}
