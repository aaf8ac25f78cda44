package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/core/domain"
)

type stubRoutes struct {
	routes map[string]string
	err    error
}

func (s *stubRoutes) FindRoute(_ context.Context, workspace string) (*domain.WorkspaceRoute, error) {
	if s.err != nil {
		return nil, s.err
	}
	route, ok := s.routes[workspace]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return &domain.WorkspaceRoute{Workspace: workspace, Route: route}, nil
}

func newResolveContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/routes/resolve", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRouteHandler_Resolve_Found(t *testing.T) {
	h := NewRouteHandler(&stubRoutes{routes: map[string]string{"化验室": "/lab"}})

	c, rec := newResolveContext(t, `{"workspaceName":"化验室"}`)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp resolveRouteResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success || resp.Route != "/lab" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRouteHandler_Resolve_NotFound(t *testing.T) {
	h := NewRouteHandler(&stubRoutes{routes: map[string]string{}})

	c, rec := newResolveContext(t, `{"workspaceName":"不存在的页面"}`)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouteHandler_Resolve_MissingName(t *testing.T) {
	h := NewRouteHandler(&stubRoutes{})

	c, rec := newResolveContext(t, `{}`)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouteHandler_Resolve_UpstreamErrorPropagates(t *testing.T) {
	h := NewRouteHandler(&stubRoutes{err: domain.ErrUpstream})

	c, _ := newResolveContext(t, `{"workspaceName":"化验室"}`)
	if err := h.Resolve(c); err != domain.ErrUpstream {
		t.Fatalf("expected ErrUpstream propagated to error handler, got %v", err)
	}
}
