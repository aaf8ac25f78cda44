package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartfdx/authgate/internal/core/domain"
)

type stubRouteStore struct {
	routes map[string]string
	err    error
}

func (s *stubRouteStore) FindRoute(_ context.Context, workspace string) (*domain.WorkspaceRoute, error) {
	if s.err != nil {
		return nil, s.err
	}
	route, ok := s.routes[workspace]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return &domain.WorkspaceRoute{Workspace: workspace, Route: route}, nil
}

func TestRedirectResolver_KnownWorkspace(t *testing.T) {
	r := NewRedirectResolver(&stubRouteStore{routes: map[string]string{"化验室": "/lab"}}, "/demo", zerolog.Nop())

	if got := r.Resolve(context.Background(), "化验室"); got != "/lab" {
		t.Fatalf("expected /lab, got %q", got)
	}
}

func TestRedirectResolver_UnmappedWorkspaceFallsBack(t *testing.T) {
	r := NewRedirectResolver(&stubRouteStore{routes: map[string]string{}}, "/demo", zerolog.Nop())

	if got := r.Resolve(context.Background(), "不存在的页面"); got != "/demo" {
		t.Fatalf("expected fallback /demo, got %q", got)
	}
}

func TestRedirectResolver_AbsentWorkspace(t *testing.T) {
	r := NewRedirectResolver(&stubRouteStore{}, "/demo", zerolog.Nop())

	if got := r.Resolve(context.Background(), ""); got != "/demo" {
		t.Fatalf("expected default for absent workspace, got %q", got)
	}
}

func TestRedirectResolver_StoreErrorNeverSurfaces(t *testing.T) {
	r := NewRedirectResolver(&stubRouteStore{err: domain.ErrUpstream}, "/demo", zerolog.Nop())

	if got := r.Resolve(context.Background(), "化验室"); got != "/demo" {
		t.Fatalf("expected fallback on store error, got %q", got)
	}
}

func TestRedirectResolver_Idempotent(t *testing.T) {
	r := NewRedirectResolver(&stubRouteStore{routes: map[string]string{"化验室": "/lab"}}, "/demo", zerolog.Nop())

	first := r.Resolve(context.Background(), "化验室")
	second := r.Resolve(context.Background(), "化验室")
	if first != second {
		t.Fatalf("resolve not idempotent: %q vs %q", first, second)
	}
}
