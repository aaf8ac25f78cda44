package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smartfdx/authgate/internal/core/ports"
)

// RedirectResolver maps a workspace name to its landing route, falling
// back to a fixed default path. It is deterministic, idempotent, and
// never raises: a missing mapping or a store failure degrades to the
// default route with a log line.
type RedirectResolver struct {
	routes      ports.RouteStore
	defaultPath string
	logger      zerolog.Logger
}

func NewRedirectResolver(routes ports.RouteStore, defaultPath string, logger zerolog.Logger) *RedirectResolver {
	if defaultPath == "" {
		defaultPath = "/demo"
	}
	return &RedirectResolver{routes: routes, defaultPath: defaultPath, logger: logger}
}

func (r *RedirectResolver) Resolve(ctx context.Context, workspace string) string {
	if workspace == "" {
		return r.defaultPath
	}

	route, err := r.routes.FindRoute(ctx, workspace)
	if err != nil {
		r.logger.Warn().Err(err).Str("workspace", workspace).Str("fallback", r.defaultPath).
			Msg("workspace route lookup degraded to default")
		return r.defaultPath
	}
	if route.Route == "" {
		return r.defaultPath
	}
	return route.Route
}
