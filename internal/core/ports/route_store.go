package ports

import (
	"context"

	"github.com/smartfdx/authgate/internal/core/domain"
)

// RouteStore looks up workspace-to-route mappings. Implementations
// return domain.ErrRouteNotFound when the workspace has no mapping.
type RouteStore interface {
	FindRoute(ctx context.Context, workspace string) (*domain.WorkspaceRoute, error)
}
