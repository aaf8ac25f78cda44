package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartfdx/authgate/internal/api/metrics"
	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

// RouteHandler exposes the raw workspace-route lookup. Unlike the
// resolver used inside the login flow, this endpoint reports a missing
// mapping as 404 — it is a lookup, not a navigation decision.
type RouteHandler struct {
	routes ports.RouteStore
}

func NewRouteHandler(routes ports.RouteStore) *RouteHandler {
	return &RouteHandler{routes: routes}
}

// Resolve looks up the landing route for a workspace name.
//
// @Summary      Resolve a workspace route
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        body  body      resolveRouteRequest  true  "Workspace name"
// @Success      200   {object}  resolveRouteResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /routes/resolve [post]
func (h *RouteHandler) Resolve(c echo.Context) error {
	var req resolveRouteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	route, err := h.routes.FindRoute(c.Request().Context(), req.WorkspaceName)
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			metrics.RouteLookupsTotal.WithLabelValues("fallback").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Message: "workspace route not found"})
		}
		return err
	}

	metrics.RouteLookupsTotal.WithLabelValues("hit").Inc()
	return c.JSON(http.StatusOK, resolveRouteResponse{Success: true, Route: route.Route})
}
