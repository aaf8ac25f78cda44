package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// WorkspaceHandler serves the protected workspace landing pages. The
// pages themselves live elsewhere; this endpoint exists so the gateway
// has guarded content routes with the full redirect-to-login behavior.
type WorkspaceHandler struct{}

func NewWorkspaceHandler() *WorkspaceHandler {
	return &WorkspaceHandler{}
}

type workspaceResponse struct {
	Success   bool         `json:"success"`
	Workspace string       `json:"workspace"`
	User      userResponse `json:"user"`
}

// Show renders the landing payload for one workspace.
//
// @Summary      Workspace landing
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Workspace route name"
// @Success      200   {object}  workspaceResponse
// @Failure      401   {object}  errorResponse
// @Router       /workspace/{name} [get]
func (h *WorkspaceHandler) Show(c echo.Context) error {
	state, err := currentState(c)
	if err != nil {
		return err
	}

	name := c.Param("name")
	if name == "" {
		// Fixed landing routes like /lab carry no path parameter.
		name = strings.TrimPrefix(c.Path(), "/")
	}

	return c.JSON(http.StatusOK, workspaceResponse{
		Success:   true,
		Workspace: name,
		User:      toUserResponse(state.User),
	})
}
