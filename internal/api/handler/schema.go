package handler

import "github.com/smartfdx/authgate/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Request / Response types ---

type loginRequest struct {
	Account    string `json:"account"     validate:"required"`
	Password   string `json:"password"    validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Account    string `json:"account"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Workspace  string `json:"workspace,omitempty"`
	Title      string `json:"title,omitempty"`
}

type loginResponse struct {
	Success     bool         `json:"success"`
	RedirectURL string       `json:"redirectUrl"`
	Token       string       `json:"token"`
	User        userResponse `json:"user"`
}

type sessionResponse struct {
	Success bool               `json:"success"`
	User    userResponse       `json:"user"`
	Session domain.SessionInfo `json:"session"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

type resolveRouteRequest struct {
	WorkspaceName string `json:"workspaceName" validate:"required"`
}

type resolveRouteResponse struct {
	Success bool   `json:"success"`
	Route   string `json:"route"`
}

// toUserResponse strips everything the client has no business seeing.
func toUserResponse(u domain.UserProfile) userResponse {
	return userResponse{
		ID:         u.ID,
		Account:    u.Account,
		Name:       u.Name,
		Department: u.Department,
		Workspace:  u.Workspace,
		Title:      u.Title,
	}
}
