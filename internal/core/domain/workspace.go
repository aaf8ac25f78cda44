package domain

// WorkspaceRoute maps a workspace display name (e.g. "化验室") to the
// route path of its landing page. Owned by the external store; read-only
// lookup table from this service's perspective.
type WorkspaceRoute struct {
	Workspace string `json:"workspace"`
	Route     string `json:"route"`
}
