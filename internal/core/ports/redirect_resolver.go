package ports

import "context"

// RedirectResolver maps a workspace name to its landing route. Resolve
// never fails: an absent or unmapped workspace, or a store error, yields
// the configured default path.
type RedirectResolver interface {
	Resolve(ctx context.Context, workspace string) string
}
