// Package credstore talks to the external credential backend over its
// PostgREST-style REST interface: table rows exposed as JSON arrays,
// filtered through query-string operators (account=eq.<value>).
package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartfdx/authgate/internal/core/domain"
)

const (
	usersTable  = "users"
	routesTable = "workspace_routes"

	defaultTimeout = 10 * time.Second
)

// Client is a read-only PostgREST client serving both the credential
// table and the workspace-route table.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// New validates the injected endpoint configuration and returns a
// Client. A missing URL or key is a configuration error, surfaced here
// once instead of on every login.
func New(baseURL, apiKey string, logger zerolog.Logger) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, domain.ErrConfigMissing
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}, nil
}

// accountRow mirrors the credential table's column names.
type accountRow struct {
	ID         int64  `json:"id"`
	Account    string `json:"account"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Messaging  string `json:"messaging"`
	Password   string `json:"password"`
	Workspace  string `json:"workspace"`
	Title      string `json:"title"`
	Active     bool   `json:"active"`
}

type routeRow struct {
	Workspace string `json:"workspace"`
	Route     string `json:"route"`
}

// FindAccount fetches exactly one non-deleted credential record matching
// account. Zero rows is domain.ErrUserNotFound; more than one means the
// store's uniqueness assumption is broken and reads as an upstream
// error.
func (c *Client) FindAccount(ctx context.Context, account string) (*domain.UserProfile, error) {
	query := url.Values{}
	query.Set("account", "eq."+account)
	query.Set("is_deleted", "eq.false")
	query.Set("limit", "2")

	var rows []accountRow
	if err := c.get(ctx, usersTable, query, &rows); err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, domain.ErrUserNotFound
	case 1:
		// fall through
	default:
		c.logger.Error().Str("account", account).Int("rows", len(rows)).
			Msg("credential store returned multiple rows for one account")
		return nil, domain.ErrUpstream
	}

	r := rows[0]
	return &domain.UserProfile{
		ID:         r.ID,
		Account:    r.Account,
		Name:       r.Name,
		Department: r.Department,
		Phone:      r.Phone,
		Messaging:  r.Messaging,
		Password:   r.Password,
		Workspace:  r.Workspace,
		Title:      r.Title,
		Active:     r.Active,
	}, nil
}

// FindRoute looks up the route mapped to a workspace display name.
// Workspace names are routinely non-ASCII ("化验室"); url.Values handles
// the encoding.
func (c *Client) FindRoute(ctx context.Context, workspace string) (*domain.WorkspaceRoute, error) {
	query := url.Values{}
	query.Set("workspace", "eq."+workspace)
	query.Set("limit", "1")

	var rows []routeRow
	if err := c.get(ctx, routesTable, query, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrRouteNotFound
	}

	return &domain.WorkspaceRoute{Workspace: rows[0].Workspace, Route: rows[0].Route}, nil
}

func (c *Client) get(ctx context.Context, table string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("credstore request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("table", table).Msg("credential store request failed")
		return domain.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error().Int("status", resp.StatusCode).Str("table", table).
			Str("body", string(body)).Msg("credential store returned non-2xx")
		return domain.ErrUpstream
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error().Err(err).Str("table", table).Msg("credential store response undecodable")
		return domain.ErrUpstream
	}
	return nil
}
