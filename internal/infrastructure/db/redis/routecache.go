package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

const routeKeyPrefix = "route:"

// negative caching sentinel so a missing mapping does not hammer the
// upstream on every login.
const routeMiss = "__miss__"

// CachedRouteStore is a read-through cache in front of the upstream
// route table. Cache failures degrade to a direct upstream lookup; they
// never surface to the caller.
type CachedRouteStore struct {
	client   *redis.Client
	upstream ports.RouteStore
	ttl      time.Duration
}

func NewCachedRouteStore(client *redis.Client, upstream ports.RouteStore, ttl time.Duration) *CachedRouteStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRouteStore{client: client, upstream: upstream, ttl: ttl}
}

func (c *CachedRouteStore) FindRoute(ctx context.Context, workspace string) (*domain.WorkspaceRoute, error) {
	key := routeKeyPrefix + workspace

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if string(raw) == routeMiss {
			return nil, domain.ErrRouteNotFound
		}
		var route domain.WorkspaceRoute
		if json.Unmarshal(raw, &route) == nil && route.Route != "" {
			return &route, nil
		}
		_ = c.client.Del(ctx, key).Err()
	}

	route, err := c.upstream.FindRoute(ctx, workspace)
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			_ = c.client.Set(ctx, key, routeMiss, c.ttl).Err()
		}
		return nil, err
	}

	if payload, merr := json.Marshal(route); merr == nil {
		_ = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	return route, nil
}
