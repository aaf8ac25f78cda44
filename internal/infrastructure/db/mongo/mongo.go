// Package mongo connects the gateway to the MongoDB instance holding
// its login-attempt audit trail. The credential data itself lives in
// the external store; this database only receives what the audit
// dispatcher writes.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Config holds the connection settings for the audit database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect dials the audit database and verifies connectivity with a
// ping before handing the database back. The client is returned too so
// the caller owns the disconnect and the readiness probe can re-ping.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("audit db connect: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("audit db ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
