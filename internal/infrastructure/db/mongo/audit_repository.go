package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartfdx/authgate/internal/core/domain"
)

const attemptsCollection = "login_attempts"

// AuditRepository persists login-attempt records for audit queries.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(attemptsCollection)}
}

type attemptDoc struct {
	Account   string `bson:"account"`
	IPAddress string `bson:"ip_address"`
	UserAgent string `bson:"user_agent,omitempty"`
	Success   bool   `bson:"success"`
	Reason    string `bson:"reason,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) Record(ctx context.Context, attempt domain.LoginAttempt) error {
	ts := attempt.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	doc := attemptDoc{
		Account:   attempt.Account,
		IPAddress: attempt.IPAddress,
		UserAgent: attempt.UserAgent,
		Success:   attempt.Success,
		Reason:    attempt.Reason,
		Timestamp: ts.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}
	return nil
}
