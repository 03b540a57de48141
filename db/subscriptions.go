package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"scribebackend/core"
	dbtx "scribebackend/db/tx"
	"scribebackend/models"
)

type PostgresSubscriptionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for subscriptions table
var subscriptionsColumns = []string{
	"id",
	"user_id",
	"plan",
	"status",
	"amount",
	"currency",
	"current_period_end",
	"created_at",
	"updated_at",
}

func NewPostgresSubscriptionsRepository(db *sqlx.DB, schema string) *PostgresSubscriptionsRepository {
	return &PostgresSubscriptionsRepository{db: db, schema: schema}
}

// GetSubscriptionByUserID returns the user's current subscription row.
// Billing webhooks own writes to this table; this service only reads it.
func (r *PostgresSubscriptionsRepository) GetSubscriptionByUserID(
	ctx context.Context,
	userID string,
) (*models.Subscription, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(subscriptionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.subscriptions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`, columnsStr, r.schema)

	var subscription models.Subscription
	err := db.GetContext(ctx, &subscription, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription by user ID: %w", err)
	}

	return &subscription, nil
}
