package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"scribebackend/core"
	dbtx "scribebackend/db/tx"
	"scribebackend/models"
)

type PostgresNotificationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for notifications table
var notificationsColumns = []string{
	"id",
	"user_id",
	"organization_id",
	"type",
	"title",
	"message",
	"data",
	"read_at",
	"created_at",
}

func NewPostgresNotificationsRepository(db *sqlx.DB, schema string) *PostgresNotificationsRepository {
	return &PostgresNotificationsRepository{db: db, schema: schema}
}

func (r *PostgresNotificationsRepository) CreateNotification(
	ctx context.Context,
	notification *models.Notification,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "user_id", "organization_id", "type", "title", "message", "data",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(notificationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.notifications (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		notification.ID,
		notification.UserID,
		notification.OrganizationID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.Data,
	).StructScan(notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *PostgresNotificationsRepository) ListNotificationsByUserID(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Notification, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(notificationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, columnsStr, r.schema)

	var notifications []*models.Notification
	err := db.SelectContext(ctx, &notifications, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *PostgresNotificationsRepository) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s.notifications WHERE user_id = $1 AND read_at IS NULL`,
		r.schema,
	)

	var count int
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

func (r *PostgresNotificationsRepository) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	if !core.IsValidID(notificationID) {
		return fmt.Errorf("notification ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.notifications
		SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL`, r.schema)

	result, err := db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return core.ErrNotFound
	}

	return nil
}
