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

type PostgresCRMPushesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for summary_crm_pushes table
var crmPushesColumns = []string{
	"id",
	"summary_id",
	"user_id",
	"crm_type",
	"status",
	"crm_record_id",
	"error_log",
	"created_at",
}

func NewPostgresCRMPushesRepository(db *sqlx.DB, schema string) *PostgresCRMPushesRepository {
	return &PostgresCRMPushesRepository{db: db, schema: schema}
}

func (r *PostgresCRMPushesRepository) CreateCRMPush(ctx context.Context, push *models.CRMPush) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "summary_id", "user_id", "crm_type", "status", "crm_record_id", "error_log",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(crmPushesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.summary_crm_pushes (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		push.ID,
		push.SummaryID,
		push.UserID,
		push.CRMType,
		push.Status,
		push.CRMRecordID,
		push.ErrorLog,
	).StructScan(push)
	if err != nil {
		return fmt.Errorf("failed to create crm push record: %w", err)
	}

	return nil
}

func (r *PostgresCRMPushesRepository) ListRecentCRMPushes(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.CRMPush, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(crmPushesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.summary_crm_pushes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, columnsStr, r.schema)

	var pushes []*models.CRMPush
	err := db.SelectContext(ctx, &pushes, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent crm pushes: %w", err)
	}

	return pushes, nil
}

func (r *PostgresCRMPushesRepository) ListCRMPushesBySummaryID(
	ctx context.Context,
	summaryID, userID string,
) ([]*models.CRMPush, error) {
	if !core.IsValidID(summaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(crmPushesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.summary_crm_pushes
		WHERE summary_id = $1 AND user_id = $2
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var pushes []*models.CRMPush
	err := db.SelectContext(ctx, &pushes, query, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list crm pushes for summary: %w", err)
	}

	return pushes, nil
}

func (r *PostgresCRMPushesRepository) GetCRMPushStatistics(
	ctx context.Context,
	userID string,
) (*models.CRMPushStatistics, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'success') AS succeeded,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed
		FROM %s.summary_crm_pushes
		WHERE user_id = $1`, r.schema)

	var stats models.CRMPushStatistics
	if err := db.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get crm push statistics: %w", err)
	}

	return &stats, nil
}
