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

type PostgresSummariesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for summaries table
var summariesColumns = []string{
	"id",
	"user_id",
	"organization_id",
	"title",
	"content",
	"source_type",
	"slack_channel",
	"file_name",
	"ai_model",
	"metadata",
	"created_at",
}

func NewPostgresSummariesRepository(db *sqlx.DB, schema string) *PostgresSummariesRepository {
	return &PostgresSummariesRepository{db: db, schema: schema}
}

func (r *PostgresSummariesRepository) CreateSummary(ctx context.Context, summary *models.Summary) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "user_id", "organization_id", "title", "content",
		"source_type", "slack_channel", "file_name", "ai_model", "metadata",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(summariesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.summaries (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		summary.ID,
		summary.UserID,
		summary.OrganizationID,
		summary.Title,
		summary.Content,
		summary.SourceType,
		summary.SlackChannel,
		summary.FileName,
		summary.AIModel,
		summary.Metadata,
	).StructScan(summary)
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}

	return nil
}

// GetSummaryByID filters by owner as well as id; an id alone is never trusted
func (r *PostgresSummariesRepository) GetSummaryByID(
	ctx context.Context,
	id, userID string,
) (*models.Summary, error) {
	if !core.IsValidID(id) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(summariesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.summaries
		WHERE id = $1 AND user_id = $2`, columnsStr, r.schema)

	var summary models.Summary
	err := db.GetContext(ctx, &summary, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get summary by ID: %w", err)
	}

	return &summary, nil
}

func (r *PostgresSummariesRepository) ListRecentSummaries(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Summary, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(summariesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.summaries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, columnsStr, r.schema)

	var summaries []*models.Summary
	err := db.SelectContext(ctx, &summaries, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent summaries: %w", err)
	}

	return summaries, nil
}

func (r *PostgresSummariesRepository) CountSummariesByUserID(ctx context.Context, userID string) (int, error) {
	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.summaries WHERE user_id = $1`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}

	return count, nil
}
