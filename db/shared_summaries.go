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

type PostgresSharedSummariesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for shared_summaries table
var sharedSummariesColumns = []string{
	"id",
	"summary_id",
	"user_id",
	"user_plan",
	"share_token",
	"view_count",
	"max_views",
	"expires_at",
	"is_active",
	"password_hash",
	"branding",
	"analytics",
	"last_viewed_at",
	"conversion_count",
	"created_at",
	"updated_at",
}

func NewPostgresSharedSummariesRepository(db *sqlx.DB, schema string) *PostgresSharedSummariesRepository {
	return &PostgresSharedSummariesRepository{db: db, schema: schema}
}

func (r *PostgresSharedSummariesRepository) CreateSharedSummary(
	ctx context.Context,
	share *models.SharedSummary,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "summary_id", "user_id", "user_plan", "share_token",
		"view_count", "max_views", "expires_at", "is_active",
		"password_hash", "branding", "analytics", "conversion_count",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(sharedSummariesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.shared_summaries (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		share.ID,
		share.SummaryID,
		share.UserID,
		share.UserPlan,
		share.ShareToken,
		share.ViewCount,
		share.MaxViews,
		share.ExpiresAt,
		share.IsActive,
		share.PasswordHash,
		share.Branding,
		share.Analytics,
		share.ConversionCount,
	).StructScan(share)
	if err != nil {
		return fmt.Errorf("failed to create shared summary: %w", err)
	}

	return nil
}

// GetSharedSummaryByToken resolves a public share by its opaque token.
// When forUpdate is set the row is locked for the view-accounting transaction.
func (r *PostgresSharedSummariesRepository) GetSharedSummaryByToken(
	ctx context.Context,
	token string,
	forUpdate bool,
) (*models.SharedSummary, error) {
	if token == "" {
		return nil, fmt.Errorf("share token cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(sharedSummariesColumns, ", ")
	forUpdateClause := ""
	if forUpdate {
		forUpdateClause = " FOR UPDATE"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.shared_summaries
		WHERE share_token = $1%s`, columnsStr, r.schema, forUpdateClause)

	var share models.SharedSummary
	err := db.GetContext(ctx, &share, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shared summary by token: %w", err)
	}

	return &share, nil
}

// ApplyViewAccounting persists the view counter, analytics block, and
// last_viewed_at as a single update
func (r *PostgresSharedSummariesRepository) ApplyViewAccounting(
	ctx context.Context,
	share *models.SharedSummary,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.shared_summaries
		SET view_count = $1,
			analytics = $2,
			last_viewed_at = NOW(),
			updated_at = NOW()
		WHERE id = $3`, r.schema)

	result, err := db.ExecContext(ctx, query, share.ViewCount, share.Analytics, share.ID)
	if err != nil {
		return fmt.Errorf("failed to apply view accounting: %w", err)
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

func (r *PostgresSharedSummariesRepository) IncrementConversionCount(ctx context.Context, shareID string) error {
	if !core.IsValidID(shareID) {
		return fmt.Errorf("share ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.shared_summaries
		SET conversion_count = conversion_count + 1, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, shareID)
	if err != nil {
		return fmt.Errorf("failed to increment conversion count: %w", err)
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

func (r *PostgresSharedSummariesRepository) DeactivateSharedSummary(
	ctx context.Context,
	shareID, userID string,
) error {
	if !core.IsValidID(shareID) {
		return fmt.Errorf("share ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.shared_summaries
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, shareID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate shared summary: %w", err)
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

// CountActiveSharesByUserID counts shares still servable for plan-cap checks
func (r *PostgresSharedSummariesRepository) CountActiveSharesByUserID(
	ctx context.Context,
	userID string,
) (int, error) {
	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s.shared_summaries
		WHERE user_id = $1
		  AND is_active = TRUE
		  AND expires_at > NOW()
		  AND view_count < max_views`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count active shares: %w", err)
	}

	return count, nil
}

func (r *PostgresSharedSummariesRepository) ListSharesByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SharedSummary, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(sharedSummariesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.shared_summaries
		WHERE user_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var shares []*models.SharedSummary
	err := db.SelectContext(ctx, &shares, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by user ID: %w", err)
	}

	return shares, nil
}
