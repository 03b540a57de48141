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

type PostgresExportsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for exports table
var exportsColumns = []string{
	"id",
	"user_id",
	"summary_id",
	"export_type",
	"export_status",
	"error_message",
	"created_at",
}

func NewPostgresExportsRepository(db *sqlx.DB, schema string) *PostgresExportsRepository {
	return &PostgresExportsRepository{db: db, schema: schema}
}

func (r *PostgresExportsRepository) CreateExport(ctx context.Context, export *models.Export) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "user_id", "summary_id", "export_type", "export_status", "error_message",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(exportsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.exports (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		export.ID,
		export.UserID,
		export.SummaryID,
		export.ExportType,
		export.ExportStatus,
		export.ErrorMessage,
	).StructScan(export)
	if err != nil {
		return fmt.Errorf("failed to create export record: %w", err)
	}

	return nil
}

func (r *PostgresExportsRepository) CountExportsByUserID(ctx context.Context, userID string) (int, error) {
	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.exports WHERE user_id = $1`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}

	return count, nil
}
