package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"scribebackend/core"
	dbtx "scribebackend/db/tx"
	"scribebackend/models"
)

type PostgresSettingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for user_settings table
var settingsColumns = []string{
	"id",
	"user_id",
	"key",
	"value_boolean",
	"value_string",
	"value_stringarr",
	"created_at",
	"updated_at",
}

func NewPostgresSettingsRepository(db *sqlx.DB, schema string) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db, schema: schema}
}

func (r *PostgresSettingsRepository) UpsertBooleanSetting(
	ctx context.Context,
	userID, key string,
	value bool,
) (*models.Setting, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	id := core.NewID("set")
	returningStr := strings.Join(settingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.user_settings (
			id, user_id, key, value_boolean
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, key)
		DO UPDATE SET
			value_boolean = EXCLUDED.value_boolean,
			value_string = NULL,
			value_stringarr = NULL,
			updated_at = NOW()
		RETURNING %s
	`, r.schema, returningStr)

	var setting models.Setting
	err := db.QueryRowxContext(ctx, query, id, userID, key, value).StructScan(&setting)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert boolean setting: %w", err)
	}

	return &setting, nil
}

func (r *PostgresSettingsRepository) UpsertStringArrSetting(
	ctx context.Context,
	userID, key string,
	value []string,
) (*models.Setting, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	id := core.NewID("set")
	returningStr := strings.Join(settingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.user_settings (
			id, user_id, key, value_stringarr
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, key)
		DO UPDATE SET
			value_stringarr = EXCLUDED.value_stringarr,
			value_boolean = NULL,
			value_string = NULL,
			updated_at = NOW()
		RETURNING %s
	`, r.schema, returningStr)

	var setting models.Setting
	err := db.QueryRowxContext(ctx, query, id, userID, key, pq.StringArray(value)).StructScan(&setting)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert string array setting: %w", err)
	}

	return &setting, nil
}

// GetSetting returns nil without error when the setting row does not exist
func (r *PostgresSettingsRepository) GetSetting(
	ctx context.Context,
	userID, key string,
) (*models.Setting, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(settingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.user_settings
		WHERE user_id = $1 AND key = $2`, columnsStr, r.schema)

	var setting models.Setting
	err := db.GetContext(ctx, &setting, query, userID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return &setting, nil
}

func (r *PostgresSettingsRepository) ListSettingsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.Setting, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(settingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.user_settings
		WHERE user_id = $1
		ORDER BY key`, columnsStr, r.schema)

	var settings []*models.Setting
	err := db.SelectContext(ctx, &settings, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	return settings, nil
}
