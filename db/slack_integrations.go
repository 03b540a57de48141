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

type PostgresSlackIntegrationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for slack_integrations table
var slackIntegrationsColumns = []string{
	"id",
	"user_id",
	"organization_id",
	"slack_team_id",
	"slack_team_name",
	"access_token",
	"authed_user_id",
	"is_active",
	"created_at",
	"updated_at",
}

func NewPostgresSlackIntegrationsRepository(db *sqlx.DB, schema string) *PostgresSlackIntegrationsRepository {
	return &PostgresSlackIntegrationsRepository{db: db, schema: schema}
}

func (r *PostgresSlackIntegrationsRepository) CreateSlackIntegration(
	ctx context.Context,
	integration *models.SlackIntegration,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "user_id", "organization_id", "slack_team_id",
		"slack_team_name", "access_token", "authed_user_id", "is_active",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(slackIntegrationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.slack_integrations (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		integration.ID,
		integration.UserID,
		integration.OrganizationID,
		integration.SlackTeamID,
		integration.SlackTeamName,
		integration.AccessToken,
		integration.AuthedUserID,
		integration.IsActive,
	).StructScan(integration)
	if err != nil {
		return fmt.Errorf("failed to create slack integration: %w", err)
	}

	return nil
}

// GetActiveSlackIntegration returns the active integration for a user, scoped
// to an organization when one is given
func (r *PostgresSlackIntegrationsRepository) GetActiveSlackIntegration(
	ctx context.Context,
	userID string,
	organizationID *string,
) (*models.SlackIntegration, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackIntegrationsColumns, ", ")

	var integration models.SlackIntegration
	var err error
	if organizationID != nil {
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s.slack_integrations
			WHERE user_id = $1 AND organization_id = $2 AND is_active = TRUE
			ORDER BY updated_at DESC
			LIMIT 1`, columnsStr, r.schema)
		err = db.GetContext(ctx, &integration, query, userID, *organizationID)
	} else {
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s.slack_integrations
			WHERE user_id = $1 AND is_active = TRUE
			ORDER BY updated_at DESC
			LIMIT 1`, columnsStr, r.schema)
		err = db.GetContext(ctx, &integration, query, userID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active slack integration: %w", err)
	}

	return &integration, nil
}

func (r *PostgresSlackIntegrationsRepository) GetSlackIntegrationsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SlackIntegration, error) {
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackIntegrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_integrations
		WHERE user_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var integrations []*models.SlackIntegration
	err := db.SelectContext(ctx, &integrations, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slack integrations by user ID: %w", err)
	}

	return integrations, nil
}

func (r *PostgresSlackIntegrationsRepository) GetSlackIntegrationByTeamID(
	ctx context.Context,
	teamID string,
) (*models.SlackIntegration, error) {
	if teamID == "" {
		return nil, fmt.Errorf("team ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackIntegrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_integrations
		WHERE slack_team_id = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1`, columnsStr, r.schema)

	var integration models.SlackIntegration
	err := db.GetContext(ctx, &integration, query, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slack integration by team ID: %w", err)
	}

	return &integration, nil
}

func (r *PostgresSlackIntegrationsRepository) DeactivateSlackIntegration(
	ctx context.Context,
	integrationID, userID string,
) error {
	if !core.IsValidID(integrationID) {
		return fmt.Errorf("integration ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.slack_integrations
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, integrationID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate slack integration: %w", err)
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
