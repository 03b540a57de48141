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

type PostgresSummaryPostsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for summary_posts table
var summaryPostsColumns = []string{
	"id",
	"summary_id",
	"user_id",
	"slack_channel_id",
	"slack_message_ts",
	"status",
	"error_log",
	"retry_count",
	"posted_at",
	"created_at",
	"updated_at",
}

func NewPostgresSummaryPostsRepository(db *sqlx.DB, schema string) *PostgresSummaryPostsRepository {
	return &PostgresSummaryPostsRepository{db: db, schema: schema}
}

func (r *PostgresSummaryPostsRepository) CreateSummaryPost(ctx context.Context, post *models.SummaryPost) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "summary_id", "user_id", "slack_channel_id",
		"slack_message_ts", "status", "error_log", "retry_count", "posted_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(summaryPostsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.summary_posts (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		post.ID,
		post.SummaryID,
		post.UserID,
		post.SlackChannelID,
		post.SlackMessageTS,
		post.Status,
		post.ErrorLog,
		post.RetryCount,
		post.PostedAt,
	).StructScan(post)
	if err != nil {
		return fmt.Errorf("failed to create summary post: %w", err)
	}

	return nil
}

// GetFailedPostsBelowRetryLimit returns failed posts still eligible for the
// manual retry sweep, oldest first, bounded by limit
func (r *PostgresSummaryPostsRepository) GetFailedPostsBelowRetryLimit(
	ctx context.Context,
	maxRetries, limit int,
) ([]*models.SummaryPost, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(summaryPostsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.summary_posts
		WHERE status = $1 AND retry_count < $2
		ORDER BY created_at ASC
		LIMIT $3`, columnsStr, r.schema)

	var posts []*models.SummaryPost
	err := db.SelectContext(ctx, &posts, query, models.SummaryPostStatusFailed, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed summary posts: %w", err)
	}

	return posts, nil
}

// UpdatePostOutcome records the result of a retry attempt in place
func (r *PostgresSummaryPostsRepository) UpdatePostOutcome(
	ctx context.Context,
	postID string,
	status models.SummaryPostStatus,
	messageTS *string,
	errorLog *string,
	retryCount int,
) error {
	if !core.IsValidID(postID) {
		return fmt.Errorf("post ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.summary_posts
		SET status = $1,
			slack_message_ts = $2,
			error_log = $3,
			retry_count = $4,
			posted_at = CASE WHEN $1 = 'posted' THEN NOW() ELSE posted_at END,
			updated_at = NOW()
		WHERE id = $5`, r.schema)

	result, err := db.ExecContext(ctx, query, status, messageTS, errorLog, retryCount, postID)
	if err != nil {
		return fmt.Errorf("failed to update summary post outcome: %w", err)
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

func (r *PostgresSummaryPostsRepository) ListPostsBySummaryID(
	ctx context.Context,
	summaryID, userID string,
) ([]*models.SummaryPost, error) {
	if !core.IsValidID(summaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(summaryPostsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.summary_posts
		WHERE summary_id = $1 AND user_id = $2
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var posts []*models.SummaryPost
	err := db.SelectContext(ctx, &posts, query, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary posts: %w", err)
	}

	return posts, nil
}
