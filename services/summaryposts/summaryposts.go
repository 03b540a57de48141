package summaryposts

import (
	"context"
	"fmt"
	"log"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type SummaryPostsService struct {
	summaryPostsRepo *db.PostgresSummaryPostsRepository
}

func NewSummaryPostsService(repo *db.PostgresSummaryPostsRepository) *SummaryPostsService {
	return &SummaryPostsService{summaryPostsRepo: repo}
}

func (s *SummaryPostsService) RecordPostAttempt(
	ctx context.Context,
	post *models.SummaryPost,
) (*models.SummaryPost, error) {
	log.Printf("📋 Starting to record Slack post attempt for summary: %s", post.SummaryID)

	if !core.IsValidID(post.SummaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(post.UserID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if post.SlackChannelID == "" {
		return nil, fmt.Errorf("slack channel ID cannot be empty")
	}
	if post.Status != models.SummaryPostStatusPosted && post.Status != models.SummaryPostStatusFailed {
		return nil, fmt.Errorf("unsupported post status: %s", post.Status)
	}

	if post.ID == "" {
		post.ID = core.NewID("sp")
	}
	if err := s.summaryPostsRepo.CreateSummaryPost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create summary post in database: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded post %s with status: %s", post.ID, post.Status)
	return post, nil
}

func (s *SummaryPostsService) GetFailedPostsBelowRetryLimit(
	ctx context.Context,
	maxRetries, limit int,
) ([]*models.SummaryPost, error) {
	log.Printf("📋 Starting to get failed posts below %d retries (limit %d)", maxRetries, limit)

	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	posts, err := s.summaryPostsRepo.GetFailedPostsBelowRetryLimit(ctx, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed summary posts: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d retryable posts", len(posts))
	return posts, nil
}

func (s *SummaryPostsService) UpdatePostOutcome(
	ctx context.Context,
	postID string,
	status models.SummaryPostStatus,
	messageTS, errorLog *string,
	retryCount int,
) error {
	log.Printf("📋 Starting to update post outcome for: %s to status: %s", postID, status)

	if !core.IsValidID(postID) {
		return fmt.Errorf("post ID must be a valid prefixed ULID")
	}
	if status != models.SummaryPostStatusPosted && status != models.SummaryPostStatusFailed {
		return fmt.Errorf("unsupported post status: %s", status)
	}

	if err := s.summaryPostsRepo.UpdatePostOutcome(ctx, postID, status, messageTS, errorLog, retryCount); err != nil {
		if core.IsNotFoundError(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to update summary post outcome: %w", err)
	}

	log.Printf("📋 Completed successfully - updated post: %s", postID)
	return nil
}

func (s *SummaryPostsService) ListPostsBySummaryID(
	ctx context.Context,
	summaryID, userID string,
) ([]*models.SummaryPost, error) {
	log.Printf("📋 Starting to list posts for summary: %s", summaryID)

	if !core.IsValidID(summaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	posts, err := s.summaryPostsRepo.ListPostsBySummaryID(ctx, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary posts: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d posts for summary: %s", len(posts), summaryID)
	return posts, nil
}
