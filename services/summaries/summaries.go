package summaries

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type SummariesService struct {
	summariesRepo *db.PostgresSummariesRepository
}

func NewSummariesService(repo *db.PostgresSummariesRepository) *SummariesService {
	return &SummariesService{summariesRepo: repo}
}

func (s *SummariesService) CreateSummary(ctx context.Context, summary *models.Summary) (*models.Summary, error) {
	log.Printf("📋 Starting to create summary for user: %s", summary.UserID)

	if !core.IsValidID(summary.UserID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if summary.Title == "" {
		return nil, core.NewValidationError("summary title cannot be empty")
	}
	if summary.Content == "" {
		return nil, core.NewValidationError("summary content cannot be empty")
	}
	if !summary.SourceType.IsValid() {
		return nil, core.NewValidationError("unsupported source type: %s", summary.SourceType)
	}

	if summary.ID == "" {
		summary.ID = core.NewID("sum")
	}
	if err := s.summariesRepo.CreateSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to create summary in database: %w", err)
	}

	log.Printf("📋 Completed successfully - created summary with ID: %s", summary.ID)
	return summary, nil
}

func (s *SummariesService) GetSummaryByID(
	ctx context.Context,
	id, userID string,
) (mo.Option[*models.Summary], error) {
	log.Printf("📋 Starting to get summary: %s for user: %s", id, userID)

	if !core.IsValidID(id) {
		return mo.None[*models.Summary](), fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return mo.None[*models.Summary](), fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	summary, err := s.summariesRepo.GetSummaryByID(ctx, id, userID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("📋 Completed successfully - summary not found: %s", id)
			return mo.None[*models.Summary](), nil
		}
		return mo.None[*models.Summary](), fmt.Errorf("failed to get summary: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved summary: %s", summary.ID)
	return mo.Some(summary), nil
}

func (s *SummariesService) ListRecentSummaries(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Summary, error) {
	log.Printf("📋 Starting to list recent summaries for user: %s (limit %d)", userID, limit)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if limit <= 0 {
		limit = 20
	}

	summaries, err := s.summariesRepo.ListRecentSummaries(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent summaries: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d summaries for user: %s", len(summaries), userID)
	return summaries, nil
}

func (s *SummariesService) CountSummariesByUserID(ctx context.Context, userID string) (int, error) {
	log.Printf("📋 Starting to count summaries for user: %s", userID)

	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	count, err := s.summariesRepo.CountSummariesByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}

	log.Printf("📋 Completed successfully - user %s has %d summaries", userID, count)
	return count, nil
}
