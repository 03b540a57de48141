package shares

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type SharesService struct {
	sharedSummariesRepo *db.PostgresSharedSummariesRepository
}

func NewSharesService(repo *db.PostgresSharedSummariesRepository) *SharesService {
	return &SharesService{sharedSummariesRepo: repo}
}

func (s *SharesService) CreateSharedSummary(
	ctx context.Context,
	share *models.SharedSummary,
) (*models.SharedSummary, error) {
	log.Printf("📋 Starting to create share for summary: %s", share.SummaryID)

	if !core.IsValidID(share.SummaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(share.UserID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if share.ShareToken == "" {
		return nil, fmt.Errorf("share token cannot be empty")
	}
	if share.MaxViews <= 0 {
		return nil, core.NewValidationError("max views must be positive")
	}

	if share.ID == "" {
		share.ID = core.NewID("shr")
	}
	if err := s.sharedSummariesRepo.CreateSharedSummary(ctx, share); err != nil {
		return nil, fmt.Errorf("failed to create shared summary in database: %w", err)
	}

	log.Printf("📋 Completed successfully - created share with ID: %s", share.ID)
	return share, nil
}

func (s *SharesService) GetShareByToken(
	ctx context.Context,
	token string,
	forUpdate bool,
) (mo.Option[*models.SharedSummary], error) {
	log.Printf("📋 Starting to get share by token")

	if token == "" {
		return mo.None[*models.SharedSummary](), fmt.Errorf("share token cannot be empty")
	}

	share, err := s.sharedSummariesRepo.GetSharedSummaryByToken(ctx, token, forUpdate)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("📋 Completed successfully - share not found for token")
			return mo.None[*models.SharedSummary](), nil
		}
		return mo.None[*models.SharedSummary](), fmt.Errorf("failed to get share by token: %w", err)
	}

	log.Printf("📋 Completed successfully - found share: %s", share.ID)
	return mo.Some(share), nil
}

func (s *SharesService) ApplyViewAccounting(ctx context.Context, share *models.SharedSummary) error {
	log.Printf("📋 Starting to apply view accounting for share: %s", share.ID)

	if !core.IsValidID(share.ID) {
		return fmt.Errorf("share ID must be a valid prefixed ULID")
	}

	if err := s.sharedSummariesRepo.ApplyViewAccounting(ctx, share); err != nil {
		return fmt.Errorf("failed to apply view accounting: %w", err)
	}

	log.Printf("📋 Completed successfully - share %s now has %d views", share.ID, share.ViewCount)
	return nil
}

func (s *SharesService) IncrementConversionCount(ctx context.Context, shareID string) error {
	log.Printf("📋 Starting to increment conversion count for share: %s", shareID)

	if !core.IsValidID(shareID) {
		return fmt.Errorf("share ID must be a valid prefixed ULID")
	}

	if err := s.sharedSummariesRepo.IncrementConversionCount(ctx, shareID); err != nil {
		if core.IsNotFoundError(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to increment conversion count: %w", err)
	}

	log.Printf("📋 Completed successfully - incremented conversions for share: %s", shareID)
	return nil
}

func (s *SharesService) DeactivateShare(ctx context.Context, shareID, userID string) error {
	log.Printf("📋 Starting to deactivate share: %s", shareID)

	if !core.IsValidID(shareID) {
		return fmt.Errorf("share ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	if err := s.sharedSummariesRepo.DeactivateSharedSummary(ctx, shareID, userID); err != nil {
		if core.IsNotFoundError(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to deactivate share: %w", err)
	}

	log.Printf("📋 Completed successfully - deactivated share: %s", shareID)
	return nil
}

func (s *SharesService) CountActiveShares(ctx context.Context, userID string) (int, error) {
	log.Printf("📋 Starting to count active shares for user: %s", userID)

	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	count, err := s.sharedSummariesRepo.CountActiveSharesByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count active shares: %w", err)
	}

	log.Printf("📋 Completed successfully - user %s has %d active shares", userID, count)
	return count, nil
}

func (s *SharesService) ListSharesByUserID(ctx context.Context, userID string) ([]*models.SharedSummary, error) {
	log.Printf("📋 Starting to list shares for user: %s", userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	shares, err := s.sharedSummariesRepo.ListSharesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d shares for user: %s", len(shares), userID)
	return shares, nil
}
