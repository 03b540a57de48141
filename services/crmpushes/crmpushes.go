package crmpushes

import (
	"context"
	"fmt"
	"log"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type CRMPushesService struct {
	crmPushesRepo *db.PostgresCRMPushesRepository
}

func NewCRMPushesService(repo *db.PostgresCRMPushesRepository) *CRMPushesService {
	return &CRMPushesService{crmPushesRepo: repo}
}

func (s *CRMPushesService) RecordCRMPush(ctx context.Context, push *models.CRMPush) (*models.CRMPush, error) {
	log.Printf("📋 Starting to record CRM push for summary: %s to %s", push.SummaryID, push.CRMType)

	if !core.IsValidID(push.SummaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(push.UserID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if !models.SupportedCRMTypes[push.CRMType] {
		return nil, fmt.Errorf("unsupported CRM type: %s", push.CRMType)
	}

	if push.ID == "" {
		push.ID = core.NewID("crm")
	}
	if err := s.crmPushesRepo.CreateCRMPush(ctx, push); err != nil {
		return nil, fmt.Errorf("failed to create CRM push in database: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded CRM push %s with status: %s", push.ID, push.Status)
	return push, nil
}

func (s *CRMPushesService) ListRecentCRMPushes(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.CRMPush, error) {
	log.Printf("📋 Starting to list recent CRM pushes for user: %s (limit %d)", userID, limit)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if limit <= 0 {
		limit = 20
	}

	pushes, err := s.crmPushesRepo.ListRecentCRMPushes(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent CRM pushes: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d CRM pushes for user: %s", len(pushes), userID)
	return pushes, nil
}

func (s *CRMPushesService) ListCRMPushesBySummaryID(
	ctx context.Context,
	summaryID, userID string,
) ([]*models.CRMPush, error) {
	log.Printf("📋 Starting to list CRM pushes for summary: %s", summaryID)

	if !core.IsValidID(summaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	pushes, err := s.crmPushesRepo.ListCRMPushesBySummaryID(ctx, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list CRM pushes for summary: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d CRM pushes for summary: %s", len(pushes), summaryID)
	return pushes, nil
}

func (s *CRMPushesService) GetCRMPushStatistics(
	ctx context.Context,
	userID string,
) (*models.CRMPushStatistics, error) {
	log.Printf("📋 Starting to get CRM push statistics for user: %s", userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	stats, err := s.crmPushesRepo.GetCRMPushStatistics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get CRM push statistics: %w", err)
	}

	log.Printf("📋 Completed successfully - user %s has %d CRM pushes", userID, stats.Total)
	return stats, nil
}
