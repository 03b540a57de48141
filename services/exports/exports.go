package exports

import (
	"context"
	"fmt"
	"log"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type ExportsService struct {
	exportsRepo *db.PostgresExportsRepository
}

func NewExportsService(repo *db.PostgresExportsRepository) *ExportsService {
	return &ExportsService{exportsRepo: repo}
}

func (s *ExportsService) RecordExport(ctx context.Context, export *models.Export) (*models.Export, error) {
	log.Printf("📋 Starting to record %s export for summary: %s", export.ExportType, export.SummaryID)

	if !core.IsValidID(export.UserID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(export.SummaryID) {
		return nil, fmt.Errorf("summary ID must be a valid prefixed ULID")
	}
	if !export.ExportType.IsValid() {
		return nil, fmt.Errorf("unsupported export type: %s", export.ExportType)
	}

	if export.ID == "" {
		export.ID = core.NewID("exp")
	}
	if err := s.exportsRepo.CreateExport(ctx, export); err != nil {
		return nil, fmt.Errorf("failed to create export in database: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded export %s with status: %s", export.ID, export.ExportStatus)
	return export, nil
}

func (s *ExportsService) CountExportsByUserID(ctx context.Context, userID string) (int, error) {
	log.Printf("📋 Starting to count exports for user: %s", userID)

	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	count, err := s.exportsRepo.CountExportsByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}

	log.Printf("📋 Completed successfully - user %s has %d exports", userID, count)
	return count, nil
}
