package export

import (
	"context"
	"fmt"
	"log"

	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
)

// ExportUseCase renders a stored summary into a downloadable document
type ExportUseCase struct {
	summariesService     services.SummariesService
	exportsService       services.ExportsService
	notificationsService services.NotificationsService
}

// NewExportUseCase creates a new instance of ExportUseCase
func NewExportUseCase(
	summariesService services.SummariesService,
	exportsService services.ExportsService,
	notificationsService services.NotificationsService,
) *ExportUseCase {
	return &ExportUseCase{
		summariesService:     summariesService,
		exportsService:       exportsService,
		notificationsService: notificationsService,
	}
}

// Export renders the summary in the requested format. Every attempt leaves an
// exports row; a failure to log the failed attempt is wrapped alongside the
// primary error rather than replacing it.
func (u *ExportUseCase) Export(
	ctx context.Context,
	summaryID, userID string,
	format models.ExportType,
) (*models.ExportArtifact, error) {
	log.Printf("📋 Starting to export summary %s as %s for user: %s", summaryID, format, userID)

	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}

	maybeSummary, err := u.summariesService.GetSummaryByID(ctx, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	summary, ok := maybeSummary.Get()
	if !ok {
		return nil, fmt.Errorf("%w: summary %s", core.ErrNotFound, summaryID)
	}

	artifact, renderErr := u.render(summary, format)
	if renderErr != nil {
		return nil, u.recordFailure(ctx, summary, userID, format, renderErr)
	}

	if err := u.recordSuccess(ctx, summary, userID, format); err != nil {
		log.Printf("⚠️ Failed to record export of summary %s: %v", summaryID, err)
	}

	log.Printf("📋 Completed successfully - exported summary %s as %s (%d bytes)",
		summaryID, format, len(artifact.Data))
	return artifact, nil
}

func (u *ExportUseCase) render(summary *models.Summary, format models.ExportType) (*models.ExportArtifact, error) {
	switch format {
	case models.ExportTypeExcel:
		return renderExcel(summary)
	case models.ExportTypeNotion:
		return renderNotionMarkdown(summary)
	case models.ExportTypePDF:
		return renderPDF(summary)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func (u *ExportUseCase) recordSuccess(
	ctx context.Context,
	summary *models.Summary,
	userID string,
	format models.ExportType,
) error {
	export := &models.Export{
		UserID:       userID,
		SummaryID:    summary.ID,
		ExportType:   format,
		ExportStatus: models.ExportStatusCompleted,
	}
	if _, err := u.exportsService.RecordExport(ctx, export); err != nil {
		return err
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeExportCompleted,
		Title:   "Export ready",
		Message: fmt.Sprintf("Your %s export of %q is ready", format, summary.Title),
		Data: models.NotificationData{
			"summary_id":  summary.ID,
			"export_type": string(format),
		},
	}
	if _, err := u.notificationsService.CreateNotification(ctx, notification); err != nil {
		log.Printf("⚠️ Failed to create export notification for summary %s: %v", summary.ID, err)
	}
	return nil
}

func (u *ExportUseCase) recordFailure(
	ctx context.Context,
	summary *models.Summary,
	userID string,
	format models.ExportType,
	renderErr error,
) error {
	errorMessage := renderErr.Error()
	export := &models.Export{
		UserID:       userID,
		SummaryID:    summary.ID,
		ExportType:   format,
		ExportStatus: models.ExportStatusFailed,
		ErrorMessage: &errorMessage,
	}
	if _, logErr := u.exportsService.RecordExport(ctx, export); logErr != nil {
		return fmt.Errorf("export failed: %w (also failed to log attempt: %v)", renderErr, logErr)
	}
	return fmt.Errorf("export failed: %w", renderErr)
}
