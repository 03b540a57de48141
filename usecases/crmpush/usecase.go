package crmpush

import (
	"context"
	"fmt"
	"log"

	"scribebackend/clients"
	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
)

// CRMPushUseCase fans one summary out to any number of configured CRMs
type CRMPushUseCase struct {
	summariesService services.SummariesService
	crmPushesService services.CRMPushesService
	crmClients       map[models.CRMType]clients.CRMClient
}

// NewCRMPushUseCase creates a new instance of CRMPushUseCase. The client map
// holds only CRMs that are actually configured.
func NewCRMPushUseCase(
	summariesService services.SummariesService,
	crmPushesService services.CRMPushesService,
	crmClients map[models.CRMType]clients.CRMClient,
) *CRMPushUseCase {
	return &CRMPushUseCase{
		summariesService: summariesService,
		crmPushesService: crmPushesService,
		crmClients:       crmClients,
	}
}

// PushToMany pushes one summary to each requested CRM in order. Per-CRM
// failures land in the report; the error return is reserved for the summary
// lookup itself.
func (u *CRMPushUseCase) PushToMany(
	ctx context.Context,
	summaryID, userID string,
	crmTypes []models.CRMType,
) (*models.CRMPushReport, error) {
	log.Printf("📋 Starting to push summary %s to %d CRMs", summaryID, len(crmTypes))

	if len(crmTypes) == 0 {
		return nil, fmt.Errorf("at least one CRM type is required")
	}

	maybeSummary, err := u.summariesService.GetSummaryByID(ctx, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	summary, ok := maybeSummary.Get()
	if !ok {
		return nil, fmt.Errorf("%w: summary %s", core.ErrNotFound, summaryID)
	}

	report := &models.CRMPushReport{
		Results:    make([]models.CRMPushResult, 0, len(crmTypes)),
		TotalCount: len(crmTypes),
	}

	for _, crmType := range crmTypes {
		result := u.pushToOne(ctx, summary, userID, crmType)
		if result.Success {
			report.SuccessCount++
		}
		report.Results = append(report.Results, result)
	}

	log.Printf("📋 Completed successfully - pushed summary %s to %d/%d CRMs",
		summaryID, report.SuccessCount, report.TotalCount)
	return report, nil
}

func (u *CRMPushUseCase) pushToOne(
	ctx context.Context,
	summary *models.Summary,
	userID string,
	crmType models.CRMType,
) models.CRMPushResult {
	if !models.SupportedCRMTypes[crmType] {
		// No push row for types the schema would reject
		return models.CRMPushResult{CRMType: crmType, Error: "Unsupported CRM type"}
	}

	crmClient, ok := u.crmClients[crmType]
	if !ok {
		result := models.CRMPushResult{CRMType: crmType, Error: fmt.Sprintf("%s is not configured", crmType)}
		u.recordPush(ctx, summary, userID, result)
		return result
	}

	recordID, err := u.callClient(ctx, crmClient, summary)
	result := models.CRMPushResult{CRMType: crmType}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Success = true
		result.CRMRecordID = recordID
	}

	u.recordPush(ctx, summary, userID, result)
	return result
}

// callClient contains a panicking CRM client so one bad integration cannot
// take down the fan-out.
func (u *CRMPushUseCase) callClient(
	ctx context.Context,
	crmClient clients.CRMClient,
	summary *models.Summary,
) (recordID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("crm client panicked: %v", r)
		}
	}()

	note := &clients.CRMNote{
		SummaryID:  summary.ID,
		Title:      summary.Title,
		Content:    summary.Content,
		SourceType: string(summary.SourceType),
	}
	return crmClient.PushSummaryNote(ctx, note)
}

func (u *CRMPushUseCase) recordPush(
	ctx context.Context,
	summary *models.Summary,
	userID string,
	result models.CRMPushResult,
) {
	push := &models.CRMPush{
		SummaryID: summary.ID,
		UserID:    userID,
		CRMType:   result.CRMType,
		Status:    models.CRMPushStatusSuccess,
	}
	if result.Success {
		recordID := result.CRMRecordID
		push.CRMRecordID = &recordID
	} else {
		push.Status = models.CRMPushStatusFailed
		errorLog := result.Error
		push.ErrorLog = &errorLog
	}

	if _, err := u.crmPushesService.RecordCRMPush(ctx, push); err != nil {
		log.Printf("⚠️ Failed to record CRM push for summary %s to %s: %v", summary.ID, result.CRMType, err)
	}
}
