package summarize

import (
	"context"
	"fmt"
	"log"
	"strings"

	"scribebackend/clients"
	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
)

// SlackPosterInterface is what the pipeline needs from the Slack poster
type SlackPosterInterface interface {
	PostSummary(ctx context.Context, summaryID, userID string, organizationID *string) (*models.SlackPostResult, error)
}

// CRMPusherInterface is what the pipeline needs from the CRM pusher
type CRMPusherInterface interface {
	PushToMany(ctx context.Context, summaryID, userID string, crmTypes []models.CRMType) (*models.CRMPushReport, error)
}

// SummarizeUseCase is the pipeline from raw transcript to stored summary plus
// whatever deliveries the user's settings call for.
type SummarizeUseCase struct {
	llmClient        clients.LLMClient
	summariesService services.SummariesService
	settingsService  services.SettingsService
	slackPostUseCase SlackPosterInterface
	crmPushUseCase   CRMPusherInterface
}

// NewSummarizeUseCase creates a new instance of SummarizeUseCase
func NewSummarizeUseCase(
	llmClient clients.LLMClient,
	summariesService services.SummariesService,
	settingsService services.SettingsService,
	slackPostUseCase SlackPosterInterface,
	crmPushUseCase CRMPusherInterface,
) *SummarizeUseCase {
	return &SummarizeUseCase{
		llmClient:        llmClient,
		summariesService: summariesService,
		settingsService:  settingsService,
		slackPostUseCase: slackPostUseCase,
		crmPushUseCase:   crmPushUseCase,
	}
}

// SummarizeAndDeliver runs the pipeline: LLM call, summary insert (fatal on
// failure), then best-effort Slack post and CRM push per the user's settings.
// Delivery failures land in the report; only pre-insert steps return errors.
func (u *SummarizeUseCase) SummarizeAndDeliver(
	ctx context.Context,
	user *models.User,
	req *models.SummarizeRequest,
) (*models.SummarizeResult, error) {
	log.Printf("📋 Starting summarize pipeline for user: %s", user.ID)

	if strings.TrimSpace(req.Transcript) == "" {
		return nil, core.NewValidationError("transcript cannot be empty")
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = models.SummarySourceManual
	}
	if !sourceType.IsValid() {
		return nil, core.NewValidationError("unsupported source type: %s", sourceType)
	}

	genCtx := &clients.SummaryGenerationContext{
		Title:      req.Title,
		SourceType: string(sourceType),
	}
	if req.SlackChannel != nil {
		genCtx.ChannelName = *req.SlackChannel
	}

	generated, err := u.llmClient.GenerateSummary(ctx, req.Transcript, genCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	title := req.Title
	if title == "" {
		title = deriveTitle(generated.Content)
	}

	summary := &models.Summary{
		UserID:         user.ID,
		OrganizationID: req.OrganizationID,
		Title:          title,
		Content:        generated.Content,
		SourceType:     sourceType,
		SlackChannel:   req.SlackChannel,
		FileName:       req.FileName,
		AIModel:        &generated.Model,
		Metadata: models.SummaryMetadata{
			SkillsDetected: generated.SkillsDetected,
		},
	}
	if req.SlackChannel != nil {
		summary.Metadata.ChannelName = *req.SlackChannel
	}

	stored, err := u.summariesService.CreateSummary(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to store summary: %w", err)
	}

	result := &models.SummarizeResult{
		Summary:  stored,
		Delivery: u.deliver(ctx, user, stored),
	}

	log.Printf("📋 Completed successfully - summarize pipeline produced summary: %s", stored.ID)
	return result, nil
}

// deliver fires the configured post-storage deliveries sequentially. Nothing
// here is fatal: the summary is already stored and the report says what
// happened after.
func (u *SummarizeUseCase) deliver(
	ctx context.Context,
	user *models.User,
	summary *models.Summary,
) *models.DeliveryReport {
	report := &models.DeliveryReport{}

	postResult, err := u.slackPostUseCase.PostSummary(ctx, summary.ID, user.ID, summary.OrganizationID)
	if err != nil {
		log.Printf("⚠️ Slack delivery errored for summary %s: %v", summary.ID, err)
		report.SlackPost = &models.SlackPostResult{Success: false, Error: err.Error()}
	} else {
		report.SlackPost = postResult
	}

	autoPush, err := u.settingsService.GetBoolSetting(ctx, user.ID, models.SettingCRMAutoPushEnabled, false)
	if err != nil {
		log.Printf("⚠️ Failed to get CRM auto-push setting: %v", err)
		return report
	}
	if !autoPush {
		return report
	}

	targets, err := u.settingsService.GetStringArrSetting(ctx, user.ID, models.SettingCRMDefaultTargets)
	if err != nil {
		log.Printf("⚠️ Failed to get CRM default targets: %v", err)
		return report
	}
	if len(targets) == 0 {
		return report
	}

	crmTypes := make([]models.CRMType, 0, len(targets))
	for _, target := range targets {
		crmTypes = append(crmTypes, models.CRMType(target))
	}

	pushReport, err := u.crmPushUseCase.PushToMany(ctx, summary.ID, user.ID, crmTypes)
	if err != nil {
		log.Printf("⚠️ CRM delivery errored for summary %s: %v", summary.ID, err)
		return report
	}
	report.CRMPush = pushReport
	return report
}

// deriveTitle takes the first heading or line of the generated content.
func deriveTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(strings.TrimLeft(line, "# "))
		if trimmed != "" {
			if runes := []rune(trimmed); len(runes) > 80 {
				return string(runes[:77]) + "..."
			}
			return trimmed
		}
	}
	return "Untitled Summary"
}
