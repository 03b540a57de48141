package slackpost

import (
	"context"
	"fmt"
	"log"

	"scribebackend/clients"
	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/utils"
)

const (
	// Slack section blocks reject text beyond 3000 characters
	maxSlackBodyRunes = 3000

	retryBatchSize = 10
)

// SlackPostUseCase delivers stored summaries into Slack channels and DMs
type SlackPostUseCase struct {
	summariesService         services.SummariesService
	slackIntegrationsService services.SlackIntegrationsService
	summaryPostsService      services.SummaryPostsService
	settingsService          services.SettingsService
	slackClientFactory       clients.SlackClientFactory
	dashboardBaseURL         string
}

// NewSlackPostUseCase creates a new instance of SlackPostUseCase
func NewSlackPostUseCase(
	summariesService services.SummariesService,
	slackIntegrationsService services.SlackIntegrationsService,
	summaryPostsService services.SummaryPostsService,
	settingsService services.SettingsService,
	slackClientFactory clients.SlackClientFactory,
	dashboardBaseURL string,
) *SlackPostUseCase {
	return &SlackPostUseCase{
		summariesService:         summariesService,
		slackIntegrationsService: slackIntegrationsService,
		summaryPostsService:      summaryPostsService,
		settingsService:          settingsService,
		slackClientFactory:       slackClientFactory,
		dashboardBaseURL:         dashboardBaseURL,
	}
}

// PostSummary posts a stored summary into Slack. A disabled setting or a
// missing integration comes back as a failed result, not an error; errors are
// reserved for lookups the caller could not have anticipated.
func (u *SlackPostUseCase) PostSummary(
	ctx context.Context,
	summaryID, userID string,
	organizationID *string,
) (*models.SlackPostResult, error) {
	log.Printf("📋 Starting to post summary %s to Slack for user: %s", summaryID, userID)

	enabled, err := u.settingsService.GetBoolSetting(ctx, userID, models.SettingSlackAutoPostEnabled, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get auto-post setting: %w", err)
	}
	if !enabled {
		log.Printf("📋 Completed successfully - auto-post disabled for user: %s", userID)
		return &models.SlackPostResult{Success: false, Error: "auto-post disabled"}, nil
	}

	maybeSummary, err := u.summariesService.GetSummaryByID(ctx, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	summary, ok := maybeSummary.Get()
	if !ok {
		return nil, fmt.Errorf("%w: summary %s", core.ErrNotFound, summaryID)
	}

	maybeIntegration, err := u.slackIntegrationsService.GetActiveSlackIntegration(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slack integration: %w", err)
	}
	integration, ok := maybeIntegration.Get()
	if !ok {
		log.Printf("⚠️ No active Slack integration for user: %s", userID)
		return &models.SlackPostResult{Success: false, Error: "no active Slack integration"}, nil
	}

	slackClient := u.slackClientFactory(integration.AccessToken)

	channelID, err := u.resolveChannel(ctx, slackClient, integration, summary, userID)
	if err != nil {
		log.Printf("⚠️ Failed to resolve Slack channel for summary %s: %v", summaryID, err)
		return &models.SlackPostResult{Success: false, Error: err.Error()}, nil
	}

	result := u.postToChannel(ctx, slackClient, channelID, summary)
	u.recordAttempt(ctx, summary, userID, channelID, result)

	if result.Success {
		log.Printf("📋 Completed successfully - posted summary %s to channel %s", summaryID, result.Channel)
	} else {
		log.Printf("⚠️ Failed to post summary %s to Slack: %s", summaryID, result.Error)
	}
	return result, nil
}

// RetryFailedPosts re-attempts a batch of failed posts below the retry limit.
// Per-row failures are isolated so one bad row cannot stall the sweep.
func (u *SlackPostUseCase) RetryFailedPosts(ctx context.Context, maxRetries int) (*models.SlackRetryReport, error) {
	log.Printf("📋 Starting to retry failed Slack posts (max retries %d)", maxRetries)

	posts, err := u.summaryPostsService.GetFailedPostsBelowRetryLimit(ctx, maxRetries, retryBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get retryable posts: %w", err)
	}

	report := &models.SlackRetryReport{Scanned: len(posts)}
	for _, post := range posts {
		if err := u.retryPost(ctx, post); err != nil {
			log.Printf("⚠️ Retry failed for post %s: %v", post.ID, err)
			report.StillFailed++
			continue
		}
		report.Recovered++
	}

	log.Printf("📋 Completed successfully - retried %d posts, recovered %d", report.Scanned, report.Recovered)
	return report, nil
}

func (u *SlackPostUseCase) retryPost(ctx context.Context, post *models.SummaryPost) error {
	maybeSummary, err := u.summariesService.GetSummaryByID(ctx, post.SummaryID, post.UserID)
	if err != nil {
		return fmt.Errorf("failed to get summary for post: %w", err)
	}
	summary, ok := maybeSummary.Get()
	if !ok {
		return fmt.Errorf("%w: summary %s", core.ErrNotFound, post.SummaryID)
	}

	maybeIntegration, err := u.slackIntegrationsService.GetActiveSlackIntegration(ctx, post.UserID, summary.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get slack integration: %w", err)
	}
	integration, ok := maybeIntegration.Get()
	if !ok {
		return fmt.Errorf("no active Slack integration for user: %s", post.UserID)
	}

	slackClient := u.slackClientFactory(integration.AccessToken)
	result := u.postToChannel(ctx, slackClient, post.SlackChannelID, summary)

	retryCount := post.RetryCount + 1
	if !result.Success {
		errorLog := result.Error
		if err := u.summaryPostsService.UpdatePostOutcome(
			ctx, post.ID, models.SummaryPostStatusFailed, nil, &errorLog, retryCount,
		); err != nil {
			return fmt.Errorf("failed to record retry outcome: %w", err)
		}
		return fmt.Errorf("slack post failed: %s", result.Error)
	}

	if err := u.summaryPostsService.UpdatePostOutcome(
		ctx, post.ID, models.SummaryPostStatusPosted, &result.MessageTS, nil, retryCount,
	); err != nil {
		return fmt.Errorf("failed to record retry outcome: %w", err)
	}
	return nil
}

// resolveChannel prefers the summary's origin channel; users without one get a
// DM when slack/prefer_dm is set.
func (u *SlackPostUseCase) resolveChannel(
	ctx context.Context,
	slackClient clients.SlackClient,
	integration *models.SlackIntegration,
	summary *models.Summary,
	userID string,
) (string, error) {
	if summary.SlackChannel != nil && *summary.SlackChannel != "" {
		return *summary.SlackChannel, nil
	}

	preferDM, err := u.settingsService.GetBoolSetting(ctx, userID, models.SettingSlackPreferDM, false)
	if err != nil {
		return "", fmt.Errorf("failed to get prefer-dm setting: %w", err)
	}
	if !preferDM {
		return "", fmt.Errorf("summary has no origin channel and DM delivery is disabled")
	}

	channelID, err := slackClient.OpenDMChannel(ctx, integration.AuthedUserID)
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel: %w", err)
	}
	return channelID, nil
}

func (u *SlackPostUseCase) postToChannel(
	ctx context.Context,
	slackClient clients.SlackClient,
	channelID string,
	summary *models.Summary,
) *models.SlackPostResult {
	body, truncated := utils.TruncateRunes(utils.ConvertMarkdownToSlack(summary.Content), maxSlackBodyRunes)

	message := &clients.SlackSummaryMessage{
		Title:        summary.Title,
		Body:         body,
		Truncated:    truncated,
		Footer:       fmt.Sprintf("Source: %s", summary.SourceType),
		DashboardURL: fmt.Sprintf("%s/summaries/%s", u.dashboardBaseURL, summary.ID),
	}

	resp, err := slackClient.PostSummaryMessage(ctx, channelID, message)
	if err != nil {
		return &models.SlackPostResult{Success: false, Channel: channelID, Error: err.Error()}
	}
	return &models.SlackPostResult{
		Success:   true,
		MessageTS: resp.Timestamp,
		Channel:   resp.Channel,
	}
}

// recordAttempt always writes a summary_posts row. A write failure degrades to
// a log line so delivery status reporting never masks the post itself.
func (u *SlackPostUseCase) recordAttempt(
	ctx context.Context,
	summary *models.Summary,
	userID, channelID string,
	result *models.SlackPostResult,
) {
	post := &models.SummaryPost{
		SummaryID:      summary.ID,
		UserID:         userID,
		SlackChannelID: channelID,
		Status:         models.SummaryPostStatusPosted,
	}
	if result.Success {
		post.SlackMessageTS = &result.MessageTS
	} else {
		post.Status = models.SummaryPostStatusFailed
		errorLog := result.Error
		post.ErrorLog = &errorLog
	}

	if _, err := u.summaryPostsService.RecordPostAttempt(ctx, post); err != nil {
		log.Printf("⚠️ Failed to record Slack post attempt for summary %s: %v", summary.ID, err)
	}
}
