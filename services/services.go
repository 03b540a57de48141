package services

import (
	"context"

	"github.com/samber/mo"

	"scribebackend/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
}

// SummariesService defines the interface for summary persistence operations
type SummariesService interface {
	CreateSummary(ctx context.Context, summary *models.Summary) (*models.Summary, error)
	GetSummaryByID(ctx context.Context, id, userID string) (mo.Option[*models.Summary], error)
	ListRecentSummaries(ctx context.Context, userID string, limit int) ([]*models.Summary, error)
	CountSummariesByUserID(ctx context.Context, userID string) (int, error)
}

// SlackIntegrationsService defines the interface for Slack integration operations
type SlackIntegrationsService interface {
	CreateSlackIntegration(
		ctx context.Context,
		userID string,
		organizationID *string,
		slackAuthCode, redirectURL string,
	) (*models.SlackIntegration, error)
	GetActiveSlackIntegration(
		ctx context.Context,
		userID string,
		organizationID *string,
	) (mo.Option[*models.SlackIntegration], error)
	GetSlackIntegrationsByUserID(ctx context.Context, userID string) ([]*models.SlackIntegration, error)
	GetSlackIntegrationByTeamID(ctx context.Context, teamID string) (mo.Option[*models.SlackIntegration], error)
	DeactivateSlackIntegration(ctx context.Context, integrationID, userID string) error
}

// SummaryPostsService defines the interface for Slack delivery records
type SummaryPostsService interface {
	RecordPostAttempt(ctx context.Context, post *models.SummaryPost) (*models.SummaryPost, error)
	GetFailedPostsBelowRetryLimit(ctx context.Context, maxRetries, limit int) ([]*models.SummaryPost, error)
	UpdatePostOutcome(
		ctx context.Context,
		postID string,
		status models.SummaryPostStatus,
		messageTS, errorLog *string,
		retryCount int,
	) error
	ListPostsBySummaryID(ctx context.Context, summaryID, userID string) ([]*models.SummaryPost, error)
}

// CRMPushesService defines the interface for CRM push records
type CRMPushesService interface {
	RecordCRMPush(ctx context.Context, push *models.CRMPush) (*models.CRMPush, error)
	ListRecentCRMPushes(ctx context.Context, userID string, limit int) ([]*models.CRMPush, error)
	ListCRMPushesBySummaryID(ctx context.Context, summaryID, userID string) ([]*models.CRMPush, error)
	GetCRMPushStatistics(ctx context.Context, userID string) (*models.CRMPushStatistics, error)
}

// SharesService defines the interface for shared summary persistence
type SharesService interface {
	CreateSharedSummary(ctx context.Context, share *models.SharedSummary) (*models.SharedSummary, error)
	GetShareByToken(ctx context.Context, token string, forUpdate bool) (mo.Option[*models.SharedSummary], error)
	ApplyViewAccounting(ctx context.Context, share *models.SharedSummary) error
	IncrementConversionCount(ctx context.Context, shareID string) error
	DeactivateShare(ctx context.Context, shareID, userID string) error
	CountActiveShares(ctx context.Context, userID string) (int, error)
	ListSharesByUserID(ctx context.Context, userID string) ([]*models.SharedSummary, error)
}

// ExportsService defines the interface for the append-only export log
type ExportsService interface {
	RecordExport(ctx context.Context, export *models.Export) (*models.Export, error)
	CountExportsByUserID(ctx context.Context, userID string) (int, error)
}

// NotificationsService defines the interface for notification operations
type NotificationsService interface {
	CreateNotification(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID string) error
}

// SettingsService defines the interface for per-user settings
type SettingsService interface {
	GetBoolSetting(ctx context.Context, userID, key string, fallback bool) (bool, error)
	GetStringArrSetting(ctx context.Context, userID, key string) ([]string, error)
	UpsertBooleanSetting(ctx context.Context, userID, key string, value bool) (*models.Setting, error)
	UpsertStringArrSetting(ctx context.Context, userID, key string, value []string) (*models.Setting, error)
	ListSettings(ctx context.Context, userID string) ([]*models.Setting, error)
}

// SubscriptionsService defines the interface for subscription lookups.
// This service never writes; billing webhooks own the table.
type SubscriptionsService interface {
	GetSubscriptionByUserID(ctx context.Context, userID string) (mo.Option[*models.Subscription], error)
	GetPlanForUser(ctx context.Context, userID string) (models.Plan, error)
}

// TransactionManager handles database transactions via context
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
