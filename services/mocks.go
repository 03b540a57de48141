package services

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"scribebackend/models"
)

// MockUsersService is a mock implementation of UsersService
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	args := m.Called(ctx, authProvider, authProviderID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

// MockSummariesService is a mock implementation of SummariesService
type MockSummariesService struct {
	mock.Mock
}

func (m *MockSummariesService) CreateSummary(ctx context.Context, summary *models.Summary) (*models.Summary, error) {
	args := m.Called(ctx, summary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func (m *MockSummariesService) GetSummaryByID(
	ctx context.Context,
	id, userID string,
) (mo.Option[*models.Summary], error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(mo.Option[*models.Summary]), args.Error(1)
}

func (m *MockSummariesService) ListRecentSummaries(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Summary, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Summary), args.Error(1)
}

func (m *MockSummariesService) CountSummariesByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockSlackIntegrationsService is a mock implementation of SlackIntegrationsService
type MockSlackIntegrationsService struct {
	mock.Mock
}

func (m *MockSlackIntegrationsService) CreateSlackIntegration(
	ctx context.Context,
	userID string,
	organizationID *string,
	slackAuthCode, redirectURL string,
) (*models.SlackIntegration, error) {
	args := m.Called(ctx, userID, organizationID, slackAuthCode, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackIntegration), args.Error(1)
}

func (m *MockSlackIntegrationsService) GetActiveSlackIntegration(
	ctx context.Context,
	userID string,
	organizationID *string,
) (mo.Option[*models.SlackIntegration], error) {
	args := m.Called(ctx, userID, organizationID)
	return args.Get(0).(mo.Option[*models.SlackIntegration]), args.Error(1)
}

func (m *MockSlackIntegrationsService) GetSlackIntegrationsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SlackIntegration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SlackIntegration), args.Error(1)
}

func (m *MockSlackIntegrationsService) GetSlackIntegrationByTeamID(
	ctx context.Context,
	teamID string,
) (mo.Option[*models.SlackIntegration], error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(mo.Option[*models.SlackIntegration]), args.Error(1)
}

func (m *MockSlackIntegrationsService) DeactivateSlackIntegration(
	ctx context.Context,
	integrationID, userID string,
) error {
	args := m.Called(ctx, integrationID, userID)
	return args.Error(0)
}

// MockSummaryPostsService is a mock implementation of SummaryPostsService
type MockSummaryPostsService struct {
	mock.Mock
}

func (m *MockSummaryPostsService) RecordPostAttempt(
	ctx context.Context,
	post *models.SummaryPost,
) (*models.SummaryPost, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SummaryPost), args.Error(1)
}

func (m *MockSummaryPostsService) GetFailedPostsBelowRetryLimit(
	ctx context.Context,
	maxRetries, limit int,
) ([]*models.SummaryPost, error) {
	args := m.Called(ctx, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SummaryPost), args.Error(1)
}

func (m *MockSummaryPostsService) UpdatePostOutcome(
	ctx context.Context,
	postID string,
	status models.SummaryPostStatus,
	messageTS, errorLog *string,
	retryCount int,
) error {
	args := m.Called(ctx, postID, status, messageTS, errorLog, retryCount)
	return args.Error(0)
}

func (m *MockSummaryPostsService) ListPostsBySummaryID(
	ctx context.Context,
	summaryID, userID string,
) ([]*models.SummaryPost, error) {
	args := m.Called(ctx, summaryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SummaryPost), args.Error(1)
}

// MockCRMPushesService is a mock implementation of CRMPushesService
type MockCRMPushesService struct {
	mock.Mock
}

func (m *MockCRMPushesService) RecordCRMPush(ctx context.Context, push *models.CRMPush) (*models.CRMPush, error) {
	args := m.Called(ctx, push)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CRMPush), args.Error(1)
}

func (m *MockCRMPushesService) ListRecentCRMPushes(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.CRMPush, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CRMPush), args.Error(1)
}

func (m *MockCRMPushesService) ListCRMPushesBySummaryID(
	ctx context.Context,
	summaryID, userID string,
) ([]*models.CRMPush, error) {
	args := m.Called(ctx, summaryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CRMPush), args.Error(1)
}

func (m *MockCRMPushesService) GetCRMPushStatistics(
	ctx context.Context,
	userID string,
) (*models.CRMPushStatistics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CRMPushStatistics), args.Error(1)
}

// MockSharesService is a mock implementation of SharesService
type MockSharesService struct {
	mock.Mock
}

func (m *MockSharesService) CreateSharedSummary(
	ctx context.Context,
	share *models.SharedSummary,
) (*models.SharedSummary, error) {
	args := m.Called(ctx, share)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedSummary), args.Error(1)
}

func (m *MockSharesService) GetShareByToken(
	ctx context.Context,
	token string,
	forUpdate bool,
) (mo.Option[*models.SharedSummary], error) {
	args := m.Called(ctx, token, forUpdate)
	return args.Get(0).(mo.Option[*models.SharedSummary]), args.Error(1)
}

func (m *MockSharesService) ApplyViewAccounting(ctx context.Context, share *models.SharedSummary) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockSharesService) IncrementConversionCount(ctx context.Context, shareID string) error {
	args := m.Called(ctx, shareID)
	return args.Error(0)
}

func (m *MockSharesService) DeactivateShare(ctx context.Context, shareID, userID string) error {
	args := m.Called(ctx, shareID, userID)
	return args.Error(0)
}

func (m *MockSharesService) CountActiveShares(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockSharesService) ListSharesByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SharedSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SharedSummary), args.Error(1)
}

// MockExportsService is a mock implementation of ExportsService
type MockExportsService struct {
	mock.Mock
}

func (m *MockExportsService) RecordExport(ctx context.Context, export *models.Export) (*models.Export, error) {
	args := m.Called(ctx, export)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Export), args.Error(1)
}

func (m *MockExportsService) CountExportsByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockNotificationsService is a mock implementation of NotificationsService
type MockNotificationsService struct {
	mock.Mock
}

func (m *MockNotificationsService) CreateNotification(
	ctx context.Context,
	notification *models.Notification,
) (*models.Notification, error) {
	args := m.Called(ctx, notification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationsService) ListNotifications(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationsService) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationsService) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetBoolSetting(
	ctx context.Context,
	userID, key string,
	fallback bool,
) (bool, error) {
	args := m.Called(ctx, userID, key, fallback)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsService) GetStringArrSetting(ctx context.Context, userID, key string) ([]string, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSettingsService) UpsertBooleanSetting(
	ctx context.Context,
	userID, key string,
	value bool,
) (*models.Setting, error) {
	args := m.Called(ctx, userID, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Setting), args.Error(1)
}

func (m *MockSettingsService) UpsertStringArrSetting(
	ctx context.Context,
	userID, key string,
	value []string,
) (*models.Setting, error) {
	args := m.Called(ctx, userID, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Setting), args.Error(1)
}

func (m *MockSettingsService) ListSettings(ctx context.Context, userID string) ([]*models.Setting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Setting), args.Error(1)
}

// MockSubscriptionsService is a mock implementation of SubscriptionsService
type MockSubscriptionsService struct {
	mock.Mock
}

func (m *MockSubscriptionsService) GetSubscriptionByUserID(
	ctx context.Context,
	userID string,
) (mo.Option[*models.Subscription], error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mo.Option[*models.Subscription]), args.Error(1)
}

func (m *MockSubscriptionsService) GetPlanForUser(ctx context.Context, userID string) (models.Plan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Plan), args.Error(1)
}
