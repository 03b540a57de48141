package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/testutils"
)

type dashboardMocks struct {
	summaries         *services.MockSummariesService
	exports           *services.MockExportsService
	crmPushes         *services.MockCRMPushesService
	shares            *services.MockSharesService
	notifications     *services.MockNotificationsService
	subscriptions     *services.MockSubscriptionsService
	slackIntegrations *services.MockSlackIntegrationsService
}

func setupDashboardUseCase() (*DashboardUseCase, *dashboardMocks) {
	m := &dashboardMocks{
		summaries:         new(services.MockSummariesService),
		exports:           new(services.MockExportsService),
		crmPushes:         new(services.MockCRMPushesService),
		shares:            new(services.MockSharesService),
		notifications:     new(services.MockNotificationsService),
		subscriptions:     new(services.MockSubscriptionsService),
		slackIntegrations: new(services.MockSlackIntegrationsService),
	}
	useCase := NewDashboardUseCase(
		m.summaries, m.exports, m.crmPushes, m.shares,
		m.notifications, m.subscriptions, m.slackIntegrations,
	)
	return useCase, m
}

func TestGetDashboard(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("AllFieldsPopulated", func(t *testing.T) {
		// Setup
		useCase, m := setupDashboardUseCase()
		subscription := testutils.BuildTestSubscription(testUser.ID, models.PlanPro)
		summary := testutils.BuildTestSummary(testUser.ID)
		integration := testutils.BuildTestSlackIntegration(testUser.ID)

		m.summaries.On("CountSummariesByUserID", mock.Anything, testUser.ID).Return(12, nil)
		m.exports.On("CountExportsByUserID", mock.Anything, testUser.ID).Return(4, nil)
		m.crmPushes.On("GetCRMPushStatistics", mock.Anything, testUser.ID).
			Return(&models.CRMPushStatistics{Total: 7, Succeeded: 6, Failed: 1}, nil)
		m.shares.On("CountActiveShares", mock.Anything, testUser.ID).Return(3, nil)
		m.notifications.On("CountUnreadNotifications", mock.Anything, testUser.ID).Return(2, nil)

		m.subscriptions.On("GetSubscriptionByUserID", mock.Anything, testUser.ID).
			Return(mo.Some(subscription), nil)
		m.slackIntegrations.On("GetSlackIntegrationsByUserID", mock.Anything, testUser.ID).
			Return([]*models.SlackIntegration{integration}, nil)
		m.summaries.On("ListRecentSummaries", mock.Anything, testUser.ID, recentSummariesLimit).
			Return([]*models.Summary{summary}, nil)
		m.notifications.On("ListNotifications", mock.Anything, testUser.ID, notificationsLimit).
			Return([]*models.Notification{}, nil)

		// Execute
		data := useCase.GetDashboard(context.Background(), testUser)

		// Assert
		require.NotNil(t, data)
		assert.Equal(t, testUser, data.User)
		require.NotNil(t, data.Stats)
		assert.Equal(t, 12, data.Stats.TotalSummaries)
		assert.Equal(t, 7, data.Stats.TotalCRMPushes)
		assert.Equal(t, 3, data.Stats.ActiveShares)
		assert.Equal(t, subscription, data.Subscription)
		require.Len(t, data.SlackWorkspaces, 1)
		require.Len(t, data.RecentSummaries, 1)
		assert.NotNil(t, data.Notifications)
	})

	t.Run("FailedSubFetch_NilsOnlyThatField", func(t *testing.T) {
		// Setup
		useCase, m := setupDashboardUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		// Stats block fails on its first count
		m.summaries.On("CountSummariesByUserID", mock.Anything, testUser.ID).
			Return(0, fmt.Errorf("connection refused"))
		// Subscription fetch fails too
		m.subscriptions.On("GetSubscriptionByUserID", mock.Anything, testUser.ID).
			Return(mo.None[*models.Subscription](), fmt.Errorf("connection refused"))

		m.slackIntegrations.On("GetSlackIntegrationsByUserID", mock.Anything, testUser.ID).
			Return([]*models.SlackIntegration{}, nil)
		m.summaries.On("ListRecentSummaries", mock.Anything, testUser.ID, recentSummariesLimit).
			Return([]*models.Summary{summary}, nil)
		m.notifications.On("ListNotifications", mock.Anything, testUser.ID, notificationsLimit).
			Return([]*models.Notification{}, nil)

		// Execute
		data := useCase.GetDashboard(context.Background(), testUser)

		// Assert
		require.NotNil(t, data)
		assert.Nil(t, data.Stats)
		assert.Nil(t, data.Subscription)
		// Healthy sub-fetches still land
		require.Len(t, data.RecentSummaries, 1)
		assert.NotNil(t, data.SlackWorkspaces)
	})

	t.Run("PartialStatsFailure_NilsWholeBlock", func(t *testing.T) {
		// Setup
		useCase, m := setupDashboardUseCase()

		m.summaries.On("CountSummariesByUserID", mock.Anything, testUser.ID).Return(12, nil)
		m.exports.On("CountExportsByUserID", mock.Anything, testUser.ID).Return(4, nil)
		m.crmPushes.On("GetCRMPushStatistics", mock.Anything, testUser.ID).
			Return(nil, fmt.Errorf("timeout"))

		m.subscriptions.On("GetSubscriptionByUserID", mock.Anything, testUser.ID).
			Return(mo.None[*models.Subscription](), nil)
		m.slackIntegrations.On("GetSlackIntegrationsByUserID", mock.Anything, testUser.ID).
			Return([]*models.SlackIntegration{}, nil)
		m.summaries.On("ListRecentSummaries", mock.Anything, testUser.ID, recentSummariesLimit).
			Return([]*models.Summary{}, nil)
		m.notifications.On("ListNotifications", mock.Anything, testUser.ID, notificationsLimit).
			Return([]*models.Notification{}, nil)

		// Execute
		data := useCase.GetDashboard(context.Background(), testUser)

		// Assert
		assert.Nil(t, data.Stats)
		m.shares.AssertNotCalled(t, "CountActiveShares")
	})
}
