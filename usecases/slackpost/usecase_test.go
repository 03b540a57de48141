package slackpost

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scribebackend/clients"
	slackclient "scribebackend/clients/slack"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/testutils"
)

func setupSlackPostUseCase() (
	*SlackPostUseCase,
	*services.MockSummariesService,
	*services.MockSlackIntegrationsService,
	*services.MockSummaryPostsService,
	*services.MockSettingsService,
	*slackclient.MockSlackClient,
) {
	mockSummariesService := new(services.MockSummariesService)
	mockSlackIntegrationsService := new(services.MockSlackIntegrationsService)
	mockSummaryPostsService := new(services.MockSummaryPostsService)
	mockSettingsService := new(services.MockSettingsService)
	mockSlackClient := new(slackclient.MockSlackClient)

	factory := func(authToken string) clients.SlackClient {
		return mockSlackClient
	}

	useCase := NewSlackPostUseCase(
		mockSummariesService,
		mockSlackIntegrationsService,
		mockSummaryPostsService,
		mockSettingsService,
		factory,
		"https://app.example.com",
	)
	return useCase, mockSummariesService, mockSlackIntegrationsService,
		mockSummaryPostsService, mockSettingsService, mockSlackClient
}

func TestPostSummary(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("Success_OriginChannel", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSlackIntegrationsService,
			mockSummaryPostsService, mockSettingsService, mockSlackClient := setupSlackPostUseCase()

		summary := testutils.BuildTestSummary(testUser.ID)
		channel := "C012345"
		summary.SlackChannel = &channel
		integration := testutils.BuildTestSlackIntegration(testUser.ID)

		// Mock expectations
		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackAutoPostEnabled, true).
			Return(true, nil)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockSlackIntegrationsService.On("GetActiveSlackIntegration", mock.Anything, testUser.ID, (*string)(nil)).
			Return(mo.Some(integration), nil)

		mockSlackClient.On("PostSummaryMessage", mock.Anything, channel, mock.AnythingOfType("*clients.SlackSummaryMessage")).
			Return(&clients.SlackPostMessageResponse{Channel: channel, Timestamp: "1724900000.000100"}, nil)

		mockSummaryPostsService.On("RecordPostAttempt", mock.Anything, mock.AnythingOfType("*models.SummaryPost")).
			Return(&models.SummaryPost{}, nil)

		// Execute
		result, err := useCase.PostSummary(context.Background(), summary.ID, testUser.ID, nil)

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, channel, result.Channel)
		assert.Equal(t, "1724900000.000100", result.MessageTS)

		recordedPost := mockSummaryPostsService.Calls[0].Arguments.Get(1).(*models.SummaryPost)
		assert.Equal(t, models.SummaryPostStatusPosted, recordedPost.Status)
		assert.Equal(t, summary.ID, recordedPost.SummaryID)

		mockSettingsService.AssertExpectations(t)
		mockSummariesService.AssertExpectations(t)
		mockSlackIntegrationsService.AssertExpectations(t)
		mockSlackClient.AssertExpectations(t)
		mockSummaryPostsService.AssertExpectations(t)
	})

	t.Run("Success_DMFallback", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSlackIntegrationsService,
			mockSummaryPostsService, mockSettingsService, mockSlackClient := setupSlackPostUseCase()

		summary := testutils.BuildTestSummary(testUser.ID)
		summary.SlackChannel = nil
		integration := testutils.BuildTestSlackIntegration(testUser.ID)

		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackAutoPostEnabled, true).
			Return(true, nil)
		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackPreferDM, false).
			Return(true, nil)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockSlackIntegrationsService.On("GetActiveSlackIntegration", mock.Anything, testUser.ID, (*string)(nil)).
			Return(mo.Some(integration), nil)

		mockSlackClient.On("OpenDMChannel", mock.Anything, integration.AuthedUserID).
			Return("D098765", nil)

		mockSlackClient.On("PostSummaryMessage", mock.Anything, "D098765", mock.AnythingOfType("*clients.SlackSummaryMessage")).
			Return(&clients.SlackPostMessageResponse{Channel: "D098765", Timestamp: "1724900001.000200"}, nil)

		mockSummaryPostsService.On("RecordPostAttempt", mock.Anything, mock.AnythingOfType("*models.SummaryPost")).
			Return(&models.SummaryPost{}, nil)

		// Execute
		result, err := useCase.PostSummary(context.Background(), summary.ID, testUser.ID, nil)

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "D098765", result.Channel)

		mockSlackClient.AssertExpectations(t)
	})

	t.Run("Disabled_AutoPost", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, _, _, mockSettingsService, _ := setupSlackPostUseCase()

		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackAutoPostEnabled, true).
			Return(false, nil)

		// Execute
		result, err := useCase.PostSummary(context.Background(), "sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID, nil)

		// Assert
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "auto-post disabled", result.Error)

		mockSummariesService.AssertNotCalled(t, "GetSummaryByID")
	})

	t.Run("NoIntegration_ReportedFailure", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSlackIntegrationsService,
			_, mockSettingsService, mockSlackClient := setupSlackPostUseCase()

		summary := testutils.BuildTestSummary(testUser.ID)

		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackAutoPostEnabled, true).
			Return(true, nil)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockSlackIntegrationsService.On("GetActiveSlackIntegration", mock.Anything, testUser.ID, (*string)(nil)).
			Return(mo.None[*models.SlackIntegration](), nil)

		// Execute
		result, err := useCase.PostSummary(context.Background(), summary.ID, testUser.ID, nil)

		// Assert
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "no active Slack integration", result.Error)

		mockSlackClient.AssertNotCalled(t, "PostSummaryMessage")
	})

	t.Run("PostFailure_RecordsFailedRow", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSlackIntegrationsService,
			mockSummaryPostsService, mockSettingsService, mockSlackClient := setupSlackPostUseCase()

		summary := testutils.BuildTestSummary(testUser.ID)
		channel := "C012345"
		summary.SlackChannel = &channel
		integration := testutils.BuildTestSlackIntegration(testUser.ID)

		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackAutoPostEnabled, true).
			Return(true, nil)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockSlackIntegrationsService.On("GetActiveSlackIntegration", mock.Anything, testUser.ID, (*string)(nil)).
			Return(mo.Some(integration), nil)

		mockSlackClient.On("PostSummaryMessage", mock.Anything, channel, mock.AnythingOfType("*clients.SlackSummaryMessage")).
			Return(nil, fmt.Errorf("channel_not_found"))

		mockSummaryPostsService.On("RecordPostAttempt", mock.Anything, mock.AnythingOfType("*models.SummaryPost")).
			Return(&models.SummaryPost{}, nil)

		// Execute
		result, err := useCase.PostSummary(context.Background(), summary.ID, testUser.ID, nil)

		// Assert
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "channel_not_found")

		recordedPost := mockSummaryPostsService.Calls[0].Arguments.Get(1).(*models.SummaryPost)
		assert.Equal(t, models.SummaryPostStatusFailed, recordedPost.Status)
		require.NotNil(t, recordedPost.ErrorLog)
		assert.Contains(t, *recordedPost.ErrorLog, "channel_not_found")
	})
}

func TestRetryFailedPosts(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("RecoversAndIsolatesFailures", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSlackIntegrationsService,
			mockSummaryPostsService, _, mockSlackClient := setupSlackPostUseCase()

		summary := testutils.BuildTestSummary(testUser.ID)
		integration := testutils.BuildTestSlackIntegration(testUser.ID)

		goodPost := &models.SummaryPost{
			ID:             "sp_01J5KCKQW0RTSVRHEXAMPLE01",
			SummaryID:      summary.ID,
			UserID:         testUser.ID,
			SlackChannelID: "C012345",
			Status:         models.SummaryPostStatusFailed,
			RetryCount:     1,
		}
		badPost := &models.SummaryPost{
			ID:             "sp_01J5KCKQW0RTSVRHEXAMPLE02",
			SummaryID:      summary.ID,
			UserID:         testUser.ID,
			SlackChannelID: "C099999",
			Status:         models.SummaryPostStatusFailed,
			RetryCount:     2,
		}

		mockSummaryPostsService.On("GetFailedPostsBelowRetryLimit", mock.Anything, 3, retryBatchSize).
			Return([]*models.SummaryPost{goodPost, badPost}, nil)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockSlackIntegrationsService.On("GetActiveSlackIntegration", mock.Anything, testUser.ID, (*string)(nil)).
			Return(mo.Some(integration), nil)

		mockSlackClient.On("PostSummaryMessage", mock.Anything, "C012345", mock.AnythingOfType("*clients.SlackSummaryMessage")).
			Return(&clients.SlackPostMessageResponse{Channel: "C012345", Timestamp: "1724900002.000300"}, nil)
		mockSlackClient.On("PostSummaryMessage", mock.Anything, "C099999", mock.AnythingOfType("*clients.SlackSummaryMessage")).
			Return(nil, fmt.Errorf("is_archived"))

		mockSummaryPostsService.On("UpdatePostOutcome",
			mock.Anything, goodPost.ID, models.SummaryPostStatusPosted, mock.AnythingOfType("*string"), (*string)(nil), 2).
			Return(nil)
		mockSummaryPostsService.On("UpdatePostOutcome",
			mock.Anything, badPost.ID, models.SummaryPostStatusFailed, (*string)(nil), mock.AnythingOfType("*string"), 3).
			Return(nil)

		// Execute
		report, err := useCase.RetryFailedPosts(context.Background(), 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, report.Scanned)
		assert.Equal(t, 1, report.Recovered)
		assert.Equal(t, 1, report.StillFailed)

		mockSummaryPostsService.AssertExpectations(t)
		mockSlackClient.AssertExpectations(t)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		// Setup
		useCase, _, _, mockSummaryPostsService, _, _ := setupSlackPostUseCase()

		mockSummaryPostsService.On("GetFailedPostsBelowRetryLimit", mock.Anything, 3, retryBatchSize).
			Return([]*models.SummaryPost{}, nil)

		// Execute
		report, err := useCase.RetryFailedPosts(context.Background(), 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, report.Scanned)
		assert.Equal(t, 0, report.Recovered)
		assert.Equal(t, 0, report.StillFailed)
	})
}

func TestTruncationAppliedToLongSummaries(t *testing.T) {
	// Setup
	useCase, mockSummariesService, mockSlackIntegrationsService,
		mockSummaryPostsService, mockSettingsService, mockSlackClient := setupSlackPostUseCase()

	testUser := testutils.BuildTestUser()
	summary := testutils.BuildTestSummary(testUser.ID)
	channel := "C012345"
	summary.SlackChannel = &channel
	for len(summary.Content) < maxSlackBodyRunes*2 {
		summary.Content += "\nAnother decision worth recording in the running log."
	}
	integration := testutils.BuildTestSlackIntegration(testUser.ID)

	mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingSlackAutoPostEnabled, true).
		Return(true, nil)
	mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
		Return(mo.Some(summary), nil)
	mockSlackIntegrationsService.On("GetActiveSlackIntegration", mock.Anything, testUser.ID, (*string)(nil)).
		Return(mo.Some(integration), nil)

	var sentMessage *clients.SlackSummaryMessage
	mockSlackClient.On("PostSummaryMessage", mock.Anything, channel, mock.AnythingOfType("*clients.SlackSummaryMessage")).
		Run(func(args mock.Arguments) {
			sentMessage = args.Get(2).(*clients.SlackSummaryMessage)
		}).
		Return(&clients.SlackPostMessageResponse{Channel: channel, Timestamp: "1724900003.000400"}, nil)

	mockSummaryPostsService.On("RecordPostAttempt", mock.Anything, mock.AnythingOfType("*models.SummaryPost")).
		Return(&models.SummaryPost{}, nil)

	// Execute
	result, err := useCase.PostSummary(context.Background(), summary.ID, testUser.ID, nil)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, sentMessage)
	assert.True(t, sentMessage.Truncated)
	assert.LessOrEqual(t, len([]rune(sentMessage.Body)), maxSlackBodyRunes+1)
}
