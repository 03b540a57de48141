package crmpush

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scribebackend/clients"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/testutils"
)

type panickyCRMClient struct{}

func (c *panickyCRMClient) PushSummaryNote(ctx context.Context, note *clients.CRMNote) (string, error) {
	panic("nil response body")
}

func setupCRMPushUseCase(crmClients map[models.CRMType]clients.CRMClient) (
	*CRMPushUseCase,
	*services.MockSummariesService,
	*services.MockCRMPushesService,
) {
	mockSummariesService := new(services.MockSummariesService)
	mockCRMPushesService := new(services.MockCRMPushesService)
	useCase := NewCRMPushUseCase(mockSummariesService, mockCRMPushesService, crmClients)
	return useCase, mockSummariesService, mockCRMPushesService
}

func TestPushToMany(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("MixedOutcomes", func(t *testing.T) {
		// Setup
		mockHubSpot := new(clients.MockCRMClient)
		mockNotion := new(clients.MockCRMClient)
		useCase, mockSummariesService, mockCRMPushesService := setupCRMPushUseCase(
			map[models.CRMType]clients.CRMClient{
				models.CRMTypeHubSpot: mockHubSpot,
				models.CRMTypeNotion:  mockNotion,
			})

		summary := testutils.BuildTestSummary(testUser.ID)

		// Mock expectations
		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockHubSpot.On("PushSummaryNote", mock.Anything, mock.AnythingOfType("*clients.CRMNote")).
			Return("note-12345", nil)
		mockNotion.On("PushSummaryNote", mock.Anything, mock.AnythingOfType("*clients.CRMNote")).
			Return("", fmt.Errorf("unauthorized"))

		mockCRMPushesService.On("RecordCRMPush", mock.Anything, mock.AnythingOfType("*models.CRMPush")).
			Return(&models.CRMPush{}, nil)

		// Execute
		report, err := useCase.PushToMany(context.Background(), summary.ID, testUser.ID,
			[]models.CRMType{models.CRMTypeHubSpot, models.CRMTypeNotion})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, report.TotalCount)
		assert.Equal(t, 1, report.SuccessCount)
		require.Len(t, report.Results, 2)

		assert.True(t, report.Results[0].Success)
		assert.Equal(t, "note-12345", report.Results[0].CRMRecordID)
		assert.False(t, report.Results[1].Success)
		assert.Contains(t, report.Results[1].Error, "unauthorized")

		mockCRMPushesService.AssertNumberOfCalls(t, "RecordCRMPush", 2)
	})

	t.Run("UnsupportedType_NoNetworkNoRow", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockCRMPushesService := setupCRMPushUseCase(nil)
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		// Execute
		report, err := useCase.PushToMany(context.Background(), summary.ID, testUser.ID,
			[]models.CRMType{"pipedrive"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, report.SuccessCount)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "Unsupported CRM type", report.Results[0].Error)

		mockCRMPushesService.AssertNotCalled(t, "RecordCRMPush")
	})

	t.Run("UnconfiguredType_RecordsFailedRow", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockCRMPushesService := setupCRMPushUseCase(
			map[models.CRMType]clients.CRMClient{})
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockCRMPushesService.On("RecordCRMPush", mock.Anything, mock.AnythingOfType("*models.CRMPush")).
			Return(&models.CRMPush{}, nil)

		// Execute
		report, err := useCase.PushToMany(context.Background(), summary.ID, testUser.ID,
			[]models.CRMType{models.CRMTypeSalesforce})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, report.SuccessCount)
		assert.Contains(t, report.Results[0].Error, "not configured")

		recordedPush := mockCRMPushesService.Calls[0].Arguments.Get(1).(*models.CRMPush)
		assert.Equal(t, models.CRMPushStatusFailed, recordedPush.Status)
	})

	t.Run("PanickingClient_IsContained", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockCRMPushesService := setupCRMPushUseCase(
			map[models.CRMType]clients.CRMClient{
				models.CRMTypeHubSpot: &panickyCRMClient{},
			})
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		mockCRMPushesService.On("RecordCRMPush", mock.Anything, mock.AnythingOfType("*models.CRMPush")).
			Return(&models.CRMPush{}, nil)

		// Execute
		report, err := useCase.PushToMany(context.Background(), summary.ID, testUser.ID,
			[]models.CRMType{models.CRMTypeHubSpot})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, report.SuccessCount)
		assert.Contains(t, report.Results[0].Error, "crm client panicked")
	})

	t.Run("SummaryNotFound", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, _ := setupCRMPushUseCase(nil)

		mockSummariesService.On("GetSummaryByID", mock.Anything, mock.Anything, testUser.ID).
			Return(mo.None[*models.Summary](), nil)

		// Execute
		report, err := useCase.PushToMany(context.Background(), "sum_01J5KCKQW0RTSVRHEXAMPLE00",
			testUser.ID, []models.CRMType{models.CRMTypeHubSpot})

		// Assert
		require.Error(t, err)
		assert.Nil(t, report)
	})

	t.Run("EmptyTypes", func(t *testing.T) {
		// Setup
		useCase, _, _ := setupCRMPushUseCase(nil)

		// Execute
		report, err := useCase.PushToMany(context.Background(), "sum_01J5KCKQW0RTSVRHEXAMPLE00",
			testUser.ID, nil)

		// Assert
		require.Error(t, err)
		assert.Nil(t, report)
	})
}
