package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scribebackend/appctx"
	"scribebackend/clients"
	"scribebackend/clients/openrouter"
	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/services/txmanager"
	"scribebackend/testutils"
	"scribebackend/usecases/sharing"
	"scribebackend/usecases/summarize"
)

var testUser = &models.User{
	ID:             "u_01234567890123456789012345",
	AuthProvider:   "supabase",
	AuthProviderID: "user_test_123",
	Email:          "test@example.com",
}

// Helper function to create a request carrying an authenticated user
func requestWithUser(method, target string, body []byte, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if user != nil {
		req = req.WithContext(appctx.SetUser(context.Background(), user))
	}
	return req
}

func TestHandleGetSummary(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Setup
		mockSummariesService := new(services.MockSummariesService)
		handler := NewSummariesHTTPHandler(nil, mockSummariesService)
		summary := testutils.BuildTestSummary(testUser.ID)

		// Mock expectations
		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		// Execute
		req := requestWithUser("GET", "/summaries/"+summary.ID, nil, testUser)
		req = mux.SetURLVars(req, map[string]string{"id": summary.ID})
		rec := httptest.NewRecorder()
		handler.HandleGetSummary(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		var got models.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, summary.ID, got.ID)
		assert.Equal(t, summary.Title, got.Title)
		mockSummariesService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockSummariesService := new(services.MockSummariesService)
		handler := NewSummariesHTTPHandler(nil, mockSummariesService)
		summaryID := core.NewID("sum")

		mockSummariesService.On("GetSummaryByID", mock.Anything, summaryID, testUser.ID).
			Return(mo.None[*models.Summary](), nil)

		req := requestWithUser("GET", "/summaries/"+summaryID, nil, testUser)
		req = mux.SetURLVars(req, map[string]string{"id": summaryID})
		rec := httptest.NewRecorder()
		handler.HandleGetSummary(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockSummariesService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockSummariesService := new(services.MockSummariesService)
		handler := NewSummariesHTTPHandler(nil, mockSummariesService)

		req := requestWithUser("GET", "/summaries/not-an-id", nil, testUser)
		req = mux.SetURLVars(req, map[string]string{"id": "not-an-id"})
		rec := httptest.NewRecorder()
		handler.HandleGetSummary(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSummariesService.AssertNotCalled(t, "GetSummaryByID")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		mockSummariesService := new(services.MockSummariesService)
		handler := NewSummariesHTTPHandler(nil, mockSummariesService)
		summaryID := core.NewID("sum")

		req := requestWithUser("GET", "/summaries/"+summaryID, nil, nil)
		req = mux.SetURLVars(req, map[string]string{"id": summaryID})
		rec := httptest.NewRecorder()
		handler.HandleGetSummary(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleCreateShare(t *testing.T) {
	newHandler := func() (*SharesHTTPHandler, *services.MockSummariesService, *services.MockSharesService, *services.MockSubscriptionsService) {
		mockSummariesService := new(services.MockSummariesService)
		mockSharesService := new(services.MockSharesService)
		mockSubscriptionsService := new(services.MockSubscriptionsService)
		useCase := sharing.NewSharingUseCase(
			mockSummariesService, mockSharesService, mockSubscriptionsService, new(txmanager.MockTransactionManager))
		handler := NewSharesHTTPHandler(useCase, mockSummariesService, "https://app.example.com")
		return handler, mockSummariesService, mockSharesService, mockSubscriptionsService
	}

	t.Run("Success", func(t *testing.T) {
		// Setup
		handler, mockSummariesService, mockSharesService, mockSubscriptionsService := newHandler()
		summary := testutils.BuildTestSummary(testUser.ID)

		// Mock expectations
		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockSubscriptionsService.On("GetPlanForUser", mock.Anything, testUser.ID).
			Return(models.PlanFree, nil)
		mockSharesService.On("CountActiveShares", mock.Anything, testUser.ID).Return(0, nil)
		mockSharesService.On("CreateSharedSummary", mock.Anything, mock.Anything).
			Return(&models.SharedSummary{}, nil)

		// Execute
		body := []byte(`{"summary_id": "` + summary.ID + `"}`)
		req := requestWithUser("POST", "/shares", body, testUser)
		rec := httptest.NewRecorder()
		handler.HandleCreateShare(rec, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rec.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Contains(t, got["share_url"], "https://app.example.com/shared/")
		assert.Equal(t, float64(50), got["max_views"])
		mockSharesService.AssertExpectations(t)
	})

	t.Run("PlanCapExceeded", func(t *testing.T) {
		handler, mockSummariesService, mockSharesService, mockSubscriptionsService := newHandler()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockSubscriptionsService.On("GetPlanForUser", mock.Anything, testUser.ID).
			Return(models.PlanFree, nil)
		mockSharesService.On("CountActiveShares", mock.Anything, testUser.ID).Return(5, nil)

		body := []byte(`{"summary_id": "` + summary.ID + `"}`)
		req := requestWithUser("POST", "/shares", body, testUser)
		rec := httptest.NewRecorder()
		handler.HandleCreateShare(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mockSharesService.AssertNotCalled(t, "CreateSharedSummary")
	})
}

func TestHandleViewShare(t *testing.T) {
	t.Run("Denied_Expired", func(t *testing.T) {
		// Setup
		mockSummariesService := new(services.MockSummariesService)
		mockSharesService := new(services.MockSharesService)
		mockTxManager := new(txmanager.MockTransactionManager)
		useCase := sharing.NewSharingUseCase(
			mockSummariesService, mockSharesService, new(services.MockSubscriptionsService), mockTxManager)
		handler := NewSharesHTTPHandler(useCase, mockSummariesService, "https://app.example.com")

		share := testutils.BuildTestShare(core.NewID("sum"), testUser.ID)
		share.ExpiresAt = share.ExpiresAt.AddDate(0, 0, -30)

		// Mock expectations
		mockTxManager.On("WithTransaction", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				txFunc := args.Get(1).(func(context.Context) error)
				txFunc(context.Background())
			}).
			Return(nil)
		mockSharesService.On("GetShareByToken", mock.Anything, share.ShareToken, true).
			Return(mo.Some(share), nil)

		// Execute
		req := requestWithUser("POST", "/shared/"+share.ShareToken+"/view", []byte(`{}`), nil)
		req = mux.SetURLVars(req, map[string]string{"token": share.ShareToken})
		rec := httptest.NewRecorder()
		handler.HandleViewShare(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		var got ShareViewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.False(t, got.CanView)
		assert.Equal(t, models.ShareViewDenialExpired, got.Reason)
		assert.Nil(t, got.Summary)
		mockSharesService.AssertNotCalled(t, "ApplyViewAccounting")
	})

	t.Run("MissingToken", func(t *testing.T) {
		handler := NewSharesHTTPHandler(nil, nil, "https://app.example.com")

		req := requestWithUser("POST", "/shared//view", []byte(`{}`), nil)
		rec := httptest.NewRecorder()
		handler.HandleViewShare(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleUpdateCRMSettings(t *testing.T) {
	t.Run("UnsupportedTarget", func(t *testing.T) {
		mockSettingsService := new(services.MockSettingsService)
		handler := NewSettingsHTTPHandler(mockSettingsService)

		body := []byte(`{"default_targets":["pipedrive"]}`)
		req := requestWithUser("PUT", "/settings/crm", body, testUser)
		rec := httptest.NewRecorder()
		handler.HandleUpdateCRMSettings(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSettingsService.AssertNotCalled(t, "UpsertStringArrSetting")
	})

	t.Run("Success", func(t *testing.T) {
		mockSettingsService := new(services.MockSettingsService)
		handler := NewSettingsHTTPHandler(mockSettingsService)

		mockSettingsService.On("UpsertBooleanSetting", mock.Anything, testUser.ID, models.SettingCRMAutoPushEnabled, true).
			Return(&models.Setting{Key: models.SettingCRMAutoPushEnabled}, nil)
		mockSettingsService.On("UpsertStringArrSetting", mock.Anything, testUser.ID, models.SettingCRMDefaultTargets, []string{"hubspot", "notion"}).
			Return(&models.Setting{Key: models.SettingCRMDefaultTargets}, nil)

		body := []byte(`{"auto_push_enabled":true,"default_targets":["hubspot","notion"]}`)
		req := requestWithUser("PUT", "/settings/crm", body, testUser)
		rec := httptest.NewRecorder()
		handler.HandleUpdateCRMSettings(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSettingsService.AssertExpectations(t)
	})

	t.Run("EmptyUpdate", func(t *testing.T) {
		mockSettingsService := new(services.MockSettingsService)
		handler := NewSettingsHTTPHandler(mockSettingsService)

		req := requestWithUser("PUT", "/settings/crm", []byte(`{}`), testUser)
		rec := httptest.NewRecorder()
		handler.HandleUpdateCRMSettings(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleMarkNotificationRead(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockNotificationsService := new(services.MockNotificationsService)
		handler := NewDashboardHTTPHandler(nil, mockNotificationsService)
		notificationID := core.NewID("ntf")

		mockNotificationsService.On("MarkNotificationRead", mock.Anything, notificationID, testUser.ID).
			Return(nil)

		req := requestWithUser("PUT", "/notifications/"+notificationID+"/read", nil, testUser)
		req = mux.SetURLVars(req, map[string]string{"id": notificationID})
		rec := httptest.NewRecorder()
		handler.HandleMarkNotificationRead(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockNotificationsService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockNotificationsService := new(services.MockNotificationsService)
		handler := NewDashboardHTTPHandler(nil, mockNotificationsService)
		notificationID := core.NewID("ntf")

		mockNotificationsService.On("MarkNotificationRead", mock.Anything, notificationID, testUser.ID).
			Return(core.ErrNotFound)

		req := requestWithUser("PUT", "/notifications/"+notificationID+"/read", nil, testUser)
		req = mux.SetURLVars(req, map[string]string{"id": notificationID})
		rec := httptest.NewRecorder()
		handler.HandleMarkNotificationRead(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleSummarize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Setup
		mockLLMClient := new(openrouter.MockLLMClient)
		mockSummariesService := new(services.MockSummariesService)
		mockSettingsService := new(services.MockSettingsService)
		mockSlackPoster := new(summarize.MockSlackPoster)
		useCase := summarize.NewSummarizeUseCase(
			mockLLMClient, mockSummariesService, mockSettingsService,
			mockSlackPoster, new(summarize.MockCRMPusher))
		handler := NewSummariesHTTPHandler(useCase, mockSummariesService)

		stored := testutils.BuildTestSummary(testUser.ID)
		stored.Content = "Launch set for Friday."

		// Mock expectations
		mockLLMClient.On("GenerateSummary", mock.Anything,
			"We discussed launch timeline and decided to ship Friday.",
			mock.AnythingOfType("*clients.SummaryGenerationContext")).
			Return(&clients.SummaryResult{Content: "Launch set for Friday.", Model: "deepseek/deepseek-chat"}, nil)
		mockSummariesService.On("CreateSummary", mock.Anything, mock.AnythingOfType("*models.Summary")).
			Return(stored, nil)
		mockSlackPoster.On("PostSummary", mock.Anything, stored.ID, testUser.ID, (*string)(nil)).
			Return(&models.SlackPostResult{Success: true, Channel: "C012345"}, nil)
		mockSettingsService.On("GetBoolSetting", mock.Anything, testUser.ID, models.SettingCRMAutoPushEnabled, false).
			Return(false, nil)

		// Execute
		body := []byte(`{"transcript":"We discussed launch timeline and decided to ship Friday."}`)
		req := requestWithUser("POST", "/summarize", body, testUser)
		rec := httptest.NewRecorder()
		handler.HandleSummarize(rec, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rec.Code)
		var got models.SummarizeResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.Summary)
		assert.Equal(t, stored.ID, got.Summary.ID)
		assert.Equal(t, "Launch set for Friday.", got.Summary.Content)
		mockLLMClient.AssertExpectations(t)
		mockSummariesService.AssertExpectations(t)
	})

	t.Run("EmptyTranscript", func(t *testing.T) {
		// Setup
		mockLLMClient := new(openrouter.MockLLMClient)
		mockSummariesService := new(services.MockSummariesService)
		mockSettingsService := new(services.MockSettingsService)
		useCase := summarize.NewSummarizeUseCase(
			mockLLMClient, mockSummariesService, mockSettingsService,
			new(summarize.MockSlackPoster), new(summarize.MockCRMPusher))
		handler := NewSummariesHTTPHandler(useCase, mockSummariesService)

		// Execute
		req := requestWithUser("POST", "/summarize", []byte(`{"transcript":"   "}`), testUser)
		rec := httptest.NewRecorder()
		handler.HandleSummarize(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockLLMClient.AssertNotCalled(t, "GenerateSummary")
	})

	t.Run("InvalidBody", func(t *testing.T) {
		handler := NewSummariesHTTPHandler(nil, nil)

		req := requestWithUser("POST", "/summarize", []byte(`{not json`), testUser)
		rec := httptest.NewRecorder()
		handler.HandleSummarize(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
