package sharing

import (
	"context"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/services/txmanager"
	"scribebackend/testutils"
)

func setupSharingUseCase() (
	*SharingUseCase,
	*services.MockSummariesService,
	*services.MockSharesService,
	*services.MockSubscriptionsService,
	*txmanager.MockTransactionManager,
) {
	mockSummariesService := new(services.MockSummariesService)
	mockSharesService := new(services.MockSharesService)
	mockSubscriptionsService := new(services.MockSubscriptionsService)
	mockTxManager := new(txmanager.MockTransactionManager)
	useCase := NewSharingUseCase(mockSummariesService, mockSharesService, mockSubscriptionsService, mockTxManager)
	return useCase, mockSummariesService, mockSharesService, mockSubscriptionsService, mockTxManager
}

func expectPassthroughTx(mockTxManager *txmanager.MockTransactionManager, ctx context.Context) {
	mockTxManager.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).
		Run(func(args mock.Arguments) {
			txFunc := args.Get(1).(func(context.Context) error)
			_ = txFunc(ctx)
		}).
		Return(nil)
}

func TestCreateShare(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("Success_PlanDefaults", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSharesService, mockSubscriptionsService, _ := setupSharingUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockSubscriptionsService.On("GetPlanForUser", mock.Anything, testUser.ID).
			Return(models.PlanFree, nil)
		mockSharesService.On("CountActiveShares", mock.Anything, testUser.ID).
			Return(2, nil)
		mockSharesService.On("CreateSharedSummary", mock.Anything, mock.AnythingOfType("*models.SharedSummary")).
			Return(&models.SharedSummary{}, nil)

		// Execute
		share, err := useCase.CreateShare(context.Background(), summary.ID, testUser.ID, ShareOptions{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.PlanFree, share.UserPlan)
		assert.NotEmpty(t, share.ShareToken)
		assert.Equal(t, defaultMaxViews, share.MaxViews)
		assert.True(t, share.IsActive)
		assert.Nil(t, share.PasswordHash)
		// Free plan shares expire in 7 days
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), share.ExpiresAt, time.Minute)
	})

	t.Run("PlanCapExceeded", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSharesService, mockSubscriptionsService, _ := setupSharingUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockSubscriptionsService.On("GetPlanForUser", mock.Anything, testUser.ID).
			Return(models.PlanFree, nil)
		mockSharesService.On("CountActiveShares", mock.Anything, testUser.ID).
			Return(5, nil)

		// Execute
		share, err := useCase.CreateShare(context.Background(), summary.ID, testUser.ID, ShareOptions{})

		// Assert
		require.Error(t, err)
		assert.Nil(t, share)
		assert.True(t, core.IsPlanLimitError(err))
		mockSharesService.AssertNotCalled(t, "CreateSharedSummary")
	})

	t.Run("EnterpriseUnlimited_SkipsCount", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSharesService, mockSubscriptionsService, _ := setupSharingUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockSubscriptionsService.On("GetPlanForUser", mock.Anything, testUser.ID).
			Return(models.PlanEnterprise, nil)
		mockSharesService.On("CreateSharedSummary", mock.Anything, mock.AnythingOfType("*models.SharedSummary")).
			Return(&models.SharedSummary{}, nil)

		// Execute
		share, err := useCase.CreateShare(context.Background(), summary.ID, testUser.ID, ShareOptions{})

		// Assert
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(90*24*time.Hour), share.ExpiresAt, time.Minute)
		mockSharesService.AssertNotCalled(t, "CountActiveShares")
	})

	t.Run("PasswordIsHashed", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockSharesService, mockSubscriptionsService, _ := setupSharingUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockSubscriptionsService.On("GetPlanForUser", mock.Anything, testUser.ID).
			Return(models.PlanPro, nil)
		mockSharesService.On("CountActiveShares", mock.Anything, testUser.ID).
			Return(0, nil)
		mockSharesService.On("CreateSharedSummary", mock.Anything, mock.AnythingOfType("*models.SharedSummary")).
			Return(&models.SharedSummary{}, nil)

		// Execute
		share, err := useCase.CreateShare(context.Background(), summary.ID, testUser.ID,
			ShareOptions{Password: "hunter2"})

		// Assert
		require.NoError(t, err)
		require.NotNil(t, share.PasswordHash)
		assert.NotContains(t, *share.PasswordHash, "hunter2")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*share.PasswordHash), []byte("hunter2")))
	})
}

func TestRecordView(t *testing.T) {
	testUser := testutils.BuildTestUser()
	ctx := context.Background()

	t.Run("Accepted_AppliesAccounting", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)
		share.ViewCount = 3

		expectPassthroughTx(mockTxManager, ctx)
		mockSharesService.On("GetShareByToken", ctx, share.ShareToken, true).
			Return(mo.Some(share), nil)
		mockSharesService.On("ApplyViewAccounting", ctx, share).
			Return(nil)

		// Execute
		decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{
			Country:  "US",
			Referrer: "twitter.com",
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, decision.CanView)
		assert.Equal(t, 4, decision.Share.ViewCount)
		assert.NotNil(t, decision.Share.LastViewedAt)
		assert.Equal(t, 1, decision.Share.Analytics.ViewsByCountry["US"])
		assert.Equal(t, 1, decision.Share.Analytics.ViewsByReferrer["twitter.com"])

		mockSharesService.AssertExpectations(t)
		mockTxManager.AssertExpectations(t)
	})

	t.Run("DenialOrder_InactiveBeatsExpired", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)
		share.IsActive = false
		share.ExpiresAt = time.Now().Add(-time.Hour)

		expectPassthroughTx(mockTxManager, ctx)
		mockSharesService.On("GetShareByToken", ctx, share.ShareToken, true).
			Return(mo.Some(share), nil)

		// Execute
		decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{})

		// Assert
		require.NoError(t, err)
		assert.False(t, decision.CanView)
		assert.Equal(t, models.ShareViewDenialInactive, decision.Reason)
		mockSharesService.AssertNotCalled(t, "ApplyViewAccounting")
	})

	t.Run("Denied_Expired", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)
		share.ExpiresAt = time.Now().Add(-time.Minute)

		expectPassthroughTx(mockTxManager, ctx)
		mockSharesService.On("GetShareByToken", ctx, share.ShareToken, true).
			Return(mo.Some(share), nil)

		// Execute
		decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.ShareViewDenialExpired, decision.Reason)
	})

	t.Run("Denied_ViewLimit", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)
		share.ViewCount = share.MaxViews

		expectPassthroughTx(mockTxManager, ctx)
		mockSharesService.On("GetShareByToken", ctx, share.ShareToken, true).
			Return(mo.Some(share), nil)

		// Execute
		decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.ShareViewDenialViewLimitReached, decision.Reason)
	})

	t.Run("ViewCap_AcceptsExactlyMaxViews", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)
		share.MaxViews = 3

		expectPassthroughTx(mockTxManager, ctx)
		mockSharesService.On("GetShareByToken", ctx, share.ShareToken, true).
			Return(mo.Some(share), nil)
		mockSharesService.On("ApplyViewAccounting", ctx, share).
			Return(nil)

		// Execute
		for i := 1; i <= 3; i++ {
			decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{})
			require.NoError(t, err)
			assert.True(t, decision.CanView)
			assert.Equal(t, i, share.ViewCount)
		}
		decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{})

		// Assert
		require.NoError(t, err)
		assert.False(t, decision.CanView)
		assert.Equal(t, models.ShareViewDenialViewLimitReached, decision.Reason)
		mockSharesService.AssertNumberOfCalls(t, "ApplyViewAccounting", 3)
	})

	t.Run("Denied_WrongPassword", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)
		hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
		require.NoError(t, err)
		hashStr := string(hash)
		share.PasswordHash = &hashStr

		expectPassthroughTx(mockTxManager, ctx)
		mockSharesService.On("GetShareByToken", ctx, share.ShareToken, true).
			Return(mo.Some(share), nil)

		// Execute
		decision, err := useCase.RecordView(ctx, share.ShareToken, models.ShareViewerMeta{Password: "wrong"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.ShareViewDenialPasswordRequired, decision.Reason)
		mockSharesService.AssertNotCalled(t, "ApplyViewAccounting")
	})

	t.Run("UnknownToken", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, mockTxManager := setupSharingUseCase()

		mockTxManager.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).
			Run(func(args mock.Arguments) {
				txFunc := args.Get(1).(func(context.Context) error)
				_ = txFunc(ctx)
			}).
			Return(core.ErrNotFound)
		mockSharesService.On("GetShareByToken", ctx, "missing-token", true).
			Return(mo.None[*models.SharedSummary](), nil)

		// Execute
		decision, err := useCase.RecordView(ctx, "missing-token", models.ShareViewerMeta{})

		// Assert
		require.Error(t, err)
		assert.True(t, core.IsNotFoundError(err))
		assert.Nil(t, decision)
	})
}

func TestRecordConversion(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("Success", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, _ := setupSharingUseCase()
		share := testutils.BuildTestShare("sum_01J5KCKQW0RTSVRHEXAMPLE00", testUser.ID)

		mockSharesService.On("GetShareByToken", mock.Anything, share.ShareToken, false).
			Return(mo.Some(share), nil)
		mockSharesService.On("IncrementConversionCount", mock.Anything, share.ID).
			Return(nil)

		// Execute
		err := useCase.RecordConversion(context.Background(), share.ShareToken)

		// Assert
		require.NoError(t, err)
		mockSharesService.AssertExpectations(t)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		// Setup
		useCase, _, mockSharesService, _, _ := setupSharingUseCase()

		mockSharesService.On("GetShareByToken", mock.Anything, "missing-token", false).
			Return(mo.None[*models.SharedSummary](), nil)

		// Execute
		err := useCase.RecordConversion(context.Background(), "missing-token")

		// Assert
		require.Error(t, err)
		assert.True(t, core.IsNotFoundError(err))
	})
}
