package sharing

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
)

// ShareOptions are the creator-supplied knobs on a new share
type ShareOptions struct {
	MaxViews   int
	ExpiryDays int
	Password   string
	Branding   *models.ShareBranding
}

const defaultMaxViews = 50

// SharingUseCase owns the public share lifecycle: creation under plan caps,
// anonymous view accounting, conversions, deactivation.
type SharingUseCase struct {
	summariesService     services.SummariesService
	sharesService        services.SharesService
	subscriptionsService services.SubscriptionsService
	txManager            services.TransactionManager
}

// NewSharingUseCase creates a new instance of SharingUseCase
func NewSharingUseCase(
	summariesService services.SummariesService,
	sharesService services.SharesService,
	subscriptionsService services.SubscriptionsService,
	txManager services.TransactionManager,
) *SharingUseCase {
	return &SharingUseCase{
		summariesService:     summariesService,
		sharesService:        sharesService,
		subscriptionsService: subscriptionsService,
		txManager:            txManager,
	}
}

// CreateShare mints a time-limited public link for an owned summary. Plan caps
// on concurrent active shares surface as a PlanLimitError.
func (u *SharingUseCase) CreateShare(
	ctx context.Context,
	summaryID, userID string,
	opts ShareOptions,
) (*models.SharedSummary, error) {
	log.Printf("📋 Starting to create share for summary: %s", summaryID)

	maybeSummary, err := u.summariesService.GetSummaryByID(ctx, summaryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	if _, ok := maybeSummary.Get(); !ok {
		return nil, fmt.Errorf("%w: summary %s", core.ErrNotFound, summaryID)
	}

	plan, err := u.subscriptionsService.GetPlanForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	if limit := plan.MaxActiveShares(); limit >= 0 {
		active, err := u.sharesService.CountActiveShares(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count active shares: %w", err)
		}
		if active >= limit {
			return nil, &core.PlanLimitError{Plan: string(plan), Limit: limit, Current: active}
		}
	}

	expiryDays := opts.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = plan.DefaultShareExpiryDays()
	}
	maxViews := opts.MaxViews
	if maxViews <= 0 {
		maxViews = defaultMaxViews
	}

	token, err := core.NewShareToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share token: %w", err)
	}

	share := &models.SharedSummary{
		SummaryID:  summaryID,
		UserID:     userID,
		UserPlan:   plan,
		ShareToken: token,
		MaxViews:   maxViews,
		ExpiresAt:  time.Now().Add(time.Duration(expiryDays) * 24 * time.Hour),
		IsActive:   true,
		Analytics:  models.ShareAnalytics{},
	}
	if opts.Branding != nil {
		share.Branding = *opts.Branding
	}
	if opts.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash share password: %w", err)
		}
		hashStr := string(hash)
		share.PasswordHash = &hashStr
	}

	// The repository scans the stored row back into the same struct
	if _, err := u.sharesService.CreateSharedSummary(ctx, share); err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}

	log.Printf("📋 Completed successfully - created share %s expiring %s",
		share.ID, share.ExpiresAt.Format(time.RFC3339))
	return share, nil
}

// RecordView adjudicates an anonymous view attempt and, when accepted,
// applies all view accounting atomically. Checks run in a fixed order so a
// deactivated expired share reports inactive, not expired.
func (u *SharingUseCase) RecordView(
	ctx context.Context,
	token string,
	viewer models.ShareViewerMeta,
) (*models.ShareViewDecision, error) {
	log.Printf("📋 Starting to record view for shared summary")

	var decision *models.ShareViewDecision
	err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		maybeShare, err := u.sharesService.GetShareByToken(ctx, token, true)
		if err != nil {
			return fmt.Errorf("failed to get share: %w", err)
		}
		share, ok := maybeShare.Get()
		if !ok {
			return core.ErrNotFound
		}

		if reason, denied := denialReason(share, viewer); denied {
			decision = &models.ShareViewDecision{CanView: false, Reason: reason}
			return nil
		}

		share.ViewCount++
		now := time.Now()
		share.LastViewedAt = &now
		share.Analytics.RecordView(now.UTC().Format("2006-01-02"), viewer.Country, viewer.Referrer)

		if err := u.sharesService.ApplyViewAccounting(ctx, share); err != nil {
			return fmt.Errorf("failed to apply view accounting: %w", err)
		}

		decision = &models.ShareViewDecision{CanView: true, Share: share}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decision.CanView {
		log.Printf("📋 Completed successfully - view %d recorded for share %s",
			decision.Share.ViewCount, decision.Share.ID)
	} else {
		log.Printf("📋 Completed successfully - view denied: %s", decision.Reason)
	}
	return decision, nil
}

func denialReason(share *models.SharedSummary, viewer models.ShareViewerMeta) (models.ShareViewDenialReason, bool) {
	if !share.IsActive {
		return models.ShareViewDenialInactive, true
	}
	if time.Now().After(share.ExpiresAt) {
		return models.ShareViewDenialExpired, true
	}
	if share.ViewCount >= share.MaxViews {
		return models.ShareViewDenialViewLimitReached, true
	}
	if share.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*share.PasswordHash), []byte(viewer.Password)); err != nil {
			return models.ShareViewDenialPasswordRequired, true
		}
	}
	return "", false
}

// RecordConversion bumps the conversion counter for a share. Independent of
// view accounting; a conversion can land after the view limit is reached.
func (u *SharingUseCase) RecordConversion(ctx context.Context, token string) error {
	log.Printf("📋 Starting to record conversion for shared summary")

	maybeShare, err := u.sharesService.GetShareByToken(ctx, token, false)
	if err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}
	share, ok := maybeShare.Get()
	if !ok {
		return core.ErrNotFound
	}

	if err := u.sharesService.IncrementConversionCount(ctx, share.ID); err != nil {
		return fmt.Errorf("failed to increment conversion count: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded conversion for share %s", share.ID)
	return nil
}

// DeactivateShare is terminal; a deactivated share never serves again.
func (u *SharingUseCase) DeactivateShare(ctx context.Context, shareID, userID string) error {
	log.Printf("📋 Starting to deactivate share: %s", shareID)

	if err := u.sharesService.DeactivateShare(ctx, shareID, userID); err != nil {
		return err
	}

	log.Printf("📋 Completed successfully - deactivated share: %s", shareID)
	return nil
}

// ListShares returns all of a user's shares, newest first.
func (u *SharingUseCase) ListShares(ctx context.Context, userID string) ([]*models.SharedSummary, error) {
	return u.sharesService.ListSharesByUserID(ctx, userID)
}
