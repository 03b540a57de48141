package subscriptions

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type SubscriptionsService struct {
	subscriptionsRepo *db.PostgresSubscriptionsRepository
}

func NewSubscriptionsService(repo *db.PostgresSubscriptionsRepository) *SubscriptionsService {
	return &SubscriptionsService{subscriptionsRepo: repo}
}

func (s *SubscriptionsService) GetSubscriptionByUserID(
	ctx context.Context,
	userID string,
) (mo.Option[*models.Subscription], error) {
	log.Printf("📋 Starting to get subscription for user: %s", userID)

	if !core.IsValidID(userID) {
		return mo.None[*models.Subscription](), fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	subscription, err := s.subscriptionsRepo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("📋 Completed successfully - no subscription for user: %s", userID)
			return mo.None[*models.Subscription](), nil
		}
		return mo.None[*models.Subscription](), fmt.Errorf("failed to get subscription: %w", err)
	}

	log.Printf("📋 Completed successfully - user %s is on plan: %s", userID, subscription.Plan)
	return mo.Some(subscription), nil
}

// GetPlanForUser resolves the effective plan, defaulting to free when no
// subscription row exists or the subscription is not active.
func (s *SubscriptionsService) GetPlanForUser(ctx context.Context, userID string) (models.Plan, error) {
	maybeSub, err := s.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	subscription, ok := maybeSub.Get()
	if !ok || subscription.Status != "active" {
		return models.PlanFree, nil
	}
	if !subscription.Plan.IsValid() {
		return models.PlanFree, nil
	}
	return subscription.Plan, nil
}
