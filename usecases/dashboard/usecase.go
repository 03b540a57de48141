package dashboard

import (
	"context"
	"log"

	"scribebackend/models"
	"scribebackend/services"
)

const (
	recentSummariesLimit = 10
	notificationsLimit   = 20
)

// DashboardUseCase assembles the read model behind the dashboard page
type DashboardUseCase struct {
	summariesService         services.SummariesService
	exportsService           services.ExportsService
	crmPushesService         services.CRMPushesService
	sharesService            services.SharesService
	notificationsService     services.NotificationsService
	subscriptionsService     services.SubscriptionsService
	slackIntegrationsService services.SlackIntegrationsService
}

// NewDashboardUseCase creates a new instance of DashboardUseCase
func NewDashboardUseCase(
	summariesService services.SummariesService,
	exportsService services.ExportsService,
	crmPushesService services.CRMPushesService,
	sharesService services.SharesService,
	notificationsService services.NotificationsService,
	subscriptionsService services.SubscriptionsService,
	slackIntegrationsService services.SlackIntegrationsService,
) *DashboardUseCase {
	return &DashboardUseCase{
		summariesService:         summariesService,
		exportsService:           exportsService,
		crmPushesService:         crmPushesService,
		sharesService:            sharesService,
		notificationsService:     notificationsService,
		subscriptionsService:     subscriptionsService,
		slackIntegrationsService: slackIntegrationsService,
	}
}

// GetDashboard fans out the sub-fetches and degrades per-field: a failed
// sub-fetch leaves its field nil rather than failing the page or fabricating
// zeros. GetDashboard itself never returns an error.
func (u *DashboardUseCase) GetDashboard(ctx context.Context, user *models.User) *models.DashboardData {
	log.Printf("📋 Starting to build dashboard for user: %s", user.ID)

	data := &models.DashboardData{User: user}

	if stats := u.collectStats(ctx, user.ID); stats != nil {
		data.Stats = stats
	}

	maybeSub, err := u.subscriptionsService.GetSubscriptionByUserID(ctx, user.ID)
	if err != nil {
		log.Printf("⚠️ Failed to get subscription for dashboard: %v", err)
	} else if sub, ok := maybeSub.Get(); ok {
		data.Subscription = sub
	}

	workspaces, err := u.slackIntegrationsService.GetSlackIntegrationsByUserID(ctx, user.ID)
	if err != nil {
		log.Printf("⚠️ Failed to get slack workspaces for dashboard: %v", err)
	} else {
		data.SlackWorkspaces = workspaces
	}

	summaries, err := u.summariesService.ListRecentSummaries(ctx, user.ID, recentSummariesLimit)
	if err != nil {
		log.Printf("⚠️ Failed to list recent summaries for dashboard: %v", err)
	} else {
		data.RecentSummaries = summaries
	}

	notifications, err := u.notificationsService.ListNotifications(ctx, user.ID, notificationsLimit)
	if err != nil {
		log.Printf("⚠️ Failed to list notifications for dashboard: %v", err)
	} else {
		data.Notifications = notifications
	}

	log.Printf("📋 Completed successfully - built dashboard for user: %s", user.ID)
	return data
}

// collectStats is all-or-nothing: a partially populated counter block would
// read as real data, so any failed count nils the whole block.
func (u *DashboardUseCase) collectStats(ctx context.Context, userID string) *models.DashboardStats {
	totalSummaries, err := u.summariesService.CountSummariesByUserID(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to count summaries for dashboard: %v", err)
		return nil
	}
	totalExports, err := u.exportsService.CountExportsByUserID(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to count exports for dashboard: %v", err)
		return nil
	}
	pushStats, err := u.crmPushesService.GetCRMPushStatistics(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to get CRM push statistics for dashboard: %v", err)
		return nil
	}
	activeShares, err := u.sharesService.CountActiveShares(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to count active shares for dashboard: %v", err)
		return nil
	}
	unread, err := u.notificationsService.CountUnreadNotifications(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to count unread notifications for dashboard: %v", err)
		return nil
	}

	return &models.DashboardStats{
		TotalSummaries:   totalSummaries,
		TotalExports:     totalExports,
		TotalCRMPushes:   pushStats.Total,
		ActiveShares:     activeShares,
		UnreadNotificats: unread,
	}
}
