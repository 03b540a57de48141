package notifications

import (
	"context"
	"fmt"
	"log"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type NotificationsService struct {
	notificationsRepo *db.PostgresNotificationsRepository
}

func NewNotificationsService(repo *db.PostgresNotificationsRepository) *NotificationsService {
	return &NotificationsService{notificationsRepo: repo}
}

func (s *NotificationsService) CreateNotification(
	ctx context.Context,
	notification *models.Notification,
) (*models.Notification, error) {
	log.Printf("📋 Starting to create %s notification for user: %s", notification.Type, notification.UserID)

	if !core.IsValidID(notification.UserID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if notification.Title == "" {
		return nil, fmt.Errorf("notification title cannot be empty")
	}

	if notification.ID == "" {
		notification.ID = core.NewID("ntf")
	}
	if err := s.notificationsRepo.CreateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification in database: %w", err)
	}

	log.Printf("📋 Completed successfully - created notification with ID: %s", notification.ID)
	return notification, nil
}

func (s *NotificationsService) ListNotifications(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Notification, error) {
	log.Printf("📋 Starting to list notifications for user: %s (limit %d)", userID, limit)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if limit <= 0 {
		limit = 20
	}

	notifications, err := s.notificationsRepo.ListNotificationsByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d notifications for user: %s", len(notifications), userID)
	return notifications, nil
}

func (s *NotificationsService) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	log.Printf("📋 Starting to count unread notifications for user: %s", userID)

	if !core.IsValidID(userID) {
		return 0, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	count, err := s.notificationsRepo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	log.Printf("📋 Completed successfully - user %s has %d unread notifications", userID, count)
	return count, nil
}

func (s *NotificationsService) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	log.Printf("📋 Starting to mark notification read: %s", notificationID)

	if !core.IsValidID(notificationID) {
		return fmt.Errorf("notification ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	if err := s.notificationsRepo.MarkNotificationRead(ctx, notificationID, userID); err != nil {
		if core.IsNotFoundError(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	log.Printf("📋 Completed successfully - marked notification read: %s", notificationID)
	return nil
}
