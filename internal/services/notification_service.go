package services

import (
	"fmt"

	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
)

// NotificationService exposes a user's in-app notification feed. No policy
// check: a user always owns their own feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// ListNotifications returns the actor's notifications, unread first, along
// with the unread count.
func (s *NotificationService) ListNotifications(actor models.User, page, pageSize int) ([]models.Notification, int64, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUser(actor.ID, page, pageSize)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(actor.ID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, total, unread, nil
}

// MarkAllRead stamps every unread notification of the actor as read.
func (s *NotificationService) MarkAllRead(actor models.User) error {
	if err := s.notificationRepo.MarkAllRead(actor.ID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
