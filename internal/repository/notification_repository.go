package repository

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/database"
	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a notification record
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser lists a user's notifications, unread first then newest first
func (r *GormNotificationRepository) ListByUser(userID uint64, page, pageSize int) ([]models.Notification, int64, error) {
	var notifications []models.Notification

	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("CASE WHEN read_at IS NULL THEN 0 ELSE 1 END, created_at DESC").
		Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkAllRead marks all of a user's notifications as read
func (r *GormNotificationRepository) MarkAllRead(userID uint64) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).Error
}
