package dto

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
)

// NotificationDTO represents an in-app notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Data      models.JSONMap          `json:"data"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationListResponse represents a paginated notification feed
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
	TotalPages    int               `json:"total_pages"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Data:      n.Data,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationListResponse converts notifications to NotificationListResponse
func ToNotificationListResponse(notifications []models.Notification, unread int64, page, pageSize int, totalCount int64) NotificationListResponse {
	items := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		items[i] = ToNotificationDTO(n)
	}

	return NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages(totalCount, pageSize),
	}
}
