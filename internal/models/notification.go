package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTaskAssigned NotificationType = "task_assigned"
	NotificationInvitation   NotificationType = "invitation"
)

// Notification is the in-app (database channel) record of a dispatched
// notification. Mail delivery is handled separately by the notifier.
type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Data      JSONMap          `gorm:"type:json" json:"data"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
