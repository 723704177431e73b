package models

import (
	"time"
)

// Task is owned by an organization; OrganizationID never changes after
// creation and always matches the creating user's organization.
// DeletedAt implements the Active/Deleted lifecycle: repositories scope it
// out of normal queries, Restore clears it.
type Task struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Name             string     `gorm:"type:varchar(255);not null" json:"name"`
	Description      *string    `gorm:"type:text" json:"description"`
	OrganizationID   uint64     `gorm:"not null;index" json:"organization_id"`
	CreatorID        uint64     `gorm:"not null;index" json:"creator_id"`
	AssignedToUserID *uint64    `gorm:"index" json:"assigned_to_user_id"`
	DeletedAt        *time.Time `gorm:"index" json:"deleted_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Creator        User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	AssignedToUser *User        `gorm:"foreignKey:AssignedToUserID" json:"assigned_to_user,omitempty"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// IsDeleted reports whether the task is in the Deleted state.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}
