package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

// IsValid reports whether the role is one of the defined values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleViewer:
		return true
	}
	return false
}

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleUser:
		return "User"
	case RoleViewer:
		return "Viewer"
	}
	return string(r)
}

// User belongs to exactly one organization for its lifetime and carries
// exactly one role within it.
type User struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"type:varchar(255);not null" json:"-"`
	OrganizationID     uint64    `gorm:"not null" json:"organization_id"`
	Role               Role      `gorm:"type:varchar(20);not null" json:"role"`
	EmailNotifications bool      `gorm:"not null;default:true" json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
