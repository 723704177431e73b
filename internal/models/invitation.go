package models

import (
	"time"
)

// Invitation is a pending offer to join an organization with a given role.
// (OrganizationID, Email) is unique among pending rows; AcceptedAt is set
// exactly once and never reverted.
type Invitation struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	OrganizationID uint64     `gorm:"not null;index" json:"organization_id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Email          string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Role           Role       `gorm:"type:varchar(20);not null" json:"role"`
	Token          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	AcceptedAt     *time.Time `json:"accepted_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// IsPending reports whether the invitation has not been accepted yet.
func (i *Invitation) IsPending() bool {
	return i.AcceptedAt == nil
}
