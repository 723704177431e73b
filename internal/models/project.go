package models

import (
	"time"
)

// Project mirrors Task ownership rules: the organization binding is set at
// creation and immutable. Soft deletion works the same way.
type Project struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string    `gorm:"type:text" json:"description"`
	OrganizationID uint64     `gorm:"not null;index" json:"organization_id"`
	CreatorID      uint64     `gorm:"not null;index" json:"creator_id"`
	DeletedAt      *time.Time `gorm:"index" json:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Creator      User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (p *Project) IsDeleted() bool {
	return p.DeletedAt != nil
}
