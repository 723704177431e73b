package models

import (
	"time"
)

type Organization struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	BillingRef *string   `gorm:"type:varchar(255)" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Users         []User         `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Tasks         []Task         `gorm:"foreignKey:OrganizationID" json:"tasks,omitempty"`
	Projects      []Project      `gorm:"foreignKey:OrganizationID" json:"projects,omitempty"`
	Invitations   []Invitation   `gorm:"foreignKey:OrganizationID" json:"invitations,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:OrganizationID" json:"-"`
}
