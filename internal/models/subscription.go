package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
)

// Subscription is the billing collaborator record. The plan tier is derived
// from PriceID of the organization's active subscription.
type Subscription struct {
	ID             uint64             `gorm:"primarykey" json:"id"`
	OrganizationID uint64             `gorm:"not null;index" json:"organization_id"`
	Status         SubscriptionStatus `gorm:"type:varchar(20);not null" json:"status"`
	PriceID        string             `gorm:"type:varchar(255);not null" json:"price_id"`
	PeriodStart    *time.Time         `json:"period_start"`
	PeriodEnd      *time.Time         `json:"period_end"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// IsUsable reports whether the subscription currently grants plan features.
func (s *Subscription) IsUsable() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
