package repository

import (
	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// GormSubscriptionRepository is a GORM implementation of SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindUsableByOrganization returns the organization's newest active or
// trialing subscription
func (r *GormSubscriptionRepository) FindUsableByOrganization(organizationID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("organization_id = ? AND status IN ?",
		organizationID,
		[]models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionTrialing}).
		Order("created_at DESC").
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
