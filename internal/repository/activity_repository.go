package repository

import (
	"github.com/hiyona/orgflow-api/internal/database"
	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// ListByOrganization lists entries newest first with pagination
func (r *GormActivityRepository) ListByOrganization(organizationID uint64, page, pageSize int) ([]models.ActivityLogEntry, int64, error) {
	var entries []models.ActivityLogEntry

	query := r.db.Model(&models.ActivityLogEntry{}).
		Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Preload("Causer").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
