package repository

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/database"
	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and its activity entry atomically
func (r *GormProjectRepository) Create(project *models.Project, entry *models.ActivityLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		entry.SubjectID = project.ID
		return tx.Create(entry).Error
	})
}

// FindByID finds an active project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.Scopes(database.NotDeleted)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// FindByIDIncludingDeleted finds a project regardless of deletion state
func (r *GormProjectRepository) FindByIDIncludingDeleted(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).Where("organization_id = ?", filter.OrganizationID)

	if !filter.IncludeDeleted {
		query = query.Scopes(database.NotDeleted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Creator").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update saves a project and its activity entry atomically
func (r *GormProjectRepository) Update(project *models.Project, entry *models.ActivityLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return tx.Create(entry).Error
	})
}

// Delete transitions a project Active -> Deleted
func (r *GormProjectRepository) Delete(project *models.Project, entry *models.ActivityLogEntry) error {
	now := time.Now()
	project.DeletedAt = &now

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("id = ?", project.ID).
			Update("deleted_at", project.DeletedAt).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// Restore transitions a project Deleted -> Active
func (r *GormProjectRepository) Restore(project *models.Project, entry *models.ActivityLogEntry) error {
	project.DeletedAt = nil

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("id = ?", project.ID).
			Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// CountByOrganization counts active projects in an organization
func (r *GormProjectRepository) CountByOrganization(organizationID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("organization_id = ? AND deleted_at IS NULL", organizationID).
		Count(&count).Error
	return count, err
}
