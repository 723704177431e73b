package repository

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/database"
	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its activity entry atomically
func (r *GormTaskRepository) Create(task *models.Task, entry *models.ActivityLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		entry.SubjectID = task.ID
		return tx.Create(entry).Error
	})
}

// FindByID finds an active task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.NotDeleted)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByIDIncludingDeleted finds a task regardless of deletion state
func (r *GormTaskRepository) FindByIDIncludingDeleted(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("organization_id = ?", filter.OrganizationID)

	if !filter.IncludeDeleted {
		query = query.Scopes(database.NotDeleted)
	}
	if filter.AssignedToUserID != nil {
		query = query.Where("assigned_to_user_id = ?", *filter.AssignedToUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Creator").Preload("AssignedToUser").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves a task and its activity entry atomically
func (r *GormTaskRepository) Update(task *models.Task, entry *models.ActivityLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return tx.Create(entry).Error
	})
}

// Delete transitions a task Active -> Deleted
func (r *GormTaskRepository) Delete(task *models.Task, entry *models.ActivityLogEntry) error {
	now := time.Now()
	task.DeletedAt = &now

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).
			Update("deleted_at", task.DeletedAt).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// Restore transitions a task Deleted -> Active
func (r *GormTaskRepository) Restore(task *models.Task, entry *models.ActivityLogEntry) error {
	task.DeletedAt = nil

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).
			Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// ForceDelete permanently removes a task
func (r *GormTaskRepository) ForceDelete(task *models.Task, entry *models.ActivityLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&models.Task{}, task.ID).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// CountByOrganization counts active tasks in an organization
func (r *GormTaskRepository) CountByOrganization(organizationID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("organization_id = ? AND deleted_at IS NULL", organizationID).
		Count(&count).Error
	return count, err
}
