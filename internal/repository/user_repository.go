package repository

import (
	"errors"
	"fmt"

	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateOrganization is returned when creating the organization fails inside the signup transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
	// ErrCreateUser is returned when creating the user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithOrganization creates the organization and its first admin user atomically.
func (r *GormUserRepository) CreateWithOrganization(user *models.User, org *models.Organization) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}

		user.OrganizationID = org.ID

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether any user has the given email
func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// FindMember finds a user by ID scoped to an organization
func (r *GormUserRepository) FindMember(organizationID, userID uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Where("organization_id = ? AND id = ?", organizationID, userID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByOrganization lists an organization's users ordered by name, excluding the given user ID
func (r *GormUserRepository) ListByOrganization(organizationID, excludeUserID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("organization_id = ? AND id != ?", organizationID, excludeUserID).
		Order("name").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update saves changes to an existing user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete permanently removes a user
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}
