package repository

import (
	"errors"
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
	"gorm.io/gorm"
)

// ErrInvitationAlreadyAccepted is returned when Accept races with a
// concurrent acceptance of the same token.
var ErrInvitationAlreadyAccepted = errors.New("invitation repository: invitation already accepted")

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByToken finds an invitation by its token
func (r *GormInvitationRepository) FindByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Preload("Organization").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// PendingExists reports whether a pending invitation exists for the email
// within the organization
func (r *GormInvitationRepository) PendingExists(organizationID uint64, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invitation{}).
		Where("organization_id = ? AND email = ? AND accepted_at IS NULL", organizationID, email).
		Count(&count).Error
	return count > 0, err
}

// ListPendingByOrganization lists pending invitations, newest first
func (r *GormInvitationRepository) ListPendingByOrganization(organizationID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.Where("organization_id = ? AND accepted_at IS NULL", organizationID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(id uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.First(&invitation, id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Delete removes an invitation
func (r *GormInvitationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Invitation{}, id).Error
}

// Accept creates the user and stamps accepted_at in a single transaction.
// The guarded update makes a second acceptance of the same token fail with
// no user created, even under concurrent requests.
func (r *GormInvitationRepository) Accept(invitation *models.Invitation, user *models.User) error {
	now := time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Invitation{}).
			Where("id = ? AND accepted_at IS NULL", invitation.ID).
			Update("accepted_at", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvitationAlreadyAccepted
		}

		return tx.Create(user).Error
	})
	if err != nil {
		return err
	}

	invitation.AcceptedAt = &now
	return nil
}
