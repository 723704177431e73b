package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/constants"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/notifier"
	"github.com/hiyona/orgflow-api/internal/repository"
	"github.com/hiyona/orgflow-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInviteeEmailTaken covers both an existing user and a pending
	// invitation: the caller gets one uniqueness failure either way.
	ErrInviteeEmailTaken   = errors.New("the provided email address already has access or a pending invitation")
	ErrInviteeNameRequired = errors.New("invitee name is required")
	ErrInvalidRole         = errors.New("invalid role selected")
	// ErrInvitationNotFound deliberately covers unknown tokens, already
	// accepted invitations, and emails that registered in the meantime, so
	// unauthenticated probers learn nothing from the distinction.
	ErrInvitationNotFound = errors.New("invitation not found")
)

// InvitationService handles the invitation lifecycle: Pending on creation,
// Accepted exactly once, after which a user exists with the invitation's
// role and organization.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
	orgRepo        repository.OrganizationRepository
	policy         *authz.Engine
	notifier       notifier.Notifier
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(invitationRepo repository.InvitationRepository, userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, policy *authz.Engine, n notifier.Notifier) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		policy:         policy,
		notifier:       n,
	}
}

// CreateInvitationInput represents input for inviting a user
type CreateInvitationInput struct {
	Name  string
	Email string
	Role  models.Role
}

// ListPending returns the organization's pending invitations, newest first.
func (s *InvitationService) ListPending(actor models.User) ([]models.Invitation, error) {
	if err := s.policy.Authorize(actor, authz.PermUsersViewAny, nil); err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.ListPendingByOrganization(actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

// CreateInvitation creates a pending invitation and dispatches the invite
// mail. The invitee email must be unique among existing users and among the
// organization's pending invitations.
func (s *InvitationService) CreateInvitation(ctx context.Context, actor models.User, input CreateInvitationInput) (*models.Invitation, error) {
	if err := s.policy.Authorize(actor, authz.PermUsersCreate, nil); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInviteeNameRequired
	}
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	taken, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrInviteeEmailTaken
	}

	pending, err := s.invitationRepo.PendingExists(actor.OrganizationID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		return nil, ErrInviteeEmailTaken
	}

	invitation := &models.Invitation{
		OrganizationID: actor.OrganizationID,
		Name:           name,
		Email:          email,
		Role:           input.Role,
		Token:          utils.GenerateInvitationToken(),
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	org, err := s.orgRepo.FindByID(actor.OrganizationID)
	orgName := ""
	if err == nil {
		orgName = org.Name
	}

	_ = s.notifier.NotifyUserInvited(ctx, notifier.UserInvitedEvent{
		Invitation:       *invitation,
		OrganizationName: orgName,
		AcceptURL:        "/invitations/accept/" + invitation.Token,
	})

	return invitation, nil
}

// RevokeInvitation deletes a pending invitation.
func (s *InvitationService) RevokeInvitation(actor models.User, invitationID uint64) error {
	invitation, err := s.invitationRepo.FindByID(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to find invitation: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermUsersDelete, invitation); err != nil {
		return err
	}

	if !invitation.IsPending() {
		return ErrInvitationNotFound
	}

	if err := s.invitationRepo.Delete(invitation.ID); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	return nil
}

// GetByToken returns the invitation for the accept page. Unknown tokens,
// accepted invitations, and already-registered emails all read as not found.
func (s *InvitationService) GetByToken(token string) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if !invitation.IsPending() {
		return nil, ErrInvitationNotFound
	}

	registered, err := s.userRepo.ExistsByEmail(invitation.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if registered {
		return nil, ErrInvitationNotFound
	}

	return invitation, nil
}

// AcceptInput holds the data needed to accept an invitation.
type AcceptInput struct {
	Token    string
	Password string
}

// Accept creates the user and stamps the invitation accepted in one atomic
// unit, so a half-accepted invitation can never be replayed. The returned
// user is ready for session establishment.
func (s *InvitationService) Accept(input AcceptInput) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	invitation, err := s.GetByToken(input.Token)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:               invitation.Name,
		Email:              invitation.Email,
		PasswordHash:       string(hashedPassword),
		OrganizationID:     invitation.OrganizationID,
		Role:               invitation.Role,
		EmailNotifications: true,
	}

	if err := s.invitationRepo.Accept(invitation, user); err != nil {
		if errors.Is(err, repository.ErrInvitationAlreadyAccepted) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return user, nil
}
