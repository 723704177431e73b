package services

import (
	"errors"
	"fmt"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrCannotRemoveSelf = errors.New("you cannot remove yourself")
)

// UserService handles organization membership.
type UserService struct {
	userRepo repository.UserRepository
	policy   *authz.Engine
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, policy *authz.Engine) *UserService {
	return &UserService{
		userRepo: userRepo,
		policy:   policy,
	}
}

// ListMembers returns the members of the actor's organization, excluding the
// actor themselves.
func (s *UserService) ListMembers(actor models.User) ([]models.User, error) {
	if err := s.policy.Authorize(actor, authz.PermUsersViewAny, nil); err != nil {
		return nil, err
	}

	members, err := s.userRepo.ListByOrganization(actor.OrganizationID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// RemoveMember permanently removes a member from the actor's organization.
// The lookup is scoped to the actor's organization, so a foreign user ID
// reads as not found.
func (s *UserService) RemoveMember(actor models.User, userID uint64) error {
	if userID == actor.ID {
		return ErrCannotRemoveSelf
	}

	member, err := s.userRepo.FindMember(actor.OrganizationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermUsersDelete, member); err != nil {
		return err
	}

	if err := s.userRepo.Delete(member.ID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
