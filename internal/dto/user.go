package dto

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// CurrentUserDTO is the authenticated user's own profile, including
// notification preferences and organization.
type CurrentUserDTO struct {
	ID                 uint64           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Role               models.Role      `json:"role"`
	RoleLabel          string           `json:"role_label"`
	EmailNotifications bool             `json:"email_notifications"`
	Organization       *OrganizationDTO `json:"organization,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MemberDTO represents a fellow organization member in list responses
type MemberDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	RoleLabel string      `json:"role_label"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToCurrentUserDTO converts a User model to CurrentUserDTO
func ToCurrentUserDTO(user models.User) CurrentUserDTO {
	dto := CurrentUserDTO{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		RoleLabel:          user.Role.Label(),
		EmailNotifications: user.EmailNotifications,
		CreatedAt:          user.CreatedAt,
	}

	// Include organization if preloaded
	if user.Organization.ID != 0 {
		org := ToOrganizationDTO(user.Organization)
		dto.Organization = &org
	}

	return dto
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:   org.ID,
		Name: org.Name,
	}
}

// ToMemberDTO converts a User model to MemberDTO
func ToMemberDTO(user models.User) MemberDTO {
	return MemberDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		RoleLabel: user.Role.Label(),
		CreatedAt: user.CreatedAt,
	}
}

// ToMemberDTOs converts a slice of users to MemberDTOs
func ToMemberDTOs(users []models.User) []MemberDTO {
	dtos := make([]MemberDTO, len(users))
	for i, user := range users {
		dtos[i] = ToMemberDTO(user)
	}
	return dtos
}
