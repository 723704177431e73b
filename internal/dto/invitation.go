package dto

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token is never
// serialized; it travels only inside the invite mail.
type InvitationDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	RoleLabel string      `json:"role_label"`
	CreatedAt time.Time   `json:"created_at"`
}

// InvitationPreviewDTO is the public accept-page view of an invitation.
type InvitationPreviewDTO struct {
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Role             models.Role `json:"role"`
	OrganizationName string      `json:"organization_name"`
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:        invitation.ID,
		Name:      invitation.Name,
		Email:     invitation.Email,
		Role:      invitation.Role,
		RoleLabel: invitation.Role.Label(),
		CreatedAt: invitation.CreatedAt,
	}
}

// ToInvitationDTOs converts a slice of invitations to InvitationDTOs
func ToInvitationDTOs(invitations []models.Invitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = ToInvitationDTO(invitation)
	}
	return dtos
}

// ToInvitationPreviewDTO converts an Invitation model to InvitationPreviewDTO
func ToInvitationPreviewDTO(invitation models.Invitation) InvitationPreviewDTO {
	return InvitationPreviewDTO{
		Name:             invitation.Name,
		Email:            invitation.Email,
		Role:             invitation.Role,
		OrganizationName: invitation.Organization.Name,
	}
}
