package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/constants"
	"github.com/hiyona/orgflow-api/internal/dto"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/services"
)

// InvitationHandler coordinates invitation-related HTTP handlers. The accept
// endpoints are public; everything else requires an authenticated admin.
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// ListInvitations returns the organization's pending invitations.
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	invitations, err := h.invitationService.ListPending(user)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": dto.ToInvitationDTOs(invitations),
	})
}

// CreateInvitation invites a new member.
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateInvitationRequest struct {
		Name  string `json:"name" binding:"required,max=255"`
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.CreateInvitation(c.Request.Context(), user, services.CreateInvitationInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.Role(req.Role),
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation))
}

// RevokeInvitation deletes a pending invitation.
func (h *InvitationHandler) RevokeInvitation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	invitationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.invitationService.RevokeInvitation(user, invitationID); err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation revoked",
	})
}

// ShowInvitation returns the accept-page preview for a token. Public.
func (h *InvitationHandler) ShowInvitation(c *gin.Context) {
	invitation, err := h.invitationService.GetByToken(c.Param("token"))
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationPreviewDTO(*invitation))
}

// AcceptInvitation creates the invited user and logs them in. Public.
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	type AcceptRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.invitationService.Accept(services.AcceptInput{
		Token:    c.Param("token"),
		Password: req.Password,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCurrentUserDTO(*user))
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c)
	case errors.Is(err, services.ErrInviteeEmailTaken),
		errors.Is(err, services.ErrInviteeNameRequired),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
