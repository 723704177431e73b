package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/dto"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/services"
	"github.com/hiyona/orgflow-api/internal/utils"
)

// NotificationHandler exposes the caller's in-app notification feed.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications, unread first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	notifications, total, unread, err := h.notificationService.ListNotifications(user, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationListResponse(notifications, unread, params.Page, params.Limit, total))
}

// MarkAllRead stamps every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.notificationService.MarkAllRead(user); err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
	})
}
