package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/constants"
	"github.com/hiyona/orgflow-api/internal/dto"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/services"
	"github.com/hiyona/orgflow-api/internal/utils"
)

// ActivityHandler exposes the organization audit trail.
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivity returns the organization's audit entries, newest first. The
// feed uses a fixed page size.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	entries, total, err := h.activityService.ListActivity(user, params.Page, constants.ActivityLogPageSize)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			apierrors.Forbidden(c)
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityListResponse(entries, params.Page, constants.ActivityLogPageSize, total))
}
