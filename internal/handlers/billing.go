package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/authz"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/services"
)

// BillingHandler exposes the plan and usage summary.
type BillingHandler struct {
	billingService *services.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// GetUsage returns the organization's plan tier and resource consumption.
func (h *BillingHandler) GetUsage(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	usage, err := h.billingService.GetUsage(user)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			apierrors.Forbidden(c)
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, usage)
}
