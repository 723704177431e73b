package services

import (
	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/billing"
	"github.com/hiyona/orgflow-api/internal/models"
)

// BillingService exposes the plan and usage summary.
type BillingService struct {
	gate   *billing.Gate
	policy *authz.Engine
}

// NewBillingService creates a new BillingService
func NewBillingService(gate *billing.Gate, policy *authz.Engine) *BillingService {
	return &BillingService{
		gate:   gate,
		policy: policy,
	}
}

// GetUsage returns the actor's organization plan and consumption.
func (s *BillingService) GetUsage(actor models.User) (*billing.Usage, error) {
	if err := s.policy.Authorize(actor, authz.PermBillingView, nil); err != nil {
		return nil, err
	}

	return s.gate.CurrentUsage(actor.OrganizationID)
}
