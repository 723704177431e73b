package services

import (
	"fmt"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
)

// ActivityService exposes the read side of the audit trail. Entries are
// written by the task and project repositories; this service never mutates.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	policy       *authz.Engine
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository, policy *authz.Engine) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		policy:       policy,
	}
}

// ListActivity returns the organization's audit entries, newest first.
func (s *ActivityService) ListActivity(actor models.User, page, pageSize int) ([]models.ActivityLogEntry, int64, error) {
	if err := s.policy.Authorize(actor, authz.PermActivityViewAny, nil); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.activityRepo.ListByOrganization(actor.OrganizationID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}

	return entries, total, nil
}
