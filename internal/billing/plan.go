// Package billing derives an organization's plan tier from its active
// subscription and gates plan-bounded resources. The task quota check reads
// a live count; the check and the subsequent insert are not atomic, so
// concurrent creations near the boundary can transiently exceed the limit
// by the number of simultaneous requests.
package billing

import (
	"errors"
	"fmt"

	"github.com/hiyona/orgflow-api/internal/config"
	"github.com/hiyona/orgflow-api/internal/repository"
	"gorm.io/gorm"
)

// PlanTier is the billing-derived feature/quota level.
type PlanTier string

const (
	PlanFree     PlanTier = "free"
	PlanPro      PlanTier = "pro"
	PlanUltimate PlanTier = "ultimate"
)

// QuotaExceededError is returned when a plan limit blocks resource creation.
// It carries the numeric limit so the caller can route to the upgrade flow
// instead of surfacing a validation error.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("you've reached your limit of %d tasks, upgrade to create more", e.Limit)
}

// Gate answers plan-tier questions for organizations.
type Gate struct {
	cfg         *config.Config
	subRepo     repository.SubscriptionRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewGate creates a new Gate.
func NewGate(cfg *config.Config, subRepo repository.SubscriptionRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *Gate {
	return &Gate{
		cfg:         cfg,
		subRepo:     subRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CurrentPlan returns the organization's plan tier. No active or trialing
// subscription, or an unrecognized price, means free.
func (g *Gate) CurrentPlan(organizationID uint64) (PlanTier, error) {
	sub, err := g.subRepo.FindUsableByOrganization(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlanFree, nil
		}
		return "", fmt.Errorf("failed to look up subscription: %w", err)
	}

	return g.planForPrice(sub.PriceID), nil
}

func (g *Gate) planForPrice(priceID string) PlanTier {
	switch priceID {
	case g.cfg.ProPrices.Monthly, g.cfg.ProPrices.Yearly:
		return PlanPro
	case g.cfg.UltimatePrices.Monthly, g.cfg.UltimatePrices.Yearly:
		return PlanUltimate
	default:
		return PlanFree
	}
}

// TaskLimit returns the task quota for a tier, or nil when unbounded.
func (g *Gate) TaskLimit(tier PlanTier) *int {
	if tier == PlanFree {
		limit := g.cfg.FreeTaskLimit
		return &limit
	}
	return nil
}

// ProjectsEnabled reports whether a tier includes the projects feature.
// Unknown tiers default to false.
func (g *Gate) ProjectsEnabled(tier PlanTier) bool {
	return tier == PlanPro || tier == PlanUltimate
}

// CanCreateTask reports whether the organization may create another task.
// The returned limit is non-nil exactly when the plan is bounded.
func (g *Gate) CanCreateTask(organizationID uint64) (bool, *int, error) {
	tier, err := g.CurrentPlan(organizationID)
	if err != nil {
		return false, nil, err
	}

	limit := g.TaskLimit(tier)
	if limit == nil {
		return true, nil, nil
	}

	count, err := g.taskRepo.CountByOrganization(organizationID)
	if err != nil {
		return false, limit, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count < int64(*limit), limit, nil
}

// CanAccessProjects reports whether the organization's current plan enables
// the projects feature. Satisfies authz.ProjectAccessChecker.
func (g *Gate) CanAccessProjects(organizationID uint64) (bool, error) {
	tier, err := g.CurrentPlan(organizationID)
	if err != nil {
		return false, err
	}
	return g.ProjectsEnabled(tier), nil
}

// Usage summarizes plan and consumption for the billing view.
type Usage struct {
	Plan            PlanTier `json:"plan"`
	TaskCount       int64    `json:"task_count"`
	TaskLimit       *int     `json:"task_limit"`
	ProjectCount    int64    `json:"project_count"`
	ProjectsEnabled bool     `json:"projects_enabled"`
}

// CurrentUsage returns the organization's plan and resource consumption.
func (g *Gate) CurrentUsage(organizationID uint64) (*Usage, error) {
	tier, err := g.CurrentPlan(organizationID)
	if err != nil {
		return nil, err
	}

	taskCount, err := g.taskRepo.CountByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	projectCount, err := g.projectRepo.CountByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return &Usage{
		Plan:            tier,
		TaskCount:       taskCount,
		TaskLimit:       g.TaskLimit(tier),
		ProjectCount:    projectCount,
		ProjectsEnabled: g.ProjectsEnabled(tier),
	}, nil
}
