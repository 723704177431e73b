package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectNotDeleted = errors.New("project is not deleted")
	ErrProjectNameEmpty  = errors.New("project name cannot be empty")
)

// ProjectService handles project business logic. viewAny/view/create run
// through the plan-access gate inside the policy engine; update, delete and
// restore intentionally do not, so existing projects remain manageable
// after a downgrade.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	policy      *authz.Engine
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, policy *authz.Engine) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		policy:      policy,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description *string
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name             *string
	Description      *string
	ClearDescription bool
}

// ListProjects returns the active projects of the actor's organization.
func (s *ProjectService) ListProjects(actor models.User, page, pageSize int) ([]models.Project, int64, error) {
	if err := s.policy.Authorize(actor, authz.PermProjectsViewAny, nil); err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.List(repository.ProjectFilter{
		OrganizationID: actor.OrganizationID,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// GetProject returns a project with related data.
func (s *ProjectService) GetProject(actor models.User, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermProjectsView, project); err != nil {
		return nil, err
	}

	return project, nil
}

// CreateProject creates a project in the actor's organization.
func (s *ProjectService) CreateProject(actor models.User, input CreateProjectInput) (*models.Project, error) {
	if err := s.policy.Authorize(actor, authz.PermProjectsCreate, nil); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameEmpty
	}

	project := &models.Project{
		Name:           input.Name,
		Description:    input.Description,
		OrganizationID: actor.OrganizationID,
		CreatorID:      actor.ID,
	}

	entry := newActivity(actor, models.SubjectProject, 0, models.ActivityCreated, models.JSONMap{
		"name":        attributeChange(nil, project.Name),
		"description": attributeChange(nil, derefString(project.Description)),
	})

	if err := s.projectRepo.Create(project, entry); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Creator")
}

// UpdateProject updates a project.
func (s *ProjectService) UpdateProject(actor models.User, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermProjectsUpdate, project); err != nil {
		return nil, err
	}

	changes := models.JSONMap{}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProjectNameEmpty
		}
		if *input.Name != project.Name {
			changes["name"] = attributeChange(project.Name, *input.Name)
			project.Name = *input.Name
		}
	}

	if input.ClearDescription {
		if project.Description != nil {
			changes["description"] = attributeChange(derefString(project.Description), nil)
			project.Description = nil
		}
	} else if input.Description != nil {
		if !stringPtrEqual(project.Description, input.Description) {
			changes["description"] = attributeChange(derefString(project.Description), *input.Description)
			project.Description = input.Description
		}
	}

	var entry *models.ActivityLogEntry
	if len(changes) > 0 {
		entry = newActivity(actor, models.SubjectProject, project.ID, models.ActivityUpdated, changes)
	}

	if err := s.projectRepo.Update(project, entry); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Creator")
}

// DeleteProject transitions a project Active -> Deleted.
func (s *ProjectService) DeleteProject(actor models.User, projectID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermProjectsDelete, project); err != nil {
		return err
	}

	entry := newActivity(actor, models.SubjectProject, project.ID, models.ActivityDeleted, nil)

	if err := s.projectRepo.Delete(project, entry); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// RestoreProject transitions a project Deleted -> Active.
func (s *ProjectService) RestoreProject(actor models.User, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDIncludingDeleted(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermProjectsRestore, project); err != nil {
		return nil, err
	}

	if !project.IsDeleted() {
		return nil, ErrProjectNotDeleted
	}

	entry := newActivity(actor, models.SubjectProject, project.ID, models.ActivityRestored, nil)

	if err := s.projectRepo.Restore(project, entry); err != nil {
		return nil, fmt.Errorf("failed to restore project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Creator")
}
