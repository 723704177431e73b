package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/dto"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/services"
	"github.com/hiyona/orgflow-api/internal/utils"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the organization's active projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(user, params.Page, params.Limit)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// GetProject returns a single project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(user, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a new project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string  `json:"name" binding:"required,max=255"`
		Description *string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(user, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{}

	if value, present := raw["name"]; present {
		name, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "name must be a string")
			return
		}
		input.Name = &name
	}

	if value, present := raw["description"]; present {
		if value == nil {
			input.ClearDescription = true
		} else if desc, ok := value.(string); ok {
			input.Description = &desc
		} else {
			apierrors.BadRequest(c, "description must be a string or null")
			return
		}
	}

	project, err := h.projectService.UpdateProject(user, projectID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject soft deletes a project.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(user, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// RestoreProject brings a soft-deleted project back.
func (h *ProjectHandler) RestoreProject(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projectService.RestoreProject(user, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c)
	case errors.Is(err, services.ErrProjectNameEmpty),
		errors.Is(err, services.ErrProjectNotDeleted):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
