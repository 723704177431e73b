package dto

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uint64     `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	OrganizationID uint64     `json:"organization_id"`
	CreatorID      uint64     `json:"creator_id"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Creator        *UserDTO   `json:"creator,omitempty"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		OrganizationID: project.OrganizationID,
		CreatorID:      project.CreatorID,
		DeletedAt:      project.DeletedAt,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}

	// Include creator if preloaded
	if project.Creator.ID != 0 {
		creator := ToUserDTO(project.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToProjectListResponse converts a slice of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page, pageSize int, totalCount int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}

	return ProjectListResponse{
		Projects:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
