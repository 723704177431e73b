package dto

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID               uint64     `json:"id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description"`
	OrganizationID   uint64     `json:"organization_id"`
	CreatorID        uint64     `json:"creator_id"`
	AssignedToUserID *uint64    `json:"assigned_to_user_id"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Creator          *UserDTO   `json:"creator,omitempty"`
	AssignedToUser   *UserDTO   `json:"assigned_to_user,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Name:             task.Name,
		Description:      task.Description,
		OrganizationID:   task.OrganizationID,
		CreatorID:        task.CreatorID,
		AssignedToUserID: task.AssignedToUserID,
		DeletedAt:        task.DeletedAt,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	// Include assignee if preloaded
	if task.AssignedToUser != nil && task.AssignedToUser.ID != 0 {
		assignee := ToUserDTO(*task.AssignedToUser)
		dto.AssignedToUser = &assignee
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}

func totalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		pages++
	}
	return pages
}
