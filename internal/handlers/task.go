package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/billing"
	"github.com/hiyona/orgflow-api/internal/dto"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/services"
	"github.com/hiyona/orgflow-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the organization's active tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(user, params.Page, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(user, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Name             string  `json:"name" binding:"required,max=255"`
		Description      *string `json:"description"`
		AssignedToUserID *uint64 `json:"assigned_to_user_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), user, services.CreateTaskInput{
		Name:             req.Name,
		Description:      req.Description,
		AssignedToUserID: req.AssignedToUserID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Fields absent from the payload are
// left untouched; an explicit null clears the nullable ones.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}

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

	if value, present := raw["assigned_to_user_id"]; present {
		if value == nil {
			input.ClearAssignee = true
		} else if id, ok := toAssigneeID(value); ok {
			input.AssignedToUserID = &id
		} else {
			apierrors.BadRequest(c, "assigned_to_user_id must be a positive integer or null")
			return
		}
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), user, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask soft deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(user, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// RestoreTask brings a soft-deleted task back.
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.RestoreTask(user, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ForceDeleteTask permanently removes a task.
func (h *TaskHandler) ForceDeleteTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.ForceDeleteTask(user, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task permanently deleted",
	})
}

func respondTaskError(c *gin.Context, err error) {
	var quotaErr *billing.QuotaExceededError
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c)
	case errors.As(err, &quotaErr):
		apierrors.QuotaExceeded(c, quotaErr.Error(), quotaErr.Limit)
	case errors.Is(err, services.ErrTaskNameEmpty),
		errors.Is(err, services.ErrTaskNotDeleted),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// parseIDParam parses the :id path parameter, writing the error response on
// failure.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// toAssigneeID accepts the numeric JSON forms of a user ID.
func toAssigneeID(value any) (uint64, bool) {
	f, ok := value.(float64)
	if !ok || f <= 0 || f != float64(uint64(f)) {
		return 0, false
	}
	return uint64(f), true
}
