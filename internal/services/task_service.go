package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/billing"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/notifier"
	"github.com/hiyona/orgflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskNotDeleted  = errors.New("task is not deleted")
	ErrTaskNameEmpty   = errors.New("task name cannot be empty")
	ErrInvalidAssignee = errors.New("assignee is not a member of the organization")
)

// TaskService handles task business logic. Every operation takes the actor
// explicitly; nothing below the HTTP layer reads ambient session state.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	gate     *billing.Gate
	policy   *authz.Engine
	notifier notifier.Notifier
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, gate *billing.Gate, policy *authz.Engine, n notifier.Notifier) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		gate:     gate,
		policy:   policy,
		notifier: n,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name             string
	Description      *string
	AssignedToUserID *uint64
}

// UpdateTaskInput represents input for updating a task. Pointer fields are
// applied only when present; the Clear flags distinguish "set to null" from
// "not provided".
type UpdateTaskInput struct {
	Name             *string
	Description      *string
	ClearDescription bool
	AssignedToUserID *uint64
	ClearAssignee    bool
}

// ListTasks returns the active tasks of the actor's organization, newest first.
func (s *TaskService) ListTasks(actor models.User, page, pageSize int) ([]models.Task, int64, error) {
	if err := s.policy.Authorize(actor, authz.PermTasksViewAny, nil); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		OrganizationID: actor.OrganizationID,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(actor models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "AssignedToUser")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermTasksView, task); err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTask creates a task in the actor's organization. The subscription
// quota is checked before the insert; a denial carries the plan limit so
// the API layer can point at the upgrade flow. If an assignee is set, a
// notification is dispatched after the transaction commits.
func (s *TaskService) CreateTask(ctx context.Context, actor models.User, input CreateTaskInput) (*models.Task, error) {
	if err := s.policy.Authorize(actor, authz.PermTasksCreate, nil); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskNameEmpty
	}

	var assignee *models.User
	if input.AssignedToUserID != nil {
		var err error
		assignee, err = s.resolveAssignee(actor.OrganizationID, *input.AssignedToUserID)
		if err != nil {
			return nil, err
		}
	}

	ok, limit, err := s.gate.CanCreateTask(actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &billing.QuotaExceededError{Limit: *limit}
	}

	task := &models.Task{
		Name:             input.Name,
		Description:      input.Description,
		OrganizationID:   actor.OrganizationID,
		CreatorID:        actor.ID,
		AssignedToUserID: input.AssignedToUserID,
	}

	entry := newActivity(actor, models.SubjectTask, 0, models.ActivityCreated, models.JSONMap{
		"name":                attributeChange(nil, task.Name),
		"description":         attributeChange(nil, derefString(task.Description)),
		"assigned_to_user_id": attributeChange(nil, derefUint64(task.AssignedToUserID)),
	})

	if err := s.taskRepo.Create(task, entry); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if assignee != nil {
		s.dispatchAssigned(ctx, *task, *assignee, actor.Name)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "AssignedToUser")
}

// UpdateTask updates a task. A notification fires only when the assignee
// value actually changed to a user: unassigning notifies nobody, and a
// payload restating the current assignee notifies nobody.
func (s *TaskService) UpdateTask(ctx context.Context, actor models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermTasksUpdate, task); err != nil {
		return nil, err
	}

	changes := models.JSONMap{}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrTaskNameEmpty
		}
		if *input.Name != task.Name {
			changes["name"] = attributeChange(task.Name, *input.Name)
			task.Name = *input.Name
		}
	}

	if input.ClearDescription {
		if task.Description != nil {
			changes["description"] = attributeChange(derefString(task.Description), nil)
			task.Description = nil
		}
	} else if input.Description != nil {
		if !stringPtrEqual(task.Description, input.Description) {
			changes["description"] = attributeChange(derefString(task.Description), *input.Description)
			task.Description = input.Description
		}
	}

	oldAssignee := task.AssignedToUserID
	var newAssignee *models.User

	if input.ClearAssignee {
		if task.AssignedToUserID != nil {
			changes["assigned_to_user_id"] = attributeChange(derefUint64(oldAssignee), nil)
			task.AssignedToUserID = nil
		}
	} else if input.AssignedToUserID != nil {
		if !uint64PtrEqual(oldAssignee, input.AssignedToUserID) {
			assignee, err := s.resolveAssignee(task.OrganizationID, *input.AssignedToUserID)
			if err != nil {
				return nil, err
			}
			changes["assigned_to_user_id"] = attributeChange(derefUint64(oldAssignee), *input.AssignedToUserID)
			task.AssignedToUserID = input.AssignedToUserID
			newAssignee = assignee
		}
	}

	var entry *models.ActivityLogEntry
	if len(changes) > 0 {
		entry = newActivity(actor, models.SubjectTask, task.ID, models.ActivityUpdated, changes)
	}

	if err := s.taskRepo.Update(task, entry); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if newAssignee != nil {
		s.dispatchAssigned(ctx, *task, *newAssignee, actor.Name)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "AssignedToUser")
}

// DeleteTask transitions a task Active -> Deleted. The row is retained for
// the audit trail.
func (s *TaskService) DeleteTask(actor models.User, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermTasksDelete, task); err != nil {
		return err
	}

	entry := newActivity(actor, models.SubjectTask, task.ID, models.ActivityDeleted, nil)

	if err := s.taskRepo.Delete(task, entry); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// RestoreTask transitions a task Deleted -> Active.
func (s *TaskService) RestoreTask(actor models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDIncludingDeleted(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermTasksRestore, task); err != nil {
		return nil, err
	}

	if !task.IsDeleted() {
		return nil, ErrTaskNotDeleted
	}

	entry := newActivity(actor, models.SubjectTask, task.ID, models.ActivityRestored, nil)

	if err := s.taskRepo.Restore(task, entry); err != nil {
		return nil, fmt.Errorf("failed to restore task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "AssignedToUser")
}

// ForceDeleteTask permanently removes a task.
func (s *TaskService) ForceDeleteTask(actor models.User, taskID uint64) error {
	task, err := s.taskRepo.FindByIDIncludingDeleted(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.policy.Authorize(actor, authz.PermTasksForceDelete, task); err != nil {
		return err
	}

	entry := newActivity(actor, models.SubjectTask, task.ID, models.ActivityDeleted, nil)

	if err := s.taskRepo.ForceDelete(task, entry); err != nil {
		return fmt.Errorf("failed to force delete task: %w", err)
	}

	return nil
}

// resolveAssignee verifies the assignee belongs to the organization.
func (s *TaskService) resolveAssignee(organizationID, userID uint64) (*models.User, error) {
	assignee, err := s.userRepo.FindMember(organizationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}
	return assignee, nil
}

// dispatchAssigned is fire-and-forget: dispatch failures are the notifier's
// problem, never the mutation's.
func (s *TaskService) dispatchAssigned(ctx context.Context, task models.Task, assignee models.User, assignerName string) {
	_ = s.notifier.NotifyTaskAssigned(ctx, notifier.TaskAssignedEvent{
		Task:         task,
		Assignee:     assignee,
		AssignerName: assignerName,
	})
}
