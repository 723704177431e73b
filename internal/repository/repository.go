package repository

import (
	"github.com/hiyona/orgflow-api/internal/models"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OrganizationID   uint64
	AssignedToUserID *uint64
	IncludeDeleted   bool
	Page             int
	PageSize         int
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OrganizationID uint64
	IncludeDeleted bool
	Page           int
	PageSize       int
}

// TaskRepository defines the interface for task data access. Mutations take
// the activity log entry recorded in the same transaction so the audit trail
// and the entity change are atomic together.
type TaskRepository interface {
	// Create creates a task and its activity entry atomically
	Create(task *models.Task, entry *models.ActivityLogEntry) error

	// FindByID finds an active (non-deleted) task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindByIDIncludingDeleted finds a task regardless of deletion state
	FindByIDIncludingDeleted(id uint64, preload ...string) (*models.Task, error)

	// List retrieves active tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves a task and its activity entry atomically
	Update(task *models.Task, entry *models.ActivityLogEntry) error

	// Delete transitions a task Active -> Deleted
	Delete(task *models.Task, entry *models.ActivityLogEntry) error

	// Restore transitions a task Deleted -> Active
	Restore(task *models.Task, entry *models.ActivityLogEntry) error

	// ForceDelete permanently removes a task
	ForceDelete(task *models.Task, entry *models.ActivityLogEntry) error

	// CountByOrganization counts active tasks in an organization. This is the
	// live count consulted by the subscription quota gate.
	CountByOrganization(organizationID uint64) (int64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project, entry *models.ActivityLogEntry) error
	FindByID(id uint64, preload ...string) (*models.Project, error)
	FindByIDIncludingDeleted(id uint64, preload ...string) (*models.Project, error)
	List(filter ProjectFilter) ([]models.Project, int64, error)
	Update(project *models.Project, entry *models.ActivityLogEntry) error
	Delete(project *models.Project, entry *models.ActivityLogEntry) error
	Restore(project *models.Project, entry *models.ActivityLogEntry) error
	CountByOrganization(organizationID uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithOrganization creates the organization and its first admin
	// user within a single transaction (signup).
	CreateWithOrganization(user *models.User, org *models.Organization) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ExistsByEmail reports whether any user has the given email
	ExistsByEmail(email string) (bool, error)

	// FindMember finds a user by ID scoped to an organization
	FindMember(organizationID, userID uint64) (*models.User, error)

	// ListByOrganization lists an organization's users ordered by name,
	// excluding the given user ID
	ListByOrganization(organizationID, excludeUserID uint64) ([]models.User, error)

	// Update saves changes to an existing user
	Update(user *models.User) error

	// Delete permanently removes a user
	Delete(id uint64) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	FindByID(id uint64) (*models.Organization, error)
	Update(org *models.Organization) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindByToken finds an invitation by its token
	FindByToken(token string) (*models.Invitation, error)

	// PendingExists reports whether a pending invitation exists for the
	// email within the organization
	PendingExists(organizationID uint64, email string) (bool, error)

	// ListPendingByOrganization lists pending invitations, newest first
	ListPendingByOrganization(organizationID uint64) ([]models.Invitation, error)

	// FindByID finds an invitation by ID
	FindByID(id uint64) (*models.Invitation, error)

	// Delete removes an invitation
	Delete(id uint64) error

	// Accept creates the user and stamps accepted_at within a single
	// transaction. It fails without side effects if the invitation was
	// already accepted.
	Accept(invitation *models.Invitation, user *models.User) error
}

// SubscriptionRepository defines the interface for billing subscription lookups
type SubscriptionRepository interface {
	// FindUsableByOrganization returns the organization's newest active or
	// trialing subscription, or gorm.ErrRecordNotFound
	FindUsableByOrganization(organizationID uint64) (*models.Subscription, error)
}

// ActivityRepository defines the interface for reading the audit trail
type ActivityRepository interface {
	// ListByOrganization lists entries newest first with pagination
	ListByOrganization(organizationID uint64, page, pageSize int) ([]models.ActivityLogEntry, int64, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID uint64, page, pageSize int) ([]models.Notification, int64, error)
	CountUnread(userID uint64) (int64, error)
	MarkAllRead(userID uint64) error
}
