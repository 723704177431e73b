// Package authz implements the tenancy-scoped authorization policy: a static
// role-to-permission mapping consulted through a single Authorize entry
// point. Checks are pure predicates over the actor and resource snapshot;
// nothing here touches storage except the plan-access gate injected for
// project acquisition permissions.
package authz

import (
	"errors"

	"github.com/hiyona/orgflow-api/internal/models"
)

// Permission names follow the "resource.verb" convention.
type Permission string

const (
	PermTasksViewAny     Permission = "tasks.viewAny"
	PermTasksView        Permission = "tasks.view"
	PermTasksCreate      Permission = "tasks.create"
	PermTasksUpdate      Permission = "tasks.update"
	PermTasksDelete      Permission = "tasks.delete"
	PermTasksRestore     Permission = "tasks.restore"
	PermTasksForceDelete Permission = "tasks.forceDelete"

	PermProjectsViewAny     Permission = "projects.viewAny"
	PermProjectsView        Permission = "projects.view"
	PermProjectsCreate      Permission = "projects.create"
	PermProjectsUpdate      Permission = "projects.update"
	PermProjectsDelete      Permission = "projects.delete"
	PermProjectsRestore     Permission = "projects.restore"
	PermProjectsForceDelete Permission = "projects.forceDelete"

	PermUsersViewAny Permission = "users.viewAny"
	PermUsersCreate  Permission = "users.create"
	PermUsersDelete  Permission = "users.delete"

	PermActivityViewAny Permission = "activity.viewAny"
	PermBillingView     Permission = "billing.view"
)

// ErrForbidden is the single denial outcome. Wrong organization and missing
// permission are indistinguishable to the caller so cross-tenant existence
// of a resource never leaks.
var ErrForbidden = errors.New("access denied")

// rolePermissions is the full policy. There are no per-user overrides.
var rolePermissions = map[models.Role]map[Permission]bool{
	models.RoleAdmin: {
		PermTasksViewAny: true, PermTasksView: true, PermTasksCreate: true,
		PermTasksUpdate: true, PermTasksDelete: true, PermTasksRestore: true,
		PermTasksForceDelete: true,
		PermProjectsViewAny:  true, PermProjectsView: true, PermProjectsCreate: true,
		PermProjectsUpdate: true, PermProjectsDelete: true, PermProjectsRestore: true,
		PermProjectsForceDelete: true,
		PermUsersViewAny:        true, PermUsersCreate: true, PermUsersDelete: true,
		PermActivityViewAny: true, PermBillingView: true,
	},
	models.RoleUser: {
		PermTasksViewAny: true, PermTasksView: true, PermTasksCreate: true,
		PermTasksUpdate: true, PermTasksDelete: true, PermTasksRestore: true,
		PermTasksForceDelete: true,
		PermProjectsViewAny:  true, PermProjectsView: true, PermProjectsCreate: true,
		PermProjectsUpdate: true,
		PermUsersViewAny:   true,
	},
	models.RoleViewer: {
		PermTasksViewAny: true, PermTasksView: true,
		PermProjectsViewAny: true, PermProjectsView: true,
		PermUsersViewAny: true,
	},
}

// projectAcquisitionPerms are the project permissions additionally gated by
// the subscription plan. Update/delete/restore are deliberately absent:
// plan gates acquisition of the feature, not management of resources that
// already exist.
var projectAcquisitionPerms = map[Permission]bool{
	PermProjectsViewAny: true,
	PermProjectsView:    true,
	PermProjectsCreate:  true,
}

// RoleGrants reports whether the role's fixed permission bundle includes perm.
func RoleGrants(role models.Role, perm Permission) bool {
	return rolePermissions[role][perm]
}

// ProjectAccessChecker reports whether an organization's current plan
// enables the projects feature.
type ProjectAccessChecker interface {
	CanAccessProjects(organizationID uint64) (bool, error)
}

// Engine is the single authorization entry point.
type Engine struct {
	projectAccess ProjectAccessChecker
}

func NewEngine(projectAccess ProjectAccessChecker) *Engine {
	return &Engine{projectAccess: projectAccess}
}

// Authorize checks that the actor's role grants perm and, when a concrete
// resource is given, that it belongs to the actor's organization. Project
// acquisition permissions additionally require the actor's organization to
// have project access on its current plan. Every failure is ErrForbidden.
func (e *Engine) Authorize(actor models.User, perm Permission, resource models.TenantOwned) error {
	if !RoleGrants(actor.Role, perm) {
		return ErrForbidden
	}

	if resource != nil && resource.OwnerOrganizationID() != actor.OrganizationID {
		return ErrForbidden
	}

	if projectAcquisitionPerms[perm] {
		ok, err := e.projectAccess.CanAccessProjects(actor.OrganizationID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
	}

	return nil
}
