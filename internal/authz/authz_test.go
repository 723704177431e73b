package authz

import (
	"errors"
	"testing"

	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

type stubProjectAccess struct {
	allowed bool
	err     error
}

func (s stubProjectAccess) CanAccessProjects(uint64) (bool, error) {
	return s.allowed, s.err
}

func actor(role models.Role, orgID uint64) models.User {
	return models.User{ID: 1, Role: role, OrganizationID: orgID}
}

func TestRoleGrants(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		perm    Permission
		granted bool
	}{
		{"admin can force delete tasks", models.RoleAdmin, PermTasksForceDelete, true},
		{"admin can manage members", models.RoleAdmin, PermUsersDelete, true},
		{"admin can view billing", models.RoleAdmin, PermBillingView, true},
		{"admin can view activity", models.RoleAdmin, PermActivityViewAny, true},
		{"user can create tasks", models.RoleUser, PermTasksCreate, true},
		{"user can force delete tasks", models.RoleUser, PermTasksForceDelete, true},
		{"user can update projects", models.RoleUser, PermProjectsUpdate, true},
		{"user cannot delete projects", models.RoleUser, PermProjectsDelete, false},
		{"user cannot invite members", models.RoleUser, PermUsersCreate, false},
		{"user cannot view billing", models.RoleUser, PermBillingView, false},
		{"user cannot view activity", models.RoleUser, PermActivityViewAny, false},
		{"viewer can view tasks", models.RoleViewer, PermTasksView, true},
		{"viewer can list members", models.RoleViewer, PermUsersViewAny, true},
		{"viewer cannot create tasks", models.RoleViewer, PermTasksCreate, false},
		{"viewer cannot update tasks", models.RoleViewer, PermTasksUpdate, false},
		{"viewer cannot create projects", models.RoleViewer, PermProjectsCreate, false},
		{"unknown role has nothing", models.Role("ghost"), PermTasksView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.granted, RoleGrants(tt.role, tt.perm))
		})
	}
}

func TestAuthorize_OrganizationScoping(t *testing.T) {
	engine := NewEngine(stubProjectAccess{allowed: true})

	task := &models.Task{ID: 7, OrganizationID: 2}

	// Same organization passes
	err := engine.Authorize(actor(models.RoleAdmin, 2), PermTasksUpdate, task)
	assert.NoError(t, err)

	// Cross-organization is denied even for admins
	err = engine.Authorize(actor(models.RoleAdmin, 1), PermTasksUpdate, task)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_MissingPermission(t *testing.T) {
	engine := NewEngine(stubProjectAccess{allowed: true})

	task := &models.Task{ID: 7, OrganizationID: 1}
	err := engine.Authorize(actor(models.RoleViewer, 1), PermTasksUpdate, task)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_ProjectPlanGate(t *testing.T) {
	denied := NewEngine(stubProjectAccess{allowed: false})
	project := &models.Project{ID: 3, OrganizationID: 1}

	// Acquisition permissions are blocked without project access
	for _, perm := range []Permission{PermProjectsViewAny, PermProjectsCreate} {
		err := denied.Authorize(actor(models.RoleAdmin, 1), perm, nil)
		assert.ErrorIs(t, err, ErrForbidden, string(perm))
	}
	err := denied.Authorize(actor(models.RoleAdmin, 1), PermProjectsView, project)
	assert.ErrorIs(t, err, ErrForbidden)

	// Management of existing projects survives a downgrade
	for _, perm := range []Permission{PermProjectsUpdate, PermProjectsDelete, PermProjectsRestore} {
		err := denied.Authorize(actor(models.RoleAdmin, 1), perm, project)
		assert.NoError(t, err, string(perm))
	}
}

func TestAuthorize_ProjectGateErrorPropagates(t *testing.T) {
	boom := errors.New("billing lookup failed")
	engine := NewEngine(stubProjectAccess{err: boom})

	err := engine.Authorize(actor(models.RoleAdmin, 1), PermProjectsViewAny, nil)
	assert.ErrorIs(t, err, boom)
}

func TestAuthorize_RoleCheckPrecedesGate(t *testing.T) {
	// A viewer without the permission is denied before the plan gate runs
	engine := NewEngine(stubProjectAccess{err: errors.New("must not be called")})

	err := engine.Authorize(actor(models.RoleViewer, 1), PermProjectsCreate, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}
