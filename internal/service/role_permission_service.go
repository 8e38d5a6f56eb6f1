package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
	"sync-workbench/pkg/apierror"
)

type rolePermissionStore interface {
	Create(ctx context.Context, rp model.RolePermission) error
	FindByID(ctx context.Context, id string) (model.RolePermission, error)
	Exists(ctx context.Context, roleID string, permissionID string, excludeID string) (bool, error)
	FindByRole(ctx context.Context, roleID string) ([]model.RolePermission, error)
	List(ctx context.Context, roleID string, opts repository.PageOptions) (model.Page[model.RolePermission], error)
	Update(ctx context.Context, rp model.RolePermission) error
	Delete(ctx context.Context, id string) error
}

type permissionLookup interface {
	FindByID(ctx context.Context, id string) (model.Permission, error)
}

type RolePermissionService struct {
	assignments rolePermissionStore
	roles       roleLookup
	permissions permissionLookup
}

func NewRolePermissionService(assignments rolePermissionStore, roles roleLookup, permissions permissionLookup) *RolePermissionService {
	return &RolePermissionService{assignments: assignments, roles: roles, permissions: permissions}
}

// Create links a role to a permission. Both referenced documents must
// exist (the store has no foreign keys the application can rely on alone)
// and the (role, permission) pair must be new.
func (s *RolePermissionService) Create(ctx context.Context, req model.CreateRolePermissionRequest) (model.RolePermission, error) {
	if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
		return model.RolePermission{}, err
	}
	if _, err := s.permissions.FindByID(ctx, req.PermissionID); err != nil {
		return model.RolePermission{}, err
	}

	exists, err := s.assignments.Exists(ctx, req.RoleID, req.PermissionID, "")
	if err != nil {
		return model.RolePermission{}, err
	}
	if exists {
		return model.RolePermission{}, apierror.New("ALREADY_EXISTS", "Role-Permission combination already exists", "", http.StatusConflict)
	}

	assignment := model.RolePermission{
		ID:           uuid.NewString(),
		RoleID:       req.RoleID,
		PermissionID: req.PermissionID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return model.RolePermission{}, err
	}
	return assignment, nil
}

func (s *RolePermissionService) Query(ctx context.Context, roleID string, opts repository.PageOptions) (model.Page[model.RolePermission], error) {
	return s.assignments.List(ctx, roleID, opts)
}

func (s *RolePermissionService) QueryByID(ctx context.Context, id string) (model.RolePermission, error) {
	return s.assignments.FindByID(ctx, id)
}

// UpdateByID partially rebinds an assignment; the resulting pair must stay
// unique and any newly referenced role/permission must exist.
func (s *RolePermissionService) UpdateByID(ctx context.Context, id string, req model.UpdateRolePermissionRequest) (model.RolePermission, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return model.RolePermission{}, err
	}

	if req.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, *req.RoleID); err != nil {
			return model.RolePermission{}, err
		}
		assignment.RoleID = *req.RoleID
	}
	if req.PermissionID != nil {
		if _, err := s.permissions.FindByID(ctx, *req.PermissionID); err != nil {
			return model.RolePermission{}, err
		}
		assignment.PermissionID = *req.PermissionID
	}

	exists, err := s.assignments.Exists(ctx, assignment.RoleID, assignment.PermissionID, id)
	if err != nil {
		return model.RolePermission{}, err
	}
	if exists {
		return model.RolePermission{}, apierror.New("ALREADY_EXISTS", "Role-Permission combination already exists", "", http.StatusConflict)
	}

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return model.RolePermission{}, err
	}
	return assignment, nil
}

// Replace overwrites an assignment by id, creating it when the id is
// unknown (documented replace-or-create branch).
func (s *RolePermissionService) Replace(ctx context.Context, id string, req model.CreateRolePermissionRequest) (model.RolePermission, bool, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAssignmentNotFound) {
			created, cerr := s.Create(ctx, req)
			return created, true, cerr
		}
		return model.RolePermission{}, false, err
	}

	if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
		return model.RolePermission{}, false, err
	}
	if _, err := s.permissions.FindByID(ctx, req.PermissionID); err != nil {
		return model.RolePermission{}, false, err
	}

	exists, err := s.assignments.Exists(ctx, req.RoleID, req.PermissionID, id)
	if err != nil {
		return model.RolePermission{}, false, err
	}
	if exists {
		return model.RolePermission{}, false, apierror.New("ALREADY_EXISTS", "Role-Permission combination already exists", "", http.StatusConflict)
	}

	assignment.RoleID = req.RoleID
	assignment.PermissionID = req.PermissionID

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return model.RolePermission{}, false, err
	}
	return assignment, false, nil
}

func (s *RolePermissionService) DeleteByID(ctx context.Context, id string) error {
	return s.assignments.Delete(ctx, id)
}
