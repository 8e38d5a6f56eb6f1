package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
	"sync-workbench/pkg/apierror"
)

type roleStore interface {
	Create(ctx context.Context, role model.Role) error
	FindByID(ctx context.Context, id string) (model.Role, error)
	FindByName(ctx context.Context, name string) (model.Role, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	List(ctx context.Context, opts repository.PageOptions) (model.Page[model.Role], error)
	Update(ctx context.Context, role model.Role) error
	Delete(ctx context.Context, id string) error
}

type RoleService struct {
	roles roleStore
}

func NewRoleService(roles roleStore) *RoleService {
	return &RoleService{roles: roles}
}

func (s *RoleService) Create(ctx context.Context, req model.CreateRoleRequest) (model.Role, error) {
	taken, err := s.roles.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return model.Role{}, err
	}
	if taken {
		return model.Role{}, apierror.New("ALREADY_EXISTS", "Role name already taken", "", http.StatusConflict)
	}

	now := time.Now().UTC()
	role := model.Role{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (s *RoleService) Query(ctx context.Context, opts repository.PageOptions) (model.Page[model.Role], error) {
	return s.roles.List(ctx, opts)
}

func (s *RoleService) QueryByID(ctx context.Context, id string) (model.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) QueryByName(ctx context.Context, name string) (model.Role, error) {
	return s.roles.FindByName(ctx, name)
}

// UpdateByID partially updates a role. A rename must not collide with
// another role's name; renaming to the unchanged name succeeds.
func (s *RoleService) UpdateByID(ctx context.Context, id string, req model.UpdateRoleRequest) (model.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return model.Role{}, err
	}

	if req.Name != nil && !strings.EqualFold(*req.Name, role.Name) {
		taken, err := s.roles.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			return model.Role{}, err
		}
		if taken {
			return model.Role{}, apierror.New("ALREADY_EXISTS", "Role name already taken", "", http.StatusConflict)
		}
		role.Name = strings.TrimSpace(*req.Name)
	} else if req.Name != nil {
		role.Name = strings.TrimSpace(*req.Name)
	}

	if req.Description != nil {
		role.Description = strings.TrimSpace(*req.Description)
	}

	role.UpdatedAt = time.Now().UTC()
	if err := s.roles.Update(ctx, role); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

// Replace overwrites a role by id; when the id is unknown a new role is
// created instead. This is an explicit two-step branch, not error-driven
// fallthrough at the storage layer.
func (s *RoleService) Replace(ctx context.Context, id string, req model.CreateRoleRequest) (model.Role, bool, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoleNotFound) {
			created, cerr := s.Create(ctx, req)
			return created, true, cerr
		}
		return model.Role{}, false, err
	}

	if !strings.EqualFold(req.Name, role.Name) {
		taken, err := s.roles.ExistsByName(ctx, req.Name, id)
		if err != nil {
			return model.Role{}, false, err
		}
		if taken {
			return model.Role{}, false, apierror.New("ALREADY_EXISTS", "Role name already taken", "", http.StatusConflict)
		}
	}

	role.Name = strings.TrimSpace(req.Name)
	role.Description = strings.TrimSpace(req.Description)
	role.UpdatedAt = time.Now().UTC()

	if err := s.roles.Update(ctx, role); err != nil {
		return model.Role{}, false, err
	}
	return role, false, nil
}

// DeleteByID removes a role. RolePermission rows referencing it are left to
// the storage layer's referential constraints.
func (s *RoleService) DeleteByID(ctx context.Context, id string) error {
	return s.roles.Delete(ctx, id)
}
