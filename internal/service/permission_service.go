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

type permissionStore interface {
	Create(ctx context.Context, p model.Permission) error
	FindByID(ctx context.Context, id string) (model.Permission, error)
	FindByResource(ctx context.Context, resource string) (model.Permission, error)
	ExistsByResource(ctx context.Context, resource string, excludeID string) (bool, error)
	List(ctx context.Context, opts repository.PageOptions) (model.Page[model.Permission], error)
	Update(ctx context.Context, p model.Permission) error
	Delete(ctx context.Context, id string) error
}

type PermissionService struct {
	permissions permissionStore
}

func NewPermissionService(permissions permissionStore) *PermissionService {
	return &PermissionService{permissions: permissions}
}

// Create registers a permission document for a resource. One document
// exists per resource name (case-insensitive).
func (s *PermissionService) Create(ctx context.Context, req model.CreatePermissionRequest) (model.Permission, error) {
	resource, err := normalizeResource(req.Resource)
	if err != nil {
		return model.Permission{}, err
	}

	taken, err := s.permissions.ExistsByResource(ctx, resource, "")
	if err != nil {
		return model.Permission{}, err
	}
	if taken {
		return model.Permission{}, apierror.New("ALREADY_EXISTS", "Resource already exists", "", http.StatusConflict)
	}

	now := time.Now().UTC()
	permission := model.Permission{
		ID:        uuid.NewString(),
		Resource:  resource,
		Actions:   dedupeActions(req.Actions),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		return model.Permission{}, err
	}
	return permission, nil
}

func (s *PermissionService) Query(ctx context.Context, opts repository.PageOptions) (model.Page[model.Permission], error) {
	return s.permissions.List(ctx, opts)
}

func (s *PermissionService) QueryByID(ctx context.Context, id string) (model.Permission, error) {
	return s.permissions.FindByID(ctx, id)
}

// UpdateByID partially updates a permission; a changed resource name must
// not collide with another permission's.
func (s *PermissionService) UpdateByID(ctx context.Context, id string, req model.UpdatePermissionRequest) (model.Permission, error) {
	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return model.Permission{}, err
	}

	if req.Resource != nil {
		resource, err := normalizeResource(*req.Resource)
		if err != nil {
			return model.Permission{}, err
		}
		if !strings.EqualFold(resource, permission.Resource) {
			taken, err := s.permissions.ExistsByResource(ctx, resource, id)
			if err != nil {
				return model.Permission{}, err
			}
			if taken {
				return model.Permission{}, apierror.New("ALREADY_EXISTS", "Resource already exists", "", http.StatusConflict)
			}
			permission.Resource = resource
		}
	}

	if req.Actions != nil {
		permission.Actions = dedupeActions(req.Actions)
	}

	permission.UpdatedAt = time.Now().UTC()
	if err := s.permissions.Update(ctx, permission); err != nil {
		return model.Permission{}, err
	}
	return permission, nil
}

// Replace overwrites a permission by id, creating it when the id is
// unknown (documented replace-or-create branch).
func (s *PermissionService) Replace(ctx context.Context, id string, req model.CreatePermissionRequest) (model.Permission, bool, error) {
	resource, err := normalizeResource(req.Resource)
	if err != nil {
		return model.Permission{}, false, err
	}

	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPermissionNotFound) {
			created, cerr := s.Create(ctx, req)
			return created, true, cerr
		}
		return model.Permission{}, false, err
	}

	if !strings.EqualFold(resource, permission.Resource) {
		taken, err := s.permissions.ExistsByResource(ctx, resource, id)
		if err != nil {
			return model.Permission{}, false, err
		}
		if taken {
			return model.Permission{}, false, apierror.New("ALREADY_EXISTS", "Resource already exists", "", http.StatusConflict)
		}
	}

	permission.Resource = resource
	permission.Actions = dedupeActions(req.Actions)
	permission.UpdatedAt = time.Now().UTC()

	if err := s.permissions.Update(ctx, permission); err != nil {
		return model.Permission{}, false, err
	}
	return permission, false, nil
}

func (s *PermissionService) DeleteByID(ctx context.Context, id string) error {
	return s.permissions.Delete(ctx, id)
}

// AddAction grants one more verb on the resource. Adding a verb that is
// already present is a no-op.
func (s *PermissionService) AddAction(ctx context.Context, id string, action string) (model.Permission, error) {
	if !model.IsValidAction(action) {
		return model.Permission{}, apierror.New("BAD_REQUEST", "Invalid action", action, http.StatusBadRequest)
	}

	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return model.Permission{}, err
	}

	if permission.AddAction(action) {
		permission.UpdatedAt = time.Now().UTC()
		if err := s.permissions.Update(ctx, permission); err != nil {
			return model.Permission{}, err
		}
	}
	return permission, nil
}

// RemoveAction revokes one verb on the resource. Removing an absent verb
// is a no-op.
func (s *PermissionService) RemoveAction(ctx context.Context, id string, action string) (model.Permission, error) {
	if !model.IsValidAction(action) {
		return model.Permission{}, apierror.New("BAD_REQUEST", "Invalid action", action, http.StatusBadRequest)
	}

	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return model.Permission{}, err
	}

	if permission.RemoveAction(action) {
		permission.UpdatedAt = time.Now().UTC()
		if err := s.permissions.Update(ctx, permission); err != nil {
			return model.Permission{}, err
		}
	}
	return permission, nil
}

// normalizeResource trims the resource name and re-checks the length
// bounds on the trimmed value, so padded input cannot slip under the
// request validation.
func normalizeResource(raw string) (string, error) {
	resource := strings.TrimSpace(raw)
	if len(resource) < 3 || len(resource) > 50 {
		return "", apierror.New("BAD_REQUEST", "Invalid resource", resource, http.StatusBadRequest)
	}
	return resource, nil
}

func dedupeActions(actions []string) []string {
	seen := make(map[string]struct{}, len(actions))
	out := make([]string, 0, len(actions))
	for _, action := range actions {
		if _, ok := seen[action]; ok {
			continue
		}
		seen[action] = struct{}{}
		out = append(out, action)
	}
	return out
}
