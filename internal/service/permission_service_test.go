package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
	"sync-workbench/pkg/apierror"
)

type memPermissions struct {
	permissions map[string]model.Permission
	updates     int
}

func newMemPermissions() *memPermissions {
	return &memPermissions{permissions: map[string]model.Permission{}}
}

func (m *memPermissions) Create(_ context.Context, p model.Permission) error {
	m.permissions[p.ID] = p
	return nil
}

func (m *memPermissions) FindByID(_ context.Context, id string) (model.Permission, error) {
	p, ok := m.permissions[id]
	if !ok {
		return model.Permission{}, model.ErrPermissionNotFound
	}
	return p, nil
}

func (m *memPermissions) FindByResource(_ context.Context, resource string) (model.Permission, error) {
	for _, p := range m.permissions {
		if strings.EqualFold(p.Resource, resource) {
			return p, nil
		}
	}
	return model.Permission{}, model.ErrPermissionNotFound
}

func (m *memPermissions) ExistsByResource(_ context.Context, resource string, excludeID string) (bool, error) {
	for id, p := range m.permissions {
		if id != excludeID && strings.EqualFold(p.Resource, resource) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPermissions) List(_ context.Context, opts repository.PageOptions) (model.Page[model.Permission], error) {
	results := make([]model.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		results = append(results, p)
	}
	return model.Page[model.Permission]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memPermissions) Update(_ context.Context, p model.Permission) error {
	if _, ok := m.permissions[p.ID]; !ok {
		return model.ErrPermissionNotFound
	}
	m.permissions[p.ID] = p
	m.updates++
	return nil
}

func (m *memPermissions) Delete(_ context.Context, id string) error {
	if _, ok := m.permissions[id]; !ok {
		return model.ErrPermissionNotFound
	}
	delete(m.permissions, id)
	return nil
}

func TestPermissionCreate_DuplicateResource(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreatePermissionRequest{Resource: "role", Actions: []string{"read"}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreatePermissionRequest{Resource: "Role", Actions: []string{"read"}})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Resource already exists", apiErr.Message)
}

func TestPermissionCreate_TrimsResource(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, model.CreatePermissionRequest{Resource: "  role  ", Actions: []string{"read"}})
	require.NoError(t, err)
	assert.Equal(t, "role", p.Resource)

	// Padding that survives the length check but trims below the minimum
	// is rejected before it can reach the store.
	_, err = svc.Create(ctx, model.CreatePermissionRequest{Resource: " ab ", Actions: []string{"read"}})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)

	name := strings.Repeat("x", 49)
	_, err = svc.Create(ctx, model.CreatePermissionRequest{Resource: name + "xx", Actions: []string{"read"}})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestPermissionUpdate_TrimsResource(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, model.CreatePermissionRequest{Resource: "role", Actions: []string{"read"}})
	require.NoError(t, err)

	short := " ab "
	_, err = svc.UpdateByID(ctx, p.ID, model.UpdatePermissionRequest{Resource: &short})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)

	_, _, err = svc.Replace(ctx, p.ID, model.CreatePermissionRequest{Resource: " ab ", Actions: []string{"read"}})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestPermissionCreate_DeduplicatesActions(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)

	p, err := svc.Create(context.Background(), model.CreatePermissionRequest{
		Resource: "role",
		Actions:  []string{"read", "read", "update"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "update"}, p.Actions)
}

func TestAddAction_Idempotent(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, model.CreatePermissionRequest{Resource: "role", Actions: []string{"read"}})
	require.NoError(t, err)

	updated, err := svc.AddAction(ctx, p.ID, "update")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"read", "update"}, updated.Actions)
	writesAfterFirst := store.updates

	// Adding the same action again changes nothing and writes nothing.
	same, err := svc.AddAction(ctx, p.ID, "update")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"read", "update"}, same.Actions)
	assert.Equal(t, writesAfterFirst, store.updates)
}

func TestRemoveAction_Idempotent(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, model.CreatePermissionRequest{Resource: "role", Actions: []string{"read", "update"}})
	require.NoError(t, err)

	updated, err := svc.RemoveAction(ctx, p.ID, "update")
	require.NoError(t, err)
	assert.Equal(t, []string{"read"}, updated.Actions)
	writesAfterFirst := store.updates

	same, err := svc.RemoveAction(ctx, p.ID, "update")
	require.NoError(t, err)
	assert.Equal(t, []string{"read"}, same.Actions)
	assert.Equal(t, writesAfterFirst, store.updates)
}

func TestAddAction_InvalidVerbRejected(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, model.CreatePermissionRequest{Resource: "role", Actions: []string{"read"}})
	require.NoError(t, err)

	_, err = svc.AddAction(ctx, p.ID, "fly")
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)

	_, err = svc.RemoveAction(ctx, p.ID, "fly")
	require.Error(t, err)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestPermissionReplace_CreatesWhenMissing(t *testing.T) {
	store := newMemPermissions()
	svc := NewPermissionService(store)
	ctx := context.Background()

	p, created, err := svc.Replace(ctx, "no-such-id", model.CreatePermissionRequest{Resource: "employee", Actions: []string{"read"}})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Replace(ctx, p.ID, model.CreatePermissionRequest{Resource: "employee", Actions: []string{"read", "delete"}})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
	assert.ElementsMatch(t, []string{"read", "delete"}, again.Actions)
}
