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

type memUsers struct {
	users map[string]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]model.User{}}
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string, excludeID string) (bool, error) {
	for id, u := range m.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) List(_ context.Context, opts repository.PageOptions) (model.Page[model.User], error) {
	results := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		results = append(results, u)
	}
	return model.Page[model.User]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memUsers) Update(_ context.Context, u model.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memEmployees struct {
	employees map[string]model.Employee
}

func (m *memEmployees) FindByID(_ context.Context, id string) (model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return model.Employee{}, model.ErrEmployeeNotFound
	}
	return e, nil
}

func newUserFixture(t *testing.T) (*UserService, *memUsers, *memRoles) {
	t.Helper()
	users := newMemUsers()
	roles := newMemRoles()
	require.NoError(t, roles.Create(context.Background(), model.Role{ID: "role-1", Name: "Member"}))
	return NewUserService(users, roles, &memEmployees{employees: map[string]model.Employee{}}), users, roles
}

func TestUserCreate_Defaults(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	user, err := svc.Create(context.Background(), model.CreateUserRequest{
		Name:     "Alice",
		Email:    "Alice@Example.COM",
		Password: "password1",
		RoleID:   "role-1",
	})
	require.NoError(t, err)

	// Email is normalized, status defaults to Pending and the plaintext
	// password is never stored.
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.StatusPending, user.Status)
	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.True(t, svc.CheckPassword(user, "password1"))
	assert.False(t, svc.CheckPassword(user, "password2"))
}

func TestUserCreate_EmailTaken(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateUserRequest{Name: "Alice", Email: "alice@example.com", Password: "password1", RoleID: "role-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateUserRequest{Name: "Other", Email: "ALICE@example.com", Password: "password1", RoleID: "role-1"})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email already taken", apiErr.Message)
}

func TestUserCreate_UnknownRole(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), model.CreateUserRequest{Name: "Alice", Email: "alice@example.com", Password: "password1", RoleID: "ghost"})
	assert.ErrorIs(t, err, model.ErrRoleNotFound)
}

func TestUserCreate_UnknownEmployee(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	employeeID := "ghost"
	_, err := svc.Create(context.Background(), model.CreateUserRequest{
		Name: "Alice", Email: "alice@example.com", Password: "password1", RoleID: "role-1",
		EmployeeID: &employeeID,
	})
	assert.ErrorIs(t, err, model.ErrEmployeeNotFound)
}

func TestUserUpdate_EmailCollision(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateUserRequest{Name: "Alice", Email: "alice@example.com", Password: "password1", RoleID: "role-1"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, model.CreateUserRequest{Name: "Bob", Email: "bob@example.com", Password: "password1", RoleID: "role-1"})
	require.NoError(t, err)

	email := "alice@example.com"
	_, err = svc.UpdateByID(ctx, bob.ID, model.UpdateUserRequest{Email: &email})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)

	// Re-submitting your own email is not a collision.
	own := "bob@example.com"
	_, err = svc.UpdateByID(ctx, bob.ID, model.UpdateUserRequest{Email: &own})
	assert.NoError(t, err)
}

func TestUserUpdate_PasswordRehashed(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, model.CreateUserRequest{Name: "Alice", Email: "alice@example.com", Password: "password1", RoleID: "role-1"})
	require.NoError(t, err)

	password := "changed-pass1"
	updated, err := svc.UpdateByID(ctx, user.ID, model.UpdateUserRequest{Password: &password})
	require.NoError(t, err)
	assert.True(t, svc.CheckPassword(updated, "changed-pass1"))
	assert.False(t, svc.CheckPassword(updated, "password1"))
}

func TestMarkEmailVerified(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, model.CreateUserRequest{Name: "Alice", Email: "alice@example.com", Password: "password1", RoleID: "role-1"})
	require.NoError(t, err)
	require.False(t, user.IsEmailVerified)

	updated, err := svc.MarkEmailVerified(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsEmailVerified)
}
