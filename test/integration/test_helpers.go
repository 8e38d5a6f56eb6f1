package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sync-workbench/internal/config"
	"sync-workbench/internal/handler"
	"sync-workbench/internal/middleware"
	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
	"sync-workbench/internal/router"
	"sync-workbench/internal/service"
)

// In-memory stores standing in for the pgx repositories. They implement
// the same store interfaces the services consume, so the full
// router -> middleware -> handler -> service chain runs unchanged.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (m *memUserStore) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUserStore) ExistsByEmail(_ context.Context, email string, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserStore) List(_ context.Context, _ repository.PageOptions) (model.Page[model.User], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		results = append(results, u)
	}
	return model.Page[model.User]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memUserStore) Update(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUserStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memRoleStore struct {
	mu    sync.Mutex
	roles map[string]model.Role
}

func newMemRoleStore() *memRoleStore {
	return &memRoleStore{roles: map[string]model.Role{}}
}

func (m *memRoleStore) Create(_ context.Context, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[role.ID] = role
	return nil
}

func (m *memRoleStore) FindByID(_ context.Context, id string) (model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return model.Role{}, model.ErrRoleNotFound
	}
	return role, nil
}

func (m *memRoleStore) FindByName(_ context.Context, name string) (model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, role := range m.roles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}
	}
	return model.Role{}, model.ErrRoleNotFound
}

func (m *memRoleStore) ExistsByName(_ context.Context, name string, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, role := range m.roles {
		if id != excludeID && strings.EqualFold(role.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRoleStore) List(_ context.Context, _ repository.PageOptions) (model.Page[model.Role], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]model.Role, 0, len(m.roles))
	for _, role := range m.roles {
		results = append(results, role)
	}
	return model.Page[model.Role]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memRoleStore) Update(_ context.Context, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[role.ID]; !ok {
		return model.ErrRoleNotFound
	}
	m.roles[role.ID] = role
	return nil
}

func (m *memRoleStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return model.ErrRoleNotFound
	}
	delete(m.roles, id)
	return nil
}

type memPermissionStore struct {
	mu          sync.Mutex
	permissions map[string]model.Permission
}

func newMemPermissionStore() *memPermissionStore {
	return &memPermissionStore{permissions: map[string]model.Permission{}}
}

func (m *memPermissionStore) Create(_ context.Context, p model.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permissions[p.ID] = p
	return nil
}

func (m *memPermissionStore) FindByID(_ context.Context, id string) (model.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.permissions[id]
	if !ok {
		return model.Permission{}, model.ErrPermissionNotFound
	}
	return p, nil
}

func (m *memPermissionStore) FindByResource(_ context.Context, resource string) (model.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.permissions {
		if strings.EqualFold(p.Resource, resource) {
			return p, nil
		}
	}
	return model.Permission{}, model.ErrPermissionNotFound
}

func (m *memPermissionStore) ExistsByResource(_ context.Context, resource string, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.permissions {
		if id != excludeID && strings.EqualFold(p.Resource, resource) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPermissionStore) List(_ context.Context, _ repository.PageOptions) (model.Page[model.Permission], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]model.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		results = append(results, p)
	}
	return model.Page[model.Permission]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memPermissionStore) Update(_ context.Context, p model.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.permissions[p.ID]; !ok {
		return model.ErrPermissionNotFound
	}
	m.permissions[p.ID] = p
	return nil
}

func (m *memPermissionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.permissions[id]; !ok {
		return model.ErrPermissionNotFound
	}
	delete(m.permissions, id)
	return nil
}

type memRolePermissionStore struct {
	mu          sync.Mutex
	assignments map[string]model.RolePermission
	permissions *memPermissionStore
}

func newMemRolePermissionStore(permissions *memPermissionStore) *memRolePermissionStore {
	return &memRolePermissionStore{assignments: map[string]model.RolePermission{}, permissions: permissions}
}

func (m *memRolePermissionStore) Create(_ context.Context, rp model.RolePermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[rp.ID] = rp
	return nil
}

func (m *memRolePermissionStore) FindByID(_ context.Context, id string) (model.RolePermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rp, ok := m.assignments[id]
	if !ok {
		return model.RolePermission{}, model.ErrAssignmentNotFound
	}
	return rp, nil
}

func (m *memRolePermissionStore) Exists(_ context.Context, roleID string, permissionID string, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rp := range m.assignments {
		if id != excludeID && rp.RoleID == roleID && rp.PermissionID == permissionID {
			return true, nil
		}
	}
	return false, nil
}

// FindByRole resolves the permission join the same way the SQL repository
// does; assignments whose permission has since been deleted come back with
// a nil Permission.
func (m *memRolePermissionStore) FindByRole(ctx context.Context, roleID string) ([]model.RolePermission, error) {
	m.mu.Lock()
	rows := make([]model.RolePermission, 0)
	for _, rp := range m.assignments {
		if rp.RoleID == roleID {
			rows = append(rows, rp)
		}
	}
	m.mu.Unlock()

	for i := range rows {
		p, err := m.permissions.FindByID(ctx, rows[i].PermissionID)
		if err != nil {
			rows[i].Permission = nil
			continue
		}
		rows[i].Permission = &p
	}
	return rows, nil
}

func (m *memRolePermissionStore) List(ctx context.Context, roleID string, _ repository.PageOptions) (model.Page[model.RolePermission], error) {
	m.mu.Lock()
	results := make([]model.RolePermission, 0, len(m.assignments))
	for _, rp := range m.assignments {
		if roleID == "" || rp.RoleID == roleID {
			results = append(results, rp)
		}
	}
	m.mu.Unlock()
	return model.Page[model.RolePermission]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memRolePermissionStore) Update(_ context.Context, rp model.RolePermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[rp.ID]; !ok {
		return model.ErrAssignmentNotFound
	}
	m.assignments[rp.ID] = rp
	return nil
}

func (m *memRolePermissionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[id]; !ok {
		return model.ErrAssignmentNotFound
	}
	delete(m.assignments, id)
	return nil
}

type memEmployeeStore struct {
	mu        sync.Mutex
	employees map[string]model.Employee
}

func newMemEmployeeStore() *memEmployeeStore {
	return &memEmployeeStore{employees: map[string]model.Employee{}}
}

func (m *memEmployeeStore) Create(_ context.Context, employee model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[employee.ID] = employee
	return nil
}

func (m *memEmployeeStore) FindByID(_ context.Context, id string) (model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	employee, ok := m.employees[id]
	if !ok {
		return model.Employee{}, model.ErrEmployeeNotFound
	}
	return employee, nil
}

func (m *memEmployeeStore) List(_ context.Context, _ repository.PageOptions) (model.Page[model.Employee], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]model.Employee, 0, len(m.employees))
	for _, employee := range m.employees {
		results = append(results, employee)
	}
	return model.Page[model.Employee]{Results: results, Page: 1, Limit: len(results), TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *memEmployeeStore) Update(_ context.Context, employee model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[employee.ID]; !ok {
		return model.ErrEmployeeNotFound
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *memEmployeeStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return model.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

type memTokenStore struct {
	mu      sync.Mutex
	records map[string]model.Token
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{records: map[string]model.Token{}}
}

func (m *memTokenStore) Save(_ context.Context, t model.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[t.ID] = t
	return nil
}

func (m *memTokenStore) FindActive(_ context.Context, token string, tokenType string) (model.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, record := range m.records {
		if record.Token == token && record.Type == tokenType && !record.Blacklisted && record.Expires.After(now) {
			return record, nil
		}
	}
	return model.Token{}, model.ErrTokenNotFound
}

func (m *memTokenStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return model.ErrTokenNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memTokenStore) DeleteAllForUser(_ context.Context, userID string, tokenType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, record := range m.records {
		if record.UserID == userID && record.Type == tokenType {
			delete(m.records, id)
		}
	}
	return nil
}

// testEnv wires the full HTTP stack over the in-memory stores and keeps
// the services reachable so scenarios can perform admin-side changes
// (seeding roles, granting permissions) without an admin token.
type testEnv struct {
	server          *httptest.Server
	users           *service.UserService
	roles           *service.RoleService
	permissions     *service.PermissionService
	rolePermissions *service.RolePermissionService
	employees       *service.EmployeeService
	tokens          *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userStore := newMemUserStore()
	roleStore := newMemRoleStore()
	permissionStore := newMemPermissionStore()
	rolePermissionStore := newMemRolePermissionStore(permissionStore)
	employeeStore := newMemEmployeeStore()
	tokenStore := newMemTokenStore()

	userService := service.NewUserService(userStore, roleStore, employeeStore)
	tokenService := service.NewTokenService("integration-secret", service.TokenTTLs{
		Access:        15 * time.Minute,
		Refresh:       24 * time.Hour,
		ResetPassword: 10 * time.Minute,
		VerifyEmail:   10 * time.Minute,
	}, tokenStore, userStore)
	authService := service.NewAuthService(userService, tokenService, tokenStore)
	roleService := service.NewRoleService(roleStore)
	permissionService := service.NewPermissionService(permissionStore)
	rolePermissionService := service.NewRolePermissionService(rolePermissionStore, roleStore, permissionStore)
	employeeService := service.NewEmployeeService(employeeStore)
	authorizer := service.NewAuthorizer(rolePermissionStore)
	emailSender := service.NewLogEmailSender("http://localhost:3000")

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService, authorizer, cfg.MethodActions())

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:           handler.NewAuthHandler(authService, userService, tokenService, emailSender),
		User:           handler.NewUserHandler(userService),
		Role:           handler.NewRoleHandler(roleService),
		Permission:     handler.NewPermissionHandler(permissionService),
		RolePermission: handler.NewRolePermissionHandler(rolePermissionService),
		Employee:       handler.NewEmployeeHandler(employeeService),
		Resource:       handler.NewResourceHandler(),
	}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{
		server:          server,
		users:           userService,
		roles:           roleService,
		permissions:     permissionService,
		rolePermissions: rolePermissionService,
		employees:       employeeService,
		tokens:          tokenService,
	}
}

func newAuthRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Request {
	t.Helper()

	var payloadReader *bytes.Reader
	if body == nil {
		payloadReader = bytes.NewReader([]byte{})
	} else {
		payloadReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, payloadReader)
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doAuthRequest(t *testing.T, method string, url string, accessToken string) *http.Response {
	t.Helper()

	return doRequest(t, newAuthRequest(t, method, url, nil, accessToken))
}

func doAuthJSONRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Response {
	t.Helper()

	return doRequest(t, newAuthRequest(t, method, url, body, accessToken))
}
