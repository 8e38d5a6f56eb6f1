package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

type envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Error   *apierror.APIError `json:"error"`
}

type authPayload struct {
	User   model.User       `json:"user"`
	Tokens model.AuthTokens `json:"tokens"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// A permission granted after login must take effect for access tokens
// issued before the grant: the decision is recomputed from the role's
// current permission set on every request.
func TestGrantTakesEffectForExistingToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.Create(ctx, model.CreateRoleRequest{Name: "Staff"})
	require.NoError(t, err)

	registerBody, err := json.Marshal(map[string]string{
		"name":     "Dana Field",
		"email":    "dana@corp.test",
		"password": "Password123",
		"role_id":  role.ID,
	})
	require.NoError(t, err)

	registerResp := doAuthJSONRequest(t, http.MethodPost, env.server.URL+"/v1/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	loginBody, err := json.Marshal(map[string]string{
		"email":    "dana@corp.test",
		"password": "Password123",
	})
	require.NoError(t, err)

	loginResp := doAuthJSONRequest(t, http.MethodPost, env.server.URL+"/v1/auth/login", loginBody, "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	loginEnv := decodeEnvelope(t, loginResp)
	require.True(t, loginEnv.Success)

	var auth authPayload
	require.NoError(t, json.Unmarshal(loginEnv.Data, &auth))
	require.NotEmpty(t, auth.Tokens.Access.Token)
	accessToken := auth.Tokens.Access.Token

	// No permission yet: the role exists but grants nothing.
	deniedResp := doAuthRequest(t, http.MethodGet, env.server.URL+"/v1/employees", accessToken)
	require.Equal(t, http.StatusForbidden, deniedResp.StatusCode)

	deniedEnv := decodeEnvelope(t, deniedResp)
	require.NotNil(t, deniedEnv.Error)
	assert.Equal(t, "FORBIDDEN", deniedEnv.Error.Code)
	assert.Equal(t, "Access denied. You do not have permission to read employee.", deniedEnv.Error.Message)

	permission, err := env.permissions.Create(ctx, model.CreatePermissionRequest{
		Resource: "employee",
		Actions:  []string{"read"},
	})
	require.NoError(t, err)

	_, err = env.rolePermissions.Create(ctx, model.CreateRolePermissionRequest{
		RoleID:       role.ID,
		PermissionID: permission.ID,
	})
	require.NoError(t, err)

	// The token issued before the grant now passes.
	allowedResp := doAuthRequest(t, http.MethodGet, env.server.URL+"/v1/employees", accessToken)
	require.Equal(t, http.StatusOK, allowedResp.StatusCode)

	allowedEnv := decodeEnvelope(t, allowedResp)
	assert.True(t, allowedEnv.Success)

	// Only "read" was granted, so creating still fails.
	createBody, err := json.Marshal(map[string]string{"first_name": "Sam", "last_name": "Ortiz"})
	require.NoError(t, err)

	createResp := doAuthJSONRequest(t, http.MethodPost, env.server.URL+"/v1/employees", createBody, accessToken)
	require.Equal(t, http.StatusForbidden, createResp.StatusCode)

	createEnv := decodeEnvelope(t, createResp)
	require.NotNil(t, createEnv.Error)
	assert.Equal(t, "Access denied. You do not have permission to create employee.", createEnv.Error.Message)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	resp := doAuthRequest(t, http.MethodGet, env.server.URL+"/v1/employees", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, "Please authenticate", body.Error.Message)
}

// Revoking the grant is honored on the next request too; the deny path is
// symmetric with the grant path.
func TestRevokeTakesEffectForExistingToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.Create(ctx, model.CreateRoleRequest{Name: "Temp"})
	require.NoError(t, err)

	permission, err := env.permissions.Create(ctx, model.CreatePermissionRequest{
		Resource: "employee",
		Actions:  []string{"read"},
	})
	require.NoError(t, err)

	assignment, err := env.rolePermissions.Create(ctx, model.CreateRolePermissionRequest{
		RoleID:       role.ID,
		PermissionID: permission.ID,
	})
	require.NoError(t, err)

	registerBody, err := json.Marshal(map[string]string{
		"name":     "Lee Vang",
		"email":    "lee@corp.test",
		"password": "Password123",
		"role_id":  role.ID,
	})
	require.NoError(t, err)

	registerResp := doAuthJSONRequest(t, http.MethodPost, env.server.URL+"/v1/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	registerEnv := decodeEnvelope(t, registerResp)
	var auth authPayload
	require.NoError(t, json.Unmarshal(registerEnv.Data, &auth))
	accessToken := auth.Tokens.Access.Token

	allowedResp := doAuthRequest(t, http.MethodGet, env.server.URL+"/v1/employees", accessToken)
	require.Equal(t, http.StatusOK, allowedResp.StatusCode)

	require.NoError(t, env.rolePermissions.DeleteByID(ctx, assignment.ID))

	deniedResp := doAuthRequest(t, http.MethodGet, env.server.URL+"/v1/employees", accessToken)
	require.Equal(t, http.StatusForbidden, deniedResp.StatusCode)
}
