package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

type fakeVerifier struct {
	valid  string
	userID string
}

func (f *fakeVerifier) Verify(_ context.Context, tokenString string, expectedType string) (model.Token, error) {
	if tokenString != f.valid || expectedType != model.TokenTypeAccess {
		return model.Token{}, model.ErrInvalidToken
	}
	return model.Token{Token: tokenString, UserID: f.userID, Type: expectedType}, nil
}

type fakeResolver struct {
	users map[string]model.User
}

func (f *fakeResolver) QueryByID(_ context.Context, id string) (model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

type fakeAuthorizer struct {
	allow    bool
	resource string
	action   string
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ string, resource string, action string) error {
	f.resource = resource
	f.action = action
	if f.allow {
		return nil
	}
	return apierror.New("FORBIDDEN", "Access denied. You do not have permission to "+action+" "+resource+".", "", http.StatusForbidden)
}

func defaultMethodActions() map[string]string {
	return map[string]string{
		http.MethodGet:    "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	}
}

func newAuthFixture(allow bool) (*AuthMiddleware, *fakeAuthorizer) {
	authorizer := &fakeAuthorizer{allow: allow}
	mw := NewAuthMiddleware(
		&fakeVerifier{valid: "good-token", userID: "u1"},
		&fakeResolver{users: map[string]model.User{"u1": {ID: "u1", RoleID: "role-1"}}},
		authorizer,
		defaultMethodActions(),
	)
	return mw, authorizer
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *apierror.APIError {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	mw, _ := newAuthFixture(true)
	handler := mw.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Please authenticate", apiErr.Message)
}

func TestAuthenticate_NonBearerScheme(t *testing.T) {
	mw, _ := newAuthFixture(true)
	handler := mw.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	mw, _ := newAuthFixture(true)
	handler := mw.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_PutsUserOnContext(t *testing.T) {
	mw, _ := newAuthFixture(true)

	var seen *model.User
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
}

func TestProtect_ResolvesResourceAndAction(t *testing.T) {
	mw, authorizer := newAuthFixture(true)
	handler := mw.Authenticate(mw.Protect("/roles")(okHandler()))

	req := httptest.NewRequest(http.MethodDelete, "/v1/roles/abc", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "role", authorizer.resource)
	assert.Equal(t, "delete", authorizer.action)
}

func TestProtect_Denied(t *testing.T) {
	mw, _ := newAuthFixture(false)
	handler := mw.Authenticate(mw.Protect("/roles")(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "Access denied. You do not have permission to read role.", apiErr.Message)
}

func TestProtect_UnknownMount(t *testing.T) {
	mw, _ := newAuthFixture(true)
	handler := mw.Authenticate(mw.Protect("/nonexistent")(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "Resource not found", apiErr.Message)
}

func TestProtect_UnknownMethod(t *testing.T) {
	mw, _ := newAuthFixture(true)
	handler := mw.Authenticate(mw.Protect("/roles")(okHandler()))

	req := httptest.NewRequest("TRACE", "/v1/roles", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "HTTP method not supported", apiErr.Message)
}

func TestProtect_WithoutAuthenticate(t *testing.T) {
	mw, _ := newAuthFixture(true)
	handler := mw.Protect("/roles")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
