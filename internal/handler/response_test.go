package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

func writeAndDecode(t *testing.T, err error) (int, model.APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	writeError(rec, err)

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
	return rec.Code, body
}

func TestWriteError_SentinelMapping(t *testing.T) {
	cases := []struct {
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{model.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", "User not found"},
		{model.ErrRoleNotFound, http.StatusNotFound, "NOT_FOUND", "Role not found"},
		{model.ErrPermissionNotFound, http.StatusNotFound, "NOT_FOUND", "Permission not found"},
		{model.ErrAssignmentNotFound, http.StatusNotFound, "NOT_FOUND", "Role-Permission not found"},
		{model.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND", "Employee not found"},
		{model.ErrEmailTaken, http.StatusConflict, "ALREADY_EXISTS", "Email already taken"},
		{model.ErrRoleNameTaken, http.StatusConflict, "ALREADY_EXISTS", "Role name already taken"},
		{model.ErrResourceTaken, http.StatusConflict, "ALREADY_EXISTS", "Resource already exists"},
		{model.ErrAssignmentExists, http.StatusConflict, "ALREADY_EXISTS", "Role-Permission combination already exists"},
		{model.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect email or password"},
		{model.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired"},
		{model.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token"},
		{model.ErrTokenNotFound, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token"},
		{model.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "Please authenticate"},
		{model.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Access denied"},
		{model.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST", "Invalid input"},
	}

	for _, tc := range cases {
		t.Run(tc.wantMessage, func(t *testing.T) {
			status, body := writeAndDecode(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.Equal(t, tc.wantMessage, body.Error.Message)
		})
	}
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("query failed"), model.ErrRoleNotFound)
	status, body := writeAndDecode(t, wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestWriteError_APIErrorPassesThrough(t *testing.T) {
	status, body := writeAndDecode(t, apierror.New("FORBIDDEN", "Access denied. You do not have permission to read role.", "", http.StatusForbidden))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied. You do not have permission to read role.", body.Error.Message)
}

func TestWriteError_ValidationFieldsSerialized(t *testing.T) {
	err := apierror.NewValidation("Validation failed", []apierror.InvalidField{
		{Field: "email", Message: "is required"},
	})

	status, body := writeAndDecode(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Len(t, body.Error.InvalidFields, 1)
	assert.Equal(t, "email", body.Error.InvalidFields[0].Field)
	assert.Equal(t, "is required", body.Error.InvalidFields[0].Message)
}

func TestWriteError_UnknownErrorIsInternal(t *testing.T) {
	status, body := writeAndDecode(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "Unexpected server error", body.Error.Message)
}

func TestPageOptions_Parsing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/roles?page=3&limit=25&sort_by=name:desc", nil)
	opts := pageOptions(req)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, "name:desc", opts.SortBy)

	// Garbage and missing values fall back to the defaults.
	req = httptest.NewRequest(http.MethodGet, "/v1/roles?page=zero&limit=-2", nil)
	opts = pageOptions(req)
	assert.Equal(t, pagingDefaults.page, opts.Page)
	assert.Equal(t, pagingDefaults.limit, opts.Limit)
}
