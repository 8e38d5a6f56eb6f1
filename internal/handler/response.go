package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
	"sync-workbench/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &apierror.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body = apiErr
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrEmailTaken) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Email already taken"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Incorrect email or password"
	} else if errors.Is(err, model.ErrRoleNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Role not found"
	} else if errors.Is(err, model.ErrRoleNameTaken) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Role name already taken"
	} else if errors.Is(err, model.ErrPermissionNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Permission not found"
	} else if errors.Is(err, model.ErrResourceTaken) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Resource already exists"
	} else if errors.Is(err, model.ErrAssignmentNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Role-Permission not found"
	} else if errors.Is(err, model.ErrAssignmentExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Role-Permission combination already exists"
	} else if errors.Is(err, model.ErrEmployeeNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Employee not found"
	} else if errors.Is(err, model.ErrTokenExpired) {
		status = http.StatusUnauthorized
		body.Code = "TOKEN_EXPIRED"
		body.Message = "Token has expired"
	} else if errors.Is(err, model.ErrTokenNotFound) || errors.Is(err, model.ErrInvalidToken) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_TOKEN"
		body.Message = "Invalid or expired token"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Please authenticate"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

var pagingDefaults = struct {
	page  int
	limit int
}{page: 1, limit: 10}

// SetPagingDefaults overrides the fallback page and limit used when a list
// request omits them. Called once at startup from config.
func SetPagingDefaults(page int, limit int) {
	if page > 0 {
		pagingDefaults.page = page
	}
	if limit > 0 {
		pagingDefaults.limit = limit
	}
}

// pageOptions pulls page, limit and sort_by from the query string. Out of
// range values fall back to the defaults rather than erroring.
func pageOptions(r *http.Request) repository.PageOptions {
	query := r.URL.Query()
	return repository.PageOptions{
		Page:   parseIntOrDefault(query.Get("page"), pagingDefaults.page),
		Limit:  parseIntOrDefault(query.Get("limit"), pagingDefaults.limit),
		SortBy: query.Get("sort_by"),
	}
}

func parseIntOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}

	return v
}
