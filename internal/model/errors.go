package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// Role related errors
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleNameTaken = errors.New("role name already taken")

	// Permission related errors
	ErrPermissionNotFound = errors.New("permission not found")
	ErrResourceTaken      = errors.New("resource already exists")

	// RolePermission related errors
	ErrAssignmentNotFound = errors.New("role-permission assignment not found")
	ErrAssignmentExists   = errors.New("role-permission combination already exists")

	// Employee related errors
	ErrEmployeeNotFound = errors.New("employee not found")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidToken  = errors.New("invalid token")

	// Auth related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
