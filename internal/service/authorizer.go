package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

type permissionsByRole interface {
	FindByRole(ctx context.Context, roleID string) ([]model.RolePermission, error)
}

// Authorizer answers a single question: may this role perform this action
// on this resource. The answer is derived from the role's permission set
// on every call; denial is always the same error regardless of whether
// the resource, the action, or the whole permission is missing.
type Authorizer struct {
	assignments permissionsByRole
}

func NewAuthorizer(assignments permissionsByRole) *Authorizer {
	return &Authorizer{assignments: assignments}
}

func (a *Authorizer) Authorize(ctx context.Context, roleID, resource, action string) error {
	assignments, err := a.assignments.FindByRole(ctx, roleID)
	if err != nil {
		return err
	}

	for _, assignment := range assignments {
		if assignment.Permission == nil {
			continue
		}
		if strings.EqualFold(assignment.Permission.Resource, resource) && assignment.Permission.HasAction(action) {
			return nil
		}
	}

	return apierror.New(
		"FORBIDDEN",
		fmt.Sprintf("Access denied. You do not have permission to %s %s.", action, resource),
		"",
		http.StatusForbidden,
	)
}
