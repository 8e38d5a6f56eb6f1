package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

var rolePermissionSortable = map[string]string{
	"created_at": "rp.created_at",
	"resource":   "p.resource",
}

type RolePermissionRepository struct {
	db Querier
}

func NewRolePermissionRepository(db Querier) *RolePermissionRepository {
	return &RolePermissionRepository{db: db}
}

func (r *RolePermissionRepository) WithTx(tx pgx.Tx) *RolePermissionRepository {
	return &RolePermissionRepository{db: tx}
}

func (r *RolePermissionRepository) Create(ctx context.Context, rp model.RolePermission) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO role_permissions (id, role_id, permission_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rp.ID, rp.RoleID, rp.PermissionID, rp.CreatedAt)
	if err != nil {
		return fmt.Errorf("create role-permission: %w", err)
	}
	return nil
}

func (r *RolePermissionRepository) FindByID(ctx context.Context, id string) (model.RolePermission, error) {
	var rp model.RolePermission
	err := r.db.QueryRow(ctx,
		`SELECT id, role_id, permission_id, created_at FROM role_permissions WHERE id = $1`, id).
		Scan(&rp.ID, &rp.RoleID, &rp.PermissionID, &rp.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RolePermission{}, model.ErrAssignmentNotFound
	}
	if err != nil {
		return model.RolePermission{}, fmt.Errorf("find role-permission by id: %w", err)
	}
	return rp, nil
}

// Exists reports whether the (role, permission) pair is already linked,
// optionally excluding one assignment id.
func (r *RolePermissionRepository) Exists(ctx context.Context, roleID string, permissionID string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM role_permissions
		    WHERE role_id = $1 AND permission_id = $2 AND ($3 = '' OR id <> $3)
		 )`,
		roleID, permissionID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role-permission exists: %w", err)
	}
	return exists, nil
}

// FindByRole returns every assignment for a role with its permission
// populated. This is the read path of the authorization decision and is
// intentionally uncached: permission changes take effect on the next request.
func (r *RolePermissionRepository) FindByRole(ctx context.Context, roleID string) ([]model.RolePermission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rp.id, rp.role_id, rp.permission_id, rp.created_at,
		        p.id, p.resource, p.actions, p.created_at, p.updated_at
		 FROM role_permissions rp
		 JOIN permissions p ON p.id = rp.permission_id
		 WHERE rp.role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("find role-permissions by role: %w", err)
	}
	defer rows.Close()

	assignments := make([]model.RolePermission, 0)
	for rows.Next() {
		var rp model.RolePermission
		var p model.Permission
		if err := rows.Scan(&rp.ID, &rp.RoleID, &rp.PermissionID, &rp.CreatedAt,
			&p.ID, &p.Resource, &p.Actions, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role-permission: %w", err)
		}
		rp.Permission = &p
		assignments = append(assignments, rp)
	}
	return assignments, rows.Err()
}

func (r *RolePermissionRepository) List(ctx context.Context, roleID string, opts PageOptions) (model.Page[model.RolePermission], error) {
	order := orderClause(opts.SortBy, rolePermissionSortable, "rp.created_at DESC")

	return paginate(ctx, r.db,
		`SELECT COUNT(*) FROM role_permissions rp WHERE ($1 = '' OR rp.role_id = $1)`,
		`SELECT rp.id, rp.role_id, rp.permission_id, rp.created_at,
		        p.id, p.resource, p.actions, p.created_at, p.updated_at
		 FROM role_permissions rp
		 JOIN permissions p ON p.id = rp.permission_id
		 WHERE ($1 = '' OR rp.role_id = $1)
		 ORDER BY `+order+` LIMIT $2 OFFSET $3`,
		[]any{roleID}, opts,
		func(rows pgx.Rows) (model.RolePermission, error) {
			var rp model.RolePermission
			var p model.Permission
			err := rows.Scan(&rp.ID, &rp.RoleID, &rp.PermissionID, &rp.CreatedAt,
				&p.ID, &p.Resource, &p.Actions, &p.CreatedAt, &p.UpdatedAt)
			rp.Permission = &p
			return rp, err
		})
}

func (r *RolePermissionRepository) Update(ctx context.Context, rp model.RolePermission) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE role_permissions SET role_id = $2, permission_id = $3 WHERE id = $1`,
		rp.ID, rp.RoleID, rp.PermissionID)
	if err != nil {
		return fmt.Errorf("update role-permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssignmentNotFound
	}
	return nil
}

func (r *RolePermissionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM role_permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role-permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssignmentNotFound
	}
	return nil
}
