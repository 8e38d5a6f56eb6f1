package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

var permissionSortable = map[string]string{
	"resource":   "resource",
	"created_at": "created_at",
}

type PermissionRepository struct {
	db Querier
}

func NewPermissionRepository(db Querier) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) WithTx(tx pgx.Tx) *PermissionRepository {
	return &PermissionRepository{db: tx}
}

func (r *PermissionRepository) Create(ctx context.Context, p model.Permission) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO permissions (id, resource, actions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Resource, p.Actions, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

func (r *PermissionRepository) FindByID(ctx context.Context, id string) (model.Permission, error) {
	var p model.Permission
	err := r.db.QueryRow(ctx,
		`SELECT id, resource, actions, created_at, updated_at FROM permissions WHERE id = $1`, id).
		Scan(&p.ID, &p.Resource, &p.Actions, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Permission{}, model.ErrPermissionNotFound
	}
	if err != nil {
		return model.Permission{}, fmt.Errorf("find permission by id: %w", err)
	}
	return p, nil
}

func (r *PermissionRepository) FindByResource(ctx context.Context, resource string) (model.Permission, error) {
	var p model.Permission
	err := r.db.QueryRow(ctx,
		`SELECT id, resource, actions, created_at, updated_at
		 FROM permissions WHERE lower(resource) = lower($1)`, strings.TrimSpace(resource)).
		Scan(&p.ID, &p.Resource, &p.Actions, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Permission{}, model.ErrPermissionNotFound
	}
	if err != nil {
		return model.Permission{}, fmt.Errorf("find permission by resource: %w", err)
	}
	return p, nil
}

func (r *PermissionRepository) ExistsByResource(ctx context.Context, resource string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM permissions
		    WHERE lower(resource) = lower($1) AND ($2 = '' OR id <> $2)
		 )`,
		strings.TrimSpace(resource), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check permission resource exists: %w", err)
	}
	return exists, nil
}

func (r *PermissionRepository) List(ctx context.Context, opts PageOptions) (model.Page[model.Permission], error) {
	order := orderClause(opts.SortBy, permissionSortable, "created_at DESC")

	return paginate(ctx, r.db,
		`SELECT COUNT(*) FROM permissions`,
		`SELECT id, resource, actions, created_at, updated_at
		 FROM permissions ORDER BY `+order+` LIMIT $1 OFFSET $2`,
		nil, opts,
		func(rows pgx.Rows) (model.Permission, error) {
			var p model.Permission
			err := rows.Scan(&p.ID, &p.Resource, &p.Actions, &p.CreatedAt, &p.UpdatedAt)
			return p, err
		})
}

func (r *PermissionRepository) Update(ctx context.Context, p model.Permission) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE permissions SET resource = $2, actions = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Resource, p.Actions, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPermissionNotFound
	}
	return nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPermissionNotFound
	}
	return nil
}
