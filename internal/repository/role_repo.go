package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

var roleSortable = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

type RoleRepository struct {
	db Querier
}

func NewRoleRepository(db Querier) *RoleRepository {
	return &RoleRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *RoleRepository) WithTx(tx pgx.Tx) *RoleRepository {
	return &RoleRepository{db: tx}
}

func (r *RoleRepository) Create(ctx context.Context, role model.Role) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO roles (id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (model.Role, error) {
	var role model.Role
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role by id: %w", err)
	}
	return role, nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM roles WHERE lower(name) = lower($1)`, strings.TrimSpace(name)).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role by name: %w", err)
	}
	return role, nil
}

// ExistsByName reports whether a role holds the name (case-insensitive),
// optionally excluding one id so updates do not collide with themselves.
func (r *RoleRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM roles
		    WHERE lower(name) = lower($1) AND ($2 = '' OR id <> $2)
		 )`,
		strings.TrimSpace(name), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role name exists: %w", err)
	}
	return exists, nil
}

func (r *RoleRepository) List(ctx context.Context, opts PageOptions) (model.Page[model.Role], error) {
	order := orderClause(opts.SortBy, roleSortable, "created_at DESC")

	return paginate(ctx, r.db,
		`SELECT COUNT(*) FROM roles`,
		`SELECT id, name, description, created_at, updated_at
		 FROM roles ORDER BY `+order+` LIMIT $1 OFFSET $2`,
		nil, opts,
		func(rows pgx.Rows) (model.Role, error) {
			var role model.Role
			err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
			return role, err
		})
}

func (r *RoleRepository) Update(ctx context.Context, role model.Role) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE roles SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		role.ID, role.Name, role.Description, role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoleNotFound
	}
	return nil
}
