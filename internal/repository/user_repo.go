package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

var userSortable = map[string]string{
	"name":       "u.name",
	"email":      "u.email",
	"status":     "u.status",
	"created_at": "u.created_at",
}

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role_id, u.status,
	        u.employee_id, u.is_email_verified, u.created_at, u.updated_at,
	        r.id, r.name, r.description, r.created_at, r.updated_at`

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var role model.Role
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Status,
		&u.EmployeeID, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt,
		&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = &role
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role_id, status,
		                    employee_id, is_email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.RoleID, u.Status,
		u.EmployeeID, u.IsEmailVerified, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID returns the user with their role populated.
func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE u.id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE lower(u.email) = lower($1)`, strings.TrimSpace(email)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM users
		    WHERE lower(email) = lower($1) AND ($2 = '' OR id <> $2)
		 )`,
		strings.TrimSpace(email), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, opts PageOptions) (model.Page[model.User], error) {
	order := orderClause(opts.SortBy, userSortable, "u.created_at DESC")

	return paginate(ctx, r.db,
		`SELECT COUNT(*) FROM users`,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 ORDER BY `+order+` LIMIT $1 OFFSET $2`,
		nil, opts,
		func(rows pgx.Rows) (model.User, error) {
			return scanUser(rows)
		})
}

func (r *UserRepository) Update(ctx context.Context, u model.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, role_id = $5,
		        status = $6, employee_id = $7, is_email_verified = $8, updated_at = $9
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.RoleID,
		u.Status, u.EmployeeID, u.IsEmailVerified, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
