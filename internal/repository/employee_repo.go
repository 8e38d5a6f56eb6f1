package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

var employeeSortable = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"department": "department",
	"created_at": "created_at",
}

type EmployeeRepository struct {
	db Querier
}

func NewEmployeeRepository(db Querier) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e model.Employee) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO employees (id, first_name, last_name, position, department, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.FirstName, e.LastName, e.Position, e.Department, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (model.Employee, error) {
	var e model.Employee
	err := r.db.QueryRow(ctx,
		`SELECT id, first_name, last_name, position, department, created_at, updated_at
		 FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.FirstName, &e.LastName, &e.Position, &e.Department, &e.CreatedAt, &e.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Employee{}, model.ErrEmployeeNotFound
	}
	if err != nil {
		return model.Employee{}, fmt.Errorf("find employee by id: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, opts PageOptions) (model.Page[model.Employee], error) {
	order := orderClause(opts.SortBy, employeeSortable, "created_at DESC")

	return paginate(ctx, r.db,
		`SELECT COUNT(*) FROM employees`,
		`SELECT id, first_name, last_name, position, department, created_at, updated_at
		 FROM employees ORDER BY `+order+` LIMIT $1 OFFSET $2`,
		nil, opts,
		func(rows pgx.Rows) (model.Employee, error) {
			var e model.Employee
			err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Position, &e.Department, &e.CreatedAt, &e.UpdatedAt)
			return e, err
		})
}

func (r *EmployeeRepository) Update(ctx context.Context, e model.Employee) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET first_name = $2, last_name = $3, position = $4,
		        department = $5, updated_at = $6
		 WHERE id = $1`,
		e.ID, e.FirstName, e.LastName, e.Position, e.Department, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEmployeeNotFound
	}
	return nil
}
