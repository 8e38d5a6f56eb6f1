package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
)

type employeeStore interface {
	Create(ctx context.Context, employee model.Employee) error
	FindByID(ctx context.Context, id string) (model.Employee, error)
	List(ctx context.Context, opts repository.PageOptions) (model.Page[model.Employee], error)
	Update(ctx context.Context, employee model.Employee) error
	Delete(ctx context.Context, id string) error
}

type EmployeeService struct {
	employees employeeStore
}

func NewEmployeeService(employees employeeStore) *EmployeeService {
	return &EmployeeService{employees: employees}
}

func (s *EmployeeService) Create(ctx context.Context, req model.CreateEmployeeRequest) (model.Employee, error) {
	now := time.Now().UTC()
	employee := model.Employee{
		ID:         uuid.NewString(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Position:   req.Position,
		Department: req.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return model.Employee{}, err
	}
	return employee, nil
}

func (s *EmployeeService) Query(ctx context.Context, opts repository.PageOptions) (model.Page[model.Employee], error) {
	return s.employees.List(ctx, opts)
}

func (s *EmployeeService) QueryByID(ctx context.Context, id string) (model.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

func (s *EmployeeService) UpdateByID(ctx context.Context, id string, req model.UpdateEmployeeRequest) (model.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return model.Employee{}, err
	}

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Department != nil {
		employee.Department = *req.Department
	}
	employee.UpdatedAt = time.Now().UTC()

	if err := s.employees.Update(ctx, employee); err != nil {
		return model.Employee{}, err
	}
	return employee, nil
}

func (s *EmployeeService) DeleteByID(ctx context.Context, id string) error {
	return s.employees.Delete(ctx, id)
}
