package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
	"sync-workbench/pkg/apierror"
)

const bcryptCost = 12

type userStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	List(ctx context.Context, opts repository.PageOptions) (model.Page[model.User], error)
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id string) error
}

type roleLookup interface {
	FindByID(ctx context.Context, id string) (model.Role, error)
}

type employeeLookup interface {
	FindByID(ctx context.Context, id string) (model.Employee, error)
}

type UserService struct {
	users     userStore
	roles     roleLookup
	employees employeeLookup
}

func NewUserService(users userStore, roles roleLookup, employees employeeLookup) *UserService {
	return &UserService{users: users, roles: roles, employees: employees}
}

// Create registers a new user. The referenced role (and employee, when set)
// must exist and the email must be free; the password is hashed before the
// record is written and the plaintext is never retained.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, apierror.New("ALREADY_EXISTS", "Email already taken", "", http.StatusConflict)
	}

	role, err := s.roles.FindByID(ctx, req.RoleID)
	if err != nil {
		return model.User{}, err
	}

	if req.EmployeeID != nil {
		if _, err := s.employees.FindByID(ctx, *req.EmployeeID); err != nil {
			return model.User{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	if !model.IsValidStatus(status) {
		return model.User{}, apierror.New("BAD_REQUEST", "Invalid status", status, http.StatusBadRequest)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       status,
		EmployeeID:   req.EmployeeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	user.Role = &role
	return user, nil
}

func (s *UserService) Query(ctx context.Context, opts repository.PageOptions) (model.Page[model.User], error) {
	return s.users.List(ctx, opts)
}

func (s *UserService) QueryByID(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) QueryByEmail(ctx context.Context, email string) (model.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// UpdateByID partially updates a user. A changed email must not collide
// with another user's; a changed role or employee must exist.
func (s *UserService) UpdateByID(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		taken, err := s.users.ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, apierror.New("ALREADY_EXISTS", "Email already taken", "", http.StatusConflict)
		}
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if req.RoleID != nil && *req.RoleID != user.RoleID {
		role, err := s.roles.FindByID(ctx, *req.RoleID)
		if err != nil {
			return model.User{}, err
		}
		user.RoleID = role.ID
		user.Role = &role
	}

	if req.EmployeeID != nil {
		if _, err := s.employees.FindByID(ctx, *req.EmployeeID); err != nil {
			return model.User{}, err
		}
		user.EmployeeID = req.EmployeeID
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			return model.User{}, apierror.New("BAD_REQUEST", "Invalid status", *req.Status, http.StatusBadRequest)
		}
		user.Status = *req.Status
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserService) DeleteByID(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// SetPassword re-hashes and stores a new password for the user.
func (s *UserService) SetPassword(ctx context.Context, id string, password string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

// MarkEmailVerified flips the verification flag on the user.
func (s *UserService) MarkEmailVerified(ctx context.Context, id string) (model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	user.IsEmailVerified = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
func (s *UserService) CheckPassword(user model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
