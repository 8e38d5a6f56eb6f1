package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"sync-workbench/internal/model"
	"sync-workbench/internal/repository"
)

const superAdminRoleName = "Super Admin"

// SeedService provisions the super admin role, a permission with every
// action for every registered resource, the role-permission links, and
// the super admin user itself. The whole seed runs inside one
// transaction so a half-provisioned admin can never be observed.
type SeedService struct {
	pool        *pgxpool.Pool
	users       *repository.UserRepository
	roles       *repository.RoleRepository
	permissions *repository.PermissionRepository
	assignments *repository.RolePermissionRepository
}

func NewSeedService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	roles *repository.RoleRepository,
	permissions *repository.PermissionRepository,
	assignments *repository.RolePermissionRepository,
) *SeedService {
	return &SeedService{
		pool:        pool,
		users:       users,
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
	}
}

// EnsureSuperAdmin is idempotent: when a user with the configured email
// already exists it does nothing.
func (s *SeedService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	exists, err := s.users.ExistsByEmail(ctx, email, "")
	if err != nil {
		return fmt.Errorf("checking super admin: %w", err)
	}
	if exists {
		slog.DebugContext(ctx, "super admin already present", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing super admin password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	roles := s.roles.WithTx(tx)
	permissions := s.permissions.WithTx(tx)
	assignments := s.assignments.WithTx(tx)
	users := s.users.WithTx(tx)

	now := time.Now().UTC()

	role, err := roles.FindByName(ctx, superAdminRoleName)
	if errors.Is(err, model.ErrRoleNotFound) {
		role = model.Role{
			ID:          uuid.NewString(),
			Name:        superAdminRoleName,
			Description: "Full access to every resource",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err = roles.Create(ctx, role)
	}
	if err != nil {
		return fmt.Errorf("seeding role: %w", err)
	}

	for _, entry := range model.ResourceRegistry {
		permission, err := permissions.FindByResource(ctx, entry.Name)
		if errors.Is(err, model.ErrPermissionNotFound) {
			permission = model.Permission{
				ID:        uuid.NewString(),
				Resource:  entry.Name,
				Actions:   append([]string(nil), model.PermissionActions...),
				CreatedAt: now,
				UpdatedAt: now,
			}
			err = permissions.Create(ctx, permission)
		}
		if err != nil {
			return fmt.Errorf("seeding permission %q: %w", entry.Name, err)
		}

		linked, err := assignments.Exists(ctx, role.ID, permission.ID, "")
		if err != nil {
			return fmt.Errorf("checking assignment for %q: %w", entry.Name, err)
		}
		if linked {
			continue
		}
		assignment := model.RolePermission{
			ID:           uuid.NewString(),
			RoleID:       role.ID,
			PermissionID: permission.ID,
			CreatedAt:    now,
		}
		if err := assignments.Create(ctx, assignment); err != nil {
			return fmt.Errorf("seeding assignment for %q: %w", entry.Name, err)
		}
	}

	admin := model.User{
		ID:              uuid.NewString(),
		Name:            superAdminRoleName,
		Email:           email,
		PasswordHash:    string(hash),
		RoleID:          role.ID,
		Status:          model.StatusActive,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seeding super admin user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}

	slog.InfoContext(ctx, "super admin seeded", "email", email, "role", role.Name)
	return nil
}
