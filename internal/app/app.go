package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sync-workbench/internal/config"
	"sync-workbench/internal/database"
	"sync-workbench/internal/handler"
	"sync-workbench/internal/middleware"
	"sync-workbench/internal/repository"
	"sync-workbench/internal/router"
	"sync-workbench/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	rolePermissionRepo := repository.NewRolePermissionRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	slog.Info("database ready")

	userService := service.NewUserService(userRepo, roleRepo, employeeRepo)
	tokenService := service.NewTokenService(cfg.JWTSecret, service.TokenTTLs{
		Access:        cfg.JWTAccessTTL,
		Refresh:       cfg.JWTRefreshTTL,
		ResetPassword: cfg.JWTResetPasswordTTL,
		VerifyEmail:   cfg.JWTVerifyEmailTTL,
	}, tokenRepo, userRepo)
	authService := service.NewAuthService(userService, tokenService, tokenRepo)
	roleService := service.NewRoleService(roleRepo)
	permissionService := service.NewPermissionService(permissionRepo)
	rolePermissionService := service.NewRolePermissionService(rolePermissionRepo, roleRepo, permissionRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	authorizer := service.NewAuthorizer(rolePermissionRepo)
	emailSender := service.NewLogEmailSender(cfg.ClientURL)

	if cfg.SeedSuperAdmin {
		seed := service.NewSeedService(pool, userRepo, roleRepo, permissionRepo, rolePermissionRepo)
		if err := seed.EnsureSuperAdmin(context.Background(), cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed super admin: %w", err)
		}
	}

	handler.SetPagingDefaults(cfg.DefaultPage, cfg.DefaultLimit)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService, authorizer, cfg.MethodActions())

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:           handler.NewAuthHandler(authService, userService, tokenService, emailSender),
		User:           handler.NewUserHandler(userService),
		Role:           handler.NewRoleHandler(roleService),
		Permission:     handler.NewPermissionHandler(permissionService),
		RolePermission: handler.NewRolePermissionHandler(rolePermissionService),
		Employee:       handler.NewEmployeeHandler(employeeService),
		Resource:       handler.NewResourceHandler(),
	}, func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go purgeExpiredTokens(cleanupCtx, tokenRepo)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				cleanupCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

// purgeExpiredTokens sweeps the token table hourly so expired reset and
// verification tokens do not pile up.
func purgeExpiredTokens(ctx context.Context, tokens *repository.TokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("token cleanup failed", "error", err.Error())
				continue
			}
			if removed > 0 {
				slog.Info("expired tokens purged", "count", removed)
			}
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
