package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sync-workbench/internal/config"
	"sync-workbench/internal/handler"
	"sync-workbench/internal/middleware"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Role           *handler.RoleHandler
	Permission     *handler.PermissionHandler
	RolePermission *handler.RolePermissionHandler
	Employee       *handler.EmployeeHandler
	Resource       *handler.ResourceHandler
}

func New(cfg *config.Config, auth *middleware.AuthMiddleware, h Handlers, health http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", health)

	r.Route("/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/logout", h.Auth.Logout)
			ar.Post("/refresh-tokens", h.Auth.RefreshTokens)
			ar.Post("/forgot-password", h.Auth.ForgotPassword)
			ar.Post("/reset-password", h.Auth.ResetPassword)
			ar.Post("/verify-email", h.Auth.VerifyEmail)
			ar.With(auth.Authenticate).Post("/send-verification-email", h.Auth.SendVerificationEmail)
			ar.With(auth.Authenticate).Get("/me", h.Auth.Me)
		})

		// Every mount below is permission-checked: the resource comes from
		// the registry entry for the mount, the action from the HTTP method.
		api.Route("/users", func(ur chi.Router) {
			ur.Use(auth.Authenticate, auth.Protect("/users"))
			ur.Post("/", h.User.Create)
			ur.Get("/", h.User.List)
			ur.Get("/{id}", h.User.Get)
			ur.Patch("/{id}", h.User.Update)
			ur.Delete("/{id}", h.User.Delete)
		})

		api.Route("/roles", func(rr chi.Router) {
			rr.Use(auth.Authenticate, auth.Protect("/roles"))
			rr.Post("/", h.Role.Create)
			rr.Get("/", h.Role.List)
			rr.Get("/{id}", h.Role.Get)
			rr.Patch("/{id}", h.Role.Update)
			rr.Put("/{id}", h.Role.Replace)
			rr.Delete("/{id}", h.Role.Delete)
		})

		api.Route("/permissions", func(pr chi.Router) {
			pr.Use(auth.Authenticate, auth.Protect("/permissions"))
			pr.Post("/", h.Permission.Create)
			pr.Get("/", h.Permission.List)
			pr.Get("/{id}", h.Permission.Get)
			pr.Patch("/{id}", h.Permission.Update)
			pr.Put("/{id}", h.Permission.Replace)
			pr.Delete("/{id}", h.Permission.Delete)
			pr.Post("/{id}/actions", h.Permission.AddAction)
			pr.Delete("/{id}/actions/{action}", h.Permission.RemoveAction)
		})

		api.Route("/role-permissions", func(rpr chi.Router) {
			rpr.Use(auth.Authenticate, auth.Protect("/role-permissions"))
			rpr.Post("/", h.RolePermission.Create)
			rpr.Get("/", h.RolePermission.List)
			rpr.Get("/{id}", h.RolePermission.Get)
			rpr.Patch("/{id}", h.RolePermission.Update)
			rpr.Put("/{id}", h.RolePermission.Replace)
			rpr.Delete("/{id}", h.RolePermission.Delete)
		})

		api.Route("/employees", func(er chi.Router) {
			er.Use(auth.Authenticate, auth.Protect("/employees"))
			er.Post("/", h.Employee.Create)
			er.Get("/", h.Employee.List)
			er.Get("/{id}", h.Employee.Get)
			er.Patch("/{id}", h.Employee.Update)
			er.Delete("/{id}", h.Employee.Delete)
		})

		api.Route("/resources", func(rr chi.Router) {
			rr.Use(auth.Authenticate, auth.Protect("/resources"))
			rr.Get("/", h.Resource.List)
		})
	})

	return r
}
