package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/document-service/internal/api/http/handlers"
	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Templates *handlers.TemplatesHandler
	Documents *handlers.DocumentsHandler
	Verifier  *auth.Verifier
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Handlers left nil are not mounted.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	v := cfg.Verifier
	staff := []domain.Role{domain.RoleAdmin, domain.RoleManager}
	admin := []domain.Role{domain.RoleAdmin}

	if h := cfg.Auth; h != nil {
		g := app.Group("/auth")
		g.Post("/register", h.Register)
		g.Post("/login", h.Login)
		g.Get("/me", guard(v, h.Me)...)
	}

	if h := cfg.Users; h != nil {
		g := app.Group("/users")
		g.Get("/", guard(v, h.List, staff...)...)
		g.Get("/:id", guard(v, h.Get)...)
		g.Patch("/:id/role", guard(v, h.ChangeRole, admin...)...)
		g.Delete("/:id", guard(v, h.Delete, admin...)...)
	}

	if h := cfg.Templates; h != nil {
		g := app.Group("/templates")
		g.Get("/", guard(v, h.List)...)
		g.Get("/:id", guard(v, h.Get)...)
		g.Post("/", guard(v, h.Create, staff...)...)
		g.Put("/:id", guard(v, h.Update, staff...)...)
		g.Delete("/:id", guard(v, h.Delete, admin...)...)
	}

	if h := cfg.Documents; h != nil {
		g := app.Group("/documents")
		g.Post("/", guard(v, h.Create)...)
		g.Get("/", guard(v, h.List)...)
		g.Get("/:id", guard(v, h.Get)...)
		g.Patch("/:id", guard(v, h.Update)...)
		g.Delete("/:id", guard(v, h.Delete)...)
		g.Get("/:id/fields", guard(v, h.GetFields)...)
		g.Put("/:id/fields", guard(v, h.PutFields)...)
	}
}

// guard prefixes handler with token verification and, when roles are given, a role gate.
func guard(v *auth.Verifier, handler fiber.Handler, roles ...domain.Role) []fiber.Handler {
	return append(v.Chain(roles...), handler)
}
