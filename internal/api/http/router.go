package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicgrid/grievance-service/internal/api/http/handlers"
	"github.com/civicgrid/grievance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Grievances     *handlers.GrievancesHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	grievances := api.Group("/grievances", cfg.AuthMiddleware.Handle)
	grievances.Get("/", cfg.Grievances.List)
	grievances.Post("/", auth.RequireCitizen(), cfg.Grievances.Create)
	grievances.Get("/:id", cfg.Grievances.Get)
	grievances.Patch("/:id", cfg.Grievances.Update)
	grievances.Delete("/:id", cfg.Grievances.Delete)

	api.Get("/stats", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Stats.Stats)
}
