package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffroom/logbook-api/internal/config"
	"github.com/staffroom/logbook-api/internal/handler"
	"github.com/staffroom/logbook-api/internal/middleware"
	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/observability"
)

// Dependencies bundles everything the router needs to mount the API.
type Dependencies struct {
	Config    config.Config
	Auth      *handler.AuthHandler
	Logs      *handler.LogHandler
	Analytics *handler.AnalyticsHandler
	Export    *handler.ExportHandler
	Summary   *handler.SummaryHandler
	Profile   *handler.ProfileHandler
}

// Register mounts all routes on the app. Everything under /api/v1 except
// the auth group requires a valid token; analytics, export and the AI
// summary are additionally restricted to principals.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1")
	api.Get("/health", handler.HealthCheck(deps.Config))

	deps.Auth.Register(api.Group("/auth"))

	protected := middleware.JWTProtected(deps.Config.JWTSecret)
	reviewerOnly := middleware.RequireRole(string(models.RolePrincipal))

	deps.Logs.Register(api.Group("/logs", protected), reviewerOnly)
	deps.Profile.Register(api.Group("/profile", protected))

	deps.Analytics.Register(api.Group("/analytics", protected, reviewerOnly))
	deps.Export.Register(api.Group("/export", protected, reviewerOnly))
	deps.Summary.Register(api.Group("/summary", protected, reviewerOnly))
}
