package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/remed-api/internal/config"
	"github.com/noah-isme/remed-api/internal/handler"
	"github.com/noah-isme/remed-api/internal/middleware"
	"github.com/noah-isme/remed-api/internal/observability"
	"github.com/noah-isme/remed-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActorMiddleware     fiber.Handler
	GradeHandler        *handler.GradeHandler
	ReportHandler       *handler.ReportHandler
	SurveyHandler       *handler.SurveyHandler
	AnnotationHandler   *handler.AnnotationHandler
	RegistryHandler     *handler.RegistryHandler
	UserHandler         *handler.UserHandler
	DashboardHandler    *handler.DashboardHandler
	NewsHandler         *handler.NewsHandler
	NotificationHandler *handler.NotificationHandler
	ActivityHandler     *handler.ActivityHandler
	DocumentHandler     *handler.DocumentHandler
	SeedHandler         *handler.SeedHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	actor := deps.ActorMiddleware
	if actor == nil {
		actor = func(c *fiber.Ctx) error { return c.Next() }
	}
	api.Use(actor)

	if deps.UserHandler != nil {
		users := api.Group("/users")
		me := api.Group("/me", middleware.RequireActor())
		deps.UserHandler.Register(users, me)
	}

	if deps.RegistryHandler != nil {
		registry := api.Group("/registry", middleware.RequireActor())
		deps.RegistryHandler.Register(registry)
	}

	if deps.GradeHandler != nil {
		grades := api.Group("/grades", middleware.RequireView(service.ViewGrades))
		deps.GradeHandler.Register(grades)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", middleware.RequireActor())
		deps.ReportHandler.Register(reports)
	}

	if deps.SurveyHandler != nil {
		surveys := api.Group("/surveys", middleware.RequireActor())
		deps.SurveyHandler.Register(surveys)
	}

	if deps.AnnotationHandler != nil {
		annotations := api.Group("/annotations", middleware.RequireView(service.ViewAnnotations))
		deps.AnnotationHandler.Register(annotations)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", middleware.RequireView(service.ViewDashboard))
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.NewsHandler != nil {
		news := api.Group("/news")
		deps.NewsHandler.Register(news)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", middleware.RequireActor())
		deps.NotificationHandler.Register(notifications)
	}

	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", middleware.RequireView(service.ViewSiteManagement))
		deps.ActivityHandler.Register(activity)
	}

	if deps.DocumentHandler != nil {
		documents := api.Group("/documents",
			middleware.RequireView(service.ViewDocuments),
			middleware.RateLimit("documents", 30, time.Minute),
		)
		deps.DocumentHandler.Register(documents)
	}

	if deps.SeedHandler != nil {
		seed := api.Group("/seed", middleware.RateLimit("seed", 5, time.Minute))
		deps.SeedHandler.Register(seed)
	}
}
