package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-desk/complaint-service/internal/api/http/handlers"
	"github.com/campus-desk/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Users          *handlers.UsersHandler
	Analytics      *handlers.AnalyticsHandler
	Seed           *handlers.SeedHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/validate", cfg.AuthMiddleware.Handle, cfg.Auth.Validate)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/admin", auth.Require(auth.ActionComplaintListAll), cfg.Complaints.ListAdmin)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Delete("/:id", cfg.Complaints.Delete)
	complaints.Patch("/:id/status", auth.Require(auth.ActionComplaintSetStatus), cfg.Complaints.SetStatus)
	complaints.Post("/:id/comments", cfg.Complaints.AddComment)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.Require(auth.ActionUserList), cfg.Users.List)
	users.Post("/create", auth.Require(auth.ActionUserCreate), cfg.Users.Create)
	users.Post("/change-password", cfg.Users.ChangePassword)

	api.Get("/analytics", cfg.AuthMiddleware.Handle, cfg.Analytics.Summarize)

	seed := api.Group("/seed")
	seed.Post("/", cfg.AuthMiddleware.Handle, auth.Require(auth.ActionSeedData), cfg.Seed.Seed)
	seed.Post("/add-complaints", cfg.Seed.AddComplaints)
}
