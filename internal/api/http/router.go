package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/hr-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Departments    *handlers.DepartmentsHandler
	Employees      *handlers.EmployeesHandler
	Reviews        *handlers.ReviewsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Reads are public; writes need an admin token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/auth/token", cfg.Auth.Token)

	api := app.Group("/api")
	admin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleAdmin)}

	departments := api.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Get("/:id/employees", cfg.Departments.Employees)
	departments.Post("/", append(admin, cfg.Departments.Create)...)
	departments.Put("/:id", append(admin, cfg.Departments.Update)...)
	departments.Delete("/:id", append(admin, cfg.Departments.Delete)...)

	employees := api.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Get("/:id/reviews", cfg.Employees.Reviews)
	employees.Post("/", append(admin, cfg.Employees.Create)...)
	employees.Put("/:id", append(admin, cfg.Employees.Update)...)
	employees.Delete("/:id", append(admin, cfg.Employees.Delete)...)

	reviews := api.Group("/reviews")
	reviews.Get("/", cfg.Reviews.List)
	reviews.Get("/:id", cfg.Reviews.Get)
	reviews.Post("/", append(admin, cfg.Reviews.Create)...)
	reviews.Put("/:id", append(admin, cfg.Reviews.Update)...)
	reviews.Delete("/:id", append(admin, cfg.Reviews.Delete)...)
}
