package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/api/http/handlers"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Banks       *handlers.BanksHandler
	Departments *handlers.DepartmentsHandler
	Drugs       *handlers.DrugsHandler
	Hospitals   *handlers.HospitalsHandler
	Lpos        *handlers.LposHandler
	Reagents    *handlers.ReagentsHandler
}

// RegisterRoutes wires HTTP routes. Session middleware must already be installed.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/", cfg.Auth.Home)
	app.Get("/login", cfg.Auth.LoginPage)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)

	authGroup := app.Group("/auth")
	authGroup.Get("/state", cfg.Auth.State)
	authGroup.Get("/events", cfg.Auth.Events)

	api := app.Group("/api", auth.RequireAuthenticated(session.State))

	api.Get("/banks", cfg.Banks.List)
	api.Post("/banks", cfg.Banks.Create)
	api.Get("/banks/:id", cfg.Banks.Get)
	api.Put("/banks/:id", cfg.Banks.Update)
	api.Get("/banks/:id/branches", cfg.Banks.Branches)
	api.Post("/banks/:id/branches", cfg.Banks.CreateBranch)
	api.Get("/branches/:id", cfg.Banks.Branch)
	api.Put("/branches/:id", cfg.Banks.UpdateBranch)

	api.Get("/departments", cfg.Departments.List)
	api.Post("/departments", cfg.Departments.Create)
	api.Get("/departments/:id", cfg.Departments.Get)
	api.Put("/departments/:id", cfg.Departments.Update)

	api.Get("/drug-types", cfg.Drugs.Types)
	api.Get("/manufacturers", cfg.Drugs.Manufacturers)
	api.Get("/drugs", cfg.Drugs.List)
	api.Post("/drugs", cfg.Drugs.Create)
	api.Get("/drugs/:id", cfg.Drugs.Get)
	api.Put("/drugs/:id", cfg.Drugs.Update)

	api.Get("/hospital-regions", cfg.Hospitals.Regions)
	api.Get("/hospitals", cfg.Hospitals.List)
	api.Post("/hospitals", cfg.Hospitals.Create)
	api.Get("/hospitals/:id", cfg.Hospitals.Get)
	api.Put("/hospitals/:id", cfg.Hospitals.Update)

	api.Get("/suppliers", cfg.Lpos.Suppliers)
	api.Get("/suppliers/:id/lpos", cfg.Lpos.Numbers)
	api.Post("/lpos", cfg.Lpos.Create)
	api.Get("/lpos/:id", cfg.Lpos.Get)

	api.Get("/reagents", cfg.Reagents.List)
	api.Post("/reagents", cfg.Reagents.Create)
	api.Get("/reagents/:id", cfg.Reagents.Get)
	api.Put("/reagents/:id", cfg.Reagents.Update)
}
