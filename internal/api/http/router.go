package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/http/handlers"
	"github.com/spec-kit/ticket-insights/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Clients        *handlers.ClientsHandler
	Contracts      *handlers.ContractsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	requireAuth := cfg.AuthMiddleware.Handle

	tickets := app.Group("/tickets", requireAuth)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)

	clients := app.Group("/clients", requireAuth)
	clients.Post("/", cfg.Clients.CreateClient)
	clients.Get("/", cfg.Clients.ListClients)
	clients.Get("/by-tax-id/:taxId", cfg.Clients.ClientByTaxID)
	clients.Get("/:id/summary", cfg.Clients.ClientSummary)

	contracts := app.Group("/contracts", requireAuth)
	contracts.Post("/", cfg.Contracts.CreateContract)
	contracts.Get("/", cfg.Contracts.ListContracts)

	app.Get("/dashboard/summary", requireAuth, cfg.Dashboard.Summary)
}
