package fivemrouter

import (
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	fivemhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// FiveMRouter registers the game dashboard routes.
type FiveMRouter struct {
	handlers fivemhandlers.Handlers
	checker  permissions.Checker
}

// NewFiveMRouter creates a new FiveMRouter.
func NewFiveMRouter(handlers fivemhandlers.Handlers, checker permissions.Checker) *FiveMRouter {
	return &FiveMRouter{handlers: handlers, checker: checker}
}

// Mount adds /api/stats, /api/dashboard and /api/admin/exports to r.
func (fr *FiveMRouter) Mount(r chi.Router) {
	r.Get("/api/stats", fr.handlers.HandlePublicStats)

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authmiddleware.RequirePermission(fr.checker, authdomain.PermDashboardRead))
		r.Get("/economy", fr.handlers.HandleEconomy)
		r.Get("/players", fr.handlers.HandlePlayers)
		r.Get("/richest", fr.handlers.HandleRichest)
		r.Get("/jobs", fr.handlers.HandleJobs)
		r.Get("/vehicles", fr.handlers.HandleVehicles)
		r.Get("/charts/wealth.png", fr.handlers.HandleWealthChart)
		r.Get("/charts/jobs.png", fr.handlers.HandleJobChart)
	})

	r.With(authmiddleware.RequirePermission(fr.checker, authdomain.PermDashboardExport)).
		Get("/api/admin/exports/economy.xlsx", fr.handlers.HandleExport)
}
