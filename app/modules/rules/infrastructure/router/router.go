package rulesrouter

import (
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	ruleshandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// RulesRouter registers the rulebook routes.
type RulesRouter struct {
	handlers ruleshandlers.Handlers
	checker  permissions.Checker
}

// NewRulesRouter creates a new RulesRouter.
func NewRulesRouter(handlers ruleshandlers.Handlers, checker permissions.Checker) *RulesRouter {
	return &RulesRouter{handlers: handlers, checker: checker}
}

// Mount adds /api/rules and /api/admin/rules to r.
func (rr *RulesRouter) Mount(r chi.Router) {
	r.Get("/api/rules", rr.handlers.HandleList)

	r.Route("/api/admin/rules", func(r chi.Router) {
		r.Use(authmiddleware.RequirePermission(rr.checker, authdomain.PermRulesManage))
		r.Post("/", rr.handlers.HandleCreate)
		r.Put("/order", rr.handlers.HandleReorder)
		r.Put("/{id}", rr.handlers.HandleUpdate)
		r.Delete("/{id}", rr.handlers.HandleDelete)
	})
}
