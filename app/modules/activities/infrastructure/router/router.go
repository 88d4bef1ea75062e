package activitiesrouter

import (
	activitieshandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/handlers"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	"github.com/go-chi/chi/v5"
)

// ActivitiesRouter registers the activity routes.
type ActivitiesRouter struct {
	handlers activitieshandlers.Handlers
	checker  permissions.Checker
}

// NewActivitiesRouter creates a new ActivitiesRouter.
func NewActivitiesRouter(handlers activitieshandlers.Handlers, checker permissions.Checker) *ActivitiesRouter {
	return &ActivitiesRouter{handlers: handlers, checker: checker}
}

// Mount adds /api/activities and /api/admin/activities to r.
func (ar *ActivitiesRouter) Mount(r chi.Router) {
	r.Get("/api/activities", ar.handlers.HandleListUpcoming)

	r.Route("/api/admin/activities", func(r chi.Router) {
		r.Use(authmiddleware.RequirePermission(ar.checker, authdomain.PermActivitiesManage))
		r.Get("/", ar.handlers.HandleListAll)
		r.Post("/", ar.handlers.HandleCreate)
		r.Put("/{id}", ar.handlers.HandleUpdate)
		r.Delete("/{id}", ar.handlers.HandleDelete)
	})
}
