package contestrouter

import (
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	contesthandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// ContestRouter registers the photo contest routes.
type ContestRouter struct {
	handlers contesthandlers.Handlers
	checker  permissions.Checker
}

// NewContestRouter creates a new ContestRouter.
func NewContestRouter(handlers contesthandlers.Handlers, checker permissions.Checker) *ContestRouter {
	return &ContestRouter{handlers: handlers, checker: checker}
}

// Mount adds /api/contests and /api/admin/contests to r.
func (cr *ContestRouter) Mount(r chi.Router) {
	participate := authmiddleware.RequirePermission(cr.checker, authdomain.PermContestParticipate)

	r.Route("/api/contests", func(r chi.Router) {
		r.Get("/", cr.handlers.HandleList)
		r.Get("/{id}", cr.handlers.HandleGet)
		r.Get("/{id}/results", cr.handlers.HandleResults)
		r.Get("/{id}/entries/{entryID}/image", cr.handlers.HandleEntryImage)
		r.With(participate).Post("/{id}/entries", cr.handlers.HandleSubmitEntry)
		r.With(participate).Post("/{id}/votes", cr.handlers.HandleVote)
	})

	r.Route("/api/admin/contests", func(r chi.Router) {
		r.Use(authmiddleware.RequirePermission(cr.checker, authdomain.PermContestManage))
		r.Post("/", cr.handlers.HandleCreate)
		r.Post("/{id}/phase", cr.handlers.HandleAdvancePhase)
		r.Delete("/{id}", cr.handlers.HandleDelete)
		r.Delete("/{id}/entries/{entryID}", cr.handlers.HandleDeleteEntry)
	})
}
