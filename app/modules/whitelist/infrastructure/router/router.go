package whitelistrouter

import (
	"net/http"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	whitelisthandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// WhitelistRouter registers the whitelist routes.
type WhitelistRouter struct {
	handlers whitelisthandlers.Handlers
	checker  permissions.Checker
}

// NewWhitelistRouter creates a new WhitelistRouter.
func NewWhitelistRouter(handlers whitelisthandlers.Handlers, checker permissions.Checker) *WhitelistRouter {
	return &WhitelistRouter{handlers: handlers, checker: checker}
}

// Mount adds /api/whitelist and /api/admin/whitelist to r.
func (wr *WhitelistRouter) Mount(r chi.Router) {
	perm := func(p authdomain.Permission) func(http.Handler) http.Handler {
		return authmiddleware.RequirePermission(wr.checker, p)
	}

	r.Route("/api/whitelist", func(r chi.Router) {
		r.Use(authmiddleware.RequireSession)
		r.Post("/", wr.handlers.HandleSubmit)
		r.Get("/me", wr.handlers.HandleGetMine)
	})

	r.Route("/api/admin/whitelist", func(r chi.Router) {
		r.With(perm(authdomain.PermWhitelistReview)).Get("/", wr.handlers.HandleList)
		r.With(perm(authdomain.PermWhitelistReview)).Get("/stats", wr.handlers.HandleStats)
		r.With(perm(authdomain.PermWhitelistReview)).Get("/{id}", wr.handlers.HandleGet)
		r.With(perm(authdomain.PermWhitelistReview)).Post("/{id}/approve", wr.handlers.HandleApprove)
		r.With(perm(authdomain.PermWhitelistReview)).Post("/{id}/reject", wr.handlers.HandleReject)
		r.With(perm(authdomain.PermWhitelistRevoke)).Post("/{id}/revoke", wr.handlers.HandleRevoke)
	})
}
