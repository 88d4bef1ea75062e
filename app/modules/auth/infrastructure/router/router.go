package authrouter

import (
	authhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/handlers"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/go-chi/chi/v5"
)

// Router registers the auth HTTP routes.
type Router struct {
	handlers authhandlers.Handlers
	limiter  *authmiddleware.IPRateLimiter
}

// NewRouter creates a new auth router.
func NewRouter(handlers authhandlers.Handlers, limiter *authmiddleware.IPRateLimiter) *Router {
	return &Router{
		handlers: handlers,
		limiter:  limiter,
	}
}

// Mount adds the browser login flow under /auth and the session endpoints under /api/auth.
// r must already run SessionMiddleware.
func (rt *Router) Mount(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(authmiddleware.RateLimitMiddleware(rt.limiter))
		r.Get("/login", rt.handlers.HandleLogin)
		r.Get("/callback", rt.handlers.HandleCallback)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(authmiddleware.RequireSession)
		r.Get("/me", rt.handlers.HandleMe)
		r.Post("/logout", rt.handlers.HandleLogout)
	})
}
