package userrouter

import (
	"net/http"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	userhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// UserRouter registers the admin user routes.
type UserRouter struct {
	handlers userhandlers.Handlers
	checker  permissions.Checker
}

// NewUserRouter creates a new UserRouter.
func NewUserRouter(handlers userhandlers.Handlers, checker permissions.Checker) *UserRouter {
	return &UserRouter{handlers: handlers, checker: checker}
}

// Mount adds /api/admin/users and /api/admin/blacklist to r.
func (u *UserRouter) Mount(r chi.Router) {
	perm := func(p authdomain.Permission) func(http.Handler) http.Handler {
		return authmiddleware.RequirePermission(u.checker, p)
	}

	r.Route("/api/admin/users", func(r chi.Router) {
		r.With(perm(authdomain.PermUsersRead)).Get("/", u.handlers.HandleListUsers)
		r.With(perm(authdomain.PermUsersRead)).Get("/{discordID}", u.handlers.HandleGetUser)
		r.With(perm(authdomain.PermUsersRoles)).Post("/{discordID}/roles", u.handlers.HandleSetRole)
		r.With(perm(authdomain.PermBlacklistManage)).Post("/{discordID}/blacklist", u.handlers.HandleBlacklist)
		r.With(perm(authdomain.PermBlacklistManage)).Delete("/{discordID}/blacklist", u.handlers.HandleUnblacklist)
	})

	r.With(perm(authdomain.PermBlacklistManage)).Get("/api/admin/blacklist", u.handlers.HandleListBlacklist)
}
