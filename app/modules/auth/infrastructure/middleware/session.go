// Package authmiddleware gates HTTP requests on the portal session and Discord roles.
package authmiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	authservice "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
)

// SessionResolver resolves a session cookie value into a principal.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*authdomain.Principal, error)
}

// SessionMiddleware attaches the principal for a valid session cookie. Requests without a
// valid session continue anonymously; a stale cookie is cleared.
func SessionMiddleware(resolver SessionResolver, cookies Cookies, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, authservice.ErrInvalidSession) {
					cookies.ClearSession(w)
				} else {
					logger.ErrorContext(r.Context(), "Failed to resolve session", attr.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(authdomain.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authdomain.PrincipalFromContext(r.Context()) == nil {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission rejects requests whose roles do not grant perm. Anonymous requests get 401.
func RequirePermission(checker permissions.Checker, perm authdomain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := authdomain.PrincipalFromContext(r.Context())
			if p == nil {
				web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "login required")
				return
			}
			if !checker.Allowed(p.Roles, perm) {
				web.WriteError(w, http.StatusForbidden, web.CodeForbidden, "missing permission "+perm.String())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PageGate redirects page requests based on session presence. API, auth and upload routes and
// static assets pass through untouched.
func PageGate(publicPaths []string) func(http.Handler) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	var prefixes []string
	for _, p := range publicPaths {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			public["/"] = struct{}{}
			continue
		}
		public[p] = struct{}{}
		prefixes = append(prefixes, p+"/")
	}

	isPublic := func(p string) bool {
		if _, ok := public[p]; ok {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(p, prefix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if !isPage(r, p) {
				next.ServeHTTP(w, r)
				return
			}

			clean := path.Clean(p)
			loggedIn := authdomain.PrincipalFromContext(r.Context()) != nil

			switch {
			case clean == "/login" && loggedIn:
				http.Redirect(w, r, "/", http.StatusFound)
			case !loggedIn && !isPublic(clean):
				http.Redirect(w, r, "/login?return_to="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func isPage(r *http.Request, p string) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	for _, prefix := range []string{"/api/", "/auth/", "/uploads/", "/metrics"} {
		if strings.HasPrefix(p, prefix) {
			return false
		}
	}
	return path.Ext(p) == ""
}
