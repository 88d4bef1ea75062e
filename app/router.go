package app

import (
	"net/http"
	"time"

	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	apiRateLimit  = 120
	apiRateWindow = time.Minute
)

// RouteModule is implemented by every module that serves HTTP routes.
type RouteModule interface {
	RegisterRoutes(r chi.Router)
}

func (app *App) routeModules() []RouteModule {
	return []RouteModule{
		app.AuthModule,
		app.UserModule,
		app.WhitelistModule,
		app.RulesModule,
		app.ActivitiesModule,
		app.ContestModule,
		app.FiveMModule,
	}
}

// Handler builds the HTTP handler serving the API, the login flow and the SPA.
func (app *App) Handler() http.Handler {
	return NewHandler(app.Config.HTTP, app.Observability, app.AuthModule.SessionMiddleware(), app.routeModules()...)
}

// NewHandler assembles the chi router. session resolves the principal on every request so that
// module permission checks and PageGate see it.
func NewHandler(
	cfg config.HTTPConfig,
	obs observability.Observability,
	session func(http.Handler) http.Handler,
	modules ...RouteModule,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimiddleware.RealIP,
		chimiddleware.RequestID,
		web.CorrelationID,
		chimiddleware.Recoverer,
		metrics.HTTPMiddleware(obs.Registry),
		web.RequestLogger(obs.Logger),
		// At the root so preflight requests reach it before chi's method matching.
		web.CORS(cfg.AllowedOrigins),
		session,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API and login routes. /auth additionally carries its own per-IP token bucket.
	r.Group(func(r chi.Router) {
		r.Use(web.RateLimit(apiRateLimit, apiRateWindow))
		for _, m := range modules {
			m.RegisterRoutes(r)
		}
	})

	r.With(authmiddleware.PageGate(cfg.PublicPaths)).Handle("/*", web.SPA(cfg.StaticDir))

	return r
}
