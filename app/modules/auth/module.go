package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	authservice "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/jwt"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	authoauth "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/oauth"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	authrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/router"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/go-chi/chi/v5"
)

const stateIssuer = "fivem-portal"

// Module represents the auth module.
type Module struct {
	Service    authservice.Service
	Enforcer   *permissions.Enforcer
	Cookies    authmiddleware.Cookies
	router     *authrouter.Router
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewAuthModule creates the auth module.
func NewAuthModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	userRepo userdb.Repository,
	guild guildservice.Service,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing auth module")

	// 1. Permissions
	enforcer, err := permissions.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	// 2. OAuth + state signing
	oauth := authoauth.NewDiscordProvider(cfg.Discord.ClientID, cfg.Discord.ClientSecret, cfg.Discord.RedirectURL)
	state := authjwt.NewProvider(cfg.Session.Secret, stateIssuer)

	// 3. Service
	serviceConfig := authservice.Config{
		SessionTTL: cfg.Session.TTL,
		StateTTL:   authservice.DefaultStateTTL,
	}
	service := authservice.NewService(userRepo, guild, oauth, state, serviceConfig, logger, obs.Tracer)

	// 4. HTTP
	cookies := authmiddleware.Cookies{
		SessionName: cfg.Session.CookieName,
		Secure:      cfg.SecureCookies(),
	}
	handlers := authhandlers.NewAuthHandlers(service, enforcer, cookies, serviceConfig.StateTTL, logger, obs.Tracer)
	limiter := authmiddleware.NewIPRateLimiter(authmiddleware.DefaultLoginRate, authmiddleware.DefaultLoginBurst)

	return &Module{
		Service:  service,
		Enforcer: enforcer,
		Cookies:  cookies,
		router:   authrouter.NewRouter(handlers, limiter),
		logger:   logger,
	}, nil
}

// SessionMiddleware resolves the session cookie on every request.
func (m *Module) SessionMiddleware() func(http.Handler) http.Handler {
	return authmiddleware.SessionMiddleware(m.Service, m.Cookies, m.logger)
}

// RegisterRoutes mounts the auth routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the auth module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting auth module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Auth module goroutine stopped")
}

// Close stops the auth module.
func (m *Module) Close() error {
	m.logger.Info("Stopping auth module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Auth module stopped")
	return nil
}
