package whitelist

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	whitelistservice "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/application"
	whitelisthandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/handlers"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	whitelistrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/router"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the whitelist module.
type Module struct {
	WhitelistService whitelistservice.Service
	router           *whitelistrouter.WhitelistRouter
	cancelFunc       context.CancelFunc
	observability    observability.Observability
}

// NewWhitelistModule creates the whitelist module.
func NewWhitelistModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	guild guildservice.Service,
	publisher message.Publisher,
	checker permissions.Checker,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "whitelist.NewWhitelistModule initializing")

	// 1. Repository
	repo := whitelistdb.NewRepository(db)

	// 2. Service
	runner := &operation.Runner{
		Service: "WhitelistService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "whitelist"),
		DB:      db,
	}
	service := whitelistservice.NewWhitelistService(repo, guild, publisher, runner, cfg.Whitelist.ReapplyCooldown)

	// 3. HTTP
	handlers := whitelisthandlers.NewWhitelistHandlers(service, logger)

	return &Module{
		WhitelistService: service,
		router:           whitelistrouter.NewWhitelistRouter(handlers, checker),
		observability:    obs,
	}, nil
}

// RegisterRoutes mounts the whitelist routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the whitelist module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting whitelist module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Whitelist module goroutine stopped")
}

// Close stops the whitelist module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping whitelist module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Whitelist module stopped")
	return nil
}
