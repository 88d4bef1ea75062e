package fivem

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	fivemservice "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/application"
	fivemhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/handlers"
	fivemdb "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/repositories"
	fivemrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/router"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the game dashboards module.
type Module struct {
	FiveMService  fivemservice.Service
	router        *fivemrouter.FiveMRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewFiveMModule creates the game dashboards module over gameDB, the read-only db-fivem handle.
func NewFiveMModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	gameDB *bun.DB,
	checker permissions.Checker,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "fivem.NewFiveMModule initializing")

	// No DB on the runner: game reads never run in a transaction.
	runner := &operation.Runner{
		Service: "FiveMService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "fivem"),
	}
	repo := fivemdb.NewRepository(gameDB, cfg.FiveM.QueryTimeout)
	service := fivemservice.NewFiveMService(repo, runner)
	handlers := fivemhandlers.NewFiveMHandlers(service, logger)

	return &Module{
		FiveMService:  service,
		router:        fivemrouter.NewFiveMRouter(handlers, checker),
		observability: obs,
	}, nil
}

// RegisterRoutes mounts the dashboard routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the fivem module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting fivem module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "FiveM module goroutine stopped")
}

// Close stops the fivem module. The game database handle is owned and closed by the app.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("FiveM module stopped")
	return nil
}
