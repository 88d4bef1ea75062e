package rules

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	rulesservice "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/application"
	ruleshandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/handlers"
	rulesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/repositories"
	rulesrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/router"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the rules module.
type Module struct {
	RulesService  rulesservice.Service
	router        *rulesrouter.RulesRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewRulesModule creates the rules module.
func NewRulesModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	publisher message.Publisher,
	checker permissions.Checker,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "rules.NewRulesModule initializing")

	runner := &operation.Runner{
		Service: "RulesService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "rules"),
		DB:      db,
	}
	service := rulesservice.NewRulesService(rulesdb.NewRepository(db), publisher, runner)
	handlers := ruleshandlers.NewRulesHandlers(service, logger)

	return &Module{
		RulesService:  service,
		router:        rulesrouter.NewRulesRouter(handlers, checker),
		observability: obs,
	}, nil
}

// RegisterRoutes mounts the rules routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the rules module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting rules module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Rules module goroutine stopped")
}

// Close stops the rules module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Rules module stopped")
	return nil
}
