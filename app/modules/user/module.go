package user

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	userservice "github.com/Black-And-White-Club/fivem-portal/app/modules/user/application"
	userhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/handlers"
	userjobs "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/jobs"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	userrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/router"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/queue"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// Module represents the user module.
type Module struct {
	UserService   userservice.Service
	router        *userrouter.UserRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewUserModule creates the user module. The repository is built by the app so the auth module
// can share it.
func NewUserModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	repo userdb.Repository,
	guild guildservice.Service,
	publisher message.Publisher,
	jobs *queue.Service,
	checker permissions.Checker,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "user.NewUserModule initializing")

	// 1. Service
	runner := &operation.Runner{
		Service: "UserService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "user"),
		DB:      db,
	}
	service := userservice.NewUserService(repo, guild, publisher, runner)

	// 2. Session cleanup job
	if jobs != nil {
		river.AddWorker(jobs.Workers(), userjobs.NewPruneSessionsWorker(service, logger))
		jobs.AddPeriodicJob(userjobs.PeriodicPruneJob(userjobs.DefaultPruneInterval))
	}

	// 3. HTTP
	handlers := userhandlers.NewUserHandlers(service, logger)

	return &Module{
		UserService:   service,
		router:        userrouter.NewUserRouter(handlers, checker),
		observability: obs,
	}, nil
}

// RegisterRoutes mounts the admin user routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the user module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting user module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "User module goroutine stopped")
}

// Close stops the user module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping user module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("User module stopped")
	return nil
}
