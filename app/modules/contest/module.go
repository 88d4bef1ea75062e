package contest

import (
	"context"
	"errors"
	"sync"

	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	contestservice "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/application"
	contesthandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/handlers"
	contestjobs "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/jobs"
	contestdb "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories"
	contestrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/router"
	conteststorage "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/storage"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/queue"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// Module represents the contest module.
type Module struct {
	ContestService contestservice.Service
	router         *contestrouter.ContestRouter
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewContestModule creates the contest module and registers its phase change worker. It must
// run before the queue is started.
func NewContestModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	publisher message.Publisher,
	jobs *queue.Service,
	checker permissions.Checker,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "contest.NewContestModule initializing")

	if jobs == nil {
		return nil, errors.New("contest module requires the job queue")
	}

	// 1. Storage
	store, err := conteststorage.NewDiskStore(cfg.HTTP.UploadDir)
	if err != nil {
		return nil, err
	}

	// 2. Service
	runner := &operation.Runner{
		Service: "ContestService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "contest"),
		DB:      db,
	}
	service := contestservice.NewContestService(
		contestdb.NewRepository(db),
		store,
		jobs,
		checker,
		publisher,
		runner,
		cfg.HTTP.MaxUploadBytes,
	)

	// 3. Phase change worker
	river.AddWorker(jobs.Workers(), contestjobs.NewPhaseChangeWorker(service, logger))

	// 4. HTTP
	handlers := contesthandlers.NewContestHandlers(service, cfg.HTTP.MaxUploadBytes, logger)

	return &Module{
		ContestService: service,
		router:         contestrouter.NewContestRouter(handlers, checker),
		observability:  obs,
	}, nil
}

// RegisterRoutes mounts the contest routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the contest module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting contest module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Contest module goroutine stopped")
}

// Close stops the contest module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Contest module stopped")
	return nil
}
