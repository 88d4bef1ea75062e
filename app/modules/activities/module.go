package activities

import (
	"context"
	"sync"

	activitiesservice "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/application"
	activitiesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/domain"
	activitieshandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/handlers"
	activitiesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/repositories"
	activitiesrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/router"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the activities module.
type Module struct {
	ActivitiesService activitiesservice.Service
	router            *activitiesrouter.ActivitiesRouter
	cancelFunc        context.CancelFunc
	observability     observability.Observability
}

// NewActivitiesModule creates the activities module.
func NewActivitiesModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	publisher message.Publisher,
	checker permissions.Checker,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "activities.NewActivitiesModule initializing")

	runner := &operation.Runner{
		Service: "ActivitiesService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "activities"),
		DB:      db,
	}
	service := activitiesservice.NewActivitiesService(activitiesdb.NewRepository(db), activitiesdomain.NewTimeParser(), publisher, runner)
	handlers := activitieshandlers.NewActivitiesHandlers(service, logger)

	return &Module{
		ActivitiesService: service,
		router:            activitiesrouter.NewActivitiesRouter(handlers, checker),
		observability:     obs,
	}, nil
}

// RegisterRoutes mounts the activity routes on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Mount(r)
}

// Run starts the activities module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting activities module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Activities module goroutine stopped")
}

// Close stops the activities module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Activities module stopped")
	return nil
}
