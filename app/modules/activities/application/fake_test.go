package activitiesservice

import (
	"io"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	activitiesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/domain"
	activitiesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

type testDeps struct {
	repo      *activitiesdb.FakeRepository
	publisher *eventbus.FakePublisher
}

func newTestService() (*ActivitiesService, testDeps) {
	deps := testDeps{
		repo:      &activitiesdb.FakeRepository{},
		publisher: &eventbus.FakePublisher{},
	}
	runner := &operation.Runner{
		Service: "ActivitiesService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
	svc := NewActivitiesService(deps.repo, activitiesdomain.NewTimeParser(), deps.publisher, runner)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
