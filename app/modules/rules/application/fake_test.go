package rulesservice

import (
	"io"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	rulesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

type testDeps struct {
	repo      *rulesdb.FakeRepository
	publisher *eventbus.FakePublisher
}

func newTestService() (*RulesService, testDeps) {
	deps := testDeps{
		repo:      &rulesdb.FakeRepository{},
		publisher: &eventbus.FakePublisher{},
	}
	runner := &operation.Runner{
		Service: "RulesService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
	svc := NewRulesService(deps.repo, deps.publisher, runner)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
