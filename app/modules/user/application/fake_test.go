package userservice

import (
	"io"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

type testDeps struct {
	repo      *userdb.FakeRepository
	guild     *guildservice.FakeService
	publisher *eventbus.FakePublisher
}

func newTestService() (*UserService, testDeps) {
	deps := testDeps{
		repo:      &userdb.FakeRepository{},
		guild:     &guildservice.FakeService{},
		publisher: &eventbus.FakePublisher{},
	}
	runner := &operation.Runner{
		Service: "UserService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
	svc := NewUserService(deps.repo, deps.guild, deps.publisher, runner)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
