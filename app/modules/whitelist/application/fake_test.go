package whitelistservice

import (
	"io"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

const testCooldown = 24 * time.Hour

type testDeps struct {
	repo      *whitelistdb.FakeRepository
	guild     *guildservice.FakeService
	publisher *eventbus.FakePublisher
}

func newTestService() (*WhitelistService, testDeps) {
	deps := testDeps{
		repo:      &whitelistdb.FakeRepository{},
		guild:     &guildservice.FakeService{},
		publisher: &eventbus.FakePublisher{},
	}
	runner := &operation.Runner{
		Service: "WhitelistService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
	svc := NewWhitelistService(deps.repo, deps.guild, deps.publisher, runner, testCooldown)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
