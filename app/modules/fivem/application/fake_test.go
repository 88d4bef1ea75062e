package fivemservice

import (
	"io"
	"log/slog"
	"time"

	fivemdb "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

type testDeps struct {
	repo *fivemdb.FakeRepository
}

func newTestService() (*FiveMService, testDeps) {
	deps := testDeps{repo: &fivemdb.FakeRepository{}}
	runner := &operation.Runner{
		Service: "FiveMService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
	svc := NewFiveMService(deps.repo, runner)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
