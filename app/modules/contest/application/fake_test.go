package contestservice

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	contestdb "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/riverqueue/river"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

const testMaxUpload = 1 << 10

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (m *memStore) Save(name string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return int64(len(data)), nil
}

func (m *memStore) Open(name string) (io.ReadSeekCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return nopCloser{bytes.NewReader(data)}, nil
}

func (m *memStore) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func (m *memStore) RemoveDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.files {
		if strings.HasPrefix(name, dir+"/") {
			delete(m.files, name)
		}
	}
	return nil
}

func (m *memStore) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for name := range m.files {
		out = append(out, name)
	}
	return out
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }

type insertedJob struct {
	Args river.JobArgs
	Opts *river.InsertOpts
}

type fakeScheduler struct {
	InsertFunc     func(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error)
	CancelJobsFunc func(ctx context.Context, kinds []string, argKey, argValue string) (int, error)

	inserted  []insertedJob
	cancelled []string
}

func (f *fakeScheduler) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error) {
	f.inserted = append(f.inserted, insertedJob{Args: args, Opts: opts})
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, args, opts)
	}
	return int64(len(f.inserted)), nil
}

func (f *fakeScheduler) CancelJobs(ctx context.Context, kinds []string, argKey, argValue string) (int, error) {
	f.cancelled = append(f.cancelled, argValue)
	if f.CancelJobsFunc != nil {
		return f.CancelJobsFunc(ctx, kinds, argKey, argValue)
	}
	return 0, nil
}

type testDeps struct {
	repo      *contestdb.FakeRepository
	store     *memStore
	jobs      *fakeScheduler
	publisher *eventbus.FakePublisher
}

func newTestService() (*ContestService, testDeps) {
	deps := testDeps{
		repo:      &contestdb.FakeRepository{},
		store:     newMemStore(),
		jobs:      &fakeScheduler{},
		publisher: &eventbus.FakePublisher{},
	}
	enforcer, err := permissions.NewEnforcer()
	if err != nil {
		panic(err)
	}
	runner := &operation.Runner{
		Service: "ContestService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
	svc := NewContestService(deps.repo, deps.store, deps.jobs, enforcer, deps.publisher, runner, testMaxUpload)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
