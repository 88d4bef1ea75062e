// Package queue runs the portal's background jobs on River. Modules register their workers and
// periodic jobs before Start builds the client.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const (
	QueueContest     = "contest"
	QueueMaintenance = "maintenance"

	serviceName = "river"
)

// ErrNotStarted is returned when a job is inserted before Start.
var ErrNotStarted = errors.New("queue client not started")

// Scheduler is the contract modules use to enqueue and cancel jobs.
type Scheduler interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error)
	CancelJobs(ctx context.Context, kinds []string, argKey, argValue string) (int, error)
}

var _ Scheduler = (*Service)(nil)

// Service owns the pgx pool and River client.
type Service struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	workers  *river.Workers
	periodic []*river.PeriodicJob
	db       *bun.DB
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
}

// NewService connects the pgx pool River needs and prepares an empty worker registry.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, m metrics.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(attr.String("component", "river_queue"))

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	// River requires pgx, not database/sql
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	m.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))

	return &Service{
		pool:    pool,
		workers: river.NewWorkers(),
		db:      bunDB,
		logger:  ctxLogger,
		metrics: m,
	}, nil
}

// Workers returns the registry modules add their workers to.
func (s *Service) Workers() *river.Workers {
	return s.workers
}

// AddPeriodicJob registers a periodic job. It must be called before Start.
func (s *Service) AddPeriodicJob(job *river.PeriodicJob) {
	s.periodic = append(s.periodic, job)
}

// Start builds the River client from the registered workers and starts working jobs.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", serviceName)

	client, err := river.NewClient(riverpgxv5.New(s.pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 20},
			QueueContest:       {MaxWorkers: 10},
			QueueMaintenance:   {MaxWorkers: 2},
		},
		Workers:      s.workers,
		PeriodicJobs: s.periodic,
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to create River client: %w", err)
	}
	s.client = client

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", serviceName)
	s.metrics.RecordOperationDuration(ctx, "start_service", serviceName, time.Since(start))
	s.logger.Info("Queue service started", attr.Int("periodic_jobs", len(s.periodic)))
	return nil
}

// Stop waits for running jobs to finish and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping queue service")
	defer s.pool.Close()

	if s.client == nil {
		return nil
	}
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// Insert enqueues a job and returns its ID.
func (s *Service) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error) {
	start := time.Now()
	operation := "insert_" + args.Kind()
	s.metrics.RecordOperationAttempt(ctx, operation, serviceName)
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
	}()

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
		return 0, ErrNotStarted
	}

	res, err := s.client.Insert(ctx, args, opts)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
		return 0, fmt.Errorf("failed to insert %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	s.logger.InfoContext(ctx, "Job scheduled",
		attr.String("kind", args.Kind()),
		attr.Int64("job_id", res.Job.ID),
		attr.Time("scheduled_at", res.Job.ScheduledAt),
		attr.Bool("unique_skipped", res.UniqueSkippedAsDuplicate),
	)
	return res.Job.ID, nil
}

type riverJobRow struct {
	ID   int64  `bun:"id"`
	Kind string `bun:"kind"`
}

// CancelJobs cancels every available or scheduled job of the given kinds whose args carry
// argKey = argValue. It returns the number cancelled.
func (s *Service) CancelJobs(ctx context.Context, kinds []string, argKey, argValue string) (int, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "cancel_jobs", serviceName)

	ctxLogger := s.logger.With(
		attr.String(argKey, argValue),
		attr.String("operation", "cancel_jobs"),
	)

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "cancel_jobs", serviceName)
		return 0, ErrNotStarted
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind").
		Where("kind IN (?)", bun.In(kinds)).
		Where("state IN (?, ?)", "available", "scheduled").
		Where("args->>? = ?", argKey, argValue).
		Scan(ctx, &jobs)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "cancel_jobs", serviceName)
		return 0, fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			ctxLogger.Warn("Failed to cancel job",
				attr.Int64("job_id", job.ID),
				attr.String("job_kind", job.Kind),
				attr.Error(err))
			continue
		}
		cancelled++
	}

	if cancelled == len(jobs) {
		s.metrics.RecordOperationSuccess(ctx, "cancel_jobs", serviceName)
	} else {
		s.metrics.RecordOperationFailure(ctx, "cancel_jobs", serviceName)
	}
	s.metrics.RecordOperationDuration(ctx, "cancel_jobs", serviceName, time.Since(start))

	ctxLogger.Info("Jobs cancellation completed",
		attr.Int("total_found", len(jobs)),
		attr.Int("cancelled_count", cancelled))
	return cancelled, nil
}

// HealthCheck verifies the job table is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
