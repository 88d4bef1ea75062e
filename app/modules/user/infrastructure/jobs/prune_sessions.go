package userjobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/queue"
	"github.com/riverqueue/river"
)

// DefaultPruneInterval is how often expired sessions are deleted.
const DefaultPruneInterval = time.Hour

// PruneSessionsArgs is the periodic session cleanup job.
type PruneSessionsArgs struct{}

// Kind returns the job type identifier for River
func (PruneSessionsArgs) Kind() string { return "prune_sessions" }

// InsertOpts routes the job to the maintenance queue.
func (PruneSessionsArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: queue.QueueMaintenance}
}

// SessionPruner is the part of the user service the worker needs.
type SessionPruner interface {
	PruneSessions(ctx context.Context) (int64, error)
}

// PruneSessionsWorker deletes expired and revoked sessions.
type PruneSessionsWorker struct {
	river.WorkerDefaults[PruneSessionsArgs]
	pruner SessionPruner
	logger *slog.Logger
}

// NewPruneSessionsWorker creates a new PruneSessionsWorker.
func NewPruneSessionsWorker(pruner SessionPruner, logger *slog.Logger) *PruneSessionsWorker {
	return &PruneSessionsWorker{pruner: pruner, logger: logger}
}

func (w *PruneSessionsWorker) Work(ctx context.Context, job *river.Job[PruneSessionsArgs]) error {
	n, err := w.pruner.PruneSessions(ctx)
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Pruned sessions",
		attr.Int64("job_id", job.ID),
		attr.Int64("deleted", n),
	)
	return nil
}

// PeriodicPruneJob schedules PruneSessionsArgs every interval, starting at boot.
func PeriodicPruneJob(interval time.Duration) *river.PeriodicJob {
	return river.NewPeriodicJob(
		river.PeriodicInterval(interval),
		func() (river.JobArgs, *river.InsertOpts) {
			return PruneSessionsArgs{}, nil
		},
		&river.PeriodicJobOpts{RunOnStart: true},
	)
}
