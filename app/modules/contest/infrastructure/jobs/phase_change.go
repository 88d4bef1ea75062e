package contestjobs

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/queue"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// PhaseChangeKind is the River kind for scheduled contest phase changes.
const PhaseChangeKind = "contest_phase_change"

// PhaseChangeArgs moves a contest into Phase at the job's scheduled time.
type PhaseChangeArgs struct {
	ContestID string `json:"contest_id"`
	Phase     string `json:"phase"`
}

// Kind returns the job type identifier for River
func (PhaseChangeArgs) Kind() string { return PhaseChangeKind }

// InsertOpts routes the job to the contest queue, one job per contest and phase.
func (PhaseChangeArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:      queue.QueueContest,
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	}
}

// PhaseAdvancer is the part of the contest service the worker needs. A phase the contest has
// already reached must be reported as success.
type PhaseAdvancer interface {
	AdvanceScheduled(ctx context.Context, contestID uuid.UUID, phase string) error
}

// PhaseChangeWorker applies scheduled phase changes.
type PhaseChangeWorker struct {
	river.WorkerDefaults[PhaseChangeArgs]
	advancer PhaseAdvancer
	logger   *slog.Logger
}

// NewPhaseChangeWorker creates a new PhaseChangeWorker.
func NewPhaseChangeWorker(advancer PhaseAdvancer, logger *slog.Logger) *PhaseChangeWorker {
	return &PhaseChangeWorker{advancer: advancer, logger: logger}
}

func (w *PhaseChangeWorker) Work(ctx context.Context, job *river.Job[PhaseChangeArgs]) error {
	contestID, err := uuid.Parse(job.Args.ContestID)
	if err != nil {
		w.logger.ErrorContext(ctx, "Discarding phase change with bad contest id",
			attr.Int64("job_id", job.ID),
			attr.String("contest_id", job.Args.ContestID),
		)
		return river.JobCancel(err)
	}

	if err := w.advancer.AdvanceScheduled(ctx, contestID, job.Args.Phase); err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Contest phase job done",
		attr.Int64("job_id", job.ID),
		attr.UUID("contest_id", contestID),
		attr.String("phase", job.Args.Phase),
	)
	return nil
}
