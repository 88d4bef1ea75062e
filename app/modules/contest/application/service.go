package contestservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	contestjobs "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/jobs"
	contestdb "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories"
	conteststorage "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/storage"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/queue"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

type contestResult = results.OperationResult[*contestdb.Contest, error]

// ContestService implements Service.
type ContestService struct {
	repo           contestdb.Repository
	store          conteststorage.Store
	jobs           queue.Scheduler
	checker        permissions.Checker
	publisher      message.Publisher
	runner         *operation.Runner
	maxUploadBytes int64
	now            func() time.Time
}

// NewContestService creates a new ContestService.
func NewContestService(
	repo contestdb.Repository,
	store conteststorage.Store,
	jobs queue.Scheduler,
	checker permissions.Checker,
	publisher message.Publisher,
	runner *operation.Runner,
	maxUploadBytes int64,
) *ContestService {
	return &ContestService{
		repo:           repo,
		store:          store,
		jobs:           jobs,
		checker:        checker,
		publisher:      publisher,
		runner:         runner,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// Create stores a draft contest and schedules its phase changes.
func (s *ContestService) Create(ctx context.Context, actorDiscordID string, input contestdomain.Input) (*contestdb.Contest, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Create", actorDiscordID, func(ctx context.Context) (contestResult, error) {
		now := s.now().UTC()
		if !contestdomain.ScheduleIsOrdered(input.SubmissionsOpenAt, input.VotingOpensAt, input.ClosesAt, now) {
			return results.FailureResult[*contestdb.Contest, error](ErrInvalidSchedule), nil
		}

		maxEntries := input.MaxEntriesPerUser
		if maxEntries <= 0 {
			maxEntries = contestdomain.DefaultMaxEntriesPerUser
		}
		contest := &contestdb.Contest{
			Title:             strings.TrimSpace(input.Title),
			Description:       strings.TrimSpace(input.Description),
			Phase:             contestdomain.PhaseDraft,
			SubmissionsOpenAt: input.SubmissionsOpenAt.UTC(),
			VotingOpensAt:     input.VotingOpensAt.UTC(),
			ClosesAt:          input.ClosesAt.UTC(),
			MaxEntriesPerUser: maxEntries,
			CreatedBy:         actorDiscordID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.CreateContest(ctx, nil, contest); err != nil {
			return contestResult{}, err
		}
		return results.SuccessResult[*contestdb.Contest, error](contest), nil
	})
	contest, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.schedulePhases(ctx, contest)
	return contest, nil
}

// schedulePhases enqueues one job per timed phase. A failure leaves the contest to be advanced
// by hand, so it is logged rather than returned.
func (s *ContestService) schedulePhases(ctx context.Context, contest *contestdb.Contest) {
	for _, sp := range contestdomain.Schedule(contest.SubmissionsOpenAt, contest.VotingOpensAt, contest.ClosesAt) {
		args := contestjobs.PhaseChangeArgs{ContestID: contest.ID.String(), Phase: sp.Phase.String()}
		if _, err := s.jobs.Insert(ctx, args, &river.InsertOpts{ScheduledAt: sp.At}); err != nil {
			s.runner.Logger.ErrorContext(ctx, "Failed to schedule contest phase",
				attr.ExtractCorrelationID(ctx),
				attr.UUID("contest_id", contest.ID),
				attr.String("phase", sp.Phase.String()),
				attr.Time("scheduled_at", sp.At),
				attr.Error(err),
			)
		}
	}
}

func (s *ContestService) List(ctx context.Context) ([]contestdb.Contest, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "List", "", func(ctx context.Context) (results.OperationResult[[]contestdb.Contest, error], error) {
		contests, err := s.repo.ListContests(ctx, nil)
		if err != nil {
			return results.OperationResult[[]contestdb.Contest, error]{}, err
		}
		if contests == nil {
			contests = []contestdb.Contest{}
		}
		return results.SuccessResult[[]contestdb.Contest, error](contests), nil
	})
	return operation.Unwrap(result, err)
}

// Get returns a contest and its entries. Vote counts are only included once the contest has
// closed, or for managers.
func (s *ContestService) Get(ctx context.Context, id uuid.UUID, viewer *authdomain.Principal) (*ContestDetail, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Get", id.String(), func(ctx context.Context) (results.OperationResult[*ContestDetail, error], error) {
		contest, err := s.repo.GetContest(ctx, nil, id)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return results.FailureResult[*ContestDetail, error](ErrNotFound), nil
			}
			return results.OperationResult[*ContestDetail, error]{}, err
		}
		entries, err := s.repo.ListEntries(ctx, nil, id)
		if err != nil {
			return results.OperationResult[*ContestDetail, error]{}, err
		}

		visible := contest.Phase == contestdomain.PhaseClosed || s.allowed(viewer, authdomain.PermContestManage)
		views := make([]EntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, entryView(e, visible))
		}
		return results.SuccessResult[*ContestDetail, error](&ContestDetail{
			Contest:      contest,
			Entries:      views,
			VotesVisible: visible,
		}), nil
	})
	return operation.Unwrap(result, err)
}

func (s *ContestService) allowed(p *authdomain.Principal, perm authdomain.Permission) bool {
	return p != nil && s.checker.Allowed(p.Roles, perm)
}

func (s *ContestService) publishPhase(ctx context.Context, contest *contestdb.Contest, from contestdomain.Phase) {
	payload := eventbus.ContestPhasePayload{
		ContestID:  contest.ID.String(),
		Title:      contest.Title,
		From:       from.String(),
		To:         contest.Phase.String(),
		OccurredAt: s.now().UTC(),
	}
	if err := eventbus.PublishEvent(ctx, s.publisher, eventbus.ContestPhaseChangedV1, payload); err != nil {
		s.runner.Logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", eventbus.ContestPhaseChangedV1),
			attr.Error(err),
		)
	}
}

func entryView(e contestdb.EntryWithVotes, withVotes bool) EntryView {
	v := EntryView{
		ID:        e.ID,
		DiscordID: e.DiscordID,
		Caption:   e.Caption,
		ImageURL:  imageURL(e.ContestID, e.ID),
		CreatedAt: e.CreatedAt,
	}
	if withVotes {
		votes := e.Votes
		v.Votes = &votes
	}
	return v
}

func imageURL(contestID, entryID uuid.UUID) string {
	return fmt.Sprintf("/api/contests/%s/entries/%s/image", contestID, entryID)
}

// withTx runs fn in a transaction under the operation telemetry.
func withTx[S any](s *ContestService, ctx context.Context, name, id string, fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error)) (S, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, name, id, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return operation.RunInTx[S, error](s.runner, ctx, fn)
	})
	return operation.Unwrap(result, err)
}
