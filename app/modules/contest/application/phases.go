package contestservice

import (
	"context"
	"errors"
	"slices"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	contestjobs "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/jobs"
	contestdb "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type phaseChange struct {
	contest *contestdb.Contest
	from    contestdomain.Phase
}

var _ contestjobs.PhaseAdvancer = (*ContestService)(nil)

// AdvancePhase moves a contest forward by hand. Phases may be skipped but never revisited.
func (s *ContestService) AdvancePhase(ctx context.Context, actorDiscordID string, id uuid.UUID, target contestdomain.Phase) (*contestdb.Contest, error) {
	change, err := s.advance(ctx, "AdvancePhase", id, target)
	if err != nil {
		return nil, err
	}
	s.runner.Logger.InfoContext(ctx, "Contest phase advanced",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("contest_id", id),
		attr.String("from", change.from.String()),
		attr.String("to", target.String()),
		attr.DiscordID("actor_discord_id", actorDiscordID),
	)
	return change.contest, nil
}

// AdvanceScheduled applies a phase change job. A phase already reached, or a contest that no
// longer exists, is a no-op.
func (s *ContestService) AdvanceScheduled(ctx context.Context, id uuid.UUID, phase string) error {
	_, err := s.advance(ctx, "AdvanceScheduled", id, contestdomain.Phase(phase))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPhaseReached), errors.Is(err, ErrNotFound):
		s.runner.Logger.InfoContext(ctx, "Skipping scheduled phase change",
			attr.UUID("contest_id", id),
			attr.String("phase", phase),
			attr.String("reason", err.Error()),
		)
		return nil
	case errors.Is(err, ErrUnknownPhase):
		s.runner.Logger.ErrorContext(ctx, "Discarding scheduled phase change",
			attr.UUID("contest_id", id),
			attr.String("phase", phase),
		)
		return nil
	default:
		return err
	}
}

func (s *ContestService) advance(ctx context.Context, name string, id uuid.UUID, target contestdomain.Phase) (*phaseChange, error) {
	change, err := withTx(s, ctx, name, id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*phaseChange, error], error) {
		fail := func(err error) (results.OperationResult[*phaseChange, error], error) {
			return results.FailureResult[*phaseChange, error](err), nil
		}
		if !target.IsValid() {
			return fail(ErrUnknownPhase)
		}

		contest, err := s.repo.LockContest(ctx, db, id)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return fail(ErrNotFound)
			}
			return results.OperationResult[*phaseChange, error]{}, err
		}
		if !contest.Phase.CanAdvanceTo(target) {
			return fail(ErrPhaseReached)
		}

		from := contest.Phase
		now := s.now().UTC()
		if err := s.repo.UpdatePhase(ctx, db, id, from, target, now); err != nil {
			if errors.Is(err, contestdb.ErrNoRowsAffected) {
				return fail(ErrPhaseReached)
			}
			return results.OperationResult[*phaseChange, error]{}, err
		}
		contest.Phase = target
		contest.UpdatedAt = now
		return results.SuccessResult[*phaseChange, error](&phaseChange{contest: contest, from: from}), nil
	})
	if err != nil {
		return nil, err
	}

	s.publishPhase(ctx, change.contest, change.from)
	return change, nil
}

// Results ranks entries by votes, earlier submissions first on ties. Members see results once the
// contest has closed; managers can see them at any time.
func (s *ContestService) Results(ctx context.Context, id uuid.UUID, viewer *authdomain.Principal) (*Results, error) {
	return withTx(s, ctx, "Results", id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*Results, error], error) {
		contest, err := s.repo.GetContest(ctx, db, id)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return results.FailureResult[*Results, error](ErrNotFound), nil
			}
			return results.OperationResult[*Results, error]{}, err
		}
		if contest.Phase != contestdomain.PhaseClosed && !s.allowed(viewer, authdomain.PermContestManage) {
			return results.FailureResult[*Results, error](ErrResultsHidden), nil
		}

		entries, err := s.repo.ListEntries(ctx, db, id)
		if err != nil {
			return results.OperationResult[*Results, error]{}, err
		}
		slices.SortStableFunc(entries, func(a, b contestdb.EntryWithVotes) int {
			return contestdomain.CompareStanding(a.Votes, a.CreatedAt, b.Votes, b.CreatedAt)
		})

		out := &Results{Contest: contest, Standings: make([]Standing, 0, len(entries))}
		for i, e := range entries {
			out.Standings = append(out.Standings, Standing{Rank: i + 1, Entry: entryView(e, true)})
			out.TotalVotes += e.Votes
		}
		return results.SuccessResult[*Results, error](out), nil
	})
}

// Delete removes a contest with its entries, pending phase jobs and images.
func (s *ContestService) Delete(ctx context.Context, actorDiscordID string, id uuid.UUID) error {
	_, err := withTx(s, ctx, "Delete", id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		if err := s.repo.DeleteContest(ctx, db, id); err != nil {
			if errors.Is(err, contestdb.ErrNoRowsAffected) {
				return results.FailureResult[bool, error](ErrNotFound), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	if err != nil {
		return err
	}

	if _, err := s.jobs.CancelJobs(ctx, []string{contestjobs.PhaseChangeKind}, "contest_id", id.String()); err != nil {
		s.runner.Logger.WarnContext(ctx, "Failed to cancel contest jobs",
			attr.UUID("contest_id", id),
			attr.Error(err),
		)
	}
	if err := s.store.RemoveDir(id.String()); err != nil {
		s.runner.Logger.WarnContext(ctx, "Failed to remove contest images",
			attr.UUID("contest_id", id),
			attr.Error(err),
		)
	}
	s.runner.Logger.InfoContext(ctx, "Contest deleted",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("contest_id", id),
		attr.DiscordID("actor_discord_id", actorDiscordID),
	)
	return nil
}
