package activitiesservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	activitiesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/domain"
	activitiesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	DefaultUpcomingLimit = 10
	MaxUpcomingLimit     = 50
)

type activityResult = results.OperationResult[*activitiesdb.Activity, error]

// ActivitiesService implements Service.
type ActivitiesService struct {
	repo      activitiesdb.Repository
	parser    *activitiesdomain.TimeParser
	publisher message.Publisher
	runner    *operation.Runner
	now       func() time.Time
}

// NewActivitiesService creates a new ActivitiesService.
func NewActivitiesService(
	repo activitiesdb.Repository,
	parser *activitiesdomain.TimeParser,
	publisher message.Publisher,
	runner *operation.Runner,
) *ActivitiesService {
	return &ActivitiesService{
		repo:      repo,
		parser:    parser,
		publisher: publisher,
		runner:    runner,
		now:       time.Now,
	}
}

// ListUpcoming returns activities that have not finished yet, soonest first.
func (s *ActivitiesService) ListUpcoming(ctx context.Context, limit int) ([]activitiesdb.Activity, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	limit = min(limit, MaxUpcomingLimit)

	result, err := operation.WithTelemetry(s.runner, ctx, "ListUpcoming", "", func(ctx context.Context) (results.OperationResult[[]activitiesdb.Activity, error], error) {
		activities, err := s.repo.ListUpcoming(ctx, nil, s.now().UTC(), limit)
		if err != nil {
			return results.OperationResult[[]activitiesdb.Activity, error]{}, err
		}
		if activities == nil {
			activities = []activitiesdb.Activity{}
		}
		return results.SuccessResult[[]activitiesdb.Activity, error](activities), nil
	})
	return operation.Unwrap(result, err)
}

func (s *ActivitiesService) ListAll(ctx context.Context, limit, offset int) (*ActivityPage, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "ListAll", "", func(ctx context.Context) (results.OperationResult[*ActivityPage, error], error) {
		activities, total, err := s.repo.ListAll(ctx, nil, limit, offset)
		if err != nil {
			return results.OperationResult[*ActivityPage, error]{}, err
		}
		if activities == nil {
			activities = []activitiesdb.Activity{}
		}
		return results.SuccessResult[*ActivityPage, error](&ActivityPage{Activities: activities, Total: total}), nil
	})
	return operation.Unwrap(result, err)
}

// Create schedules a new activity. The start must be in the future.
func (s *ActivitiesService) Create(ctx context.Context, actorDiscordID string, input activitiesdomain.Input) (*activitiesdb.Activity, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Create", actorDiscordID, func(ctx context.Context) (activityResult, error) {
		now := s.now().UTC()
		startsAt, endsAt, failure := s.schedule(input, now)
		if failure != nil {
			return results.FailureResult[*activitiesdb.Activity, error](failure), nil
		}
		if !startsAt.After(now) {
			return results.FailureResult[*activitiesdb.Activity, error](ErrStartInPast), nil
		}

		activity := &activitiesdb.Activity{
			Title:       strings.TrimSpace(input.Title),
			Description: strings.TrimSpace(input.Description),
			Location:    strings.TrimSpace(input.Location),
			StartsAt:    startsAt,
			EndsAt:      endsAt,
			ImageURL:    strings.TrimSpace(input.ImageURL),
			CreatedBy:   actorDiscordID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.Create(ctx, nil, activity); err != nil {
			return activityResult{}, err
		}
		return results.SuccessResult[*activitiesdb.Activity, error](activity), nil
	})
	activity, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	payload := eventbus.ActivityPublishedPayload{
		ActivityID: activity.ID.String(),
		Title:      activity.Title,
		Location:   activity.Location,
		StartsAt:   activity.StartsAt,
		OccurredAt: s.now().UTC(),
	}
	if err := eventbus.PublishEvent(ctx, s.publisher, eventbus.ActivityPublishedV1, payload); err != nil {
		s.runner.Logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", eventbus.ActivityPublishedV1),
			attr.Error(err),
		)
	}
	return activity, nil
}

// Update edits an activity. A start time in the past is allowed so finished activities can be
// corrected.
func (s *ActivitiesService) Update(ctx context.Context, actorDiscordID string, id uuid.UUID, input activitiesdomain.Input) (*activitiesdb.Activity, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Update", id.String(), func(ctx context.Context) (activityResult, error) {
		activity, err := s.repo.GetByID(ctx, nil, id)
		if err != nil {
			if errors.Is(err, activitiesdb.ErrNotFound) {
				return results.FailureResult[*activitiesdb.Activity, error](ErrNotFound), nil
			}
			return activityResult{}, err
		}

		now := s.now().UTC()
		startsAt, endsAt, failure := s.schedule(input, now)
		if failure != nil {
			return results.FailureResult[*activitiesdb.Activity, error](failure), nil
		}

		activity.Title = strings.TrimSpace(input.Title)
		activity.Description = strings.TrimSpace(input.Description)
		activity.Location = strings.TrimSpace(input.Location)
		activity.StartsAt = startsAt
		activity.EndsAt = endsAt
		activity.ImageURL = strings.TrimSpace(input.ImageURL)
		activity.UpdatedAt = now

		if err := s.repo.Update(ctx, nil, activity); err != nil {
			if errors.Is(err, activitiesdb.ErrNoRowsAffected) {
				return results.FailureResult[*activitiesdb.Activity, error](ErrNotFound), nil
			}
			return activityResult{}, err
		}
		s.runner.Logger.InfoContext(ctx, "Activity updated",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("activity_id", id),
			attr.DiscordID("actor_discord_id", actorDiscordID),
		)
		return results.SuccessResult[*activitiesdb.Activity, error](activity), nil
	})
	return operation.Unwrap(result, err)
}

func (s *ActivitiesService) Delete(ctx context.Context, actorDiscordID string, id uuid.UUID) error {
	result, err := operation.WithTelemetry(s.runner, ctx, "Delete", id.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := s.repo.Delete(ctx, nil, id); err != nil {
			if errors.Is(err, activitiesdb.ErrNoRowsAffected) {
				return results.FailureResult[bool, error](ErrNotFound), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		s.runner.Logger.InfoContext(ctx, "Activity deleted",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("activity_id", id),
			attr.DiscordID("actor_discord_id", actorDiscordID),
		)
		return results.SuccessResult[bool, error](true), nil
	})
	_, err = operation.Unwrap(result, err)
	return err
}

// schedule resolves the start and optional end. A non-nil third value is a domain failure.
func (s *ActivitiesService) schedule(input activitiesdomain.Input, now time.Time) (time.Time, *time.Time, error) {
	startsAt, err := s.parser.Parse(input.StartsAt, input.Timezone, now)
	if err != nil {
		return time.Time{}, nil, err
	}

	if strings.TrimSpace(input.EndsAt) == "" {
		return startsAt, nil, nil
	}
	// Relative end input is resolved against the start.
	endsAt, err := s.parser.Parse(input.EndsAt, input.Timezone, startsAt)
	if err != nil {
		return time.Time{}, nil, err
	}
	if !endsAt.After(startsAt) {
		return time.Time{}, nil, ErrEndBeforeStart
	}
	return startsAt, &endsAt, nil
}
