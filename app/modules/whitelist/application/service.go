package whitelistservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type requestResult = results.OperationResult[*whitelistdb.Request, error]

// WhitelistService implements Service.
type WhitelistService struct {
	repo      whitelistdb.Repository
	guild     guildservice.Service
	publisher message.Publisher
	runner    *operation.Runner
	cooldown  time.Duration
	now       func() time.Time
}

// NewWhitelistService creates a new WhitelistService. cooldown is how long a rejected applicant
// waits before submitting again.
func NewWhitelistService(
	repo whitelistdb.Repository,
	guild guildservice.Service,
	publisher message.Publisher,
	runner *operation.Runner,
	cooldown time.Duration,
) *WhitelistService {
	return &WhitelistService{
		repo:      repo,
		guild:     guild,
		publisher: publisher,
		runner:    runner,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Submit files a new pending request for the principal.
func (s *WhitelistService) Submit(ctx context.Context, principal *authdomain.Principal, form whitelistdomain.Form) (*whitelistdb.Request, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Submit", principal.DiscordID, func(ctx context.Context) (requestResult, error) {
		if principal.HasRole(guilddomain.RoleBlacklisted) {
			return results.FailureResult[*whitelistdb.Request, error](ErrBlacklisted), nil
		}
		if principal.HasRole(guilddomain.RoleWhitelisted) {
			return results.FailureResult[*whitelistdb.Request, error](ErrAlreadyWhitelisted), nil
		}

		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (requestResult, error) {
			return s.submitLogic(ctx, db, principal, form)
		})
	})
	req, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.WhitelistSubmittedV1, decisionPayload(req, s.now()))
	return req, nil
}

func (s *WhitelistService) submitLogic(ctx context.Context, db bun.IDB, principal *authdomain.Principal, form whitelistdomain.Form) (requestResult, error) {
	if _, err := s.repo.GetLatestByStatus(ctx, db, principal.DiscordID, whitelistdomain.StatusPending); err == nil {
		return results.FailureResult[*whitelistdb.Request, error](ErrPendingExists), nil
	} else if !errors.Is(err, whitelistdb.ErrNotFound) {
		return requestResult{}, err
	}

	now := s.now().UTC()

	rejected, err := s.repo.GetLatestByStatus(ctx, db, principal.DiscordID, whitelistdomain.StatusRejected)
	switch {
	case err == nil:
		if rejected.ReviewedAt != nil && now.Sub(*rejected.ReviewedAt) < s.cooldown {
			return results.FailureResult[*whitelistdb.Request, error](ErrReapplyCooldown), nil
		}
	case !errors.Is(err, whitelistdb.ErrNotFound):
		return requestResult{}, err
	}

	req := &whitelistdb.Request{
		UserID:        principal.UserID,
		DiscordID:     principal.DiscordID,
		CharacterName: strings.TrimSpace(form.CharacterName),
		CharacterAge:  form.CharacterAge,
		RPExperience:  strings.TrimSpace(form.RPExperience),
		Motivation:    strings.TrimSpace(form.Motivation),
		Backstory:     strings.TrimSpace(form.Backstory),
		Status:        whitelistdomain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, db, req); err != nil {
		if errors.Is(err, whitelistdb.ErrDuplicatePending) {
			return results.FailureResult[*whitelistdb.Request, error](ErrPendingExists), nil
		}
		return requestResult{}, err
	}
	return results.SuccessResult[*whitelistdb.Request, error](req), nil
}

// GetMine returns the principal's latest request.
func (s *WhitelistService) GetMine(ctx context.Context, principal *authdomain.Principal) (*whitelistdb.Request, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "GetMine", principal.DiscordID, func(ctx context.Context) (requestResult, error) {
		req, err := s.repo.GetLatestByDiscordID(ctx, nil, principal.DiscordID)
		if err != nil {
			if errors.Is(err, whitelistdb.ErrNotFound) {
				return results.FailureResult[*whitelistdb.Request, error](ErrNotFound), nil
			}
			return requestResult{}, err
		}
		return results.SuccessResult[*whitelistdb.Request, error](req), nil
	})
	return operation.Unwrap(result, err)
}

// List returns a page of requests for reviewers.
func (s *WhitelistService) List(ctx context.Context, filter whitelistdb.ListFilter) (*RequestPage, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "List", filter.Status.String(), func(ctx context.Context) (results.OperationResult[*RequestPage, error], error) {
		reqs, total, err := s.repo.List(ctx, nil, filter)
		if err != nil {
			return results.OperationResult[*RequestPage, error]{}, err
		}
		if reqs == nil {
			reqs = []whitelistdb.Request{}
		}
		return results.SuccessResult[*RequestPage, error](&RequestPage{Requests: reqs, Total: total}), nil
	})
	return operation.Unwrap(result, err)
}

// Get returns a single request.
func (s *WhitelistService) Get(ctx context.Context, id uuid.UUID) (*whitelistdb.Request, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Get", id.String(), func(ctx context.Context) (requestResult, error) {
		req, err := s.repo.GetByID(ctx, nil, id)
		if err != nil {
			if errors.Is(err, whitelistdb.ErrNotFound) {
				return results.FailureResult[*whitelistdb.Request, error](ErrNotFound), nil
			}
			return requestResult{}, err
		}
		return results.SuccessResult[*whitelistdb.Request, error](req), nil
	})
	return operation.Unwrap(result, err)
}

// Stats counts requests per status.
func (s *WhitelistService) Stats(ctx context.Context) (*whitelistdomain.Stats, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Stats", "", func(ctx context.Context) (results.OperationResult[*whitelistdomain.Stats, error], error) {
		counts, err := s.repo.CountByStatus(ctx, nil)
		if err != nil {
			return results.OperationResult[*whitelistdomain.Stats, error]{}, err
		}
		stats := &whitelistdomain.Stats{}
		for status, n := range counts {
			stats.Add(status, n)
		}
		return results.SuccessResult[*whitelistdomain.Stats, error](stats), nil
	})
	return operation.Unwrap(result, err)
}

// publish emits an event after the state change has committed. Failures are logged only.
func (s *WhitelistService) publish(ctx context.Context, topic string, payload any) {
	if err := eventbus.PublishEvent(ctx, s.publisher, topic, payload); err != nil {
		s.runner.Logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

func decisionPayload(req *whitelistdb.Request, at time.Time) eventbus.WhitelistDecisionPayload {
	return eventbus.WhitelistDecisionPayload{
		RequestID:         req.ID.String(),
		DiscordID:         req.DiscordID,
		CharacterName:     req.CharacterName,
		Status:            req.Status.String(),
		ReviewerDiscordID: req.ReviewerDiscordID,
		Note:              req.ReviewNote,
		OccurredAt:        at.UTC(),
	}
}

func wrapGuildError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
