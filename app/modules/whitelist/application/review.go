package whitelistservice

import (
	"context"
	"errors"
	"strings"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Approve whitelists the applicant. The status update and the Discord role grant share one
// transaction, so a Discord failure leaves the request pending.
func (s *WhitelistService) Approve(ctx context.Context, reviewerDiscordID string, id uuid.UUID, note string) (*whitelistdb.Request, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Approve", id.String(), func(ctx context.Context) (requestResult, error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (requestResult, error) {
			res, err := s.transition(ctx, db, reviewerDiscordID, id, whitelistdomain.StatusApproved, strings.TrimSpace(note))
			if err != nil || res.IsFailure() {
				return res, err
			}
			req := *res.Success

			if err := s.guild.GrantRole(ctx, req.DiscordID, guilddomain.RoleWhitelisted); err != nil {
				return requestResult{}, wrapGuildError("grant whitelisted role", err)
			}
			return results.SuccessResult[*whitelistdb.Request, error](req), nil
		})
	})
	req, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.WhitelistApprovedV1, decisionPayload(req, s.now()))
	return req, nil
}

// Reject closes a pending request. No Discord change is made.
func (s *WhitelistService) Reject(ctx context.Context, reviewerDiscordID string, id uuid.UUID, reason string) (*whitelistdb.Request, error) {
	reason = strings.TrimSpace(reason)

	result, err := operation.WithTelemetry(s.runner, ctx, "Reject", id.String(), func(ctx context.Context) (requestResult, error) {
		if reason == "" {
			return results.FailureResult[*whitelistdb.Request, error](ErrReasonRequired), nil
		}
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (requestResult, error) {
			return s.transition(ctx, db, reviewerDiscordID, id, whitelistdomain.StatusRejected, reason)
		})
	})
	req, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.WhitelistRejectedV1, decisionPayload(req, s.now()))
	return req, nil
}

// Revoke withdraws an approved whitelist and removes the Discord role in the same transaction.
// A member who already left the guild is revoked without a Discord change.
func (s *WhitelistService) Revoke(ctx context.Context, reviewerDiscordID string, id uuid.UUID, reason string) (*whitelistdb.Request, error) {
	reason = strings.TrimSpace(reason)

	result, err := operation.WithTelemetry(s.runner, ctx, "Revoke", id.String(), func(ctx context.Context) (requestResult, error) {
		if reason == "" {
			return results.FailureResult[*whitelistdb.Request, error](ErrReasonRequired), nil
		}
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (requestResult, error) {
			res, err := s.transition(ctx, db, reviewerDiscordID, id, whitelistdomain.StatusRevoked, reason)
			if err != nil || res.IsFailure() {
				return res, err
			}
			req := *res.Success

			if err := s.guild.RevokeRole(ctx, req.DiscordID, guilddomain.RoleWhitelisted); err != nil {
				if !errors.Is(err, guildservice.ErrNotInGuild) {
					return requestResult{}, wrapGuildError("revoke whitelisted role", err)
				}
				s.runner.Logger.WarnContext(ctx, "Revoked whitelist for user outside the guild",
					attr.ExtractCorrelationID(ctx),
					attr.DiscordID("discord_id", req.DiscordID),
				)
			}
			return results.SuccessResult[*whitelistdb.Request, error](req), nil
		})
	})
	req, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.WhitelistRevokedV1, decisionPayload(req, s.now()))
	return req, nil
}

// transition applies a reviewed status change guarded by the row's current status.
func (s *WhitelistService) transition(
	ctx context.Context,
	db bun.IDB,
	reviewerDiscordID string,
	id uuid.UUID,
	to whitelistdomain.Status,
	note string,
) (requestResult, error) {
	current, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, whitelistdb.ErrNotFound) {
			return results.FailureResult[*whitelistdb.Request, error](ErrNotFound), nil
		}
		return requestResult{}, err
	}
	if current.DiscordID == reviewerDiscordID {
		return results.FailureResult[*whitelistdb.Request, error](ErrSelfReview), nil
	}
	if !current.Status.CanTransitionTo(to) {
		return results.FailureResult[*whitelistdb.Request, error](ErrInvalidTransition), nil
	}

	updated, err := s.repo.UpdateStatus(ctx, db, whitelistdb.Transition{
		ID:                id,
		From:              current.Status,
		To:                to,
		ReviewerDiscordID: reviewerDiscordID,
		Note:              note,
		At:                s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, whitelistdb.ErrNoRowsAffected) {
			return results.FailureResult[*whitelistdb.Request, error](ErrInvalidTransition), nil
		}
		return requestResult{}, err
	}
	return results.SuccessResult[*whitelistdb.Request, error](updated), nil
}
