package userservice

import (
	"context"
	"errors"
	"strings"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/uptrace/bun"
)

// Blacklist bans a user: the Discord blacklisted role is added, whitelisted removed, an entry
// recorded and the user's portal sessions revoked. Discord failures other than the user having
// left the guild roll the whole change back.
func (s *UserService) Blacklist(ctx context.Context, actorDiscordID, discordID, reason string) (*userdb.BlacklistEntry, error) {
	reason = strings.TrimSpace(reason)

	result, err := operation.WithTelemetry(s.runner, ctx, "Blacklist", discordID, func(ctx context.Context) (results.OperationResult[*userdb.BlacklistEntry, error], error) {
		if reason == "" {
			return results.FailureResult[*userdb.BlacklistEntry, error](ErrReasonRequired), nil
		}
		if actorDiscordID == discordID {
			return results.FailureResult[*userdb.BlacklistEntry, error](ErrSelfAction), nil
		}

		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.BlacklistEntry, error], error) {
			return s.blacklistLogic(ctx, db, actorDiscordID, discordID, reason)
		})
	})
	entry, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.UserBlacklistedV1, eventbus.BlacklistPayload{
		DiscordID:      discordID,
		ActorDiscordID: actorDiscordID,
		Reason:         reason,
		OccurredAt:     s.now().UTC(),
	})
	return entry, nil
}

func (s *UserService) blacklistLogic(ctx context.Context, db bun.IDB, actorDiscordID, discordID, reason string) (results.OperationResult[*userdb.BlacklistEntry, error], error) {
	if _, err := s.repo.GetActiveBlacklistEntry(ctx, db, discordID); err == nil {
		return results.FailureResult[*userdb.BlacklistEntry, error](ErrAlreadyBlacklisted), nil
	} else if !errors.Is(err, userdb.ErrNotFound) {
		return results.OperationResult[*userdb.BlacklistEntry, error]{}, err
	}

	now := s.now().UTC()
	entry := &userdb.BlacklistEntry{
		DiscordID: discordID,
		Reason:    reason,
		CreatedBy: actorDiscordID,
		CreatedAt: now,
	}
	if err := s.repo.CreateBlacklistEntry(ctx, db, entry); err != nil {
		return results.OperationResult[*userdb.BlacklistEntry, error]{}, err
	}

	user, err := s.repo.GetByDiscordID(ctx, db, discordID)
	switch {
	case err == nil:
		if _, err := s.repo.RevokeUserSessions(ctx, db, user.ID, now); err != nil {
			return results.OperationResult[*userdb.BlacklistEntry, error]{}, err
		}
	case !errors.Is(err, userdb.ErrNotFound):
		return results.OperationResult[*userdb.BlacklistEntry, error]{}, err
	}

	if err := s.syncRole(ctx, discordID, guilddomain.RoleBlacklisted, true); err != nil {
		return results.OperationResult[*userdb.BlacklistEntry, error]{}, err
	}
	if err := s.syncRole(ctx, discordID, guilddomain.RoleWhitelisted, false); err != nil {
		return results.OperationResult[*userdb.BlacklistEntry, error]{}, err
	}

	return results.SuccessResult[*userdb.BlacklistEntry, error](entry), nil
}

// Unblacklist lifts the active entry and removes the Discord blacklisted role.
func (s *UserService) Unblacklist(ctx context.Context, actorDiscordID, discordID string) error {
	result, err := operation.WithTelemetry(s.runner, ctx, "Unblacklist", discordID, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
			entry, err := s.repo.GetActiveBlacklistEntry(ctx, db, discordID)
			if err != nil {
				if errors.Is(err, userdb.ErrNotFound) {
					return results.FailureResult[bool, error](ErrNotBlacklisted), nil
				}
				return results.OperationResult[bool, error]{}, err
			}

			if err := s.repo.LiftBlacklistEntry(ctx, db, entry.ID, actorDiscordID, s.now().UTC()); err != nil {
				if errors.Is(err, userdb.ErrNoRowsAffected) {
					return results.FailureResult[bool, error](ErrNotBlacklisted), nil
				}
				return results.OperationResult[bool, error]{}, err
			}

			if err := s.syncRole(ctx, discordID, guilddomain.RoleBlacklisted, false); err != nil {
				return results.OperationResult[bool, error]{}, err
			}
			return results.SuccessResult[bool, error](true), nil
		})
	})
	if _, err := operation.Unwrap(result, err); err != nil {
		return err
	}

	s.publish(ctx, eventbus.UserUnblacklistedV1, eventbus.BlacklistPayload{
		DiscordID:      discordID,
		ActorDiscordID: actorDiscordID,
		OccurredAt:     s.now().UTC(),
	})
	return nil
}

// ListBlacklist returns blacklist entries, optionally only the active ones.
func (s *UserService) ListBlacklist(ctx context.Context, activeOnly bool) ([]userdb.BlacklistEntry, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "ListBlacklist", "", func(ctx context.Context) (results.OperationResult[[]userdb.BlacklistEntry, error], error) {
		entries, err := s.repo.ListBlacklistEntries(ctx, nil, activeOnly)
		if err != nil {
			return results.OperationResult[[]userdb.BlacklistEntry, error]{}, err
		}
		if entries == nil {
			entries = []userdb.BlacklistEntry{}
		}
		return results.SuccessResult[[]userdb.BlacklistEntry, error](entries), nil
	})
	return operation.Unwrap(result, err)
}

// syncRole applies a Discord role change where one is possible. A user outside the guild or a
// role with no configured ID is skipped with a warning; the portal record still applies.
func (s *UserService) syncRole(ctx context.Context, discordID string, role guilddomain.Role, grant bool) error {
	var err error
	if grant {
		err = s.guild.GrantRole(ctx, discordID, role)
	} else {
		err = s.guild.RevokeRole(ctx, discordID, role)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, guildservice.ErrNotInGuild) || errors.Is(err, guildservice.ErrRoleNotConfigured) {
		s.runner.Logger.WarnContext(ctx, "Skipped Discord role sync",
			attr.ExtractCorrelationID(ctx),
			attr.DiscordID("discord_id", discordID),
			attr.String("role", role.String()),
			attr.Bool("grant", grant),
			attr.Error(err),
		)
		return nil
	}
	return wrapGuildError("sync "+role.String()+" role", err)
}
