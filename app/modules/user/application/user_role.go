package userservice

import (
	"context"
	"errors"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
)

// assignableRoles are the roles admins may toggle from the portal. Admin is managed in
// Discord only, and blacklisting has its own flow.
var assignableRoles = map[guilddomain.Role]bool{
	guilddomain.RoleStaff:          true,
	guilddomain.RoleWhitelistAdder: true,
	guilddomain.RoleWhitelisted:    true,
}

// SetRole grants or removes a Discord role on behalf of an admin.
func (s *UserService) SetRole(ctx context.Context, actorDiscordID, discordID string, role guilddomain.Role, granted bool) error {
	result, err := operation.WithTelemetry(s.runner, ctx, "SetRole", discordID, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if !assignableRoles[role] {
			return results.FailureResult[bool, error](ErrRoleNotAssignable), nil
		}
		if actorDiscordID == discordID {
			return results.FailureResult[bool, error](ErrSelfAction), nil
		}

		var err error
		if granted {
			err = s.guild.GrantRole(ctx, discordID, role)
		} else {
			err = s.guild.RevokeRole(ctx, discordID, role)
		}
		if err != nil {
			if errors.Is(err, guildservice.ErrNotInGuild) ||
				errors.Is(err, guildservice.ErrRoleNotConfigured) ||
				errors.Is(err, guildservice.ErrRoleNotFound) {
				return results.FailureResult[bool, error](err), nil
			}
			return results.OperationResult[bool, error]{}, wrapGuildError("change role", err)
		}
		return results.SuccessResult[bool, error](true), nil
	})
	if _, err := operation.Unwrap(result, err); err != nil {
		return err
	}

	s.publish(ctx, eventbus.UserRoleChangedV1, eventbus.RoleChangedPayload{
		DiscordID:      discordID,
		ActorDiscordID: actorDiscordID,
		Role:           role.String(),
		Granted:        granted,
		OccurredAt:     s.now().UTC(),
	})
	return nil
}
