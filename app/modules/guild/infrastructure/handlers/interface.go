package guildhandlers

import (
	"context"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
)

// Handlers defines the audit notifier's event handlers.
type Handlers interface {
	HandleWhitelistDecision(ctx context.Context, payload *eventbus.WhitelistDecisionPayload) error
	HandleUserBlacklisted(ctx context.Context, payload *eventbus.BlacklistPayload) error
	HandleUserUnblacklisted(ctx context.Context, payload *eventbus.BlacklistPayload) error
	HandleRoleChanged(ctx context.Context, payload *eventbus.RoleChangedPayload) error
	HandleContestPhaseChanged(ctx context.Context, payload *eventbus.ContestPhasePayload) error
}
