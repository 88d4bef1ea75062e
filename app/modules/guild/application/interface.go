package guildservice

import (
	"context"

	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
)

// Service exposes the guild membership and role operations other modules depend on.
type Service interface {
	// MemberRoles fetches the member's current roles straight from Discord.
	MemberRoles(ctx context.Context, discordID string) (*guilddomain.Membership, error)
	GrantRole(ctx context.Context, discordID string, role guilddomain.Role) error
	RevokeRole(ctx context.Context, discordID string, role guilddomain.Role) error
	// Notify posts to the configured log channel; without one it does nothing.
	Notify(ctx context.Context, n guilddomain.Notification) error
}
