package guildservice

import (
	"context"

	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
)

// FakeService is a fake implementation of Service for testing.
// Notify calls are recorded in Notifications and role grants/revokes in RoleChanges as "+role"/"-role".
type FakeService struct {
	MemberRolesFunc func(ctx context.Context, discordID string) (*guilddomain.Membership, error)
	GrantRoleFunc   func(ctx context.Context, discordID string, role guilddomain.Role) error
	RevokeRoleFunc  func(ctx context.Context, discordID string, role guilddomain.Role) error
	NotifyFunc      func(ctx context.Context, n guilddomain.Notification) error

	Notifications []guilddomain.Notification
	RoleChanges   []string
}

var _ Service = (*FakeService)(nil)

func (f *FakeService) MemberRoles(ctx context.Context, discordID string) (*guilddomain.Membership, error) {
	if f.MemberRolesFunc != nil {
		return f.MemberRolesFunc(ctx, discordID)
	}
	return &guilddomain.Membership{DiscordID: discordID, InGuild: true}, nil
}

func (f *FakeService) GrantRole(ctx context.Context, discordID string, role guilddomain.Role) error {
	f.RoleChanges = append(f.RoleChanges, "+"+string(role))
	if f.GrantRoleFunc != nil {
		return f.GrantRoleFunc(ctx, discordID, role)
	}
	return nil
}

func (f *FakeService) RevokeRole(ctx context.Context, discordID string, role guilddomain.Role) error {
	f.RoleChanges = append(f.RoleChanges, "-"+string(role))
	if f.RevokeRoleFunc != nil {
		return f.RevokeRoleFunc(ctx, discordID, role)
	}
	return nil
}

func (f *FakeService) Notify(ctx context.Context, n guilddomain.Notification) error {
	f.Notifications = append(f.Notifications, n)
	if f.NotifyFunc != nil {
		return f.NotifyFunc(ctx, n)
	}
	return nil
}
