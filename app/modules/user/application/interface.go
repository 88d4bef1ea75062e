package userservice

import (
	"context"

	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
)

// Service is the admin panel's user management API.
type Service interface {
	ListUsers(ctx context.Context, filter userdb.ListFilter) (*UserPage, error)
	GetUser(ctx context.Context, discordID string) (*UserDetail, error)
	SetRole(ctx context.Context, actorDiscordID, discordID string, role guilddomain.Role, granted bool) error
	Blacklist(ctx context.Context, actorDiscordID, discordID, reason string) (*userdb.BlacklistEntry, error)
	Unblacklist(ctx context.Context, actorDiscordID, discordID string) error
	ListBlacklist(ctx context.Context, activeOnly bool) ([]userdb.BlacklistEntry, error)
	PruneSessions(ctx context.Context) (int64, error)
}

// UserPage is one page of portal users.
type UserPage struct {
	Users []userdb.User `json:"users"`
	Total int           `json:"total"`
}

// UserDetail is a portal user with their live Discord standing and any active blacklist entry.
// Membership is nil when Discord could not be reached.
type UserDetail struct {
	User       *userdb.User            `json:"user"`
	Membership *guilddomain.Membership `json:"membership"`
	Blacklist  *userdb.BlacklistEntry  `json:"blacklist,omitempty"`
}
