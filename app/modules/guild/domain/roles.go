package guilddomain

import (
	"slices"
	"time"
)

// Role is a portal role backed by a Discord guild role.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleStaff          Role = "staff"
	RoleWhitelistAdder Role = "whitelist_adder"
	RoleWhitelisted    Role = "whitelisted"
	RoleBlacklisted    Role = "blacklisted"
)

// AllRoles lists every portal role.
var AllRoles = []Role{RoleAdmin, RoleStaff, RoleWhitelistAdder, RoleWhitelisted, RoleBlacklisted}

// IsValid checks if the role is one of the defined roles.
func (r Role) IsValid() bool {
	return slices.Contains(AllRoles, r)
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// RoleMap maps portal roles to the Discord role IDs configured for the guild.
type RoleMap map[Role]string

// DiscordRoleID returns the Discord role ID for r, if configured.
func (m RoleMap) DiscordRoleID(r Role) (string, bool) {
	id, ok := m[r]
	return id, ok && id != ""
}

// Resolve converts a member's Discord role IDs into portal roles, in AllRoles order.
func (m RoleMap) Resolve(discordRoleIDs []string) RoleSet {
	held := make(map[string]struct{}, len(discordRoleIDs))
	for _, id := range discordRoleIDs {
		held[id] = struct{}{}
	}

	var roles RoleSet
	for _, r := range AllRoles {
		id, ok := m.DiscordRoleID(r)
		if !ok {
			continue
		}
		if _, has := held[id]; has {
			roles = append(roles, r)
		}
	}
	return roles
}

// RoleSet is the set of portal roles a member holds.
type RoleSet []Role

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	return slices.Contains(s, r)
}

// Strings returns the roles as plain strings.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Membership is a user's live standing in the Discord guild.
type Membership struct {
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	Nick      string    `json:"nick,omitempty"`
	InGuild   bool      `json:"in_guild"`
	Roles     RoleSet   `json:"roles"`
	JoinedAt  time.Time `json:"joined_at,omitzero"`
}
