package guildservice

import "errors"

var (
	// ErrRoleNotConfigured is returned when no Discord role ID is set for a portal role.
	ErrRoleNotConfigured = errors.New("discord role not configured")

	// ErrRoleNotFound is returned when the configured Discord role ID does not exist in the guild.
	ErrRoleNotFound = errors.New("configured discord role does not exist")

	// ErrNotInGuild is returned when the user has not joined the Discord server.
	ErrNotInGuild = errors.New("user is not a member of the discord server")
)
