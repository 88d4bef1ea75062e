package eventbus

import "time"

const (
	WhitelistSubmittedV1 = "whitelist.submitted.v1"
	WhitelistApprovedV1  = "whitelist.approved.v1"
	WhitelistRejectedV1  = "whitelist.rejected.v1"
	WhitelistRevokedV1   = "whitelist.revoked.v1"

	UserBlacklistedV1   = "user.blacklisted.v1"
	UserUnblacklistedV1 = "user.unblacklisted.v1"
	UserRoleChangedV1   = "user.role.changed.v1"

	ContestPhaseChangedV1 = "contest.phase.changed.v1"

	RulesChangedV1      = "rules.changed.v1"
	ActivityPublishedV1 = "activity.published.v1"
)

// AllTopics lists every topic the portal publishes, in a stable order.
var AllTopics = []string{
	WhitelistSubmittedV1,
	WhitelistApprovedV1,
	WhitelistRejectedV1,
	WhitelistRevokedV1,
	UserBlacklistedV1,
	UserUnblacklistedV1,
	UserRoleChangedV1,
	ContestPhaseChangedV1,
	RulesChangedV1,
	ActivityPublishedV1,
}

// WhitelistDecisionPayload is published for every whitelist status change.
type WhitelistDecisionPayload struct {
	RequestID         string    `json:"request_id"`
	DiscordID         string    `json:"discord_id"`
	CharacterName     string    `json:"character_name"`
	Status            string    `json:"status"`
	ReviewerDiscordID string    `json:"reviewer_discord_id,omitempty"`
	Note              string    `json:"note,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// BlacklistPayload is published when a user is blacklisted or unblacklisted.
type BlacklistPayload struct {
	DiscordID      string    `json:"discord_id"`
	ActorDiscordID string    `json:"actor_discord_id"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// RoleChangedPayload is published when an admin toggles a Discord role from the portal.
type RoleChangedPayload struct {
	DiscordID      string    `json:"discord_id"`
	ActorDiscordID string    `json:"actor_discord_id"`
	Role           string    `json:"role"`
	Granted        bool      `json:"granted"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ContestPhasePayload is published when a contest moves to a new phase.
type ContestPhasePayload struct {
	ContestID  string    `json:"contest_id"`
	Title      string    `json:"title"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RulesChangedPayload is published after any rule create, update, delete or reorder.
type RulesChangedPayload struct {
	Action         string    `json:"action"`
	RuleID         string    `json:"rule_id,omitempty"`
	Category       string    `json:"category,omitempty"`
	ActorDiscordID string    `json:"actor_discord_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ActivityPublishedPayload is published when a new activity is scheduled.
type ActivityPublishedPayload struct {
	ActivityID string    `json:"activity_id"`
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	OccurredAt time.Time `json:"occurred_at"`
}
