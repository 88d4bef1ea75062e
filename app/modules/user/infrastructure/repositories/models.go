package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a portal account, keyed by Discord ID.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	DiscordID     string     `bun:"discord_id,unique,notnull" json:"discord_id"`
	Username      string     `bun:"username,notnull" json:"username"`
	GlobalName    string     `bun:"global_name,nullzero" json:"global_name,omitempty"`
	Avatar        string     `bun:"avatar,nullzero" json:"avatar,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	LastLoginAt   *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`
}

// Session is a login session. Only the sha256 digest of the cookie token is stored.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID        uuid.UUID  `bun:"user_id,type:uuid,notnull"`
	TokenHash     string     `bun:"token_hash,unique,notnull"`
	UserAgent     string     `bun:"user_agent,nullzero"`
	IPAddress     string     `bun:"ip_address,nullzero"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull"`
	RevokedAt     *time.Time `bun:"revoked_at"`
}

// BlacklistEntry records a blacklisting. An entry with a nil LiftedAt is active.
type BlacklistEntry struct {
	bun.BaseModel `bun:"table:blacklist_entries,alias:b"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	DiscordID     string     `bun:"discord_id,notnull" json:"discord_id"`
	Reason        string     `bun:"reason,notnull" json:"reason"`
	CreatedBy     string     `bun:"created_by,notnull" json:"created_by"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	LiftedAt      *time.Time `bun:"lifted_at" json:"lifted_at,omitempty"`
	LiftedBy      string     `bun:"lifted_by,nullzero" json:"lifted_by,omitempty"`
}

// Active reports whether the entry has not been lifted.
func (b *BlacklistEntry) Active() bool {
	return b.LiftedAt == nil
}

// ListFilter narrows a user listing.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
