package whitelistdb

import (
	"time"

	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Request is a row of whitelist_requests.
type Request struct {
	bun.BaseModel `bun:"table:whitelist_requests,alias:wr"`

	ID                uuid.UUID              `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID              `bun:"user_id,type:uuid,notnull" json:"user_id"`
	DiscordID         string                 `bun:"discord_id,notnull" json:"discord_id"`
	CharacterName     string                 `bun:"character_name,notnull" json:"character_name"`
	CharacterAge      int                    `bun:"character_age,notnull" json:"character_age"`
	RPExperience      string                 `bun:"rp_experience,notnull" json:"rp_experience"`
	Motivation        string                 `bun:"motivation,notnull" json:"motivation"`
	Backstory         string                 `bun:"backstory,notnull" json:"backstory"`
	Status            whitelistdomain.Status `bun:"status,notnull" json:"status"`
	ReviewerDiscordID string                 `bun:"reviewer_discord_id,nullzero" json:"reviewer_discord_id,omitempty"`
	ReviewNote        string                 `bun:"review_note,nullzero" json:"review_note,omitempty"`
	CreatedAt         time.Time              `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time              `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	ReviewedAt        *time.Time             `bun:"reviewed_at" json:"reviewed_at,omitempty"`
}

// Transition is a conditional status change.
type Transition struct {
	ID                uuid.UUID
	From              whitelistdomain.Status
	To                whitelistdomain.Status
	ReviewerDiscordID string
	Note              string
	At                time.Time
}

// ListFilter narrows a request listing. An empty Status lists every status.
type ListFilter struct {
	Status whitelistdomain.Status
	Limit  int
	Offset int
}
