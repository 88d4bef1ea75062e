package contestdb

import (
	"time"

	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Contest is a photo contest.
type Contest struct {
	bun.BaseModel `bun:"table:contests,alias:c"`

	ID                uuid.UUID           `bun:"id,pk,type:uuid" json:"id"`
	Title             string              `bun:"title,notnull" json:"title"`
	Description       string              `bun:"description,notnull" json:"description"`
	Phase             contestdomain.Phase `bun:"phase,notnull" json:"phase"`
	SubmissionsOpenAt time.Time           `bun:"submissions_open_at,notnull" json:"submissions_open_at"`
	VotingOpensAt     time.Time           `bun:"voting_opens_at,notnull" json:"voting_opens_at"`
	ClosesAt          time.Time           `bun:"closes_at,notnull" json:"closes_at"`
	MaxEntriesPerUser int                 `bun:"max_entries_per_user,notnull" json:"max_entries_per_user"`
	CreatedBy         string              `bun:"created_by,notnull" json:"created_by"`
	CreatedAt         time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Entry is one uploaded photo. FileName is relative to the upload directory.
type Entry struct {
	bun.BaseModel `bun:"table:contest_entries,alias:e"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ContestID   uuid.UUID `bun:"contest_id,type:uuid,notnull" json:"contest_id"`
	UserID      uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	DiscordID   string    `bun:"discord_id,notnull" json:"discord_id"`
	Caption     string    `bun:"caption,notnull" json:"caption"`
	FileName    string    `bun:"file_name,notnull" json:"-"`
	ContentType string    `bun:"content_type,notnull" json:"content_type"`
	SizeBytes   int64     `bun:"size_bytes,notnull" json:"size_bytes"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// EntryWithVotes is an entry with its vote tally.
type EntryWithVotes struct {
	Entry `bun:",extend"`

	Votes int `bun:"votes,scanonly" json:"votes"`
}

// Vote is one member's vote in a contest.
type Vote struct {
	bun.BaseModel `bun:"table:contest_votes,alias:v"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	ContestID      uuid.UUID `bun:"contest_id,type:uuid,notnull"`
	EntryID        uuid.UUID `bun:"entry_id,type:uuid,notnull"`
	VoterDiscordID string    `bun:"voter_discord_id,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
