package contestservice

import (
	"context"
	"io"
	"time"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	contestdb "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service runs photo contests.
type Service interface {
	Create(ctx context.Context, actorDiscordID string, input contestdomain.Input) (*contestdb.Contest, error)
	List(ctx context.Context) ([]contestdb.Contest, error)
	Get(ctx context.Context, id uuid.UUID, viewer *authdomain.Principal) (*ContestDetail, error)
	SubmitEntry(ctx context.Context, principal *authdomain.Principal, contestID uuid.UUID, upload EntryUpload) (*EntryView, error)
	OpenEntryImage(ctx context.Context, contestID, entryID uuid.UUID) (*EntryImage, error)
	Vote(ctx context.Context, principal *authdomain.Principal, contestID, entryID uuid.UUID) error
	Results(ctx context.Context, id uuid.UUID, viewer *authdomain.Principal) (*Results, error)
	AdvancePhase(ctx context.Context, actorDiscordID string, id uuid.UUID, target contestdomain.Phase) (*contestdb.Contest, error)
	AdvanceScheduled(ctx context.Context, id uuid.UUID, phase string) error
	DeleteEntry(ctx context.Context, actorDiscordID string, contestID, entryID uuid.UUID) error
	Delete(ctx context.Context, actorDiscordID string, id uuid.UUID) error
}

// EntryUpload is an image submitted through the multipart form. Size is the client-declared
// length and is re-checked while storing.
type EntryUpload struct {
	Caption string
	Size    int64
	Content io.Reader
}

// EntryView is an entry as shown to members. Votes is nil while tallies are hidden.
type EntryView struct {
	ID        uuid.UUID `json:"id"`
	DiscordID string    `json:"discord_id"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	Votes     *int      `json:"votes,omitempty"`
}

// ContestDetail is a contest with its entries.
type ContestDetail struct {
	Contest      *contestdb.Contest `json:"contest"`
	Entries      []EntryView        `json:"entries"`
	VotesVisible bool               `json:"votes_visible"`
}

// Standing is one ranked entry.
type Standing struct {
	Rank  int       `json:"rank"`
	Entry EntryView `json:"entry"`
}

// Results ranks a contest's entries.
type Results struct {
	Contest    *contestdb.Contest `json:"contest"`
	Standings  []Standing         `json:"standings"`
	TotalVotes int                `json:"total_votes"`
}

// EntryImage is an open entry image. The caller closes Content.
type EntryImage struct {
	Entry   *contestdb.Entry
	Content io.ReadSeekCloser
}
