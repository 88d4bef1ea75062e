package contestdb

import (
	"context"
	"time"

	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines persistence for contests, entries and votes.
type Repository interface {
	CreateContest(ctx context.Context, db bun.IDB, contest *Contest) error
	GetContest(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error)
	// LockContest reads a contest with a row lock held until the transaction ends.
	LockContest(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error)
	ListContests(ctx context.Context, db bun.IDB) ([]Contest, error)
	UpdatePhase(ctx context.Context, db bun.IDB, id uuid.UUID, from, to contestdomain.Phase, at time.Time) error
	DeleteContest(ctx context.Context, db bun.IDB, id uuid.UUID) error

	CreateEntry(ctx context.Context, db bun.IDB, entry *Entry) error
	GetEntry(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, db bun.IDB, contestID uuid.UUID) ([]EntryWithVotes, error)
	CountEntriesByUser(ctx context.Context, db bun.IDB, contestID uuid.UUID, discordID string) (int, error)
	DeleteEntry(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) error

	CreateVote(ctx context.Context, db bun.IDB, vote *Vote) error
}
