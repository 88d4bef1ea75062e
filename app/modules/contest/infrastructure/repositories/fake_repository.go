package contestdb

import (
	"context"
	"time"

	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a programmable Repository for service tests.
type FakeRepository struct {
	CreateContestFn      func(ctx context.Context, db bun.IDB, contest *Contest) error
	GetContestFn         func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error)
	LockContestFn        func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error)
	ListContestsFn       func(ctx context.Context, db bun.IDB) ([]Contest, error)
	UpdatePhaseFn        func(ctx context.Context, db bun.IDB, id uuid.UUID, from, to contestdomain.Phase, at time.Time) error
	DeleteContestFn      func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	CreateEntryFn        func(ctx context.Context, db bun.IDB, entry *Entry) error
	GetEntryFn           func(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) (*Entry, error)
	ListEntriesFn        func(ctx context.Context, db bun.IDB, contestID uuid.UUID) ([]EntryWithVotes, error)
	CountEntriesByUserFn func(ctx context.Context, db bun.IDB, contestID uuid.UUID, discordID string) (int, error)
	DeleteEntryFn        func(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) error
	CreateVoteFn         func(ctx context.Context, db bun.IDB, vote *Vote) error

	calls []string
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) record(name string) { f.calls = append(f.calls, name) }

// Calls returns the repository methods invoked, in order.
func (f *FakeRepository) Calls() []string { return append([]string(nil), f.calls...) }

func (f *FakeRepository) CreateContest(ctx context.Context, db bun.IDB, contest *Contest) error {
	f.record("CreateContest")
	if f.CreateContestFn != nil {
		return f.CreateContestFn(ctx, db, contest)
	}
	if contest.ID == uuid.Nil {
		contest.ID = uuid.New()
	}
	return nil
}

func (f *FakeRepository) GetContest(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error) {
	f.record("GetContest")
	if f.GetContestFn != nil {
		return f.GetContestFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

// LockContest falls back to GetContestFn so tests can program one lookup for both.
func (f *FakeRepository) LockContest(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error) {
	f.record("LockContest")
	if f.LockContestFn != nil {
		return f.LockContestFn(ctx, db, id)
	}
	if f.GetContestFn != nil {
		return f.GetContestFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListContests(ctx context.Context, db bun.IDB) ([]Contest, error) {
	f.record("ListContests")
	if f.ListContestsFn != nil {
		return f.ListContestsFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) UpdatePhase(ctx context.Context, db bun.IDB, id uuid.UUID, from, to contestdomain.Phase, at time.Time) error {
	f.record("UpdatePhase")
	if f.UpdatePhaseFn != nil {
		return f.UpdatePhaseFn(ctx, db, id, from, to, at)
	}
	return nil
}

func (f *FakeRepository) DeleteContest(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("DeleteContest")
	if f.DeleteContestFn != nil {
		return f.DeleteContestFn(ctx, db, id)
	}
	return nil
}

func (f *FakeRepository) CreateEntry(ctx context.Context, db bun.IDB, entry *Entry) error {
	f.record("CreateEntry")
	if f.CreateEntryFn != nil {
		return f.CreateEntryFn(ctx, db, entry)
	}
	return nil
}

func (f *FakeRepository) GetEntry(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) (*Entry, error) {
	f.record("GetEntry")
	if f.GetEntryFn != nil {
		return f.GetEntryFn(ctx, db, contestID, entryID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListEntries(ctx context.Context, db bun.IDB, contestID uuid.UUID) ([]EntryWithVotes, error) {
	f.record("ListEntries")
	if f.ListEntriesFn != nil {
		return f.ListEntriesFn(ctx, db, contestID)
	}
	return nil, nil
}

func (f *FakeRepository) CountEntriesByUser(ctx context.Context, db bun.IDB, contestID uuid.UUID, discordID string) (int, error) {
	f.record("CountEntriesByUser")
	if f.CountEntriesByUserFn != nil {
		return f.CountEntriesByUserFn(ctx, db, contestID, discordID)
	}
	return 0, nil
}

func (f *FakeRepository) DeleteEntry(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) error {
	f.record("DeleteEntry")
	if f.DeleteEntryFn != nil {
		return f.DeleteEntryFn(ctx, db, contestID, entryID)
	}
	return nil
}

func (f *FakeRepository) CreateVote(ctx context.Context, db bun.IDB, vote *Vote) error {
	f.record("CreateVote")
	if f.CreateVoteFn != nil {
		return f.CreateVoteFn(ctx, db, vote)
	}
	return nil
}
