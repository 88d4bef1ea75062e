package userdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	UpsertByDiscordIDFn func(ctx context.Context, db bun.IDB, user *User) (*User, error)
	GetByIDFn           func(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error)
	GetByDiscordIDFn    func(ctx context.Context, db bun.IDB, discordID string) (*User, error)
	ListFn              func(ctx context.Context, db bun.IDB, filter ListFilter) ([]User, int, error)

	CreateSessionFn          func(ctx context.Context, db bun.IDB, session *Session) error
	GetActiveSessionByHashFn func(ctx context.Context, db bun.IDB, tokenHash string, now time.Time) (*Session, error)
	RevokeSessionFn          func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error
	RevokeUserSessionsFn     func(ctx context.Context, db bun.IDB, userID uuid.UUID, at time.Time) (int64, error)
	DeleteExpiredSessionsFn  func(ctx context.Context, db bun.IDB, before time.Time) (int64, error)

	CreateBlacklistEntryFn    func(ctx context.Context, db bun.IDB, entry *BlacklistEntry) error
	GetActiveBlacklistEntryFn func(ctx context.Context, db bun.IDB, discordID string) (*BlacklistEntry, error)
	LiftBlacklistEntryFn      func(ctx context.Context, db bun.IDB, id uuid.UUID, liftedBy string, at time.Time) error
	ListBlacklistEntriesFn    func(ctx context.Context, db bun.IDB, activeOnly bool) ([]BlacklistEntry, error)

	calls []string
}

var _ Repository = (*FakeRepository)(nil)

// Calls returns the repository methods invoked, in order.
func (f *FakeRepository) Calls() []string {
	return f.calls
}

func (f *FakeRepository) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *FakeRepository) UpsertByDiscordID(ctx context.Context, db bun.IDB, user *User) (*User, error) {
	f.record("UpsertByDiscordID")
	if f.UpsertByDiscordIDFn != nil {
		return f.UpsertByDiscordIDFn(ctx, db, user)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return user, nil
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error) {
	f.record("GetByID")
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*User, error) {
	f.record("GetByDiscordID")
	if f.GetByDiscordIDFn != nil {
		return f.GetByDiscordIDFn(ctx, db, discordID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]User, int, error) {
	f.record("List")
	if f.ListFn != nil {
		return f.ListFn(ctx, db, filter)
	}
	return nil, 0, nil
}

func (f *FakeRepository) CreateSession(ctx context.Context, db bun.IDB, session *Session) error {
	f.record("CreateSession")
	if f.CreateSessionFn != nil {
		return f.CreateSessionFn(ctx, db, session)
	}
	return nil
}

func (f *FakeRepository) GetActiveSessionByHash(ctx context.Context, db bun.IDB, tokenHash string, now time.Time) (*Session, error) {
	f.record("GetActiveSessionByHash")
	if f.GetActiveSessionByHashFn != nil {
		return f.GetActiveSessionByHashFn(ctx, db, tokenHash, now)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) RevokeSession(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error {
	f.record("RevokeSession")
	if f.RevokeSessionFn != nil {
		return f.RevokeSessionFn(ctx, db, id, at)
	}
	return nil
}

func (f *FakeRepository) RevokeUserSessions(ctx context.Context, db bun.IDB, userID uuid.UUID, at time.Time) (int64, error) {
	f.record("RevokeUserSessions")
	if f.RevokeUserSessionsFn != nil {
		return f.RevokeUserSessionsFn(ctx, db, userID, at)
	}
	return 0, nil
}

func (f *FakeRepository) DeleteExpiredSessions(ctx context.Context, db bun.IDB, before time.Time) (int64, error) {
	f.record("DeleteExpiredSessions")
	if f.DeleteExpiredSessionsFn != nil {
		return f.DeleteExpiredSessionsFn(ctx, db, before)
	}
	return 0, nil
}

func (f *FakeRepository) CreateBlacklistEntry(ctx context.Context, db bun.IDB, entry *BlacklistEntry) error {
	f.record("CreateBlacklistEntry")
	if f.CreateBlacklistEntryFn != nil {
		return f.CreateBlacklistEntryFn(ctx, db, entry)
	}
	return nil
}

func (f *FakeRepository) GetActiveBlacklistEntry(ctx context.Context, db bun.IDB, discordID string) (*BlacklistEntry, error) {
	f.record("GetActiveBlacklistEntry")
	if f.GetActiveBlacklistEntryFn != nil {
		return f.GetActiveBlacklistEntryFn(ctx, db, discordID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) LiftBlacklistEntry(ctx context.Context, db bun.IDB, id uuid.UUID, liftedBy string, at time.Time) error {
	f.record("LiftBlacklistEntry")
	if f.LiftBlacklistEntryFn != nil {
		return f.LiftBlacklistEntryFn(ctx, db, id, liftedBy, at)
	}
	return nil
}

func (f *FakeRepository) ListBlacklistEntries(ctx context.Context, db bun.IDB, activeOnly bool) ([]BlacklistEntry, error) {
	f.record("ListBlacklistEntries")
	if f.ListBlacklistEntriesFn != nil {
		return f.ListBlacklistEntriesFn(ctx, db, activeOnly)
	}
	return nil, nil
}
