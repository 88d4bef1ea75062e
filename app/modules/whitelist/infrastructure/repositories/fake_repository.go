package whitelistdb

import (
	"context"

	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	CreateFn               func(ctx context.Context, db bun.IDB, req *Request) error
	GetByIDFn              func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Request, error)
	GetLatestByDiscordIDFn func(ctx context.Context, db bun.IDB, discordID string) (*Request, error)
	GetLatestByStatusFn    func(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*Request, error)
	ListFn                 func(ctx context.Context, db bun.IDB, filter ListFilter) ([]Request, int, error)
	UpdateStatusFn         func(ctx context.Context, db bun.IDB, t Transition) (*Request, error)
	CountByStatusFn        func(ctx context.Context, db bun.IDB) (map[whitelistdomain.Status]int, error)

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

func (f *FakeRepository) Create(ctx context.Context, db bun.IDB, req *Request) error {
	f.record("Create")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, db, req)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return nil
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Request, error) {
	f.record("GetByID")
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetLatestByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*Request, error) {
	f.record("GetLatestByDiscordID")
	if f.GetLatestByDiscordIDFn != nil {
		return f.GetLatestByDiscordIDFn(ctx, db, discordID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetLatestByStatus(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*Request, error) {
	f.record("GetLatestByStatus")
	if f.GetLatestByStatusFn != nil {
		return f.GetLatestByStatusFn(ctx, db, discordID, status)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Request, int, error) {
	f.record("List")
	if f.ListFn != nil {
		return f.ListFn(ctx, db, filter)
	}
	return nil, 0, nil
}

func (f *FakeRepository) UpdateStatus(ctx context.Context, db bun.IDB, t Transition) (*Request, error) {
	f.record("UpdateStatus")
	if f.UpdateStatusFn != nil {
		return f.UpdateStatusFn(ctx, db, t)
	}
	return &Request{ID: t.ID, Status: t.To, ReviewerDiscordID: t.ReviewerDiscordID, ReviewNote: t.Note, ReviewedAt: &t.At}, nil
}

func (f *FakeRepository) CountByStatus(ctx context.Context, db bun.IDB) (map[whitelistdomain.Status]int, error) {
	f.record("CountByStatus")
	if f.CountByStatusFn != nil {
		return f.CountByStatusFn(ctx, db)
	}
	return map[whitelistdomain.Status]int{}, nil
}
