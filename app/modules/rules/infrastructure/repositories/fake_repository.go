package rulesdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	ListFn         func(ctx context.Context, db bun.IDB) ([]Rule, error)
	GetByIDFn      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Rule, error)
	NextPositionFn func(ctx context.Context, db bun.IDB, category string) (int, error)
	CreateFn       func(ctx context.Context, db bun.IDB, rule *Rule) error
	UpdateFn       func(ctx context.Context, db bun.IDB, rule *Rule) error
	DeleteFn       func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	CategoryIDsFn  func(ctx context.Context, db bun.IDB, category string) ([]uuid.UUID, error)
	SetPositionFn  func(ctx context.Context, db bun.IDB, id uuid.UUID, position int, updatedBy string, at time.Time) error

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

func (f *FakeRepository) List(ctx context.Context, db bun.IDB) ([]Rule, error) {
	f.record("List")
	if f.ListFn != nil {
		return f.ListFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Rule, error) {
	f.record("GetByID")
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) NextPosition(ctx context.Context, db bun.IDB, category string) (int, error) {
	f.record("NextPosition")
	if f.NextPositionFn != nil {
		return f.NextPositionFn(ctx, db, category)
	}
	return 0, nil
}

func (f *FakeRepository) Create(ctx context.Context, db bun.IDB, rule *Rule) error {
	f.record("Create")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, db, rule)
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return nil
}

func (f *FakeRepository) Update(ctx context.Context, db bun.IDB, rule *Rule) error {
	f.record("Update")
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, db, rule)
	}
	return nil
}

func (f *FakeRepository) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("Delete")
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, db, id)
	}
	return nil
}

func (f *FakeRepository) CategoryIDs(ctx context.Context, db bun.IDB, category string) ([]uuid.UUID, error) {
	f.record("CategoryIDs")
	if f.CategoryIDsFn != nil {
		return f.CategoryIDsFn(ctx, db, category)
	}
	return nil, nil
}

func (f *FakeRepository) SetPosition(ctx context.Context, db bun.IDB, id uuid.UUID, position int, updatedBy string, at time.Time) error {
	f.record("SetPosition")
	if f.SetPositionFn != nil {
		return f.SetPositionFn(ctx, db, id, position, updatedBy, at)
	}
	return nil
}
