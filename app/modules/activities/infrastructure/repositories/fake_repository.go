package activitiesdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	ListUpcomingFn func(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]Activity, error)
	ListAllFn      func(ctx context.Context, db bun.IDB, limit, offset int) ([]Activity, int, error)
	GetByIDFn      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Activity, error)
	CreateFn       func(ctx context.Context, db bun.IDB, activity *Activity) error
	UpdateFn       func(ctx context.Context, db bun.IDB, activity *Activity) error
	DeleteFn       func(ctx context.Context, db bun.IDB, id uuid.UUID) error
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) ListUpcoming(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]Activity, error) {
	if f.ListUpcomingFn != nil {
		return f.ListUpcomingFn(ctx, db, now, limit)
	}
	return nil, nil
}

func (f *FakeRepository) ListAll(ctx context.Context, db bun.IDB, limit, offset int) ([]Activity, int, error) {
	if f.ListAllFn != nil {
		return f.ListAllFn(ctx, db, limit, offset)
	}
	return nil, 0, nil
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Activity, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) Create(ctx context.Context, db bun.IDB, activity *Activity) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, db, activity)
	}
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	return nil
}

func (f *FakeRepository) Update(ctx context.Context, db bun.IDB, activity *Activity) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, db, activity)
	}
	return nil
}

func (f *FakeRepository) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, db, id)
	}
	return nil
}
