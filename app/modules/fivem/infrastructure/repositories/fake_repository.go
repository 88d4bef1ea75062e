package fivemdb

import (
	"context"
	"time"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	ListHoldingsFn    func(ctx context.Context) ([]HoldingsRow, error)
	RichestFn         func(ctx context.Context, limit int) ([]RichRow, error)
	JobCountsFn       func(ctx context.Context) ([]JobRow, error)
	CountCharactersFn func(ctx context.Context) (int, error)
	CountVehiclesFn   func(ctx context.Context) (int, error)
	TopModelsFn       func(ctx context.Context, limit int) ([]ModelRow, error)
	PlayerCountsFn    func(ctx context.Context, dayAgo, weekAgo time.Time) (*PlayerCounts, error)
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) ListHoldings(ctx context.Context) ([]HoldingsRow, error) {
	if f.ListHoldingsFn != nil {
		return f.ListHoldingsFn(ctx)
	}
	return nil, nil
}

func (f *FakeRepository) Richest(ctx context.Context, limit int) ([]RichRow, error) {
	if f.RichestFn != nil {
		return f.RichestFn(ctx, limit)
	}
	return nil, nil
}

func (f *FakeRepository) JobCounts(ctx context.Context) ([]JobRow, error) {
	if f.JobCountsFn != nil {
		return f.JobCountsFn(ctx)
	}
	return nil, nil
}

func (f *FakeRepository) CountCharacters(ctx context.Context) (int, error) {
	if f.CountCharactersFn != nil {
		return f.CountCharactersFn(ctx)
	}
	return 0, nil
}

func (f *FakeRepository) CountVehicles(ctx context.Context) (int, error) {
	if f.CountVehiclesFn != nil {
		return f.CountVehiclesFn(ctx)
	}
	return 0, nil
}

func (f *FakeRepository) TopModels(ctx context.Context, limit int) ([]ModelRow, error) {
	if f.TopModelsFn != nil {
		return f.TopModelsFn(ctx, limit)
	}
	return nil, nil
}

func (f *FakeRepository) PlayerCounts(ctx context.Context, dayAgo, weekAgo time.Time) (*PlayerCounts, error) {
	if f.PlayerCountsFn != nil {
		return f.PlayerCountsFn(ctx, dayAgo, weekAgo)
	}
	return &PlayerCounts{}, nil
}
