package fivemdb

import (
	"context"
	"time"
)

// Repository reads the game server database. It never writes.
type Repository interface {
	ListHoldings(ctx context.Context) ([]HoldingsRow, error)
	Richest(ctx context.Context, limit int) ([]RichRow, error)
	JobCounts(ctx context.Context) ([]JobRow, error)
	CountCharacters(ctx context.Context) (int, error)
	CountVehicles(ctx context.Context) (int, error)
	TopModels(ctx context.Context, limit int) ([]ModelRow, error)
	PlayerCounts(ctx context.Context, dayAgo, weekAgo time.Time) (*PlayerCounts, error)
}
