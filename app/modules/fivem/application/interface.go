package fivemservice

import (
	"context"

	fivemdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/domain"
)

// Service exposes read-only dashboards over the game server database.
type Service interface {
	EconomyOverview(ctx context.Context) (*fivemdomain.EconomyOverview, error)
	WealthDistribution(ctx context.Context) ([]fivemdomain.WealthBucket, error)
	RichestCharacters(ctx context.Context, limit int) ([]fivemdomain.RichCharacter, error)
	JobDistribution(ctx context.Context) ([]fivemdomain.JobCount, error)
	VehicleStats(ctx context.Context, limit int) (*fivemdomain.VehicleStats, error)
	PlayerOverview(ctx context.Context) (*fivemdomain.PlayerOverview, error)
	PublicStats(ctx context.Context) (*fivemdomain.PublicStats, error)

	WealthChartPNG(ctx context.Context) ([]byte, error)
	JobChartPNG(ctx context.Context) ([]byte, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}
