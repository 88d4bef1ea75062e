package fivemservice

import (
	"context"
	"fmt"
	"time"

	fivemdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/domain"
	fivemdb "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
)

const (
	DefaultRichestLimit = 10
	MaxRichestLimit     = 100
	DefaultModelLimit   = 10
	MaxModelLimit       = 50
)

// FiveMService implements Service.
type FiveMService struct {
	repo    fivemdb.Repository
	runner  *operation.Runner
	palette ChartPalette
	now     func() time.Time
}

// NewFiveMService creates a new FiveMService.
func NewFiveMService(repo fivemdb.Repository, runner *operation.Runner) *FiveMService {
	return &FiveMService{
		repo:    repo,
		runner:  runner,
		palette: DefaultPalette,
		now:     time.Now,
	}
}

// query runs a read under telemetry. Repository errors surface as ErrUnavailable.
func query[S any](s *FiveMService, ctx context.Context, op string, fn func(ctx context.Context) (S, error)) (S, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, op, "", func(ctx context.Context) (results.OperationResult[S, error], error) {
		v, err := fn(ctx)
		if err != nil {
			return results.OperationResult[S, error]{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return results.SuccessResult[S, error](v), nil
	})
	return operation.Unwrap(result, err)
}

// EconomyOverview sums and averages the money of every character.
func (s *FiveMService) EconomyOverview(ctx context.Context) (*fivemdomain.EconomyOverview, error) {
	return query(s, ctx, "EconomyOverview", func(ctx context.Context) (*fivemdomain.EconomyOverview, error) {
		holdings, err := s.holdings(ctx)
		if err != nil {
			return nil, err
		}
		overview := fivemdomain.Summarise(holdings)
		return &overview, nil
	})
}

// WealthDistribution counts characters per wealth bucket.
func (s *FiveMService) WealthDistribution(ctx context.Context) ([]fivemdomain.WealthBucket, error) {
	return query(s, ctx, "WealthDistribution", func(ctx context.Context) ([]fivemdomain.WealthBucket, error) {
		holdings, err := s.holdings(ctx)
		if err != nil {
			return nil, err
		}
		return fivemdomain.Distribute(holdings), nil
	})
}

func (s *FiveMService) holdings(ctx context.Context) ([]fivemdomain.Holdings, error) {
	rows, err := s.repo.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}
	holdings := make([]fivemdomain.Holdings, len(rows))
	for i, row := range rows {
		holdings[i] = fivemdomain.Holdings{Cash: row.Cash, Bank: row.Bank, Crypto: row.Crypto}
	}
	return holdings, nil
}

// RichestCharacters returns the top characters by cash plus bank.
func (s *FiveMService) RichestCharacters(ctx context.Context, limit int) ([]fivemdomain.RichCharacter, error) {
	limit = clamp(limit, DefaultRichestLimit, MaxRichestLimit)
	return query(s, ctx, "RichestCharacters", func(ctx context.Context) ([]fivemdomain.RichCharacter, error) {
		return s.richest(ctx, limit)
	})
}

func (s *FiveMService) richest(ctx context.Context, limit int) ([]fivemdomain.RichCharacter, error) {
	rows, err := s.repo.Richest(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]fivemdomain.RichCharacter, len(rows))
	for i, row := range rows {
		out[i] = fivemdomain.RichCharacter{
			CitizenID: row.CitizenID,
			Name:      row.Name,
			Job:       row.JobLabel,
			Cash:      row.Cash,
			Bank:      row.Bank,
			Total:     row.Cash + row.Bank,
		}
	}
	return out, nil
}

// JobDistribution counts characters per job.
func (s *FiveMService) JobDistribution(ctx context.Context) ([]fivemdomain.JobCount, error) {
	return query(s, ctx, "JobDistribution", s.jobs)
}

func (s *FiveMService) jobs(ctx context.Context) ([]fivemdomain.JobCount, error) {
	rows, err := s.repo.JobCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]fivemdomain.JobCount, len(rows))
	for i, row := range rows {
		label := row.Label
		if label == "" {
			label = row.Name
		}
		out[i] = fivemdomain.JobCount{Name: row.Name, Label: label, Count: row.Count}
	}
	return out, nil
}

// VehicleStats returns the number of owned vehicles and the most owned models.
func (s *FiveMService) VehicleStats(ctx context.Context, limit int) (*fivemdomain.VehicleStats, error) {
	limit = clamp(limit, DefaultModelLimit, MaxModelLimit)
	return query(s, ctx, "VehicleStats", func(ctx context.Context) (*fivemdomain.VehicleStats, error) {
		return s.vehicles(ctx, limit)
	})
}

func (s *FiveMService) vehicles(ctx context.Context, limit int) (*fivemdomain.VehicleStats, error) {
	total, err := s.repo.CountVehicles(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.TopModels(ctx, limit)
	if err != nil {
		return nil, err
	}
	stats := &fivemdomain.VehicleStats{Total: total, TopModels: make([]fivemdomain.ModelCount, len(rows))}
	for i, row := range rows {
		stats.TopModels[i] = fivemdomain.ModelCount{Model: row.Model, Count: row.Count}
	}
	return stats, nil
}

// PlayerOverview returns character totals and recent activity.
func (s *FiveMService) PlayerOverview(ctx context.Context) (*fivemdomain.PlayerOverview, error) {
	return query(s, ctx, "PlayerOverview", func(ctx context.Context) (*fivemdomain.PlayerOverview, error) {
		now := s.now().UTC()
		counts, err := s.repo.PlayerCounts(ctx,
			now.Add(-fivemdomain.ActivityWindows.Day),
			now.Add(-fivemdomain.ActivityWindows.Week),
		)
		if err != nil {
			return nil, err
		}
		return &fivemdomain.PlayerOverview{
			Characters:     counts.Characters,
			UniqueLicenses: counts.UniqueLicenses,
			Active24h:      counts.Active24h,
			Active7d:       counts.Active7d,
		}, nil
	})
}

// PublicStats returns the anonymous summary: characters and vehicles only.
func (s *FiveMService) PublicStats(ctx context.Context) (*fivemdomain.PublicStats, error) {
	return query(s, ctx, "PublicStats", func(ctx context.Context) (*fivemdomain.PublicStats, error) {
		characters, err := s.repo.CountCharacters(ctx)
		if err != nil {
			return nil, err
		}
		vehicles, err := s.repo.CountVehicles(ctx)
		if err != nil {
			return nil, err
		}
		return &fivemdomain.PublicStats{Characters: characters, Vehicles: vehicles}, nil
	})
}

func clamp(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}
