package fivemhandlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fivemservice "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/application"
	fivemdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFiveMService struct {
	EconomyOverviewFunc    func(ctx context.Context) (*fivemdomain.EconomyOverview, error)
	WealthDistributionFunc func(ctx context.Context) ([]fivemdomain.WealthBucket, error)
	RichestCharactersFunc  func(ctx context.Context, limit int) ([]fivemdomain.RichCharacter, error)
	JobDistributionFunc    func(ctx context.Context) ([]fivemdomain.JobCount, error)
	VehicleStatsFunc       func(ctx context.Context, limit int) (*fivemdomain.VehicleStats, error)
	PlayerOverviewFunc     func(ctx context.Context) (*fivemdomain.PlayerOverview, error)
	PublicStatsFunc        func(ctx context.Context) (*fivemdomain.PublicStats, error)
	WealthChartPNGFunc     func(ctx context.Context) ([]byte, error)
	JobChartPNGFunc        func(ctx context.Context) ([]byte, error)
	ExportXLSXFunc         func(ctx context.Context) ([]byte, error)
}

var _ fivemservice.Service = (*fakeFiveMService)(nil)

func (f *fakeFiveMService) EconomyOverview(ctx context.Context) (*fivemdomain.EconomyOverview, error) {
	return f.EconomyOverviewFunc(ctx)
}

func (f *fakeFiveMService) WealthDistribution(ctx context.Context) ([]fivemdomain.WealthBucket, error) {
	return f.WealthDistributionFunc(ctx)
}

func (f *fakeFiveMService) RichestCharacters(ctx context.Context, limit int) ([]fivemdomain.RichCharacter, error) {
	return f.RichestCharactersFunc(ctx, limit)
}

func (f *fakeFiveMService) JobDistribution(ctx context.Context) ([]fivemdomain.JobCount, error) {
	return f.JobDistributionFunc(ctx)
}

func (f *fakeFiveMService) VehicleStats(ctx context.Context, limit int) (*fivemdomain.VehicleStats, error) {
	return f.VehicleStatsFunc(ctx, limit)
}

func (f *fakeFiveMService) PlayerOverview(ctx context.Context) (*fivemdomain.PlayerOverview, error) {
	return f.PlayerOverviewFunc(ctx)
}

func (f *fakeFiveMService) PublicStats(ctx context.Context) (*fivemdomain.PublicStats, error) {
	return f.PublicStatsFunc(ctx)
}

func (f *fakeFiveMService) WealthChartPNG(ctx context.Context) ([]byte, error) {
	return f.WealthChartPNGFunc(ctx)
}

func (f *fakeFiveMService) JobChartPNG(ctx context.Context) ([]byte, error) {
	return f.JobChartPNGFunc(ctx)
}

func (f *fakeFiveMService) ExportXLSX(ctx context.Context) ([]byte, error) {
	return f.ExportXLSXFunc(ctx)
}

func newHandlers(svc *fakeFiveMService) *FiveMHandlers {
	h := NewFiveMHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).(*FiveMHandlers)
	h.now = func() time.Time { return time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC) }
	return h
}

func get(fn http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandlePublicStats(t *testing.T) {
	h := newHandlers(&fakeFiveMService{
		PublicStatsFunc: func(ctx context.Context) (*fivemdomain.PublicStats, error) {
			return &fivemdomain.PublicStats{Characters: 12, Vehicles: 30}, nil
		},
	})

	rec := get(h.HandlePublicStats, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data fivemdomain.PublicStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, fivemdomain.PublicStats{Characters: 12, Vehicles: 30}, body.Data)
}

func TestHandleEconomy(t *testing.T) {
	h := newHandlers(&fakeFiveMService{
		EconomyOverviewFunc: func(ctx context.Context) (*fivemdomain.EconomyOverview, error) {
			return &fivemdomain.EconomyOverview{Characters: 2, TotalBank: 100}, nil
		},
		WealthDistributionFunc: func(ctx context.Context) ([]fivemdomain.WealthBucket, error) {
			return fivemdomain.NewWealthBuckets(), nil
		},
	})

	rec := get(h.HandleEconomy, "/api/dashboard/economy")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data EconomyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Overview.Characters)
	assert.Len(t, body.Data.Distribution, 5)
}

func TestHandleRichest_PassesLimit(t *testing.T) {
	var got int
	h := newHandlers(&fakeFiveMService{
		RichestCharactersFunc: func(ctx context.Context, limit int) ([]fivemdomain.RichCharacter, error) {
			got = limit
			return []fivemdomain.RichCharacter{}, nil
		},
	})

	rec := get(h.HandleRichest, "/api/dashboard/richest?limit=25")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, got)
}

func TestHandleVehicles_DefaultLimit(t *testing.T) {
	var got = -1
	h := newHandlers(&fakeFiveMService{
		VehicleStatsFunc: func(ctx context.Context, limit int) (*fivemdomain.VehicleStats, error) {
			got = limit
			return &fivemdomain.VehicleStats{}, nil
		},
	})

	rec := get(h.HandleVehicles, "/api/dashboard/vehicles")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, got)
}

func TestHandleWealthChart(t *testing.T) {
	h := newHandlers(&fakeFiveMService{
		WealthChartPNGFunc: func(ctx context.Context) ([]byte, error) {
			return []byte("\x89PNG"), nil
		},
	})

	rec := get(h.HandleWealthChart, "/api/dashboard/charts/wealth.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestHandleExport(t *testing.T) {
	h := newHandlers(&fakeFiveMService{
		ExportXLSXFunc: func(ctx context.Context) ([]byte, error) {
			return []byte("PK"), nil
		},
	})

	rec := get(h.HandleExport, "/api/admin/exports/economy.xlsx")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="economy-20260910.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", rec.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unavailable", fmt.Errorf("%w: timeout", fivemservice.ErrUnavailable), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("panic in JobDistribution: boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(&fakeFiveMService{
				JobDistributionFunc: func(ctx context.Context) ([]fivemdomain.JobCount, error) {
					return nil, tt.err
				},
				JobChartPNGFunc: func(ctx context.Context) ([]byte, error) {
					return nil, tt.err
				},
			})

			assert.Equal(t, tt.wantCode, get(h.HandleJobs, "/api/dashboard/jobs").Code)
			rec := get(h.HandleJobChart, "/api/dashboard/charts/jobs.png")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}
