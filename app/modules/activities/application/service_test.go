package activitiesservice

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	activitiesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/domain"
	activitiesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestActivitiesService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     activitiesdomain.Input
		wantErr   error
		wantStart time.Time
		wantEnd   *time.Time
	}{
		{
			name:      "rfc3339 start",
			input:     activitiesdomain.Input{Title: "Car meet", StartsAt: "2026-09-12T19:00:00Z"},
			wantStart: time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
		},
		{
			name: "with end",
			input: activitiesdomain.Input{
				Title:    "Heist night",
				StartsAt: "2026-09-12 20:00",
				EndsAt:   "2026-09-12 23:00",
				Timezone: "UTC",
			},
			wantStart: time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC),
			wantEnd:   ptr(time.Date(2026, 9, 12, 23, 0, 0, 0, time.UTC)),
		},
		{
			name:    "past start",
			input:   activitiesdomain.Input{Title: "Old", StartsAt: "2026-09-01T19:00:00Z"},
			wantErr: ErrStartInPast,
		},
		{
			name:    "end before start",
			input:   activitiesdomain.Input{Title: "Odd", StartsAt: "2026-09-12T19:00:00Z", EndsAt: "2026-09-12T18:00:00Z"},
			wantErr: ErrEndBeforeStart,
		},
		{
			name:    "bad timezone",
			input:   activitiesdomain.Input{Title: "Odd", StartsAt: "tomorrow at 20:00", Timezone: "XYZ"},
			wantErr: activitiesdomain.ErrInvalidTimezone,
		},
		{
			name:    "unrecognized start",
			input:   activitiesdomain.Input{Title: "Odd", StartsAt: "someday"},
			wantErr: activitiesdomain.ErrUnrecognizedTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()

			activity, err := svc.Create(context.Background(), "900", tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, deps.publisher.Topics())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, activity.StartsAt)
			assert.Equal(t, tt.wantEnd, activity.EndsAt)
			assert.Equal(t, "900", activity.CreatedBy)
			assert.Equal(t, []string{eventbus.ActivityPublishedV1}, deps.publisher.Topics())
		})
	}
}

func TestActivitiesService_Update_AllowsPastStart(t *testing.T) {
	svc, deps := newTestService()
	id := uuid.New()
	deps.repo.GetByIDFn = func(ctx context.Context, db bun.IDB, got uuid.UUID) (*activitiesdb.Activity, error) {
		return &activitiesdb.Activity{ID: got, Title: "Car meet", CreatedBy: "800"}, nil
	}
	var saved *activitiesdb.Activity
	deps.repo.UpdateFn = func(ctx context.Context, db bun.IDB, a *activitiesdb.Activity) error {
		saved = a
		return nil
	}

	activity, err := svc.Update(context.Background(), "900", id, activitiesdomain.Input{Title: "Car meet (recap)", StartsAt: "2026-09-01T19:00:00Z"})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Car meet (recap)", activity.Title)
	assert.Equal(t, "800", activity.CreatedBy)
	assert.Equal(t, fixedNow, activity.UpdatedAt)
	assert.Empty(t, deps.publisher.Topics())
}

func TestActivitiesService_Update_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Update(context.Background(), "900", uuid.New(), activitiesdomain.Input{Title: "x", StartsAt: "2026-09-12T19:00:00Z"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestActivitiesService_ListUpcoming_ClampsLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultUpcomingLimit},
		{-5, DefaultUpcomingLimit},
		{20, 20},
		{500, MaxUpcomingLimit},
	}

	for _, tt := range tests {
		svc, deps := newTestService()
		var got int
		deps.repo.ListUpcomingFn = func(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]activitiesdb.Activity, error) {
			got = limit
			assert.Equal(t, fixedNow, now)
			return nil, nil
		}

		activities, err := svc.ListUpcoming(context.Background(), tt.in)
		require.NoError(t, err)
		assert.NotNil(t, activities)
		assert.Equal(t, tt.want, got)
	}
}

func TestActivitiesService_Delete(t *testing.T) {
	svc, deps := newTestService()
	deps.repo.DeleteFn = func(ctx context.Context, db bun.IDB, id uuid.UUID) error {
		return activitiesdb.ErrNoRowsAffected
	}
	require.ErrorIs(t, svc.Delete(context.Background(), "900", uuid.New()), ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
