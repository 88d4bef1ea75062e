package activitiesservice

import (
	"context"

	activitiesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/domain"
	activitiesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service manages the community activity calendar.
type Service interface {
	ListUpcoming(ctx context.Context, limit int) ([]activitiesdb.Activity, error)
	ListAll(ctx context.Context, limit, offset int) (*ActivityPage, error)
	Create(ctx context.Context, actorDiscordID string, input activitiesdomain.Input) (*activitiesdb.Activity, error)
	Update(ctx context.Context, actorDiscordID string, id uuid.UUID, input activitiesdomain.Input) (*activitiesdb.Activity, error)
	Delete(ctx context.Context, actorDiscordID string, id uuid.UUID) error
}

// ActivityPage is one page of activities.
type ActivityPage struct {
	Activities []activitiesdb.Activity `json:"activities"`
	Total      int                     `json:"total"`
}
