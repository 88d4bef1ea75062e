package activitiesdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for activities.
type Repository interface {
	ListUpcoming(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]Activity, error)
	ListAll(ctx context.Context, db bun.IDB, limit, offset int) ([]Activity, int, error)
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Activity, error)
	Create(ctx context.Context, db bun.IDB, activity *Activity) error
	Update(ctx context.Context, db bun.IDB, activity *Activity) error
	Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error
}
