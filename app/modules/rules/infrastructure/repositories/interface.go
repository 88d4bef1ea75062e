package rulesdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for rules.
type Repository interface {
	List(ctx context.Context, db bun.IDB) ([]Rule, error)
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Rule, error)
	NextPosition(ctx context.Context, db bun.IDB, category string) (int, error)
	Create(ctx context.Context, db bun.IDB, rule *Rule) error
	Update(ctx context.Context, db bun.IDB, rule *Rule) error
	Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error
	CategoryIDs(ctx context.Context, db bun.IDB, category string) ([]uuid.UUID, error)
	SetPosition(ctx context.Context, db bun.IDB, id uuid.UUID, position int, updatedBy string, at time.Time) error
}
