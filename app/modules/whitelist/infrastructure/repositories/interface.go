package whitelistdb

import (
	"context"

	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for whitelist requests.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist (Get* methods)
//   - ErrNoRowsAffected: the row was not in the expected status
//   - ErrDuplicatePending: Create hit the one-pending-per-user index
type Repository interface {
	Create(ctx context.Context, db bun.IDB, req *Request) error
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Request, error)
	GetLatestByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*Request, error)
	GetLatestByStatus(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*Request, error)
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Request, int, error)
	UpdateStatus(ctx context.Context, db bun.IDB, t Transition) (*Request, error)
	CountByStatus(ctx context.Context, db bun.IDB) (map[whitelistdomain.Status]int, error)
}
