package rulesservice

import (
	"context"

	rulesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/domain"
	rulesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service manages the server rulebook.
type Service interface {
	List(ctx context.Context) ([]rulesdb.Rule, error)
	Create(ctx context.Context, actorDiscordID string, input rulesdomain.Input) (*rulesdb.Rule, error)
	Update(ctx context.Context, actorDiscordID string, id uuid.UUID, input rulesdomain.Input) (*rulesdb.Rule, error)
	Delete(ctx context.Context, actorDiscordID string, id uuid.UUID) error
	Reorder(ctx context.Context, actorDiscordID, category string, ids []uuid.UUID) error
}
