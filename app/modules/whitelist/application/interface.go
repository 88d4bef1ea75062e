package whitelistservice

import (
	"context"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service runs the whitelist application and review workflow.
type Service interface {
	Submit(ctx context.Context, principal *authdomain.Principal, form whitelistdomain.Form) (*whitelistdb.Request, error)
	GetMine(ctx context.Context, principal *authdomain.Principal) (*whitelistdb.Request, error)
	List(ctx context.Context, filter whitelistdb.ListFilter) (*RequestPage, error)
	Get(ctx context.Context, id uuid.UUID) (*whitelistdb.Request, error)
	Approve(ctx context.Context, reviewerDiscordID string, id uuid.UUID, note string) (*whitelistdb.Request, error)
	Reject(ctx context.Context, reviewerDiscordID string, id uuid.UUID, reason string) (*whitelistdb.Request, error)
	Revoke(ctx context.Context, reviewerDiscordID string, id uuid.UUID, reason string) (*whitelistdb.Request, error)
	Stats(ctx context.Context) (*whitelistdomain.Stats, error)
}

// RequestPage is one page of whitelist requests.
type RequestPage struct {
	Requests []whitelistdb.Request `json:"requests"`
	Total    int                   `json:"total"`
}
