package authdomain

import (
	"context"
	"time"

	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	"github.com/google/uuid"
)

// Principal is the authenticated user behind a request, with live Discord roles.
type Principal struct {
	UserID     uuid.UUID           `json:"user_id"`
	SessionID  uuid.UUID           `json:"-"`
	DiscordID  string              `json:"discord_id"`
	Username   string              `json:"username"`
	GlobalName string              `json:"global_name,omitempty"`
	Avatar     string              `json:"avatar,omitempty"`
	InGuild    bool                `json:"in_guild"`
	Roles      guilddomain.RoleSet `json:"roles"`
}

// DisplayName prefers the Discord global name over the username.
func (p *Principal) DisplayName() string {
	if p.GlobalName != "" {
		return p.GlobalName
	}
	return p.Username
}

// HasRole reports whether the principal holds role in the guild.
func (p *Principal) HasRole(role guilddomain.Role) bool {
	return p != nil && p.Roles.Has(role)
}

type principalKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request's principal, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// DiscordProfile is the subset of /users/@me the portal stores.
type DiscordProfile struct {
	ID         string
	Username   string
	GlobalName string
	Avatar     string
}

// RequestMeta describes the client that started a session.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

// LoginRedirect is the Discord authorize URL plus the nonce to pin in the state cookie.
type LoginRedirect struct {
	URL       string
	Nonce     string
	ExpiresAt time.Time
}

// LoginResult is a freshly created session. Token is the raw cookie value and is never stored.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	ReturnTo  string
	UserID    uuid.UUID
	DiscordID string
}
