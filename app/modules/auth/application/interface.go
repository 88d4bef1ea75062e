package authservice

import (
	"context"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
)

// Service defines the authentication service interface.
type Service interface {
	// BeginLogin builds the Discord authorize URL and the nonce to pin in the state cookie.
	BeginLogin(ctx context.Context, returnTo string) (*authdomain.LoginRedirect, error)

	// CompleteLogin finishes the OAuth callback and opens a portal session.
	CompleteLogin(ctx context.Context, code, state, nonce string, meta authdomain.RequestMeta) (*authdomain.LoginResult, error)

	// ResolveSession turns a session cookie value into a principal with live Discord roles.
	ResolveSession(ctx context.Context, token string) (*authdomain.Principal, error)

	// Logout revokes the session behind token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
}
