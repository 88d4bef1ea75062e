package authjwt

import (
	"time"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
)

// Provider signs and verifies the OAuth state parameter.
type Provider interface {
	// GenerateState creates a signed state token carrying nonce and returnTo.
	GenerateState(nonce, returnTo string, ttl time.Duration) (string, error)

	// ValidateState verifies a state token and returns its payload.
	ValidateState(tokenString string) (*authdomain.OAuthState, error)
}
