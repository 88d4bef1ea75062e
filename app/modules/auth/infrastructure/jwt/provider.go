package authjwt

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateAudience = "oauth-state"

// stateClaims represents the JWT claims structure of the state parameter.
type stateClaims struct {
	jwt.RegisteredClaims
	Nonce    string `json:"nonce"`
	ReturnTo string `json:"return_to,omitempty"`
}

// provider implements the Provider interface.
type provider struct {
	secret []byte
	issuer string
}

// NewProvider creates a new state provider signing with HS256.
func NewProvider(secret, issuer string) Provider {
	return &provider{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// GenerateState creates a signed state token.
func (p *provider) GenerateState(nonce, returnTo string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{stateAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Nonce:    nonce,
		ReturnTo: returnTo,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}

	return signedToken, nil
}

// ValidateState validates a state token and returns its payload if valid.
func (p *provider) ValidateState(tokenString string) (*authdomain.OAuthState, error) {
	token, err := jwt.ParseWithClaims(tokenString, &stateClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	},
		jwt.WithAudience(stateAudience),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*stateClaims)
	if !ok || !token.Valid || claims.Nonce == "" {
		return nil, ErrInvalidToken
	}

	state := &authdomain.OAuthState{
		Nonce:    claims.Nonce,
		ReturnTo: authdomain.SanitizeReturnTo(claims.ReturnTo),
	}
	if claims.ExpiresAt != nil {
		state.ExpiresAt = claims.ExpiresAt.Time
	}

	return state, nil
}
