// Package authoauth implements the Discord OAuth2 authorization code flow.
package authoauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"
)

const (
	DiscordAuthURL  = "https://discord.com/oauth2/authorize"
	DiscordTokenURL = "https://discord.com/api/oauth2/token"
	ScopeIdentify   = "identify"
)

// ErrMissingIdentity is returned when Discord answers /users/@me without an id.
var ErrMissingIdentity = errors.New("discord profile has no id")

// Provider is the OAuth surface the auth service needs.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*authdomain.DiscordProfile, error)
}

// DiscordProvider implements Provider against discord.com.
type DiscordProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
	apiBase    string
}

var _ Provider = (*DiscordProvider)(nil)

// NewDiscordProvider creates a provider for the given OAuth application.
func NewDiscordProvider(clientID, clientSecret, redirectURL string) *DiscordProvider {
	return &DiscordProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{ScopeIdentify},
			Endpoint: oauth2.Endpoint{
				AuthURL:   DiscordAuthURL,
				TokenURL:  DiscordTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the Discord consent URL carrying state.
func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

// Exchange trades an authorization code for an access token.
func (p *DiscordProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// FetchProfile reads /users/@me with the user's bearer token.
func (p *DiscordProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*authdomain.DiscordProfile, error) {
	session, err := discordgo.New("Bearer " + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Client = p.httpClient

	user, err := session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discord profile: %w", err)
	}
	return toProfile(user)
}

func toProfile(user *discordgo.User) (*authdomain.DiscordProfile, error) {
	if user == nil || user.ID == "" {
		return nil, ErrMissingIdentity
	}
	return &authdomain.DiscordProfile{
		ID:         user.ID,
		Username:   user.Username,
		GlobalName: user.GlobalName,
		Avatar:     user.Avatar,
	}, nil
}
