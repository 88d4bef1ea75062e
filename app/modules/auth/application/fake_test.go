package authservice

import (
	"context"
	"io"
	"log/slog"
	"time"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/jwt"
	authoauth "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/oauth"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/oauth2"
)

var fixedNow = time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

// ------------------------
// Fake State Provider
// ------------------------

type FakeStateProvider struct {
	trace []string

	GenerateStateFunc func(nonce, returnTo string, ttl time.Duration) (string, error)
	ValidateStateFunc func(tokenString string) (*authdomain.OAuthState, error)
}

var _ authjwt.Provider = (*FakeStateProvider)(nil)

func (f *FakeStateProvider) Trace() []string {
	return f.trace
}

func (f *FakeStateProvider) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStateProvider) GenerateState(nonce, returnTo string, ttl time.Duration) (string, error) {
	f.record("GenerateState")
	if f.GenerateStateFunc != nil {
		return f.GenerateStateFunc(nonce, returnTo, ttl)
	}
	return "signed-state", nil
}

func (f *FakeStateProvider) ValidateState(tokenString string) (*authdomain.OAuthState, error) {
	f.record("ValidateState")
	if f.ValidateStateFunc != nil {
		return f.ValidateStateFunc(tokenString)
	}
	return &authdomain.OAuthState{Nonce: "nonce-1", ReturnTo: "/"}, nil
}

// ------------------------
// Fake OAuth Provider
// ------------------------

type FakeOAuthProvider struct {
	trace []string

	ExchangeFunc     func(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfileFunc func(ctx context.Context, token *oauth2.Token) (*authdomain.DiscordProfile, error)
}

var _ authoauth.Provider = (*FakeOAuthProvider)(nil)

func (f *FakeOAuthProvider) Trace() []string {
	return f.trace
}

func (f *FakeOAuthProvider) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeOAuthProvider) AuthCodeURL(state string) string {
	f.record("AuthCodeURL")
	return "https://discord.com/oauth2/authorize?state=" + state
}

func (f *FakeOAuthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.record("Exchange")
	if f.ExchangeFunc != nil {
		return f.ExchangeFunc(ctx, code)
	}
	return &oauth2.Token{AccessToken: "access"}, nil
}

func (f *FakeOAuthProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*authdomain.DiscordProfile, error) {
	f.record("FetchProfile")
	if f.FetchProfileFunc != nil {
		return f.FetchProfileFunc(ctx, token)
	}
	return &authdomain.DiscordProfile{ID: "111", Username: "jdoe", GlobalName: "Jane"}, nil
}

type testDeps struct {
	repo  *userdb.FakeRepository
	guild *guildservice.FakeService
	oauth *FakeOAuthProvider
	state *FakeStateProvider
}

func newTestService() (*service, testDeps) {
	deps := testDeps{
		repo:  &userdb.FakeRepository{},
		guild: &guildservice.FakeService{},
		oauth: &FakeOAuthProvider{},
		state: &FakeStateProvider{},
	}
	svc := NewService(
		deps.repo,
		deps.guild,
		deps.oauth,
		deps.state,
		Config{SessionTTL: time.Hour},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		noop.NewTracerProvider().Tracer("test"),
	).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}
