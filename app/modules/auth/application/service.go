package authservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/jwt"
	authoauth "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/oauth"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	DefaultStateTTL   = 10 * time.Minute

	sessionTokenBytes = 32
	nonceBytes        = 16
)

// Config holds the configuration for the auth service.
type Config struct {
	SessionTTL time.Duration
	StateTTL   time.Duration
}

// service implements the Service interface.
type service struct {
	repo   userdb.Repository
	guild  guildservice.Service
	oauth  authoauth.Provider
	state  authjwt.Provider
	config Config
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(
	repo userdb.Repository,
	guild guildservice.Service,
	oauth authoauth.Provider,
	state authjwt.Provider,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	if config.StateTTL <= 0 {
		config.StateTTL = DefaultStateTTL
	}
	return &service{
		repo:   repo,
		guild:  guild,
		oauth:  oauth,
		state:  state,
		config: config,
		logger: logger,
		tracer: tracer,
		now:    time.Now,
	}
}

// BeginLogin builds the Discord authorize URL.
func (s *service) BeginLogin(ctx context.Context, returnTo string) (*authdomain.LoginRedirect, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.BeginLogin")
	defer span.End()

	nonce, err := randomHex(nonceBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	state, err := s.state.GenerateState(nonce, authdomain.SanitizeReturnTo(returnTo), s.config.StateTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sign oauth state", attr.Error(err))
		return nil, err
	}

	return &authdomain.LoginRedirect{
		URL:       s.oauth.AuthCodeURL(state),
		Nonce:     nonce,
		ExpiresAt: s.now().Add(s.config.StateTTL),
	}, nil
}

// CompleteLogin verifies the state, exchanges the code and opens a session.
func (s *service) CompleteLogin(
	ctx context.Context,
	code, state, nonce string,
	meta authdomain.RequestMeta,
) (*authdomain.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.CompleteLogin")
	defer span.End()

	if code == "" {
		return nil, ErrMissingCode
	}

	st, err := s.state.ValidateState(state)
	if err != nil {
		s.logger.WarnContext(ctx, "OAuth state rejected", attr.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if nonce == "" || subtle.ConstantTimeCompare([]byte(st.Nonce), []byte(nonce)) != 1 {
		s.logger.WarnContext(ctx, "OAuth state nonce mismatch")
		return nil, ErrInvalidState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.WarnContext(ctx, "Discord code exchange failed", attr.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	profile, err := s.oauth.FetchProfile(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "Discord profile lookup failed", attr.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	now := s.now()
	user, err := s.repo.UpsertByDiscordID(ctx, nil, &userdb.User{
		DiscordID:   profile.ID,
		Username:    profile.Username,
		GlobalName:  profile.GlobalName,
		Avatar:      profile.Avatar,
		LastLoginAt: &now,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to upsert user",
			attr.Error(err),
			attr.DiscordID("discord_id", profile.ID),
		)
		return nil, err
	}

	raw, err := randomToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &userdb.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: HashToken(raw),
		UserAgent: truncate(meta.UserAgent, 512),
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}
	if err := s.repo.CreateSession(ctx, nil, session); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create session",
			attr.Error(err),
			attr.UUID("user_id", user.ID),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "User logged in",
		attr.DiscordID("discord_id", user.DiscordID),
		attr.UUID("user_id", user.ID),
		attr.UUID("session_id", session.ID),
	)

	return &authdomain.LoginResult{
		Token:     raw,
		ExpiresAt: session.ExpiresAt,
		ReturnTo:  st.ReturnTo,
		UserID:    user.ID,
		DiscordID: user.DiscordID,
	}, nil
}

// ResolveSession loads the principal behind token.
func (s *service) ResolveSession(ctx context.Context, token string) (*authdomain.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.ResolveSession")
	defer span.End()

	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.repo.GetActiveSessionByHash(ctx, nil, HashToken(token), s.now())
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, nil, session.UserID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	principal := &authdomain.Principal{
		UserID:     user.ID,
		SessionID:  session.ID,
		DiscordID:  user.DiscordID,
		Username:   user.Username,
		GlobalName: user.GlobalName,
		Avatar:     user.Avatar,
	}

	membership, err := s.guild.MemberRoles(ctx, user.DiscordID)
	if err != nil {
		// Discord outages degrade to an authenticated user without roles.
		s.logger.WarnContext(ctx, "Failed to load Discord roles",
			attr.Error(err),
			attr.DiscordID("discord_id", user.DiscordID),
		)
		return principal, nil
	}
	principal.InGuild = membership.InGuild
	principal.Roles = membership.Roles

	return principal, nil
}

// Logout revokes the session behind token.
func (s *service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if token == "" {
		return nil
	}

	session, err := s.repo.GetActiveSessionByHash(ctx, nil, HashToken(token), s.now())
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.RevokeSession(ctx, nil, session.ID, s.now()); err != nil && !errors.Is(err, userdb.ErrNoRowsAffected) {
		return err
	}

	s.logger.InfoContext(ctx, "User logged out",
		attr.UUID("user_id", session.UserID),
		attr.UUID("session_id", session.ID),
	)
	return nil
}

// HashToken returns the sha256 hex digest stored in place of a session token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
