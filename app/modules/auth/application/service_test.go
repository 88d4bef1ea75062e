package authservice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/oauth2"
)

func TestService_BeginLogin(t *testing.T) {
	svc, deps := newTestService()

	var gotReturnTo string
	var gotTTL time.Duration
	deps.state.GenerateStateFunc = func(nonce, returnTo string, ttl time.Duration) (string, error) {
		gotReturnTo = returnTo
		gotTTL = ttl
		assert.Len(t, nonce, nonceBytes*2)
		return "signed", nil
	}

	redirect, err := svc.BeginLogin(context.Background(), "//evil.example")
	require.NoError(t, err)

	assert.Equal(t, "/", gotReturnTo)
	assert.Equal(t, DefaultStateTTL, gotTTL)
	assert.Contains(t, redirect.URL, "state=signed")
	assert.NotEmpty(t, redirect.Nonce)
	assert.Equal(t, fixedNow.Add(DefaultStateTTL), redirect.ExpiresAt)
}

func TestService_CompleteLogin(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		code      string
		nonce     string
		setup     func(d testDeps)
		wantErr   error
		wantTrace []string
		verify    func(t *testing.T, d testDeps, res *authdomain.LoginResult)
	}{
		{
			name:  "success",
			code:  "code-1",
			nonce: "nonce-1",
			setup: func(d testDeps) {
				d.state.ValidateStateFunc = func(string) (*authdomain.OAuthState, error) {
					return &authdomain.OAuthState{Nonce: "nonce-1", ReturnTo: "/contests"}, nil
				}
				d.repo.UpsertByDiscordIDFn = func(ctx context.Context, db bun.IDB, u *userdb.User) (*userdb.User, error) {
					u.ID = userID
					return u, nil
				}
			},
			wantTrace: []string{"Exchange", "FetchProfile"},
			verify: func(t *testing.T, d testDeps, res *authdomain.LoginResult) {
				assert.Equal(t, "/contests", res.ReturnTo)
				assert.Equal(t, userID, res.UserID)
				assert.Equal(t, "111", res.DiscordID)
				assert.Equal(t, fixedNow.Add(time.Hour), res.ExpiresAt)
				assert.NotEmpty(t, res.Token)
				assert.Equal(t, []string{"UpsertByDiscordID", "CreateSession"}, d.repo.Calls())
			},
		},
		{
			name:    "missing code",
			code:    "",
			nonce:   "nonce-1",
			wantErr: ErrMissingCode,
		},
		{
			name:  "invalid state",
			code:  "code-1",
			nonce: "nonce-1",
			setup: func(d testDeps) {
				d.state.ValidateStateFunc = func(string) (*authdomain.OAuthState, error) {
					return nil, errors.New("expired")
				}
			},
			wantErr: ErrInvalidState,
		},
		{
			name:    "nonce mismatch",
			code:    "code-1",
			nonce:   "other",
			wantErr: ErrInvalidState,
		},
		{
			name:    "missing nonce cookie",
			code:    "code-1",
			nonce:   "",
			wantErr: ErrInvalidState,
		},
		{
			name:  "exchange failure",
			code:  "code-1",
			nonce: "nonce-1",
			setup: func(d testDeps) {
				d.oauth.ExchangeFunc = func(context.Context, string) (*oauth2.Token, error) {
					return nil, errors.New("invalid_grant")
				}
			},
			wantErr:   ErrOAuthExchange,
			wantTrace: []string{"Exchange"},
		},
		{
			name:  "profile failure",
			code:  "code-1",
			nonce: "nonce-1",
			setup: func(d testDeps) {
				d.oauth.FetchProfileFunc = func(context.Context, *oauth2.Token) (*authdomain.DiscordProfile, error) {
					return nil, errors.New("401")
				}
			},
			wantErr:   ErrOAuthExchange,
			wantTrace: []string{"Exchange", "FetchProfile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			if tt.setup != nil {
				tt.setup(deps)
			}

			res, err := svc.CompleteLogin(context.Background(), tt.code, "state", tt.nonce, authdomain.RequestMeta{
				UserAgent: strings.Repeat("a", 600),
				IPAddress: "10.0.0.1",
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				tt.verify(t, deps, res)
			}
			if tt.wantTrace != nil {
				assert.Equal(t, tt.wantTrace, deps.oauth.Trace())
			}
		})
	}
}

func TestService_CompleteLogin_StoresOnlyTokenHash(t *testing.T) {
	svc, deps := newTestService()

	var stored *userdb.Session
	deps.repo.UpsertByDiscordIDFn = func(ctx context.Context, db bun.IDB, u *userdb.User) (*userdb.User, error) {
		u.ID = uuid.New()
		return u, nil
	}
	deps.repo.CreateSessionFn = func(ctx context.Context, db bun.IDB, s *userdb.Session) error {
		stored = s
		return nil
	}

	res, err := svc.CompleteLogin(context.Background(), "code", "state", "nonce-1", authdomain.RequestMeta{UserAgent: strings.Repeat("x", 600)})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, HashToken(res.Token), stored.TokenHash)
	assert.NotEqual(t, res.Token, stored.TokenHash)
	assert.Len(t, stored.TokenHash, 64)
	assert.Len(t, stored.UserAgent, 512)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short input kept", in: "curl/8.0", n: 512, want: "curl/8.0"},
		{name: "ascii cut at limit", in: "abcdef", n: 4, want: "abcd"},
		{name: "two byte rune not split", in: "aéé", n: 4, want: "aé"},
		{name: "four byte rune dropped whole", in: "ab😀", n: 5, want: "ab"},
		{name: "cut on rune boundary", in: "é😀", n: 6, want: "é😀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestService_CompleteLogin_TruncatesMultibyteUserAgent(t *testing.T) {
	svc, deps := newTestService()

	var stored *userdb.Session
	deps.repo.UpsertByDiscordIDFn = func(ctx context.Context, db bun.IDB, u *userdb.User) (*userdb.User, error) {
		u.ID = uuid.New()
		return u, nil
	}
	deps.repo.CreateSessionFn = func(ctx context.Context, db bun.IDB, s *userdb.Session) error {
		stored = s
		return nil
	}

	// 511 ASCII bytes followed by a three byte rune straddles the 512 byte limit.
	ua := strings.Repeat("x", 511) + strings.Repeat("日", 10)
	_, err := svc.CompleteLogin(context.Background(), "code", "state", "nonce-1", authdomain.RequestMeta{UserAgent: ua})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.True(t, utf8.ValidString(stored.UserAgent))
	assert.Equal(t, strings.Repeat("x", 511), stored.UserAgent)
}

func TestService_ResolveSession(t *testing.T) {
	sessionID := uuid.New()
	userID := uuid.New()

	activeSession := func(d testDeps) {
		d.repo.GetActiveSessionByHashFn = func(ctx context.Context, db bun.IDB, hash string, now time.Time) (*userdb.Session, error) {
			assert.Equal(t, HashToken("tok"), hash)
			assert.Equal(t, fixedNow, now)
			return &userdb.Session{ID: sessionID, UserID: userID}, nil
		}
		d.repo.GetByIDFn = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*userdb.User, error) {
			return &userdb.User{ID: id, DiscordID: "111", Username: "jdoe"}, nil
		}
	}

	tests := []struct {
		name    string
		token   string
		setup   func(d testDeps)
		wantErr error
		verify  func(t *testing.T, p *authdomain.Principal)
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrInvalidSession,
		},
		{
			name:    "unknown session",
			token:   "tok",
			setup:   func(d testDeps) {},
			wantErr: ErrInvalidSession,
		},
		{
			name:  "user deleted",
			token: "tok",
			setup: func(d testDeps) {
				d.repo.GetActiveSessionByHashFn = func(ctx context.Context, db bun.IDB, hash string, now time.Time) (*userdb.Session, error) {
					return &userdb.Session{ID: sessionID, UserID: userID}, nil
				}
			},
			wantErr: ErrInvalidSession,
		},
		{
			name:  "live roles",
			token: "tok",
			setup: func(d testDeps) {
				activeSession(d)
				d.guild.MemberRolesFunc = func(ctx context.Context, discordID string) (*guilddomain.Membership, error) {
					return &guilddomain.Membership{DiscordID: discordID, InGuild: true, Roles: guilddomain.RoleSet{guilddomain.RoleStaff}}, nil
				}
			},
			verify: func(t *testing.T, p *authdomain.Principal) {
				assert.Equal(t, userID, p.UserID)
				assert.Equal(t, sessionID, p.SessionID)
				assert.True(t, p.InGuild)
				assert.True(t, p.HasRole(guilddomain.RoleStaff))
			},
		},
		{
			name:  "discord outage fails open to no roles",
			token: "tok",
			setup: func(d testDeps) {
				activeSession(d)
				d.guild.MemberRolesFunc = func(ctx context.Context, discordID string) (*guilddomain.Membership, error) {
					return nil, errors.New("discord api unavailable")
				}
			},
			verify: func(t *testing.T, p *authdomain.Principal) {
				assert.Equal(t, "111", p.DiscordID)
				assert.False(t, p.InGuild)
				assert.Empty(t, p.Roles)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			if tt.setup != nil {
				tt.setup(deps)
			}

			p, err := svc.ResolveSession(context.Background(), tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.verify(t, p)
		})
	}
}

func TestService_ResolveSession_RepositoryError(t *testing.T) {
	svc, deps := newTestService()
	boom := errors.New("connection refused")
	deps.repo.GetActiveSessionByHashFn = func(ctx context.Context, db bun.IDB, hash string, now time.Time) (*userdb.Session, error) {
		return nil, boom
	}

	_, err := svc.ResolveSession(context.Background(), "tok")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidSession)
}

func TestService_Logout(t *testing.T) {
	t.Run("revokes active session", func(t *testing.T) {
		svc, deps := newTestService()
		sessionID := uuid.New()
		deps.repo.GetActiveSessionByHashFn = func(ctx context.Context, db bun.IDB, hash string, now time.Time) (*userdb.Session, error) {
			return &userdb.Session{ID: sessionID}, nil
		}
		var revoked uuid.UUID
		deps.repo.RevokeSessionFn = func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error {
			revoked = id
			assert.Equal(t, fixedNow, at)
			return nil
		}

		require.NoError(t, svc.Logout(context.Background(), "tok"))
		assert.Equal(t, sessionID, revoked)
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		svc, deps := newTestService()
		require.NoError(t, svc.Logout(context.Background(), "tok"))
		assert.NotContains(t, deps.repo.Calls(), "RevokeSession")
	})

	t.Run("empty token", func(t *testing.T) {
		svc, deps := newTestService()
		require.NoError(t, svc.Logout(context.Background(), ""))
		assert.Empty(t, deps.repo.Calls())
	})

	t.Run("already revoked race", func(t *testing.T) {
		svc, deps := newTestService()
		deps.repo.GetActiveSessionByHashFn = func(ctx context.Context, db bun.IDB, hash string, now time.Time) (*userdb.Session, error) {
			return &userdb.Session{ID: uuid.New()}, nil
		}
		deps.repo.RevokeSessionFn = func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error {
			return userdb.ErrNoRowsAffected
		}
		require.NoError(t, svc.Logout(context.Background(), "tok"))
	})
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", HashToken("test"))
}
