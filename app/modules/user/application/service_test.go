package userservice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestUserService_ListUsers(t *testing.T) {
	svc, deps := newTestService()
	deps.repo.ListFn = func(ctx context.Context, db bun.IDB, filter userdb.ListFilter) ([]userdb.User, int, error) {
		assert.Equal(t, "jane", filter.Search)
		assert.Equal(t, 25, filter.Limit)
		return []userdb.User{{DiscordID: "1", Username: "jane"}}, 1, nil
	}

	page, err := svc.ListUsers(context.Background(), userdb.ListFilter{Search: "jane", Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Users, 1)
}

func TestUserService_ListUsers_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService()

	page, err := svc.ListUsers(context.Background(), userdb.ListFilter{Limit: 25})
	require.NoError(t, err)
	assert.NotNil(t, page.Users)
}

func TestUserService_GetUser(t *testing.T) {
	user := &userdb.User{ID: uuid.New(), DiscordID: "42", Username: gofakeit.Username()}

	tests := []struct {
		name           string
		setup          func(d testDeps)
		wantErr        error
		wantMembership bool
		wantBlacklist  bool
	}{
		{
			name:    "unknown user",
			setup:   func(d testDeps) {},
			wantErr: ErrUserNotFound,
		},
		{
			name: "user with roles",
			setup: func(d testDeps) {
				d.repo.GetByDiscordIDFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.User, error) {
					return user, nil
				}
				d.guild.MemberRolesFunc = func(ctx context.Context, discordID string) (*guilddomain.Membership, error) {
					return &guilddomain.Membership{DiscordID: discordID, InGuild: true, Roles: guilddomain.RoleSet{guilddomain.RoleWhitelisted}}, nil
				}
			},
			wantMembership: true,
		},
		{
			name: "discord outage keeps portal data",
			setup: func(d testDeps) {
				d.repo.GetByDiscordIDFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.User, error) {
					return user, nil
				}
				d.guild.MemberRolesFunc = func(ctx context.Context, discordID string) (*guilddomain.Membership, error) {
					return nil, errors.New("discord api unavailable")
				}
			},
			wantMembership: false,
		},
		{
			name: "blacklisted user",
			setup: func(d testDeps) {
				d.repo.GetByDiscordIDFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.User, error) {
					return user, nil
				}
				d.repo.GetActiveBlacklistEntryFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.BlacklistEntry, error) {
					return &userdb.BlacklistEntry{DiscordID: discordID, Reason: "metagaming"}, nil
				}
			},
			wantMembership: true,
			wantBlacklist:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			tt.setup(deps)

			got, err := svc.GetUser(context.Background(), "42")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user, got.User)
			assert.Equal(t, tt.wantMembership, got.Membership != nil)
			assert.Equal(t, tt.wantBlacklist, got.Blacklist != nil)
		})
	}
}

func TestUserService_SetRole(t *testing.T) {
	tests := []struct {
		name        string
		actor       string
		role        guilddomain.Role
		granted     bool
		setup       func(d testDeps)
		wantErr     error
		wantChanges []string
	}{
		{name: "grant staff", actor: "admin", role: guilddomain.RoleStaff, granted: true, wantChanges: []string{"+staff"}},
		{name: "remove whitelisted", actor: "admin", role: guilddomain.RoleWhitelisted, granted: false, wantChanges: []string{"-whitelisted"}},
		{name: "admin is not assignable", actor: "admin", role: guilddomain.RoleAdmin, granted: true, wantErr: ErrRoleNotAssignable},
		{name: "blacklisted uses its own flow", actor: "admin", role: guilddomain.RoleBlacklisted, granted: true, wantErr: ErrRoleNotAssignable},
		{name: "self change refused", actor: "target", role: guilddomain.RoleStaff, granted: true, wantErr: ErrSelfAction},
		{
			name:  "target not in guild",
			actor: "admin",
			role:  guilddomain.RoleStaff, granted: true,
			setup: func(d testDeps) {
				d.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return guildservice.ErrNotInGuild
				}
			},
			wantErr:     guildservice.ErrNotInGuild,
			wantChanges: []string{"+staff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			if tt.setup != nil {
				tt.setup(deps)
			}

			err := svc.SetRole(context.Background(), tt.actor, "target", tt.role, tt.granted)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, deps.publisher.Topics())
			} else {
				require.NoError(t, err)
				assert.Equal(t, []string{eventbus.UserRoleChangedV1}, deps.publisher.Topics())
			}
			assert.Equal(t, tt.wantChanges, deps.guild.RoleChanges)
		})
	}
}

func TestUserService_Blacklist(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		actor       string
		reason      string
		setup       func(d testDeps)
		wantErr     error
		wantAnyErr  bool
		wantChanges []string
		wantRevoked bool
	}{
		{
			name:   "blacklists portal user",
			actor:  "admin",
			reason: "  cheating ",
			setup: func(d testDeps) {
				d.repo.GetByDiscordIDFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.User, error) {
					return &userdb.User{ID: userID, DiscordID: discordID}, nil
				}
			},
			wantChanges: []string{"+blacklisted", "-whitelisted"},
			wantRevoked: true,
		},
		{
			name:        "user never logged in",
			actor:       "admin",
			reason:      "alt account",
			setup:       func(d testDeps) {},
			wantChanges: []string{"+blacklisted", "-whitelisted"},
		},
		{
			name:   "user left the guild",
			actor:  "admin",
			reason: "ban evasion",
			setup: func(d testDeps) {
				d.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return guildservice.ErrNotInGuild
				}
				d.guild.RevokeRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return guildservice.ErrNotInGuild
				}
			},
			wantChanges: []string{"+blacklisted", "-whitelisted"},
		},
		{name: "reason required", actor: "admin", reason: "   ", wantErr: ErrReasonRequired},
		{name: "cannot blacklist self", actor: "target", reason: "x", wantErr: ErrSelfAction},
		{
			name:   "already blacklisted",
			actor:  "admin",
			reason: "again",
			setup: func(d testDeps) {
				d.repo.GetActiveBlacklistEntryFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.BlacklistEntry, error) {
					return &userdb.BlacklistEntry{DiscordID: discordID}, nil
				}
			},
			wantErr: ErrAlreadyBlacklisted,
		},
		{
			name:   "discord failure aborts",
			actor:  "admin",
			reason: "cheating",
			setup: func(d testDeps) {
				d.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return errors.New("discord api unavailable")
				}
			},
			wantAnyErr:  true,
			wantChanges: []string{"+blacklisted"},
		},
		{
			name:   "deleted discord role is not skipped",
			actor:  "admin",
			reason: "cheating",
			setup: func(d testDeps) {
				d.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return guildservice.ErrRoleNotFound
				}
			},
			wantErr:     guildservice.ErrRoleNotFound,
			wantChanges: []string{"+blacklisted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			if tt.setup != nil {
				tt.setup(deps)
			}
			revoked := false
			deps.repo.RevokeUserSessionsFn = func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) (int64, error) {
				assert.Equal(t, userID, id)
				revoked = true
				return 2, nil
			}

			entry, err := svc.Blacklist(context.Background(), tt.actor, "target", tt.reason)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, deps.publisher.Topics())
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.Empty(t, deps.publisher.Topics())
			default:
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.reason), entry.Reason)
				assert.Equal(t, tt.actor, entry.CreatedBy)
				assert.Equal(t, []string{eventbus.UserBlacklistedV1}, deps.publisher.Topics())
			}
			assert.Equal(t, tt.wantChanges, deps.guild.RoleChanges)
			assert.Equal(t, tt.wantRevoked, revoked)
		})
	}
}

func TestUserService_Unblacklist(t *testing.T) {
	t.Run("lifts active entry", func(t *testing.T) {
		svc, deps := newTestService()
		entryID := uuid.New()
		deps.repo.GetActiveBlacklistEntryFn = func(ctx context.Context, db bun.IDB, discordID string) (*userdb.BlacklistEntry, error) {
			return &userdb.BlacklistEntry{ID: entryID, DiscordID: discordID}, nil
		}
		deps.repo.LiftBlacklistEntryFn = func(ctx context.Context, db bun.IDB, id uuid.UUID, liftedBy string, at time.Time) error {
			assert.Equal(t, entryID, id)
			assert.Equal(t, "admin", liftedBy)
			assert.Equal(t, fixedNow, at)
			return nil
		}

		require.NoError(t, svc.Unblacklist(context.Background(), "admin", "target"))
		assert.Equal(t, []string{"-blacklisted"}, deps.guild.RoleChanges)
		assert.Equal(t, []string{eventbus.UserUnblacklistedV1}, deps.publisher.Topics())
	})

	t.Run("not blacklisted", func(t *testing.T) {
		svc, deps := newTestService()
		err := svc.Unblacklist(context.Background(), "admin", "target")
		assert.ErrorIs(t, err, ErrNotBlacklisted)
		assert.Empty(t, deps.guild.RoleChanges)
	})
}

func TestUserService_PruneSessions(t *testing.T) {
	svc, deps := newTestService()
	deps.repo.DeleteExpiredSessionsFn = func(ctx context.Context, db bun.IDB, before time.Time) (int64, error) {
		assert.Equal(t, fixedNow, before)
		return 7, nil
	}

	n, err := svc.PruneSessions(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}
