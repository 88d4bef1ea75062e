package whitelistservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func applicant(roles ...guilddomain.Role) *authdomain.Principal {
	return &authdomain.Principal{
		UserID:    uuid.New(),
		DiscordID: "1001",
		Username:  gofakeit.Username(),
		InGuild:   true,
		Roles:     guilddomain.RoleSet(roles),
	}
}

func validForm() whitelistdomain.Form {
	return whitelistdomain.Form{
		CharacterName: "  Tommy Vercetti ",
		CharacterAge:  34,
		RPExperience:  gofakeit.Sentence(10),
		Motivation:    gofakeit.Paragraph(1, 3, 10, " "),
		Backstory:     gofakeit.Paragraph(2, 4, 12, " "),
	}
}

func TestWhitelistService_Submit(t *testing.T) {
	tests := []struct {
		name       string
		principal  *authdomain.Principal
		setup      func(d testDeps)
		wantErr    error
		wantEvents []string
	}{
		{
			name:       "creates pending request",
			principal:  applicant(),
			wantEvents: []string{eventbus.WhitelistSubmittedV1},
		},
		{
			name:      "blacklisted",
			principal: applicant(guilddomain.RoleBlacklisted),
			wantErr:   ErrBlacklisted,
		},
		{
			name:      "already whitelisted",
			principal: applicant(guilddomain.RoleWhitelisted),
			wantErr:   ErrAlreadyWhitelisted,
		},
		{
			name:      "pending exists",
			principal: applicant(),
			setup: func(d testDeps) {
				d.repo.GetLatestByStatusFn = func(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*whitelistdb.Request, error) {
					if status == whitelistdomain.StatusPending {
						return &whitelistdb.Request{Status: status}, nil
					}
					return nil, whitelistdb.ErrNotFound
				}
			},
			wantErr: ErrPendingExists,
		},
		{
			name:      "rejected inside cooldown",
			principal: applicant(),
			setup: func(d testDeps) {
				reviewed := fixedNow.Add(-time.Hour)
				d.repo.GetLatestByStatusFn = func(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*whitelistdb.Request, error) {
					if status == whitelistdomain.StatusRejected {
						return &whitelistdb.Request{Status: status, ReviewedAt: &reviewed}, nil
					}
					return nil, whitelistdb.ErrNotFound
				}
			},
			wantErr: ErrReapplyCooldown,
		},
		{
			name:      "rejected after cooldown",
			principal: applicant(),
			setup: func(d testDeps) {
				reviewed := fixedNow.Add(-testCooldown - time.Minute)
				d.repo.GetLatestByStatusFn = func(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*whitelistdb.Request, error) {
					if status == whitelistdomain.StatusRejected {
						return &whitelistdb.Request{Status: status, ReviewedAt: &reviewed}, nil
					}
					return nil, whitelistdb.ErrNotFound
				}
			},
			wantEvents: []string{eventbus.WhitelistSubmittedV1},
		},
		{
			name:      "unique index race",
			principal: applicant(),
			setup: func(d testDeps) {
				d.repo.CreateFn = func(ctx context.Context, db bun.IDB, req *whitelistdb.Request) error {
					return whitelistdb.ErrDuplicatePending
				}
			},
			wantErr: ErrPendingExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			if tt.setup != nil {
				tt.setup(deps)
			}

			req, err := svc.Submit(context.Background(), tt.principal, validForm())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, req)
				assert.Empty(t, deps.publisher.Topics())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, whitelistdomain.StatusPending, req.Status)
			assert.Equal(t, "Tommy Vercetti", req.CharacterName)
			assert.Equal(t, tt.principal.UserID, req.UserID)
			assert.Equal(t, fixedNow, req.CreatedAt)
			assert.Equal(t, tt.wantEvents, deps.publisher.Topics())
		})
	}
}

func TestWhitelistService_Submit_RepositoryError(t *testing.T) {
	svc, deps := newTestService()
	boom := errors.New("connection reset")
	deps.repo.GetLatestByStatusFn = func(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*whitelistdb.Request, error) {
		return nil, boom
	}

	_, err := svc.Submit(context.Background(), applicant(), validForm())
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, deps.repo.Calls(), "Create")
}

func TestWhitelistService_GetMine(t *testing.T) {
	t.Run("no request", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.GetMine(context.Background(), applicant())
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("latest request", func(t *testing.T) {
		svc, deps := newTestService()
		id := uuid.New()
		deps.repo.GetLatestByDiscordIDFn = func(ctx context.Context, db bun.IDB, discordID string) (*whitelistdb.Request, error) {
			assert.Equal(t, "1001", discordID)
			return &whitelistdb.Request{ID: id, Status: whitelistdomain.StatusRejected}, nil
		}

		req, err := svc.GetMine(context.Background(), applicant())
		require.NoError(t, err)
		assert.Equal(t, id, req.ID)
	})
}

func TestWhitelistService_List(t *testing.T) {
	svc, deps := newTestService()
	deps.repo.ListFn = func(ctx context.Context, db bun.IDB, filter whitelistdb.ListFilter) ([]whitelistdb.Request, int, error) {
		assert.Equal(t, whitelistdomain.StatusPending, filter.Status)
		assert.Equal(t, 20, filter.Offset)
		return []whitelistdb.Request{{ID: uuid.New()}}, 21, nil
	}

	page, err := svc.List(context.Background(), whitelistdb.ListFilter{Status: whitelistdomain.StatusPending, Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	assert.Len(t, page.Requests, 1)
}

func TestWhitelistService_List_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService()
	page, err := svc.List(context.Background(), whitelistdb.ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, page.Requests)
}

func pendingRequest(id uuid.UUID) func(d testDeps) {
	return func(d testDeps) {
		d.repo.GetByIDFn = func(ctx context.Context, db bun.IDB, got uuid.UUID) (*whitelistdb.Request, error) {
			return &whitelistdb.Request{ID: got, DiscordID: "1001", CharacterName: "Tommy", Status: whitelistdomain.StatusPending}, nil
		}
	}
}

func TestWhitelistService_Approve(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		reviewer   string
		setup      func(d testDeps)
		wantErr    error
		wantGrant  bool
		wantEvents []string
	}{
		{
			name:       "approves and grants role",
			reviewer:   "2002",
			setup:      pendingRequest(id),
			wantGrant:  true,
			wantEvents: []string{eventbus.WhitelistApprovedV1},
		},
		{
			name:     "unknown request",
			reviewer: "2002",
			setup:    func(d testDeps) {},
			wantErr:  ErrNotFound,
		},
		{
			name:     "self review",
			reviewer: "1001",
			setup:    pendingRequest(id),
			wantErr:  ErrSelfReview,
		},
		{
			name:     "already rejected",
			reviewer: "2002",
			setup: func(d testDeps) {
				d.repo.GetByIDFn = func(ctx context.Context, db bun.IDB, got uuid.UUID) (*whitelistdb.Request, error) {
					return &whitelistdb.Request{ID: got, DiscordID: "1001", Status: whitelistdomain.StatusRejected}, nil
				}
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:     "concurrent review",
			reviewer: "2002",
			setup: func(d testDeps) {
				pendingRequest(id)(d)
				d.repo.UpdateStatusFn = func(ctx context.Context, db bun.IDB, tr whitelistdb.Transition) (*whitelistdb.Request, error) {
					return nil, whitelistdb.ErrNoRowsAffected
				}
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:     "discord failure",
			reviewer: "2002",
			setup: func(d testDeps) {
				pendingRequest(id)(d)
				d.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return guildservice.ErrNotInGuild
				}
			},
			wantErr:   guildservice.ErrNotInGuild,
			wantGrant: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			tt.setup(deps)

			var granted []string
			if deps.guild.GrantRoleFunc == nil {
				deps.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					granted = append(granted, discordID+":"+role.String())
					return nil
				}
			} else {
				inner := deps.guild.GrantRoleFunc
				deps.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					granted = append(granted, discordID+":"+role.String())
					return inner(ctx, discordID, role)
				}
			}

			req, err := svc.Approve(context.Background(), tt.reviewer, id, " welcome ")
			if tt.wantGrant {
				assert.Equal(t, []string{"1001:" + guilddomain.RoleWhitelisted.String()}, granted)
			} else {
				assert.Empty(t, granted)
			}
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, deps.publisher.Topics())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, whitelistdomain.StatusApproved, req.Status)
			assert.Equal(t, "welcome", req.ReviewNote)
			assert.Equal(t, tt.reviewer, req.ReviewerDiscordID)
			assert.Equal(t, tt.wantEvents, deps.publisher.Topics())
		})
	}
}

func TestWhitelistService_Approve_ConditionalUpdate(t *testing.T) {
	svc, deps := newTestService()
	id := uuid.New()
	pendingRequest(id)(deps)

	var got whitelistdb.Transition
	deps.repo.UpdateStatusFn = func(ctx context.Context, db bun.IDB, tr whitelistdb.Transition) (*whitelistdb.Request, error) {
		got = tr
		return &whitelistdb.Request{ID: tr.ID, DiscordID: "1001", Status: tr.To}, nil
	}

	_, err := svc.Approve(context.Background(), "2002", id, "")
	require.NoError(t, err)
	assert.Equal(t, whitelistdomain.StatusPending, got.From)
	assert.Equal(t, whitelistdomain.StatusApproved, got.To)
	assert.Equal(t, fixedNow, got.At)
}

func TestWhitelistService_Reject(t *testing.T) {
	id := uuid.New()

	t.Run("reason required", func(t *testing.T) {
		svc, deps := newTestService()
		_, err := svc.Reject(context.Background(), "2002", id, "   ")
		require.ErrorIs(t, err, ErrReasonRequired)
		assert.Empty(t, deps.repo.Calls())
	})

	t.Run("rejects without touching discord", func(t *testing.T) {
		svc, deps := newTestService()
		pendingRequest(id)(deps)
		deps.guild.GrantRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
			t.Fatal("unexpected role grant")
			return nil
		}

		req, err := svc.Reject(context.Background(), "2002", id, "backstory too short")
		require.NoError(t, err)
		assert.Equal(t, whitelistdomain.StatusRejected, req.Status)
		assert.Equal(t, "backstory too short", req.ReviewNote)
		assert.Equal(t, []string{eventbus.WhitelistRejectedV1}, deps.publisher.Topics())
	})
}

func TestWhitelistService_Revoke(t *testing.T) {
	id := uuid.New()
	approved := func(d testDeps) {
		d.repo.GetByIDFn = func(ctx context.Context, db bun.IDB, got uuid.UUID) (*whitelistdb.Request, error) {
			return &whitelistdb.Request{ID: got, DiscordID: "1001", Status: whitelistdomain.StatusApproved}, nil
		}
	}

	tests := []struct {
		name      string
		reason    string
		setup     func(d testDeps)
		wantErr   error
		wantEvent bool
	}{
		{
			name:      "revokes approved request",
			reason:    "rule violation",
			setup:     approved,
			wantEvent: true,
		},
		{
			name:    "reason required",
			reason:  "",
			setup:   approved,
			wantErr: ErrReasonRequired,
		},
		{
			name:    "pending cannot be revoked",
			reason:  "rule violation",
			setup:   pendingRequest(id),
			wantErr: ErrInvalidTransition,
		},
		{
			name:   "user left the guild",
			reason: "rule violation",
			setup: func(d testDeps) {
				approved(d)
				d.guild.RevokeRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return guildservice.ErrNotInGuild
				}
			},
			wantEvent: true,
		},
		{
			name:   "discord outage rolls back",
			reason: "rule violation",
			setup: func(d testDeps) {
				approved(d)
				d.guild.RevokeRoleFunc = func(ctx context.Context, discordID string, role guilddomain.Role) error {
					return errors.New("discord 502")
				}
			},
			wantErr: errors.New("discord 502"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService()
			tt.setup(deps)

			req, err := svc.Revoke(context.Background(), "2002", id, tt.reason)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Empty(t, deps.publisher.Topics())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, whitelistdomain.StatusRevoked, req.Status)
			if tt.wantEvent {
				assert.Equal(t, []string{eventbus.WhitelistRevokedV1}, deps.publisher.Topics())
			}
		})
	}
}

func TestWhitelistService_Stats(t *testing.T) {
	svc, deps := newTestService()
	deps.repo.CountByStatusFn = func(ctx context.Context, db bun.IDB) (map[whitelistdomain.Status]int, error) {
		return map[whitelistdomain.Status]int{
			whitelistdomain.StatusPending:  4,
			whitelistdomain.StatusApproved: 10,
			whitelistdomain.StatusRejected: 3,
		}, nil
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &whitelistdomain.Stats{Pending: 4, Approved: 10, Rejected: 3, Total: 17}, stats)
}
