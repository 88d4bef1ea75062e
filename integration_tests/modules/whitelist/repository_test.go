//go:build integration

package whitelistintegrationtests

import (
	"context"
	"testing"
	"time"

	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/integration_tests/testutils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (context.Context, whitelistdb.Repository) {
	t.Helper()
	ctx := testEnv.Ctx
	require.NoError(t, testutils.TruncateTables(ctx, testEnv.DB, "whitelist_requests", "users"))
	return ctx, whitelistdb.NewRepository(testEnv.DB)
}

func createUser(t *testing.T, ctx context.Context) *userdb.User {
	t.Helper()
	u, err := userdb.NewRepository(testEnv.DB).UpsertByDiscordID(ctx, nil, &userdb.User{
		DiscordID: gofakeit.Numerify("1############"),
		Username:  gofakeit.Username(),
	})
	require.NoError(t, err)
	return u
}

func newRequest(u *userdb.User) *whitelistdb.Request {
	return &whitelistdb.Request{
		UserID:        u.ID,
		DiscordID:     u.DiscordID,
		CharacterName: gofakeit.Name(),
		CharacterAge:  gofakeit.Number(18, 60),
		RPExperience:  gofakeit.Sentence(8),
		Motivation:    gofakeit.Paragraph(1, 2, 10, " "),
		Backstory:     gofakeit.Paragraph(1, 3, 12, " "),
		Status:        whitelistdomain.StatusPending,
	}
}

func TestCreate_OnePendingPerUser(t *testing.T) {
	ctx, repo := setup(t)
	u := createUser(t, ctx)

	first := newRequest(u)
	require.NoError(t, repo.Create(ctx, nil, first))

	err := repo.Create(ctx, nil, newRequest(u))
	assert.ErrorIs(t, err, whitelistdb.ErrDuplicatePending)

	other := createUser(t, ctx)
	assert.NoError(t, repo.Create(ctx, nil, newRequest(other)), "the index is per user")

	_, err = repo.UpdateStatus(ctx, nil, whitelistdb.Transition{
		ID:                first.ID,
		From:              whitelistdomain.StatusPending,
		To:                whitelistdomain.StatusRejected,
		ReviewerDiscordID: "reviewer",
		Note:              "incomplete backstory",
		At:                time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.NoError(t, repo.Create(ctx, nil, newRequest(u)), "a closed request frees the pending slot")
}

func TestUpdateStatus_IsConditionalOnCurrentStatus(t *testing.T) {
	ctx, repo := setup(t)
	req := newRequest(createUser(t, ctx))
	require.NoError(t, repo.Create(ctx, nil, req))

	now := time.Now().UTC().Truncate(time.Microsecond)
	approve := whitelistdb.Transition{
		ID:                req.ID,
		From:              whitelistdomain.StatusPending,
		To:                whitelistdomain.StatusApproved,
		ReviewerDiscordID: "reviewer",
		Note:              "welcome",
		At:                now,
	}

	updated, err := repo.UpdateStatus(ctx, nil, approve)
	require.NoError(t, err)
	assert.Equal(t, whitelistdomain.StatusApproved, updated.Status)
	assert.Equal(t, "reviewer", updated.ReviewerDiscordID)
	require.NotNil(t, updated.ReviewedAt)
	assert.True(t, now.Equal(*updated.ReviewedAt))

	_, err = repo.UpdateStatus(ctx, nil, approve)
	assert.ErrorIs(t, err, whitelistdb.ErrNoRowsAffected)

	reject := approve
	reject.To = whitelistdomain.StatusRejected
	_, err = repo.UpdateStatus(ctx, nil, reject)
	assert.ErrorIs(t, err, whitelistdb.ErrNoRowsAffected)

	stored, err := repo.GetByID(ctx, nil, req.ID)
	require.NoError(t, err)
	assert.Equal(t, whitelistdomain.StatusApproved, stored.Status)
}

func TestListAndCountByStatus(t *testing.T) {
	ctx, repo := setup(t)

	base := time.Now().UTC().Add(-time.Hour)
	var pending []*whitelistdb.Request
	for i := range 3 {
		req := newRequest(createUser(t, ctx))
		req.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		req.UpdatedAt = req.CreatedAt
		require.NoError(t, repo.Create(ctx, nil, req))
		pending = append(pending, req)
	}
	_, err := repo.UpdateStatus(ctx, nil, whitelistdb.Transition{
		ID:   pending[1].ID,
		From: whitelistdomain.StatusPending,
		To:   whitelistdomain.StatusApproved,
		At:   time.Now().UTC(),
	})
	require.NoError(t, err)

	reqs, total, err := repo.List(ctx, nil, whitelistdb.ListFilter{Status: whitelistdomain.StatusPending, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reqs, 1)
	assert.Equal(t, pending[0].ID, reqs[0].ID, "oldest pending first")

	counts, err := repo.CountByStatus(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, map[whitelistdomain.Status]int{
		whitelistdomain.StatusPending:  2,
		whitelistdomain.StatusApproved: 1,
	}, counts)
}
