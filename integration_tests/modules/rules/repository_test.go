//go:build integration

package rulesintegrationtests

import (
	"context"
	"testing"
	"time"

	rulesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setup(t *testing.T) (context.Context, rulesdb.Repository) {
	t.Helper()
	ctx := testEnv.Ctx
	require.NoError(t, testutils.TruncateTables(ctx, testEnv.DB, "rules"))
	return ctx, rulesdb.NewRepository(testEnv.DB)
}

func createRule(t *testing.T, ctx context.Context, repo rulesdb.Repository, category, title string) *rulesdb.Rule {
	t.Helper()
	pos, err := repo.NextPosition(ctx, nil, category)
	require.NoError(t, err)

	rule := &rulesdb.Rule{Category: category, Title: title, Body: title + " body", Position: pos}
	require.NoError(t, repo.Create(ctx, nil, rule))
	return rule
}

func TestNextPosition(t *testing.T) {
	ctx, repo := setup(t)

	pos, err := repo.NextPosition(ctx, nil, "general")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	createRule(t, ctx, repo, "general", "No RDM")
	createRule(t, ctx, repo, "general", "No VDM")
	createRule(t, ctx, repo, "police", "Stay in character")

	pos, err = repo.NextPosition(ctx, nil, "general")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestListOrder(t *testing.T) {
	ctx, repo := setup(t)

	createRule(t, ctx, repo, "police", "P0")
	createRule(t, ctx, repo, "general", "G0")
	createRule(t, ctx, repo, "general", "G1")

	rules, err := repo.List(ctx, nil)
	require.NoError(t, err)

	var titles []string
	for _, r := range rules {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"G0", "G1", "P0"}, titles)
}

func TestReorderInTransaction(t *testing.T) {
	ctx, repo := setup(t)

	a := createRule(t, ctx, repo, "general", "A")
	b := createRule(t, ctx, repo, "general", "B")
	c := createRule(t, ctx, repo, "general", "C")

	want := []uuid.UUID{c.ID, a.ID, b.ID}
	err := testEnv.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i, id := range want {
			if err := repo.SetPosition(ctx, tx, id, i, "42", time.Now().UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	ids, err := repo.CategoryIDs(ctx, nil, "general")
	require.NoError(t, err)
	assert.Equal(t, want, ids)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx, repo := setup(t)

	rule := createRule(t, ctx, repo, "general", "Old")
	rule.Title = "New"
	rule.UpdatedBy = "42"
	rule.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, nil, rule))

	got, err := repo.GetByID(ctx, nil, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "42", got.UpdatedBy)

	require.NoError(t, repo.Delete(ctx, nil, rule.ID))
	assert.ErrorIs(t, repo.Delete(ctx, nil, rule.ID), rulesdb.ErrNoRowsAffected)

	_, err = repo.GetByID(ctx, nil, rule.ID)
	assert.ErrorIs(t, err, rulesdb.ErrNotFound)
}
