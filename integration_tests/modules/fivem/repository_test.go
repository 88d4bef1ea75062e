//go:build integration

package fivemintegrationtests

import (
	"context"
	"testing"
	"time"

	fivemdb "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type player struct {
	citizenID string
	license   string
	money     string
	charinfo  any
	job       string
	updated   time.Time
}

var now = time.Now().UTC().Truncate(time.Second)

// seedPlayers gives every character a distinct players.name so a query grouping on that column
// instead of the job would return one row per character.
func seedPlayers(t *testing.T, ctx context.Context) {
	t.Helper()
	for _, table := range []string{"players", "player_vehicles"} {
		_, err := gameDB.ExecContext(ctx, "TRUNCATE TABLE "+table)
		require.NoError(t, err)
	}

	players := []player{
		{
			citizenID: "AAA11111", license: "license:a",
			money:    `{"cash":1000,"bank":9000,"crypto":2}`,
			charinfo: `{"firstname":"Tony","lastname":"Soprano"}`,
			job:      `{"name":"police","label":"Law Enforcement"}`,
			updated:  now.Add(-time.Hour),
		},
		{
			citizenID: "BBB22222", license: "license:b",
			money:    `{"cash":50,"bank":450,"crypto":0}`,
			charinfo: `{"firstname":"Carmela","lastname":"Soprano"}`,
			job:      `{"name":"police","label":"Law Enforcement"}`,
			updated:  now.Add(-72 * time.Hour),
		},
		{
			citizenID: "CCC33333", license: "license:a",
			money:    `{"cash":200,"bank":20000}`,
			charinfo: nil,
			job:      `{"name":"mechanic","label":"Benny's"}`,
			updated:  now.Add(-30 * 24 * time.Hour),
		},
		{
			citizenID: "DDD44444", license: "license:d",
			money:    `{"bank":10}`,
			charinfo: `{"firstname":"Paulie","lastname":"Gualtieri"}`,
			job:      `{}`,
			updated:  now.Add(-10 * time.Minute),
		},
	}
	for _, p := range players {
		_, err := gameDB.ExecContext(ctx,
			"INSERT INTO players (citizenid, license, name, money, charinfo, job, last_updated) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p.citizenID, p.license, gofakeit.Username()+p.citizenID, p.money, p.charinfo, p.job, p.updated,
		)
		require.NoError(t, err)
	}

	vehicles := []struct{ citizenID, model string }{
		{"AAA11111", "sultan"},
		{"AAA11111", "adder"},
		{"BBB22222", "sultan"},
		{"CCC33333", "sultan"},
		{"CCC33333", "blista"},
		{"DDD44444", "adder"},
	}
	for i, v := range vehicles {
		_, err := gameDB.ExecContext(ctx,
			"INSERT INTO player_vehicles (citizenid, vehicle, plate) VALUES (?, ?, ?)",
			v.citizenID, v.model, gofakeit.LetterN(4)+string(rune('A'+i)),
		)
		require.NoError(t, err)
	}
}

func newRepo() fivemdb.Repository {
	return fivemdb.NewRepository(gameDB, 10*time.Second)
}

func TestJobCounts_GroupsByJobUnderFullGroupBy(t *testing.T) {
	ctx := context.Background()
	seedPlayers(t, ctx)

	var mode string
	require.NoError(t, gameDB.QueryRowContext(ctx, "SELECT @@SESSION.sql_mode").Scan(&mode))
	require.Contains(t, mode, "ONLY_FULL_GROUP_BY")

	rows, err := newRepo().JobCounts(ctx)
	require.NoError(t, err)

	want := []fivemdb.JobRow{
		{Name: "police", Label: "Law Enforcement", Count: 2},
		{Name: "mechanic", Label: "Benny's", Count: 1},
		{Name: "unemployed", Label: "", Count: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("JobCounts() mismatch (-want +got):\n%s", diff)
	}
}

func TestRichest_OrdersByCashPlusBank(t *testing.T) {
	ctx := context.Background()
	seedPlayers(t, ctx)

	rows, err := newRepo().Richest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CCC33333", rows[0].CitizenID)
	assert.InDelta(t, 20200, rows[0].Cash+rows[0].Bank, 0.001)
	assert.NotEmpty(t, rows[0].Name, "falls back to players.name without charinfo")
	assert.Equal(t, "AAA11111", rows[1].CitizenID)
	assert.Equal(t, "Tony Soprano", rows[1].Name)
	assert.Equal(t, "Law Enforcement", rows[1].JobLabel)
}

func TestListHoldings_MissingKeysAreZero(t *testing.T) {
	ctx := context.Background()
	seedPlayers(t, ctx)

	rows, err := newRepo().ListHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byID := map[string]fivemdb.HoldingsRow{}
	for _, r := range rows {
		byID[r.CitizenID] = r
	}
	assert.Equal(t, fivemdb.HoldingsRow{CitizenID: "AAA11111", Cash: 1000, Bank: 9000, Crypto: 2}, byID["AAA11111"])
	assert.Equal(t, fivemdb.HoldingsRow{CitizenID: "DDD44444", Bank: 10}, byID["DDD44444"])
}

func TestTopModelsAndCounts(t *testing.T) {
	ctx := context.Background()
	seedPlayers(t, ctx)
	repo := newRepo()

	models, err := repo.TopModels(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []fivemdb.ModelRow{{Model: "sultan", Count: 3}, {Model: "adder", Count: 2}}, models)

	characters, err := repo.CountCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, characters)

	vehicles, err := repo.CountVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, vehicles)
}

func TestPlayerCounts_ActivityWindows(t *testing.T) {
	ctx := context.Background()
	seedPlayers(t, ctx)

	counts, err := newRepo().PlayerCounts(ctx, now.Add(-24*time.Hour), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, &fivemdb.PlayerCounts{
		Characters:     4,
		UniqueLicenses: 3,
		Active24h:      2,
		Active7d:       3,
	}, counts)
}
