package fivemdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// JSON paths into the QBCore players columns. "+ 0" coerces the extracted value to a number on
// both MySQL (JSON result) and MariaDB (string result).
const (
	cashExpr   = "COALESCE(JSON_EXTRACT(p.money, '$.cash'), 0) + 0"
	bankExpr   = "COALESCE(JSON_EXTRACT(p.money, '$.bank'), 0) + 0"
	cryptoExpr = "COALESCE(JSON_EXTRACT(p.money, '$.crypto'), 0) + 0"
	jobName    = "COALESCE(JSON_UNQUOTE(JSON_EXTRACT(p.job, '$.name')), 'unemployed')"
	jobLabel   = "COALESCE(JSON_UNQUOTE(JSON_EXTRACT(p.job, '$.label')), '')"
	charName   = "COALESCE(CONCAT(JSON_UNQUOTE(JSON_EXTRACT(p.charinfo, '$.firstname')), ' ', " +
		"JSON_UNQUOTE(JSON_EXTRACT(p.charinfo, '$.lastname'))), p.name, '')"
)

// Impl implements Repository using bun over the game server's MySQL database.
type Impl struct {
	db      bun.IDB
	timeout time.Duration
}

// NewRepository creates a new game database repository. Every query is cancelled after timeout.
func NewRepository(db bun.IDB, timeout time.Duration) Repository {
	return &Impl{db: db, timeout: timeout}
}

func (r *Impl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("fivemdb.%s: %w: %w", op, ErrQueryTimeout, err)
	}
	return fmt.Errorf("fivemdb.%s: %w", op, err)
}

// ListHoldings returns the money of every character.
func (r *Impl) ListHoldings(ctx context.Context) ([]HoldingsRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []HoldingsRow
	if err := holdingsQuery(r.db).Scan(ctx, &rows); err != nil {
		return nil, wrap("ListHoldings", err)
	}
	return rows, nil
}

// Richest returns the top characters by cash plus bank.
func (r *Impl) Richest(ctx context.Context, limit int) ([]RichRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []RichRow
	if err := richestQuery(r.db, limit).Scan(ctx, &rows); err != nil {
		return nil, wrap("Richest", err)
	}
	return rows, nil
}

// JobCounts returns the number of characters per job, largest first.
func (r *Impl) JobCounts(ctx context.Context) ([]JobRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []JobRow
	if err := jobCountsQuery(r.db).Scan(ctx, &rows); err != nil {
		return nil, wrap("JobCounts", err)
	}
	return rows, nil
}

func (r *Impl) CountCharacters(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.db.NewSelect().TableExpr("players").Count(ctx)
	if err != nil {
		return 0, wrap("CountCharacters", err)
	}
	return n, nil
}

func (r *Impl) CountVehicles(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.db.NewSelect().TableExpr("player_vehicles").Count(ctx)
	if err != nil {
		return 0, wrap("CountVehicles", err)
	}
	return n, nil
}

// TopModels returns the most owned vehicle models.
func (r *Impl) TopModels(ctx context.Context, limit int) ([]ModelRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []ModelRow
	if err := topModelsQuery(r.db, limit).Scan(ctx, &rows); err != nil {
		return nil, wrap("TopModels", err)
	}
	return rows, nil
}

// PlayerCounts returns character totals and how many were updated since dayAgo and weekAgo.
func (r *Impl) PlayerCounts(ctx context.Context, dayAgo, weekAgo time.Time) (*PlayerCounts, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	counts := new(PlayerCounts)
	if err := playerCountsQuery(r.db, dayAgo, weekAgo).Scan(ctx, counts); err != nil {
		return nil, wrap("PlayerCounts", err)
	}
	return counts, nil
}

func holdingsQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("players AS p").
		ColumnExpr("p.citizenid").
		ColumnExpr(cashExpr + " AS cash").
		ColumnExpr(bankExpr + " AS bank").
		ColumnExpr(cryptoExpr + " AS crypto")
}

func richestQuery(db bun.IDB, limit int) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("players AS p").
		ColumnExpr("p.citizenid").
		ColumnExpr(charName + " AS char_name").
		ColumnExpr(jobLabel + " AS job_label").
		ColumnExpr(cashExpr + " AS cash").
		ColumnExpr(bankExpr + " AS bank").
		OrderExpr("(" + cashExpr + ") + (" + bankExpr + ") DESC").
		OrderExpr("p.citizenid ASC").
		Limit(limit)
}

// jobCountsQuery groups on the expression itself: players has its own name column, and MySQL
// resolves GROUP BY identifiers against table columns before select aliases.
func jobCountsQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("players AS p").
		ColumnExpr(jobName + " AS job_name").
		ColumnExpr("MAX(" + jobLabel + ") AS job_label").
		ColumnExpr("COUNT(*) AS job_count").
		GroupExpr(jobName).
		OrderExpr("job_count DESC, job_name ASC")
}

func topModelsQuery(db bun.IDB, limit int) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("player_vehicles AS pv").
		ColumnExpr("pv.vehicle AS model").
		ColumnExpr("COUNT(*) AS model_count").
		GroupExpr("pv.vehicle").
		OrderExpr("model_count DESC, pv.vehicle ASC").
		Limit(limit)
}

func playerCountsQuery(db bun.IDB, dayAgo, weekAgo time.Time) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("players AS p").
		ColumnExpr("COUNT(*) AS characters").
		ColumnExpr("COUNT(DISTINCT p.license) AS unique_licenses").
		ColumnExpr("COALESCE(SUM(CASE WHEN p.last_updated >= ? THEN 1 ELSE 0 END), 0) AS active_24h", dayAgo).
		ColumnExpr("COALESCE(SUM(CASE WHEN p.last_updated >= ? THEN 1 ELSE 0 END), 0) AS active_7d", weekAgo)
}
