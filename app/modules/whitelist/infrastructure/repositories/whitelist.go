package whitelistdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new whitelist repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a new request.
func (r *Impl) Create(ctx context.Context, db bun.IDB, req *Request) error {
	db = r.resolveDB(db)
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(req).Returning("created_at, updated_at").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePending
		}
		return fmt.Errorf("whitelistdb.Create: %w", err)
	}
	return nil
}

// GetByID fetches a request by primary key.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Request, error) {
	db = r.resolveDB(db)
	req := new(Request)
	if err := db.NewSelect().Model(req).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("whitelistdb.GetByID: %w", err)
	}
	return req, nil
}

// GetLatestByDiscordID returns the user's most recent request.
func (r *Impl) GetLatestByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*Request, error) {
	db = r.resolveDB(db)
	req := new(Request)
	err := db.NewSelect().
		Model(req).
		Where("discord_id = ?", discordID).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("whitelistdb.GetLatestByDiscordID: %w", err)
	}
	return req, nil
}

// GetLatestByStatus returns the user's most recent request in status.
func (r *Impl) GetLatestByStatus(ctx context.Context, db bun.IDB, discordID string, status whitelistdomain.Status) (*Request, error) {
	db = r.resolveDB(db)
	req := new(Request)
	err := db.NewSelect().
		Model(req).
		Where("discord_id = ?", discordID).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("whitelistdb.GetLatestByStatus: %w", err)
	}
	return req, nil
}

// List returns a page of requests, oldest pending first, and the total matching count.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Request, int, error) {
	db = r.resolveDB(db)
	var reqs []Request
	q := db.NewSelect().Model(&reqs)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Status == whitelistdomain.StatusPending {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("whitelistdb.List: %w", err)
	}
	return reqs, total, nil
}

// UpdateStatus moves a request from t.From to t.To. It returns ErrNoRowsAffected when the row
// is no longer in t.From, which is how concurrent reviews are detected.
func (r *Impl) UpdateStatus(ctx context.Context, db bun.IDB, t Transition) (*Request, error) {
	db = r.resolveDB(db)
	req := new(Request)
	res, err := db.NewUpdate().
		Model(req).
		Set("status = ?", t.To).
		Set("reviewer_discord_id = ?", t.ReviewerDiscordID).
		Set("review_note = ?", t.Note).
		Set("reviewed_at = ?", t.At).
		Set("updated_at = ?", t.At).
		Where("id = ?", t.ID).
		Where("status = ?", t.From).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("whitelistdb.UpdateStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("whitelistdb.UpdateStatus: %w", err)
	}
	if rows == 0 {
		return nil, ErrNoRowsAffected
	}
	return req, nil
}

// CountByStatus groups requests by status.
func (r *Impl) CountByStatus(ctx context.Context, db bun.IDB) (map[whitelistdomain.Status]int, error) {
	db = r.resolveDB(db)
	var rows []struct {
		Status whitelistdomain.Status `bun:"status"`
		Count  int                    `bun:"count"`
	}
	err := db.NewSelect().
		Model((*Request)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("whitelistdb.CountByStatus: %w", err)
	}

	counts := make(map[whitelistdomain.Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
