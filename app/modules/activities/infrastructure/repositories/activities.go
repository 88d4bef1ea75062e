package activitiesdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new activities repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListUpcoming returns activities still running or yet to start, soonest first.
func (r *Impl) ListUpcoming(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]Activity, error) {
	db = r.resolveDB(db)
	var activities []Activity
	err := db.NewSelect().
		Model(&activities).
		Where("COALESCE(ends_at, starts_at) > ?", now).
		Order("starts_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("activitiesdb.ListUpcoming: %w", err)
	}
	return activities, nil
}

// ListAll returns a page of every activity, newest start first.
func (r *Impl) ListAll(ctx context.Context, db bun.IDB, limit, offset int) ([]Activity, int, error) {
	db = r.resolveDB(db)
	var activities []Activity
	total, err := db.NewSelect().
		Model(&activities).
		Order("starts_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("activitiesdb.ListAll: %w", err)
	}
	return activities, total, nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Activity, error) {
	db = r.resolveDB(db)
	activity := new(Activity)
	if err := db.NewSelect().Model(activity).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("activitiesdb.GetByID: %w", err)
	}
	return activity, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, activity *Activity) error {
	db = r.resolveDB(db)
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(activity).Exec(ctx); err != nil {
		return fmt.Errorf("activitiesdb.Create: %w", err)
	}
	return nil
}

func (r *Impl) Update(ctx context.Context, db bun.IDB, activity *Activity) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(activity).
		Column("title", "description", "location", "starts_at", "ends_at", "image_url", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("activitiesdb.Update: %w", err)
	}
	return checkAffected(res, "activitiesdb.Update")
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Activity)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("activitiesdb.Delete: %w", err)
	}
	return checkAffected(res, "activitiesdb.Delete")
}

func checkAffected(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
