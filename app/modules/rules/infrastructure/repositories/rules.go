package rulesdb

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

// NewRepository creates a new rules repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// List returns every rule ordered by category then position.
func (r *Impl) List(ctx context.Context, db bun.IDB) ([]Rule, error) {
	db = r.resolveDB(db)
	var rules []Rule
	if err := db.NewSelect().Model(&rules).Order("category ASC", "position ASC", "created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("rulesdb.List: %w", err)
	}
	return rules, nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Rule, error) {
	db = r.resolveDB(db)
	rule := new(Rule)
	if err := db.NewSelect().Model(rule).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rulesdb.GetByID: %w", err)
	}
	return rule, nil
}

// NextPosition returns the position one past the end of category.
func (r *Impl) NextPosition(ctx context.Context, db bun.IDB, category string) (int, error) {
	db = r.resolveDB(db)
	var next int
	err := db.NewSelect().
		Model((*Rule)(nil)).
		ColumnExpr("COALESCE(MAX(position) + 1, 0)").
		Where("category = ?", category).
		Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("rulesdb.NextPosition: %w", err)
	}
	return next, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, rule *Rule) error {
	db = r.resolveDB(db)
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(rule).Exec(ctx); err != nil {
		return fmt.Errorf("rulesdb.Create: %w", err)
	}
	return nil
}

// Update writes every editable column of rule.
func (r *Impl) Update(ctx context.Context, db bun.IDB, rule *Rule) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(rule).
		Column("category", "title", "body", "position", "updated_at", "updated_by").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rulesdb.Update: %w", err)
	}
	return checkAffected(res, "rulesdb.Update")
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Rule)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("rulesdb.Delete: %w", err)
	}
	return checkAffected(res, "rulesdb.Delete")
}

// CategoryIDs returns the ids of every rule in category.
func (r *Impl) CategoryIDs(ctx context.Context, db bun.IDB, category string) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	var ids []uuid.UUID
	err := db.NewSelect().
		Model((*Rule)(nil)).
		Column("id").
		Where("category = ?", category).
		Order("position ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("rulesdb.CategoryIDs: %w", err)
	}
	return ids, nil
}

func (r *Impl) SetPosition(ctx context.Context, db bun.IDB, id uuid.UUID, position int, updatedBy string, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Rule)(nil)).
		Set("position = ?", position).
		Set("updated_by = ?", updatedBy).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rulesdb.SetPosition: %w", err)
	}
	return checkAffected(res, "rulesdb.SetPosition")
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
