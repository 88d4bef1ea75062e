package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateBlacklistEntry stores a new active entry.
func (r *Impl) CreateBlacklistEntry(ctx context.Context, db bun.IDB, entry *BlacklistEntry) error {
	db = r.resolveDB(db)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(entry).Returning("created_at").Exec(ctx); err != nil {
		return fmt.Errorf("userdb.CreateBlacklistEntry: %w", err)
	}
	return nil
}

// GetActiveBlacklistEntry returns the unlifted entry for discordID.
func (r *Impl) GetActiveBlacklistEntry(ctx context.Context, db bun.IDB, discordID string) (*BlacklistEntry, error) {
	db = r.resolveDB(db)
	entry := new(BlacklistEntry)
	err := db.NewSelect().
		Model(entry).
		Where("discord_id = ?", discordID).
		Where("lifted_at IS NULL").
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetActiveBlacklistEntry: %w", err)
	}
	return entry, nil
}

// LiftBlacklistEntry marks an active entry as lifted.
func (r *Impl) LiftBlacklistEntry(ctx context.Context, db bun.IDB, id uuid.UUID, liftedBy string, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*BlacklistEntry)(nil)).
		Set("lifted_at = ?", at).
		Set("lifted_by = ?", liftedBy).
		Where("id = ?", id).
		Where("lifted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("userdb.LiftBlacklistEntry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("userdb.LiftBlacklistEntry: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// ListBlacklistEntries returns entries newest first.
func (r *Impl) ListBlacklistEntries(ctx context.Context, db bun.IDB, activeOnly bool) ([]BlacklistEntry, error) {
	db = r.resolveDB(db)
	var entries []BlacklistEntry
	q := db.NewSelect().Model(&entries).Order("created_at DESC")
	if activeOnly {
		q = q.Where("lifted_at IS NULL")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("userdb.ListBlacklistEntries: %w", err)
	}
	return entries, nil
}
