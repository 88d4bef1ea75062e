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

// CreateSession stores a new session.
func (r *Impl) CreateSession(ctx context.Context, db bun.IDB, session *Session) error {
	db = r.resolveDB(db)
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(session).Exec(ctx); err != nil {
		return fmt.Errorf("userdb.CreateSession: %w", err)
	}
	return nil
}

// GetActiveSessionByHash returns the unrevoked, unexpired session with tokenHash.
func (r *Impl) GetActiveSessionByHash(ctx context.Context, db bun.IDB, tokenHash string, now time.Time) (*Session, error) {
	db = r.resolveDB(db)
	session := new(Session)
	err := db.NewSelect().
		Model(session).
		Where("token_hash = ?", tokenHash).
		Where("revoked_at IS NULL").
		Where("expires_at > ?", now).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetActiveSessionByHash: %w", err)
	}
	return session, nil
}

// RevokeSession marks one session revoked.
func (r *Impl) RevokeSession(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Session)(nil)).
		Set("revoked_at = ?", at).
		Where("id = ?", id).
		Where("revoked_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("userdb.RevokeSession: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("userdb.RevokeSession: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// RevokeUserSessions revokes every live session of a user and returns how many were revoked.
func (r *Impl) RevokeUserSessions(ctx context.Context, db bun.IDB, userID uuid.UUID, at time.Time) (int64, error) {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Session)(nil)).
		Set("revoked_at = ?", at).
		Where("user_id = ?", userID).
		Where("revoked_at IS NULL").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("userdb.RevokeUserSessions: %w", err)
	}
	return res.RowsAffected()
}

// DeleteExpiredSessions removes sessions that expired or were revoked before the cutoff.
func (r *Impl) DeleteExpiredSessions(ctx context.Context, db bun.IDB, before time.Time) (int64, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Session)(nil)).
		Where("expires_at < ?", before).
		WhereOr("revoked_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("userdb.DeleteExpiredSessions: %w", err)
	}
	return res.RowsAffected()
}
