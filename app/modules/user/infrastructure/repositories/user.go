package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new user repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// UpsertByDiscordID inserts the user or refreshes the Discord profile of an existing one,
// stamping last_login_at, and returns the stored row.
func (r *Impl) UpsertByDiscordID(ctx context.Context, db bun.IDB, user *User) (*User, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastLoginAt = &now

	_, err := db.NewInsert().
		Model(user).
		On("CONFLICT (discord_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("global_name = EXCLUDED.global_name").
		Set("avatar = EXCLUDED.avatar").
		Set("last_login_at = EXCLUDED.last_login_at").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("userdb.UpsertByDiscordID: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by internal ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetByID: %w", err)
	}
	return user, nil
}

// GetByDiscordID retrieves a user by Discord ID.
func (r *Impl) GetByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetByDiscordID: %w", err)
	}
	return user, nil
}

// List returns a page of users, most recently active first, and the total matching count.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]User, int, error) {
	db = r.resolveDB(db)
	var users []User
	q := db.NewSelect().
		Model(&users).
		OrderExpr("last_login_at DESC NULLS LAST").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("username ILIKE ?", pattern).
				WhereOr("global_name ILIKE ?", pattern).
				WhereOr("discord_id = ?", s)
		})
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("userdb.List: %w", err)
	}
	return users, total, nil
}
