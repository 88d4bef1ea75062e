package userdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for users, sessions and the blacklist.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist (Get* methods)
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows
//   - other errors: infrastructure failures
type Repository interface {
	// Users
	UpsertByDiscordID(ctx context.Context, db bun.IDB, user *User) (*User, error)
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error)
	GetByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*User, error)
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]User, int, error)

	// Sessions
	CreateSession(ctx context.Context, db bun.IDB, session *Session) error
	GetActiveSessionByHash(ctx context.Context, db bun.IDB, tokenHash string, now time.Time) (*Session, error)
	RevokeSession(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error
	RevokeUserSessions(ctx context.Context, db bun.IDB, userID uuid.UUID, at time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, db bun.IDB, before time.Time) (int64, error)

	// Blacklist
	CreateBlacklistEntry(ctx context.Context, db bun.IDB, entry *BlacklistEntry) error
	GetActiveBlacklistEntry(ctx context.Context, db bun.IDB, discordID string) (*BlacklistEntry, error)
	LiftBlacklistEntry(ctx context.Context, db bun.IDB, id uuid.UUID, liftedBy string, at time.Time) error
	ListBlacklistEntries(ctx context.Context, db bun.IDB, activeOnly bool) ([]BlacklistEntry, error)
}
