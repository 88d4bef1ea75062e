package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating sessions table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS sessions (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					token_hash      VARCHAR(64) NOT NULL UNIQUE,
					user_agent      TEXT,
					ip_address      VARCHAR(64),
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					expires_at      TIMESTAMPTZ NOT NULL,
					revoked_at      TIMESTAMPTZ
				);
				CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
				CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
			`); err != nil {
				return fmt.Errorf("failed to create sessions table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back sessions table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS sessions;`); err != nil {
				return fmt.Errorf("failed to drop sessions: %w", err)
			}
			return nil
		})
	})
}
