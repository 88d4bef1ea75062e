package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE EXTENSION IF NOT EXISTS pgcrypto;
				CREATE TABLE IF NOT EXISTS users (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					discord_id      VARCHAR(32) NOT NULL UNIQUE,
					username        VARCHAR(64) NOT NULL,
					global_name     VARCHAR(64),
					avatar          VARCHAR(128),
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					last_login_at   TIMESTAMPTZ
				);
				CREATE INDEX IF NOT EXISTS idx_users_last_login_at ON users(last_login_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back users table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users;`); err != nil {
				return fmt.Errorf("failed to drop users: %w", err)
			}
			return nil
		})
	})
}
