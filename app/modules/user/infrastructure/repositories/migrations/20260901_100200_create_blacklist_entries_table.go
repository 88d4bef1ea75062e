package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating blacklist_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS blacklist_entries (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					discord_id      VARCHAR(32) NOT NULL,
					reason          TEXT NOT NULL,
					created_by      VARCHAR(32) NOT NULL,
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					lifted_at       TIMESTAMPTZ,
					lifted_by       VARCHAR(32)
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_blacklist_entries_active
					ON blacklist_entries(discord_id) WHERE lifted_at IS NULL;
			`); err != nil {
				return fmt.Errorf("failed to create blacklist_entries table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back blacklist_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS blacklist_entries;`); err != nil {
				return fmt.Errorf("failed to drop blacklist_entries: %w", err)
			}
			return nil
		})
	})
}
