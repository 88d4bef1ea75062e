package contestmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating contest_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS contest_entries (
					id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					contest_id    UUID NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
					user_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					discord_id    VARCHAR(32) NOT NULL,
					caption       VARCHAR(280) NOT NULL DEFAULT '',
					file_name     TEXT NOT NULL,
					content_type  VARCHAR(32) NOT NULL,
					size_bytes    BIGINT NOT NULL,
					created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_contest_entries_contest_discord
					ON contest_entries(contest_id, discord_id);
			`); err != nil {
				return fmt.Errorf("failed to create contest_entries table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back contest_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS contest_entries;`); err != nil {
				return fmt.Errorf("failed to drop contest_entries: %w", err)
			}
			return nil
		})
	})
}
