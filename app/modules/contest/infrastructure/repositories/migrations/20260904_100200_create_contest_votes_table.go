package contestmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating contest_votes table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS contest_votes (
					id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					contest_id        UUID NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
					entry_id          UUID NOT NULL REFERENCES contest_entries(id) ON DELETE CASCADE,
					voter_discord_id  VARCHAR(32) NOT NULL,
					created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (contest_id, voter_discord_id)
				);
				CREATE INDEX IF NOT EXISTS idx_contest_votes_entry
					ON contest_votes(entry_id);
			`); err != nil {
				return fmt.Errorf("failed to create contest_votes table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back contest_votes table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS contest_votes;`); err != nil {
				return fmt.Errorf("failed to drop contest_votes: %w", err)
			}
			return nil
		})
	})
}
