package whitelistmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating whitelist_requests table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS whitelist_requests (
					id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id              UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					discord_id           VARCHAR(32) NOT NULL,
					character_name       VARCHAR(64) NOT NULL,
					character_age        INTEGER NOT NULL,
					rp_experience        TEXT NOT NULL,
					motivation           TEXT NOT NULL,
					backstory            TEXT NOT NULL,
					status               VARCHAR(16) NOT NULL DEFAULT 'pending'
						CHECK (status IN ('pending', 'approved', 'rejected', 'revoked')),
					reviewer_discord_id  VARCHAR(32),
					review_note          TEXT,
					created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					reviewed_at          TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX IF NOT EXISTS uq_whitelist_requests_pending
					ON whitelist_requests(discord_id) WHERE status = 'pending';
				CREATE INDEX IF NOT EXISTS idx_whitelist_requests_discord_created
					ON whitelist_requests(discord_id, created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_whitelist_requests_status_created
					ON whitelist_requests(status, created_at);
			`); err != nil {
				return fmt.Errorf("failed to create whitelist_requests table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back whitelist_requests table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS whitelist_requests;`); err != nil {
				return fmt.Errorf("failed to drop whitelist_requests: %w", err)
			}
			return nil
		})
	})
}
