package contestmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating contests table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS contests (
					id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					title                 VARCHAR(120) NOT NULL,
					description           TEXT NOT NULL DEFAULT '',
					phase                 VARCHAR(16) NOT NULL DEFAULT 'draft'
						CHECK (phase IN ('draft', 'submissions', 'voting', 'closed')),
					submissions_open_at   TIMESTAMPTZ NOT NULL,
					voting_opens_at       TIMESTAMPTZ NOT NULL,
					closes_at             TIMESTAMPTZ NOT NULL,
					max_entries_per_user  INTEGER NOT NULL DEFAULT 1 CHECK (max_entries_per_user > 0),
					created_by            VARCHAR(32) NOT NULL,
					created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (submissions_open_at < voting_opens_at AND voting_opens_at < closes_at)
				);
			`); err != nil {
				return fmt.Errorf("failed to create contests table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back contests table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS contests;`); err != nil {
				return fmt.Errorf("failed to drop contests: %w", err)
			}
			return nil
		})
	})
}
