package activitiesmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating activities table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS activities (
					id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					title        VARCHAR(120) NOT NULL,
					description  TEXT NOT NULL DEFAULT '',
					location     VARCHAR(120) NOT NULL DEFAULT '',
					starts_at    TIMESTAMPTZ NOT NULL,
					ends_at      TIMESTAMPTZ,
					image_url    VARCHAR(500),
					created_by   VARCHAR(32) NOT NULL,
					created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (ends_at IS NULL OR ends_at > starts_at)
				);
				CREATE INDEX IF NOT EXISTS idx_activities_starts_at ON activities(starts_at);
			`); err != nil {
				return fmt.Errorf("failed to create activities table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back activities table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS activities;`); err != nil {
				return fmt.Errorf("failed to drop activities: %w", err)
			}
			return nil
		})
	})
}
