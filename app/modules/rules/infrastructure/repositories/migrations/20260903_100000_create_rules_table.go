package rulesmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rules table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rules (
					id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					category    VARCHAR(64) NOT NULL,
					title       VARCHAR(200) NOT NULL,
					body        TEXT NOT NULL,
					position    INTEGER NOT NULL DEFAULT 0,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_by  VARCHAR(32)
				);
				CREATE INDEX IF NOT EXISTS idx_rules_category_position ON rules(category, position);
			`); err != nil {
				return fmt.Errorf("failed to create rules table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back rules table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS rules;`); err != nil {
				return fmt.Errorf("failed to drop rules: %w", err)
			}
			return nil
		})
	})
}
