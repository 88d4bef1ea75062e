package bundb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	activitiesmigrations "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/infrastructure/repositories/migrations"
	contestmigrations "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories/migrations"
	rulesmigrations "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/repositories/migrations"
	usermigrations "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories/migrations"
	whitelistmigrations "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories/migrations"
)

// ModuleMigrator pairs a module with its migrator. Each module tracks its own migration table.
type ModuleMigrator struct {
	Name     string
	Migrator *migrate.Migrator
}

// Migrators returns one migrator per module. Order matters: later modules reference users.
func Migrators(db *bun.DB) []ModuleMigrator {
	modules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"user", usermigrations.Migrations},
		{"whitelist", whitelistmigrations.Migrations},
		{"rules", rulesmigrations.Migrations},
		{"activities", activitiesmigrations.Migrations},
		{"contest", contestmigrations.Migrations},
	}

	out := make([]ModuleMigrator, 0, len(modules))
	for _, m := range modules {
		out = append(out, ModuleMigrator{
			Name: m.name,
			Migrator: migrate.NewMigrator(db, m.migrations,
				migrate.WithTableName("bun_migrations_"+m.name),
				migrate.WithLocksTableName("bun_migration_locks_"+m.name),
			),
		})
	}
	return out
}

// MigrateAll initializes the migration tables and applies every pending migration, module by module.
func MigrateAll(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("module %s: failed to init migrations: %w", m.Name, err)
		}
		if err := m.Migrator.Lock(ctx); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
		_, err := m.Migrator.Migrate(ctx)
		if unlockErr := m.Migrator.Unlock(ctx); unlockErr != nil && err == nil {
			err = unlockErr
		}
		if err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
	}
	return nil
}
