package fivemdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
)

const (
	maxOpenConns    = 5
	maxIdleConns    = 2
	connMaxLifetime = 30 * time.Minute
)

// Open connects to the game server database. The pool is kept small since the portal only reads
// dashboard aggregates and shares the server with the game itself.
func Open(dsn string, timeout time.Duration) (*bun.DB, error) {
	normalized, err := normalizeDSN(dsn, timeout)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("fivemdb.Open: %w", err)
	}
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxIdleConns)
	sqldb.SetConnMaxLifetime(connMaxLifetime)

	return bun.NewDB(sqldb, mysqldialect.New()), nil
}

func normalizeDSN(dsn string, timeout time.Duration) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("fivemdb: invalid dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if timeout > 0 {
		if cfg.Timeout == 0 {
			cfg.Timeout = timeout
		}
		if cfg.ReadTimeout == 0 {
			cfg.ReadTimeout = timeout
		}
	}
	return cfg.FormatDSN(), nil
}
