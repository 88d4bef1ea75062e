package fivemdb

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	t.Run("forces parse time and applies timeouts", func(t *testing.T) {
		out, err := normalizeDSN("portal:secret@tcp(db-fivem:3306)/qbcore", 5*time.Second)
		require.NoError(t, err)

		cfg, err := mysql.ParseDSN(out)
		require.NoError(t, err)
		assert.True(t, cfg.ParseTime)
		assert.Equal(t, time.UTC, cfg.Loc)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
		assert.Equal(t, "qbcore", cfg.DBName)
	})

	t.Run("keeps explicit timeouts", func(t *testing.T) {
		out, err := normalizeDSN("portal:secret@tcp(db-fivem:3306)/qbcore?timeout=2s&readTimeout=1s", 5*time.Second)
		require.NoError(t, err)

		cfg, err := mysql.ParseDSN(out)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
		assert.Equal(t, time.Second, cfg.ReadTimeout)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := normalizeDSN("not a dsn", time.Second)
		require.Error(t, err)
	})
}
