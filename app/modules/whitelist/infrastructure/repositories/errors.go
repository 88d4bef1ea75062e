package whitelistdb

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a request does not exist.
	ErrNotFound = errors.New("whitelist request not found")

	// ErrNoRowsAffected is returned when a conditional update matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrDuplicatePending is returned when the one-pending-per-user index rejects an insert.
	ErrDuplicatePending = errors.New("a pending request already exists")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
