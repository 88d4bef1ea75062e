package contestdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a contest or entry does not exist.
	ErrNotFound = errors.New("contest record not found")

	// ErrNoRowsAffected is returned when a conditional write matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrDuplicateVote is returned when the one-vote-per-contest index rejects an insert.
	ErrDuplicateVote = errors.New("vote already cast in this contest")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}

func checkAffected(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contestdb.%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
