package activitiesdb

import "errors"

var (
	ErrNotFound       = errors.New("activity not found")
	ErrNoRowsAffected = errors.New("no rows affected")
)
