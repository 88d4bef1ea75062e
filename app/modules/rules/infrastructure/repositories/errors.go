package rulesdb

import "errors"

var (
	ErrNotFound       = errors.New("rule not found")
	ErrNoRowsAffected = errors.New("no rows affected")
)
