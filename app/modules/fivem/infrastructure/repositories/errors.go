package fivemdb

import "errors"

// ErrQueryTimeout is returned when a game database query runs past the configured timeout.
var ErrQueryTimeout = errors.New("fivem query timed out")
