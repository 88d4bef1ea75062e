package fivemservice

import "errors"

// ErrUnavailable is returned when the game database cannot be queried.
var ErrUnavailable = errors.New("game database unavailable")
