package activitiesservice

import "errors"

var (
	ErrNotFound       = errors.New("activity not found")
	ErrStartInPast    = errors.New("start time must be in the future")
	ErrEndBeforeStart = errors.New("end time must be after the start time")
)
