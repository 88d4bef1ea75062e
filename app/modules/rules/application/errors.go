package rulesservice

import "errors"

var (
	ErrNotFound        = errors.New("rule not found")
	ErrReorderMismatch = errors.New("ids must list every rule of the category exactly once")
)
