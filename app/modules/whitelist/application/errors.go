package whitelistservice

import "errors"

var (
	ErrNotFound           = errors.New("whitelist request not found")
	ErrInvalidTransition  = errors.New("request is not in a state that allows this action")
	ErrBlacklisted        = errors.New("blacklisted users cannot apply")
	ErrAlreadyWhitelisted = errors.New("you are already whitelisted")
	ErrPendingExists      = errors.New("you already have a pending request")
	ErrReapplyCooldown    = errors.New("you must wait before applying again")
	ErrSelfReview         = errors.New("you cannot review your own request")
	ErrReasonRequired     = errors.New("a reason is required")
)
