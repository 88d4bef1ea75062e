package userservice

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotAssignable  = errors.New("role cannot be changed from the portal")
	ErrSelfAction         = errors.New("you cannot perform this action on yourself")
	ErrReasonRequired     = errors.New("a reason is required")
	ErrAlreadyBlacklisted = errors.New("user is already blacklisted")
	ErrNotBlacklisted     = errors.New("user is not blacklisted")
)
